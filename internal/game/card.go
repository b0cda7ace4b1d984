package game

import "github.com/google/uuid"

// Suit order matters: Denari is the highest suit and beats any card of a
// lower suit regardless of value.
type Suit int

const (
	SuitBastoni Suit = iota
	SuitSpade
	SuitCoppe
	SuitDenari
)

var suitNames = [...]string{"Bastoni", "Spade", "Coppe", "Denari"}

func (s Suit) String() string { return suitNames[s] }

// Value order matters: Asso is the lowest value, Re the highest.
type Value int

const (
	ValAsso Value = iota
	ValDue
	ValTre
	ValQuattro
	ValCinque
	ValSei
	ValSette
	ValFante
	ValCavallo
	ValRe
)

var valueNames = [...]string{"Asso", "2", "3", "4", "5", "6", "7", "Fante", "Cavallo", "Re"}

func (v Value) String() string { return valueNames[v] }

// Mode is how a card is declared when played. Only the Asso di Denari is
// ever high or low; every other card plays normal.
type Mode string

const (
	ModeNormal Mode = "normal"
	ModeHigh   Mode = "high"
	ModeLow    Mode = "low"
)

type Card struct {
	Suit  Suit
	Value Value
	ID    string
}

func newCard(s Suit, v Value) Card {
	return Card{Suit: s, Value: v, ID: uuid.NewString()}
}

// IsSpecial reports whether c is the Asso di Denari, the only card in the
// deck with the high/low dual mode.
func (c Card) IsSpecial() bool {
	return c.Suit == SuitDenari && c.Value == ValAsso
}

// Play is one card on the table, tagged with its owner's persistent id and
// the mode it was (or was forced to be) played with.
type Play struct {
	PlayerID string
	Card     Card
	Mode     Mode
}

// beats reports whether the challenger play takes the trick from the
// current best play. Strict: equal cards cannot occur within one deck.
func beats(challenger, best Play) bool {
	if challenger.Card.IsSpecial() {
		return challenger.Mode != ModeLow
	}
	if best.Card.IsSpecial() {
		return best.Mode == ModeLow
	}
	if challenger.Card.Suit != best.Card.Suit {
		return challenger.Card.Suit > best.Card.Suit
	}
	return challenger.Card.Value > best.Card.Value
}

// resolvePlays folds the table left to right and returns the winning play.
// The precondition that plays is non-empty is guarded by the caller.
func resolvePlays(plays []Play) Play {
	best := plays[0]
	for _, p := range plays[1:] {
		if beats(p, best) {
			best = p
		}
	}
	return best
}
