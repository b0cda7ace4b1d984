package game

import "math/rand"

// NewDeck builds the full 40-card deck with fresh ids. Cards are re-tagged
// every round so stale client-side references can never replay.
func NewDeck() []Card {
	deck := make([]Card, 0, 40)
	for s := SuitBastoni; s <= SuitDenari; s++ {
		for v := ValAsso; v <= ValRe; v++ {
			deck = append(deck, newCard(s, v))
		}
	}
	return deck
}

// Shuffle returns an unbiased permutation of deck.
func Shuffle(deck []Card, rng *rand.Rand) []Card {
	shuffled := make([]Card, len(deck))
	copy(shuffled, deck)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled
}

// guaranteeSpecial swaps the Asso di Denari into the region of the deck
// that will actually be dealt (the first dealt cards), at an unbiased
// position, so every round contains it. Gated by Rules.GuaranteeSpecial.
func guaranteeSpecial(deck []Card, dealt int, rng *rand.Rand) {
	if dealt <= 0 || dealt > len(deck) {
		return
	}
	for i, c := range deck {
		if c.IsSpecial() {
			if i >= dealt {
				j := rng.Intn(dealt)
				deck[i], deck[j] = deck[j], deck[i]
			}
			return
		}
	}
}
