package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidLives = errors.New("initial lives must be a positive integer")
var ErrUsernameTaken = errors.New("username taken")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrWrongPhase = errors.New("wrong phase")
var ErrWrongTurn = errors.New("not your turn")
var ErrInvalidBid = errors.New("bid out of range")
var ErrHookBid = errors.New("invalid bid (dealer restriction)")
var ErrUnknownCard = errors.New("card not in hand")
var ErrRoomPaused = errors.New("room paused")
var ErrNotHost = errors.New("host only")
var ErrTooFewPlayers = errors.New("not enough players")
var ErrInvalidChoice = errors.New("unknown host decision")

type Phase string

const (
	PhaseLobby        Phase = "LOBBY"
	PhaseBidding      Phase = "BIDDING"
	PhasePlaying      Phase = "PLAYING"
	PhaseHostDecision Phase = "HOST_DECISION"
	PhaseGameOver     Phase = "GAME_OVER"
)

type HostChoice string

const (
	ChoiceContinueDesc HostChoice = "CONTINUE_DESC"
	ChoiceContinueAsc  HostChoice = "CONTINUE_ASC"
	ChoiceEndGame      HostChoice = "END_GAME"
)

// Stats accumulate across rounds of one game and feed the end-of-game
// awards.
type Stats struct {
	SpecialDraws   int
	TotalTricks    int
	WorstRoundLoss int
}

type Player struct {
	ConnID       string // transient, rebound on reconnect
	PersistentID string // stable, assigned once at first join
	Username     string
	Lives        int
	IsSpectator  bool
	Online       bool
	Participated bool // counted in the final ranking
	Hand         []Card
	Tricks       int
	Stats        Stats
}

type Rules struct {
	MinPlayers       int
	MaxHandSize      int
	GuaranteeSpecial bool
}

// TrickRecord archives a resolved trick for client display.
type TrickRecord struct {
	Plays    []Play
	WinnerID string
}

// LifeLoss is one entry of the transient per-round summary.
type LifeLoss struct {
	PersistentID string `json:"persistentId"`
	Username     string `json:"username"`
	LivesLost    int    `json:"livesLost"`
}

// State is the full authoritative state of one room. It is owned by a
// single room actor and never shared; all methods mutate in place.
type State struct {
	Code             string
	HostID           string // connection id of the current host
	Phase            Phase
	Players          []*Player
	Deck             []Card
	CurrentTurn      int
	StartPlayerIndex int
	CardsPerHand     int
	Direction        int // -1 descending, +1 ascending
	Bids             map[string]int
	Table            []Play
	LastTrick        *TrickRecord
	Paused           bool
	Notification     string
	InitialLives     int
	Rules            Rules

	rng *rand.Rand
	log *zap.Logger
}

// NewState creates a room with its host already seated.
func NewState(code, hostConnID, username string, initialLives int, rules Rules, rng *rand.Rand, log *zap.Logger) (*State, error) {
	if initialLives <= 0 {
		return nil, ErrInvalidLives
	}
	s := &State{
		Code:         code,
		HostID:       hostConnID,
		Phase:        PhaseLobby,
		CardsPerHand: rules.MaxHandSize,
		Direction:    -1,
		Bids:         make(map[string]int),
		Notification: "Waiting for players...",
		InitialLives: initialLives,
		Rules:        rules,
		rng:          rng,
		log:          log,
	}
	s.Players = append(s.Players, &Player{
		ConnID:       hostConnID,
		PersistentID: uuid.NewString(),
		Username:     username,
		Lives:        initialLives,
		Online:       true,
		Participated: true,
	})
	return s, nil
}

func (s *State) PlayerByConn(connID string) *Player {
	for _, p := range s.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (s *State) PlayerByID(persistentID string) *Player {
	for _, p := range s.Players {
		if p.PersistentID == persistentID {
			return p
		}
	}
	return nil
}

func (s *State) ActiveCount() int {
	n := 0
	for _, p := range s.Players {
		if !p.IsSpectator {
			n++
		}
	}
	return n
}

// AddPlayer seats a newcomer. Anyone joining after the lobby closed is a
// permanent spectator with zero lives, excluded from the final ranking.
func (s *State) AddPlayer(connID, username string) (*Player, error) {
	for _, p := range s.Players {
		if p.Username == username {
			return nil, ErrUsernameTaken
		}
	}
	p := &Player{
		ConnID:       connID,
		PersistentID: uuid.NewString(),
		Username:     username,
		Online:       true,
	}
	if s.Phase == PhaseLobby {
		p.Lives = s.InitialLives
		p.Participated = true
	} else {
		p.IsSpectator = true
	}
	s.Players = append(s.Players, p)
	return p, nil
}

// Rejoin rebinds a returning player's connection. Seat, hand, lives, bid
// and trick count are untouched.
func (s *State) Rejoin(connID, persistentID string) (*Player, error) {
	p := s.PlayerByID(persistentID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	oldConn := p.ConnID
	p.ConnID = connID
	p.Online = true
	if s.HostID == oldConn {
		s.HostID = connID
	}
	return p, nil
}

// SetOffline marks the player behind a dropped connection. The seat is
// retained; recovery depends on the client rejoining with its cached
// persistent id.
func (s *State) SetOffline(connID string) *Player {
	p := s.PlayerByConn(connID)
	if p != nil {
		p.Online = false
	}
	return p
}

// RemovePlayer takes a player out of the room for good. It reports
// whether the exit broke a round in progress, in which case the caller
// pauses the room and restarts the round after a grace delay.
func (s *State) RemovePlayer(persistentID string) (*Player, bool, error) {
	idx := -1
	for i, p := range s.Players {
		if p.PersistentID == persistentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, false, ErrUnknownPlayer
	}
	removed := s.Players[idx]
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)

	// Seat indexes shift left past the removed slot.
	if len(s.Players) > 0 {
		if s.StartPlayerIndex > idx {
			s.StartPlayerIndex--
		}
		s.StartPlayerIndex %= len(s.Players)
		if s.CurrentTurn > idx {
			s.CurrentTurn--
		}
		s.CurrentTurn %= len(s.Players)
		if removed.ConnID == s.HostID {
			s.HostID = s.Players[0].ConnID
		}
	}

	midRound := !removed.IsSpectator && (s.Phase == PhaseBidding || (s.Phase == PhasePlaying && s.roundInProgress()))
	return removed, midRound, nil
}

// roundInProgress reports whether cards remain to be played. After the
// last trick the phase stays PLAYING through the scoring pause, but the
// round is settled and must not be re-dealt.
func (s *State) roundInProgress() bool {
	if len(s.Table) > 0 {
		return true
	}
	for _, p := range s.Players {
		if !p.IsSpectator && len(p.Hand) > 0 {
			return true
		}
	}
	return false
}

// StartRound deals a fresh round at the current hand size. Returns false
// when too few active players remain, in which case the game is over.
func (s *State) StartRound() bool {
	active := s.activePlayers()
	if len(active) < s.Rules.MinPlayers {
		s.Phase = PhaseGameOver
		s.Notification = "Not enough players left."
		return false
	}

	s.Phase = PhaseBidding
	s.Paused = false
	s.Deck = Shuffle(NewDeck(), s.rng)
	if s.Rules.GuaranteeSpecial {
		guaranteeSpecial(s.Deck, s.CardsPerHand*len(active), s.rng)
	}
	s.Bids = make(map[string]int)
	s.Table = nil
	s.LastTrick = nil

	for _, p := range active {
		p.Hand = append([]Card(nil), s.Deck[:s.CardsPerHand]...)
		s.Deck = s.Deck[s.CardsPerHand:]
		p.Tricks = 0
		for _, c := range p.Hand {
			if c.IsSpecial() {
				p.Stats.SpecialDraws++
			}
		}
	}

	// Starting bidder is the rotating seat, skip-walked past spectators.
	for s.Players[s.StartPlayerIndex].IsSpectator {
		s.StartPlayerIndex = (s.StartPlayerIndex + 1) % len(s.Players)
	}
	s.CurrentTurn = s.StartPlayerIndex
	s.Notification = fmt.Sprintf("Round: %d cards. Place your bids!", s.CardsPerHand)
	return true
}

// advanceTurn walks to the next non-spectator seat. Upstream guards
// ensure at least MinPlayers active seats exist.
func (s *State) advanceTurn() {
	next := (s.CurrentTurn + 1) % len(s.Players)
	for s.Players[next].IsSpectator {
		next = (next + 1) % len(s.Players)
	}
	s.CurrentTurn = next
}

func (s *State) rotateStartSeat() {
	s.StartPlayerIndex = (s.StartPlayerIndex + 1) % len(s.Players)
}

func (s *State) activePlayers() []*Player {
	var out []*Player
	for _, p := range s.Players {
		if !p.IsSpectator {
			out = append(out, p)
		}
	}
	return out
}
