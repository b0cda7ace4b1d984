package room

import "github.com/saverioc/quaranta-backend/internal/types"

type Msg interface{ isRoomMsg() }

// Join seats a new player. Reply carries nil on success.
type Join struct {
	ConnID   string
	Username string
	Out      chan types.ServerMessage
	Reply    chan error
}

// Rejoin rebinds a returning player's connection to its persistent id.
// A non-nil reply means the session is gone and must be reset.
type Rejoin struct {
	ConnID       string
	PersistentID string
	Out          chan types.ServerMessage
	Reply        chan error
}

// Leave is a transport-level drop: the seat is kept, the player goes
// offline.
type Leave struct{ ConnID string }

// Exit removes the player from the room for good.
type Exit struct{ PersistentID string }

type Start struct{ ConnID string }

type Bid struct {
	ConnID string
	Bid    int
}

type Play struct {
	ConnID string
	CardID string
	Mode   string
}

type Decision struct {
	ConnID string
	Choice string
}

type BackToLobby struct{ ConnID string }

type Shutdown struct{}

// Inspect reflects internal state without data races. Test-only.
type Inspect struct{ Reply chan View }

type timerKind int

const (
	timerTrick timerKind = iota
	timerScore
	timerRestart
)

type timerFired struct {
	seq  int
	kind timerKind
}

func (Join) isRoomMsg()        {}
func (Rejoin) isRoomMsg()      {}
func (Leave) isRoomMsg()       {}
func (Exit) isRoomMsg()        {}
func (Start) isRoomMsg()       {}
func (Bid) isRoomMsg()         {}
func (Play) isRoomMsg()        {}
func (Decision) isRoomMsg()    {}
func (BackToLobby) isRoomMsg() {}
func (Shutdown) isRoomMsg()    {}
func (Inspect) isRoomMsg()     {}
func (timerFired) isRoomMsg()  {}

// View is a race-free copy of the facts tests assert on.
type View struct {
	NumClients   int
	Phase        string
	CardsPerHand int
	Direction    int
	CurrentTurn  int
	TableSize    int
	Paused       bool
	Players      []PlayerFacts
}

type PlayerFacts struct {
	ConnID       string
	PersistentID string
	Username     string
	Lives        int
	IsSpectator  bool
	Online       bool
	HandSize     int
	Tricks       int
	Bid          int
	HasBid       bool
}
