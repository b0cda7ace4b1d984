package types

import "github.com/saverioc/quaranta-backend/internal/game"

// Inbound event names.
const (
	MsgCreateRoom   = "createRoom"
	MsgJoinRoom     = "joinRoom"
	MsgRejoinGame   = "rejoinGame"
	MsgStartGame    = "startGame"
	MsgSubmitBid    = "submitBid"
	MsgPlayCard     = "playCard"
	MsgHostDecision = "processHostDecision"
	MsgReturnLobby  = "returnToLobby"
	MsgExitGame     = "exitGame"
	MsgGetRooms     = "getRooms"
)

// Outbound event names.
const (
	MsgRoomCreated    = "roomCreated"
	MsgSessionSaved   = "sessionSaved"
	MsgResetSession   = "resetSession"
	MsgUpdateState    = "updateState"
	MsgRoundSummary   = "roundSummary"
	MsgRoomListUpdate = "roomListUpdate"
	MsgError          = "error"
)

type CardRef struct {
	ID string `json:"id"`
}

type ClientMessage struct {
	Type         string   `json:"type"`
	Username     string   `json:"username,omitempty"`
	RoomCode     string   `json:"roomCode,omitempty"`
	PersistentID string   `json:"persistentId,omitempty"`
	InitialLives int      `json:"initialLives,omitempty"`
	Bid          *int     `json:"bid,omitempty"`
	Card         *CardRef `json:"card,omitempty"`
	Mode         string   `json:"mode,omitempty"`
	Choice       string   `json:"choice,omitempty"`
}

type ServerMessage struct {
	Type         string          `json:"type"`
	Code         string          `json:"code,omitempty"`
	RoomCode     string          `json:"roomCode,omitempty"`
	PersistentID string          `json:"persistentId,omitempty"`
	State        *game.StateView `json:"state,omitempty"`
	Summary      []game.LifeLoss `json:"summary,omitempty"`
	Rooms        []RoomInfo      `json:"rooms,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// RoomInfo is one row of the room-list snapshot.
type RoomInfo struct {
	Code    string     `json:"code"`
	Players int        `json:"players"`
	Phase   game.Phase `json:"phase"`
	Open    bool       `json:"open"`
}
