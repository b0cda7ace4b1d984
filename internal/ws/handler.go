package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saverioc/quaranta-backend/internal/hub"
	"github.com/saverioc/quaranta-backend/internal/room"
	"github.com/saverioc/quaranta-backend/internal/types"
)

// session is one connection's view of the world: its transient id, its
// outbox, and the room it is currently bound to (nil while browsing).
type session struct {
	connID  string
	out     chan types.ServerMessage
	current *room.Room
}

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// Cross-origin policy is the deployment's concern, not the core's.
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		sess := &session{
			connID: uuid.NewString(),
			out:    make(chan types.ServerMessage, 16),
		}
		log := log.With(zap.String("conn", sess.connID))
		log.Info("client connected")

		// Writer goroutine. The outbox is never closed; rooms drop their
		// registration instead, so a send after we are gone just fills a
		// buffer nobody drains.
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for {
				select {
				case <-writeCtx.Done():
					return
				case msg := <-sess.out:
					payload, err := json.Marshal(msg)
					if err != nil {
						log.Error("marshal outbound", zap.Error(err))
						continue
					}
					ctx, cancel := context.WithTimeout(writeCtx, 3*time.Second)
					_ = conn.Write(ctx, websocket.MessageText, payload)
					cancel()
				}
			}
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				if sess.current != nil {
					sess.current.Inbox() <- room.Leave{ConnID: sess.connID}
				}
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
					log.Info("client closed")
				default:
					log.Info("client dropped", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				sess.send(types.ServerMessage{Type: types.MsgError, Error: "bad json"})
				continue
			}
			dispatch(h, sess, cm, log)
		}
	}
}

func dispatch(h *hub.Hub, sess *session, cm types.ClientMessage, log *zap.Logger) {
	switch cm.Type {
	case types.MsgCreateRoom:
		if sess.current != nil {
			sess.send(types.ServerMessage{Type: types.MsgError, Error: "already in a room"})
			return
		}
		reply := make(chan hub.CreateReply, 1)
		h.Inbox() <- hub.CreateRoom{
			ConnID:       sess.connID,
			Username:     cm.Username,
			InitialLives: cm.InitialLives,
			Out:          sess.out,
			Reply:        reply,
		}
		res := <-reply
		if res.Err != nil {
			sess.send(types.ServerMessage{Type: types.MsgError, Error: res.Err.Error()})
			return
		}
		sess.current = res.Room

	case types.MsgJoinRoom:
		if sess.current != nil {
			sess.send(types.ServerMessage{Type: types.MsgError, Error: "already in a room"})
			return
		}
		rm := getRoom(h, cm.RoomCode)
		if rm == nil {
			sess.send(types.ServerMessage{Type: types.MsgError, Error: "Room not found"})
			return
		}
		reply := make(chan error, 1)
		rm.Inbox() <- room.Join{ConnID: sess.connID, Username: cm.Username, Out: sess.out, Reply: reply}
		if err := <-reply; err != nil {
			sess.send(types.ServerMessage{Type: types.MsgError, Error: err.Error()})
			return
		}
		sess.current = rm

	case types.MsgRejoinGame:
		// A connection bound to a room keeps its seat there; rebinding
		// to another room would leave the old seat permanently online.
		if sess.current != nil {
			sess.send(types.ServerMessage{Type: types.MsgError, Error: "already in a room"})
			return
		}
		rm := getRoom(h, cm.RoomCode)
		if rm == nil {
			sess.send(types.ServerMessage{Type: types.MsgResetSession})
			return
		}
		reply := make(chan error, 1)
		rm.Inbox() <- room.Rejoin{ConnID: sess.connID, PersistentID: cm.PersistentID, Out: sess.out, Reply: reply}
		if err := <-reply; err != nil {
			sess.send(types.ServerMessage{Type: types.MsgResetSession})
			return
		}
		sess.current = rm

	case types.MsgGetRooms:
		reply := make(chan []types.RoomInfo, 1)
		h.Inbox() <- hub.ListRooms{Reply: reply}
		sess.send(types.ServerMessage{Type: types.MsgRoomListUpdate, Rooms: <-reply})

	case types.MsgExitGame:
		if sess.current == nil {
			return
		}
		sess.current.Inbox() <- room.Exit{PersistentID: cm.PersistentID}
		sess.current = nil

	case types.MsgStartGame:
		sess.toRoom(room.Start{ConnID: sess.connID})

	case types.MsgSubmitBid:
		if cm.Bid == nil {
			sess.send(types.ServerMessage{Type: types.MsgError, Error: "missing bid"})
			return
		}
		sess.toRoom(room.Bid{ConnID: sess.connID, Bid: *cm.Bid})

	case types.MsgPlayCard:
		if cm.Card == nil {
			sess.send(types.ServerMessage{Type: types.MsgError, Error: "missing card"})
			return
		}
		sess.toRoom(room.Play{ConnID: sess.connID, CardID: cm.Card.ID, Mode: cm.Mode})

	case types.MsgHostDecision:
		sess.toRoom(room.Decision{ConnID: sess.connID, Choice: cm.Choice})

	case types.MsgReturnLobby:
		sess.toRoom(room.BackToLobby{ConnID: sess.connID})

	default:
		log.Debug("unknown message type", zap.String("type", cm.Type))
		sess.send(types.ServerMessage{Type: types.MsgError, Error: "unknown type"})
	}
}

func (s *session) toRoom(m room.Msg) {
	if s.current == nil {
		s.send(types.ServerMessage{Type: types.MsgError, Error: "not in a room"})
		return
	}
	s.current.Inbox() <- m
}

// send queues a transport-level message for this connection only.
func (s *session) send(msg types.ServerMessage) {
	select {
	case s.out <- msg:
	default:
	}
}

func getRoom(h *hub.Hub, code string) *room.Room {
	reply := make(chan *room.Room, 1)
	h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
	return <-reply
}
