package hub

import (
	"context"
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/saverioc/quaranta-backend/internal/game"
	"github.com/saverioc/quaranta-backend/internal/room"
	"github.com/saverioc/quaranta-backend/internal/types"
)

type HubMsg interface{ isHubMsg() }

type CreateReply struct {
	Room *room.Room
	Code string
	Err  error
}

type CreateRoom struct {
	ConnID       string
	Username     string
	InitialLives int
	Out          chan types.ServerMessage
	Reply        chan CreateReply
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct{ Code string }

type ListRooms struct{ Reply chan []types.RoomInfo }

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()  {}
func (GetRoom) isHubMsg()     {}
func (RemoveRoom) isHubMsg()  {}
func (ListRooms) isHubMsg()   {}
func (ShutdownHub) isHubMsg() {}

// Hub owns the code->room map. All registry mutation happens inside its
// loop, so readers never observe a half-updated registry.
type Hub struct {
	inbox  chan HubMsg
	rooms  map[string]*room.Room
	rules  game.Rules
	delays room.Delays
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

func NewHub(parent context.Context, rules game.Rules, delays room.Delays, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:  make(chan HubMsg, 64),
		rooms:  make(map[string]*room.Room),
		rules:  rules,
		delays: delays,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- h.createRoom(msg)

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // May be nil

			case RemoveRoom:
				delete(h.rooms, msg.Code)
				h.log.Info("room removed", zap.String("room", msg.Code))

			case ListRooms:
				infos := make([]types.RoomInfo, 0, len(h.rooms))
				for _, rm := range h.rooms {
					infos = append(infos, rm.Info())
				}
				msg.Reply <- infos

			case ShutdownHub:
				for _, rm := range h.rooms {
					rm.Inbox() <- room.Shutdown{}
				}
				clear(h.rooms)
				h.cancel()
			}
		}
	}
}

func (h *Hub) createRoom(msg CreateRoom) CreateReply {
	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			return CreateReply{Err: err}
		}
		if _, taken := h.rooms[c]; !taken {
			code = c
			break
		}
		h.log.Warn("collision on room code, regenerating")
	}

	rng := mrand.New(mrand.NewSource(time.Now().UnixNano()))
	host := room.Seat{
		ConnID:       msg.ConnID,
		Username:     msg.Username,
		InitialLives: msg.InitialLives,
		Out:          msg.Out,
	}
	rm, err := room.New(h.ctx, code, host, h.rules, h.delays, rng, h.log, func(code string) {
		h.inbox <- RemoveRoom{Code: code}
	})
	if err != nil {
		return CreateReply{Err: err}
	}
	h.rooms[code] = rm
	h.log.Info("room created", zap.String("room", code), zap.String("host", msg.Username))
	return CreateReply{Room: rm, Code: code}
}

// GenerateCode returns a 6-character room code from an unambiguous
// charset.
func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}
