package room

import (
	"context"
	"math/rand"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/saverioc/quaranta-backend/internal/game"
	"github.com/saverioc/quaranta-backend/internal/types"
)

// Delays are the fixed pauses between game transitions. Tests shrink
// them to keep the suite fast.
type Delays struct {
	Trick   time.Duration // after a trick resolves, before clear/score
	Score   time.Duration // after scoring, before the next round or set decision
	Restart time.Duration // grace after a mid-round exit, before re-dealing
}

func DefaultDelays() Delays {
	return Delays{Trick: 5 * time.Second, Score: 10 * time.Second, Restart: 3 * time.Second}
}

// Seat is the creating host's identity and outbox.
type Seat struct {
	ConnID       string
	Username     string
	InitialLives int
	Out          chan types.ServerMessage
}

// Room is one actor goroutine owning one game.State. Every inbound
// command runs to completion before the next, so the state needs no
// locking.
type Room struct {
	code    string
	inbox   chan Msg
	state   *game.State
	clients map[string]chan types.ServerMessage
	delays  Delays
	log     *zap.Logger
	onEmpty func(code string)

	// Pending transition timer. A fire whose seq is stale is dropped:
	// the room advanced or restarted while the timer was in flight.
	timer    *time.Timer
	timerSeq int

	info atomic.Value // types.RoomInfo, readable outside the actor

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, code string, host Seat, rules game.Rules, delays Delays, rng *rand.Rand, log *zap.Logger, onEmpty func(code string)) (*Room, error) {
	state, err := game.NewState(code, host.ConnID, host.Username, host.InitialLives, rules, rng, log)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(parent)
	r := &Room{
		code:    code,
		inbox:   make(chan Msg, 64),
		state:   state,
		clients: map[string]chan types.ServerMessage{host.ConnID: host.Out},
		delays:  delays,
		log:     log.With(zap.String("room", code)),
		onEmpty: onEmpty,
		ctx:     ctx,
		cancel:  cancel,
	}
	r.publishInfo()

	hostPID := state.Players[0].PersistentID
	r.send(host.ConnID, types.ServerMessage{Type: types.MsgSessionSaved, RoomCode: code, PersistentID: hostPID})
	r.send(host.ConnID, types.ServerMessage{Type: types.MsgRoomCreated, Code: code})

	go r.loop()
	r.inbox <- broadcastNow{}
	return r, nil
}

// broadcastNow pushes the initial snapshot from inside the loop so the
// host's first updateState goes through the same path as every other.
type broadcastNow struct{}

func (broadcastNow) isRoomMsg() {}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) Code() string { return r.code }

// Info is safe to call from outside the actor.
func (r *Room) Info() types.RoomInfo { return r.info.Load().(types.RoomInfo) }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return
		case m := <-r.inbox:
			if r.handle(m) {
				r.shutdown()
				return
			}
			r.publishInfo()
		}
	}
}

// handle returns true when the room should stop.
func (r *Room) handle(m Msg) bool {
	s := r.state
	switch msg := m.(type) {
	case broadcastNow:
		r.broadcast()

	case Join:
		p, err := s.AddPlayer(msg.ConnID, msg.Username)
		msg.Reply <- err
		if err != nil {
			return false
		}
		r.clients[msg.ConnID] = msg.Out
		r.send(msg.ConnID, types.ServerMessage{Type: types.MsgSessionSaved, RoomCode: r.code, PersistentID: p.PersistentID})
		r.log.Info("player joined", zap.String("username", msg.Username), zap.Bool("spectator", p.IsSpectator))
		r.broadcast()

	case Rejoin:
		p, err := s.Rejoin(msg.ConnID, msg.PersistentID)
		msg.Reply <- err
		if err != nil {
			return false
		}
		r.clients[msg.ConnID] = msg.Out
		r.send(msg.ConnID, types.ServerMessage{Type: types.MsgSessionSaved, RoomCode: r.code, PersistentID: p.PersistentID})
		r.log.Info("player reconnected", zap.String("username", p.Username))
		r.broadcast()

	case Leave:
		if p := s.SetOffline(msg.ConnID); p != nil {
			r.log.Info("player offline", zap.String("username", p.Username))
		}
		delete(r.clients, msg.ConnID)
		r.broadcast()

	case Exit:
		removed, midRound, err := s.RemovePlayer(msg.PersistentID)
		if err != nil {
			return false
		}
		delete(r.clients, removed.ConnID)
		r.log.Info("player exited", zap.String("username", removed.Username))
		if len(s.Players) == 0 {
			r.onEmpty(r.code)
			return true
		}
		if midRound {
			// Remaining hands are asymmetric now; pause and re-deal the
			// round after a short grace period.
			s.Paused = true
			s.Notification = removed.Username + " left. Restarting the round..."
			r.broadcast()
			r.schedule(timerRestart, r.delays.Restart)
			return false
		}
		r.broadcast()

	case Start:
		if msg.ConnID != s.HostID {
			r.sendError(msg.ConnID, game.ErrNotHost)
			return false
		}
		if s.Phase != game.PhaseLobby {
			r.sendError(msg.ConnID, game.ErrWrongPhase)
			return false
		}
		if s.ActiveCount() < s.Rules.MinPlayers {
			r.sendError(msg.ConnID, game.ErrTooFewPlayers)
			return false
		}
		s.StartRound()
		r.broadcast()

	case Bid:
		if err := s.SubmitBid(msg.ConnID, msg.Bid); err != nil {
			r.sendError(msg.ConnID, err)
			return false
		}
		r.broadcast()

	case Play:
		done, err := s.PlayCard(msg.ConnID, msg.CardID, game.Mode(msg.Mode))
		if err != nil {
			r.sendError(msg.ConnID, err)
			return false
		}
		r.broadcast()
		if done {
			r.schedule(timerTrick, r.delays.Trick)
		}

	case Decision:
		if err := s.ProcessHostDecision(msg.ConnID, game.HostChoice(msg.Choice)); err != nil {
			r.sendError(msg.ConnID, err)
			return false
		}
		r.broadcast()

	case BackToLobby:
		if msg.ConnID != s.HostID {
			r.sendError(msg.ConnID, game.ErrNotHost)
			return false
		}
		if s.Phase != game.PhaseGameOver {
			r.sendError(msg.ConnID, game.ErrWrongPhase)
			return false
		}
		s.ResetToLobby()
		r.broadcast()

	case timerFired:
		r.handleTimer(msg)

	case Inspect:
		msg.Reply <- r.view()

	case Shutdown:
		return true
	}
	return false
}

func (r *Room) handleTimer(msg timerFired) {
	if msg.seq != r.timerSeq {
		r.log.Debug("dropping stale timer", zap.Int("seq", msg.seq))
		return
	}
	s := r.state
	switch msg.kind {
	case timerTrick:
		if s.Phase != game.PhasePlaying {
			return
		}
		if !s.FinishTrick() {
			r.broadcast()
			return
		}
		summary := s.CalculateScores()
		for connID := range r.clients {
			r.send(connID, types.ServerMessage{Type: types.MsgRoundSummary, Summary: summary})
		}
		r.broadcast()
		r.schedule(timerScore, r.delays.Score)

	case timerScore:
		if s.Phase != game.PhasePlaying {
			return
		}
		outcome := s.AdvanceRound()
		r.log.Info("round advanced", zap.String("outcome", string(outcome)))
		r.broadcast()

	case timerRestart:
		if !s.Paused {
			return
		}
		s.StartRound()
		r.broadcast()
	}
}

func (r *Room) schedule(kind timerKind, d time.Duration) {
	r.timerSeq++
	seq := r.timerSeq
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(d, func() {
		select {
		case r.inbox <- timerFired{seq: seq, kind: kind}:
		case <-r.ctx.Done():
		}
	})
}

// broadcast recomputes the masked projection per connected viewer and
// fans out distinct payloads, never one shared object.
func (r *Room) broadcast() {
	for connID := range r.clients {
		view := game.Project(r.state, connID)
		r.send(connID, types.ServerMessage{Type: types.MsgUpdateState, State: &view})
	}
}

func (r *Room) send(connID string, msg types.ServerMessage) {
	out, ok := r.clients[connID]
	if !ok {
		return
	}
	select {
	case out <- msg:
	default:
		// Client is slow/full - drop its registration; the seat stays
		// and the player can rejoin.
		delete(r.clients, connID)
		r.state.SetOffline(connID)
		r.log.Warn("dropping slow client", zap.String("conn", connID))
	}
}

func (r *Room) sendError(connID string, err error) {
	r.send(connID, types.ServerMessage{Type: types.MsgError, Error: err.Error()})
}

func (r *Room) publishInfo() {
	r.info.Store(types.RoomInfo{
		Code:    r.code,
		Players: len(r.state.Players),
		Phase:   r.state.Phase,
		Open:    r.state.Phase == game.PhaseLobby,
	})
}

func (r *Room) shutdown() {
	if r.timer != nil {
		r.timer.Stop()
	}
	clear(r.clients)
	r.cancel()
}

func (r *Room) view() View {
	s := r.state
	v := View{
		NumClients:   len(r.clients),
		Phase:        string(s.Phase),
		CardsPerHand: s.CardsPerHand,
		Direction:    s.Direction,
		CurrentTurn:  s.CurrentTurn,
		TableSize:    len(s.Table),
		Paused:       s.Paused,
	}
	for _, p := range s.Players {
		bid, hasBid := s.Bids[p.PersistentID]
		v.Players = append(v.Players, PlayerFacts{
			ConnID:       p.ConnID,
			PersistentID: p.PersistentID,
			Username:     p.Username,
			Lives:        p.Lives,
			IsSpectator:  p.IsSpectator,
			Online:       p.Online,
			HandSize:     len(p.Hand),
			Tricks:       p.Tricks,
			Bid:          bid,
			HasBid:       hasBid,
		})
	}
	return v
}
