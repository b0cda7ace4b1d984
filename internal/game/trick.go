package game

import "fmt"

// IsBlindRound reports whether exactly one card was dealt per player, the
// round where hand visibility inverts and the special card's mode is
// decided by the server.
func (s *State) IsBlindRound() bool { return s.CardsPerHand == 1 }

// PlayCard moves a card from the caller's hand to the table. It returns
// true when the table is complete and the trick has been resolved; the
// caller then waits out the display pause before calling FinishTrick.
func (s *State) PlayCard(connID, cardID string, mode Mode) (bool, error) {
	if s.Phase != PhasePlaying {
		return false, ErrWrongPhase
	}
	if s.Paused {
		return false, ErrRoomPaused
	}
	p := s.PlayerByConn(connID)
	if p == nil || p.IsSpectator {
		return false, ErrUnknownPlayer
	}
	if s.Players[s.CurrentTurn] != p {
		return false, ErrWrongTurn
	}
	// The turn marker stays on the trick's last player during the
	// display pause; a resolved table accepts no further plays.
	if len(s.Table) >= s.ActiveCount() {
		return false, ErrWrongTurn
	}

	idx := -1
	for i, c := range p.Hand {
		if c.ID == cardID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, ErrUnknownCard
	}
	card := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)

	switch mode {
	case ModeHigh, ModeLow:
	default:
		mode = ModeNormal
	}
	// In a blind round the server decides the special card's fate: a
	// player who bid exactly 1 is made to win, anyone else to lose.
	if s.IsBlindRound() && card.IsSpecial() {
		if s.Bids[p.PersistentID] == 1 {
			mode = ModeHigh
		} else {
			mode = ModeLow
		}
	}

	s.Table = append(s.Table, Play{PlayerID: p.PersistentID, Card: card, Mode: mode})

	if len(s.Table) == s.ActiveCount() {
		s.resolveTrick()
		return true, nil
	}
	s.advanceTurn()
	return false, nil
}

func (s *State) resolveTrick() {
	best := resolvePlays(s.Table)
	winner := s.PlayerByID(best.PlayerID)
	winner.Tricks++
	winner.Stats.TotalTricks++
	s.LastTrick = &TrickRecord{
		Plays:    append([]Play(nil), s.Table...),
		WinnerID: winner.PersistentID,
	}
	s.Notification = fmt.Sprintf("%s takes the trick!", winner.Username)
}

// FinishTrick clears the table after the display pause. It returns true
// when every active hand is empty and the round moves on to scoring.
func (s *State) FinishTrick() bool {
	active := s.activePlayers()
	if len(active) == 0 || s.LastTrick == nil {
		return false
	}
	if len(active[0].Hand) == 0 {
		return true
	}
	s.Table = nil
	// Winner leads the next trick.
	for i, p := range s.Players {
		if p.PersistentID == s.LastTrick.WinnerID {
			s.CurrentTurn = i
			break
		}
	}
	s.Notification = fmt.Sprintf("Now %s starts", s.Players[s.CurrentTurn].Username)
	return false
}
