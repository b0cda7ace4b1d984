package game

// SubmitBid validates and records one bid. The last remaining bidder may
// never make the table's total equal the hand size, so at least one
// player is guaranteed to miss their bid.
func (s *State) SubmitBid(connID string, bid int) error {
	if s.Phase != PhaseBidding {
		return ErrWrongPhase
	}
	p := s.PlayerByConn(connID)
	if p == nil || p.IsSpectator {
		return ErrUnknownPlayer
	}
	if s.Players[s.CurrentTurn] != p {
		return ErrWrongTurn
	}
	if bid < 0 || bid > s.CardsPerHand {
		return ErrInvalidBid
	}

	if len(s.Bids) == s.ActiveCount()-1 {
		sum := bid
		for _, b := range s.Bids {
			sum += b
		}
		if sum == s.CardsPerHand {
			return ErrHookBid
		}
	}

	s.Bids[p.PersistentID] = bid
	s.advanceTurn()

	if len(s.Bids) == s.ActiveCount() {
		s.Phase = PhasePlaying
		// Play starts from the same seat that opened the bidding.
		for s.Players[s.StartPlayerIndex].IsSpectator {
			s.StartPlayerIndex = (s.StartPlayerIndex + 1) % len(s.Players)
		}
		s.CurrentTurn = s.StartPlayerIndex
		s.Notification = "Bidding finished. Play your cards!"
	}
	return nil
}
