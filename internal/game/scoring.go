package game

import (
	"sort"

	"go.uber.org/zap"
)

// RoundOutcome is what happens after the post-scoring pause.
type RoundOutcome string

const (
	OutcomeNextRound    RoundOutcome = "next_round"
	OutcomeHostDecision RoundOutcome = "host_decision"
	OutcomeGameOver     RoundOutcome = "game_over"
)

// CalculateScores settles the round: every active player loses
// |bid - tricks| lives; anyone at zero or below becomes a permanent
// spectator. The returned summary is broadcast once and forgotten.
func (s *State) CalculateScores() []LifeLoss {
	var summary []LifeLoss
	for _, p := range s.Players {
		if p.IsSpectator {
			continue
		}
		bid, ok := s.Bids[p.PersistentID]
		if !ok {
			// Should be unreachable while the bidding invariants hold.
			s.log.Warn("missing bid at scoring, defaulting to 0",
				zap.String("room", s.Code),
				zap.String("player", p.Username))
			bid = 0
		}
		diff := p.Tricks - bid
		if diff < 0 {
			diff = -diff
		}
		p.Lives -= diff
		if diff > p.Stats.WorstRoundLoss {
			p.Stats.WorstRoundLoss = diff
		}
		summary = append(summary, LifeLoss{
			PersistentID: p.PersistentID,
			Username:     p.Username,
			LivesLost:    diff,
		})
		if p.Lives <= 0 {
			p.IsSpectator = true
		}
	}
	s.Table = nil
	s.Notification = "Round ended. Checking lives..."
	return summary
}

// AdvanceRound runs after the post-scoring pause: end the game, hand
// control to the host at a set boundary, or deal the next round at the
// escalated hand size.
func (s *State) AdvanceRound() RoundOutcome {
	if s.ActiveCount() < s.Rules.MinPlayers {
		s.Phase = PhaseGameOver
		s.Notification = "Game over!"
		return OutcomeGameOver
	}
	next := s.CardsPerHand + s.Direction
	if next < 1 || next > s.Rules.MaxHandSize {
		s.Phase = PhaseHostDecision
		s.Notification = "Set complete. Host decides how to continue."
		return OutcomeHostDecision
	}
	s.CardsPerHand = next
	s.rotateStartSeat()
	if !s.StartRound() {
		return OutcomeGameOver
	}
	return OutcomeNextRound
}

// ProcessHostDecision reacts to the host's choice at a set boundary.
func (s *State) ProcessHostDecision(connID string, choice HostChoice) error {
	if s.Phase != PhaseHostDecision {
		return ErrWrongPhase
	}
	if connID != s.HostID {
		return ErrNotHost
	}
	switch choice {
	case ChoiceContinueDesc:
		s.Direction = -1
		s.CardsPerHand = s.Rules.MaxHandSize
	case ChoiceContinueAsc:
		s.Direction = +1
		s.CardsPerHand = 1
	case ChoiceEndGame:
		s.Phase = PhaseGameOver
		s.Notification = "Game over!"
		return nil
	default:
		return ErrInvalidChoice
	}
	s.rotateStartSeat()
	s.StartRound()
	return nil
}

// ResetToLobby starts a fresh game on the same room code. Everyone gets
// their lives back and counts in the next ranking, including players who
// joined mid-game as spectators.
func (s *State) ResetToLobby() {
	s.Phase = PhaseLobby
	s.CardsPerHand = s.Rules.MaxHandSize
	s.Direction = -1
	s.Deck = nil
	s.Bids = make(map[string]int)
	s.Table = nil
	s.LastTrick = nil
	s.Paused = false
	s.StartPlayerIndex = 0
	s.CurrentTurn = 0
	s.Notification = "Waiting for players..."
	for _, p := range s.Players {
		p.Lives = s.InitialLives
		p.IsSpectator = false
		p.Participated = true
		p.Hand = nil
		p.Tricks = 0
		p.Stats = Stats{}
	}
}

// Standing is one row of the final ranking.
type Standing struct {
	PersistentID string `json:"persistentId"`
	Username     string `json:"username"`
	Lives        int    `json:"lives"`
}

// Award is one derived end-of-game honor.
type Award struct {
	Title    string `json:"title"`
	Username string `json:"username"`
	Value    int    `json:"value"`
}

// FinalStandings ranks participating players by remaining lives. The sort
// is stable so seat order breaks ties.
func (s *State) FinalStandings() []Standing {
	var out []Standing
	for _, p := range s.Players {
		if !p.Participated {
			continue
		}
		lives := p.Lives
		if lives < 0 {
			lives = 0
		}
		out = append(out, Standing{PersistentID: p.PersistentID, Username: p.Username, Lives: lives})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Lives > out[j].Lives })
	return out
}

// Awards computes the derived honors over all players.
func (s *State) Awards() []Award {
	if len(s.Players) == 0 {
		return nil
	}
	pick := func(title string, value func(*Player) int) Award {
		best := s.Players[0]
		for _, p := range s.Players[1:] {
			if value(p) > value(best) {
				best = p
			}
		}
		return Award{Title: title, Username: best.Username, Value: value(best)}
	}
	return []Award{
		pick("Most special draws", func(p *Player) int { return p.Stats.SpecialDraws }),
		pick("Most tricks", func(p *Player) int { return p.Stats.TotalTricks }),
		pick("Worst round", func(p *Player) int { return p.Stats.WorstRoundLoss }),
	}
}
