package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// rigPlaying puts a 3-player room into PLAYING with scripted hands and
// bids, player 0 to act.
func rigPlaying(t *testing.T, hands [][]Card, bids []int) *State {
	t.Helper()
	s := testState(t, 3, 3, defaultRules())
	s.Phase = PhasePlaying
	s.CardsPerHand = len(hands[0])
	s.CurrentTurn = 0
	s.StartPlayerIndex = 0
	for i, p := range s.Players {
		p.Hand = append([]Card(nil), hands[i]...)
		s.Bids[p.PersistentID] = bids[i]
	}
	return s
}

func TestPlayCard_Validation(t *testing.T) {
	hands := [][]Card{
		{newCard(SuitCoppe, ValRe)},
		{newCard(SuitSpade, ValDue)},
		{newCard(SuitBastoni, ValSette)},
	}

	t.Run("wrong phase", func(t *testing.T) {
		s := rigPlaying(t, hands, []int{0, 0, 0})
		s.Phase = PhaseBidding
		_, err := s.PlayCard("c0", hands[0][0].ID, ModeNormal)
		require.ErrorIs(t, err, ErrWrongPhase)
	})

	t.Run("paused room", func(t *testing.T) {
		s := rigPlaying(t, hands, []int{0, 0, 0})
		s.Paused = true
		_, err := s.PlayCard("c0", hands[0][0].ID, ModeNormal)
		require.ErrorIs(t, err, ErrRoomPaused)
	})

	t.Run("out of turn", func(t *testing.T) {
		s := rigPlaying(t, hands, []int{0, 0, 0})
		_, err := s.PlayCard("c1", hands[1][0].ID, ModeNormal)
		require.ErrorIs(t, err, ErrWrongTurn)
	})

	t.Run("card not in hand", func(t *testing.T) {
		s := rigPlaying(t, hands, []int{0, 0, 0})
		_, err := s.PlayCard("c0", "no-such-card", ModeNormal)
		require.ErrorIs(t, err, ErrUnknownCard)
		require.Len(t, s.Players[0].Hand, 1, "rejected play must not touch the hand")
	})
}

// Scenario: in a 1-card round the special card's owner bid exactly 1.
// Whatever mode the client declares, the server forces high and the
// owner wins the trick.
func TestPlayCard_BlindRoundForcesSpecialHigh(t *testing.T) {
	specialCard := newCard(SuitDenari, ValAsso)
	hands := [][]Card{
		{specialCard},
		{newCard(SuitDenari, ValRe)},
		{newCard(SuitCoppe, ValRe)},
	}
	s := rigPlaying(t, hands, []int{1, 0, 0})

	done, err := s.PlayCard("c0", specialCard.ID, ModeLow) // client lies
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, ModeHigh, s.Table[0].Mode, "server must override to high")

	_, err = s.PlayCard("c1", hands[1][0].ID, ModeNormal)
	require.NoError(t, err)
	done, err = s.PlayCard("c2", hands[2][0].ID, ModeNormal)
	require.NoError(t, err)
	require.True(t, done)

	require.Equal(t, s.Players[0].PersistentID, s.LastTrick.WinnerID)
	require.Equal(t, 1, s.Players[0].Tricks)
}

func TestPlayCard_BlindRoundForcesSpecialLow(t *testing.T) {
	specialCard := newCard(SuitDenari, ValAsso)
	hands := [][]Card{
		{specialCard},
		{newCard(SuitBastoni, ValDue)},
		{newCard(SuitBastoni, ValTre)},
	}
	s := rigPlaying(t, hands, []int{0, 0, 1})

	_, err := s.PlayCard("c0", specialCard.ID, ModeHigh) // client lies again
	require.NoError(t, err)
	require.Equal(t, ModeLow, s.Table[0].Mode)

	_, err = s.PlayCard("c1", hands[1][0].ID, ModeNormal)
	require.NoError(t, err)
	done, err := s.PlayCard("c2", hands[2][0].ID, ModeNormal)
	require.NoError(t, err)
	require.True(t, done)

	require.NotEqual(t, s.Players[0].PersistentID, s.LastTrick.WinnerID,
		"a forced-low special can never take the trick")
}

func TestPlayCard_DeclaredModeTrustedOutsideBlindRound(t *testing.T) {
	specialCard := newCard(SuitDenari, ValAsso)
	hands := [][]Card{
		{specialCard, newCard(SuitBastoni, ValDue)},
		{newCard(SuitDenari, ValRe), newCard(SuitBastoni, ValTre)},
		{newCard(SuitCoppe, ValRe), newCard(SuitBastoni, ValQuattro)},
	}
	s := rigPlaying(t, hands, []int{0, 1, 1})

	_, err := s.PlayCard("c0", specialCard.ID, ModeLow)
	require.NoError(t, err)
	require.Equal(t, ModeLow, s.Table[0].Mode)
}

// A card's identity survives deal, play and archival untouched.
func TestCard_RoundTripIntoLastTrick(t *testing.T) {
	s := testState(t, 3, 3, defaultRules())
	s.CardsPerHand = 1
	require.True(t, s.StartRound())

	for _, conn := range []string{"c0", "c1", "c2"} {
		require.NoError(t, s.SubmitBid(conn, 0))
	}

	played := map[string]Card{}
	for i := 0; i < 3; i++ {
		p := s.Players[s.CurrentTurn]
		card := p.Hand[0]
		played[p.PersistentID] = card
		_, err := s.PlayCard(p.ConnID, card.ID, ModeNormal)
		require.NoError(t, err)
	}

	require.Len(t, s.LastTrick.Plays, 3)
	for _, play := range s.LastTrick.Plays {
		orig := played[play.PlayerID]
		require.Equal(t, orig.ID, play.Card.ID)
		require.Equal(t, orig.Suit, play.Card.Suit)
		require.Equal(t, orig.Value, play.Card.Value)
	}
}

func TestFinishTrick_WinnerLeadsNextTrick(t *testing.T) {
	hands := [][]Card{
		{newCard(SuitBastoni, ValDue), newCard(SuitBastoni, ValTre)},
		{newCard(SuitDenari, ValRe), newCard(SuitBastoni, ValQuattro)},
		{newCard(SuitCoppe, ValRe), newCard(SuitBastoni, ValCinque)},
	}
	s := rigPlaying(t, hands, []int{0, 1, 1})

	for i := 0; i < 3; i++ {
		p := s.Players[s.CurrentTurn]
		_, err := s.PlayCard(p.ConnID, p.Hand[0].ID, ModeNormal)
		require.NoError(t, err)
	}
	require.NotNil(t, s.LastTrick)

	over := s.FinishTrick()
	require.False(t, over, "one card left per hand")
	require.Empty(t, s.Table)
	require.Equal(t, 1, s.CurrentTurn, "Re di Denari wins, seat 1 leads")
}

// Every round resolves exactly cardsPerHand tricks.
func TestFullRound_TrickCountEqualsHandSize(t *testing.T) {
	s := testState(t, 3, 5, defaultRules())
	s.CardsPerHand = 3
	require.True(t, s.StartRound())

	for _, bid := range []struct {
		conn string
		bid  int
	}{{"c0", 0}, {"c1", 0}, {"c2", 1}} {
		require.NoError(t, s.SubmitBid(bid.conn, bid.bid))
	}

	resolved := 0
	for {
		p := s.Players[s.CurrentTurn]
		done, err := s.PlayCard(p.ConnID, p.Hand[0].ID, ModeNormal)
		require.NoError(t, err)
		if done {
			resolved++
			if s.FinishTrick() {
				break
			}
		}
	}
	require.Equal(t, s.CardsPerHand, resolved)

	total := 0
	for _, p := range s.Players {
		total += p.Tricks
	}
	require.Equal(t, s.CardsPerHand, total)
}

func TestPlayCard_RejectedWhileTableFull(t *testing.T) {
	hands := [][]Card{
		{newCard(SuitBastoni, ValDue), newCard(SuitBastoni, ValTre)},
		{newCard(SuitDenari, ValRe), newCard(SuitBastoni, ValQuattro)},
		{newCard(SuitCoppe, ValRe), newCard(SuitBastoni, ValCinque)},
	}
	s := rigPlaying(t, hands, []int{0, 1, 1})
	for i := 0; i < 3; i++ {
		p := s.Players[s.CurrentTurn]
		_, err := s.PlayCard(p.ConnID, p.Hand[0].ID, ModeNormal)
		require.NoError(t, err)
	}

	// The last player to play still holds currentTurn during the pause.
	p := s.Players[s.CurrentTurn]
	_, err := s.PlayCard(p.ConnID, p.Hand[0].ID, ModeNormal)
	if !errors.Is(err, ErrWrongTurn) {
		t.Fatalf("want ErrWrongTurn on a full table, got %v", err)
	}
}
