package game

// CardView is a card as one particular viewer is allowed to see it.
// Masked cards keep their id but show "?" for suit and value.
type CardView struct {
	ID    string `json:"id"`
	Suit  string `json:"suit"`
	Value string `json:"value"`
}

type PlayView struct {
	PlayerID string   `json:"playerId"`
	Card     CardView `json:"card"`
	Mode     string   `json:"mode"`
}

type TrickView struct {
	Plays    []PlayView `json:"plays"`
	WinnerID string     `json:"winnerId"`
}

type PlayerView struct {
	PersistentID string     `json:"persistentId"`
	Username     string     `json:"username"`
	Lives        int        `json:"lives"`
	IsSpectator  bool       `json:"isSpectator"`
	Online       bool       `json:"online"`
	Participated bool       `json:"participated"`
	Tricks       int        `json:"tricks"`
	Hand         []CardView `json:"hand"`
}

// StateView is the per-viewer snapshot sent on every updateState. The
// deck never appears; hands are masked asymmetrically.
type StateView struct {
	Code             string         `json:"code"`
	Phase            Phase          `json:"phase"`
	HostID           string         `json:"hostId"` // persistent id
	ViewerID         string         `json:"viewerId"`
	Players          []PlayerView   `json:"players"`
	CurrentTurn      int            `json:"currentTurn"`
	StartPlayerIndex int            `json:"startPlayerIndex"`
	CardsPerHand     int            `json:"cardsPerHand"`
	Direction        int            `json:"direction"`
	Bids             map[string]int `json:"bids"`
	Table            []PlayView     `json:"currentRoundCards"`
	LastTrick        *TrickView     `json:"lastTrick,omitempty"`
	Paused           bool           `json:"isPaused"`
	Notification     string         `json:"notification"`
	InitialLives     int            `json:"initialLives"`
	Standings        []Standing     `json:"standings,omitempty"`
	Awards           []Award        `json:"awards,omitempty"`
}

func openCard(c Card) CardView {
	return CardView{ID: c.ID, Suit: c.Suit.String(), Value: c.Value.String()}
}

func maskedCard(c Card) CardView {
	return CardView{ID: c.ID, Suit: "?", Value: "?"}
}

func playView(p Play) PlayView {
	return PlayView{PlayerID: p.PlayerID, Card: openCard(p.Card), Mode: string(p.Mode)}
}

// Project builds the masked snapshot of s for one viewer, identified by
// connection id. A hand is revealed only when the viewer owns it in a
// normal round, or does not own it in a blind round. Pure: s is never
// mutated, and projecting an unchanged state twice yields equal views.
func Project(s *State, viewerConnID string) StateView {
	blind := s.IsBlindRound()

	var hostPID, viewerPID string
	if h := s.PlayerByConn(s.HostID); h != nil {
		hostPID = h.PersistentID
	}
	if v := s.PlayerByConn(viewerConnID); v != nil {
		viewerPID = v.PersistentID
	}

	players := make([]PlayerView, 0, len(s.Players))
	for _, p := range s.Players {
		owner := p.ConnID == viewerConnID
		reveal := (owner && !blind) || (!owner && blind)

		hand := make([]CardView, 0, len(p.Hand))
		for _, c := range p.Hand {
			if reveal {
				hand = append(hand, openCard(c))
			} else {
				hand = append(hand, maskedCard(c))
			}
		}
		lives := p.Lives
		if lives < 0 {
			lives = 0
		}
		players = append(players, PlayerView{
			PersistentID: p.PersistentID,
			Username:     p.Username,
			Lives:        lives,
			IsSpectator:  p.IsSpectator,
			Online:       p.Online,
			Participated: p.Participated,
			Tricks:       p.Tricks,
			Hand:         hand,
		})
	}

	table := make([]PlayView, 0, len(s.Table))
	for _, p := range s.Table {
		table = append(table, playView(p))
	}

	var last *TrickView
	if s.LastTrick != nil {
		plays := make([]PlayView, 0, len(s.LastTrick.Plays))
		for _, p := range s.LastTrick.Plays {
			plays = append(plays, playView(p))
		}
		last = &TrickView{Plays: plays, WinnerID: s.LastTrick.WinnerID}
	}

	bids := make(map[string]int, len(s.Bids))
	for k, v := range s.Bids {
		bids[k] = v
	}

	view := StateView{
		Code:             s.Code,
		Phase:            s.Phase,
		HostID:           hostPID,
		ViewerID:         viewerPID,
		Players:          players,
		CurrentTurn:      s.CurrentTurn,
		StartPlayerIndex: s.StartPlayerIndex,
		CardsPerHand:     s.CardsPerHand,
		Direction:        s.Direction,
		Bids:             bids,
		Table:            table,
		LastTrick:        last,
		Paused:           s.Paused,
		Notification:     s.Notification,
		InitialLives:     s.InitialLives,
	}
	if s.Phase == PhaseGameOver {
		view.Standings = s.FinalStandings()
		view.Awards = s.Awards()
	}
	return view
}
