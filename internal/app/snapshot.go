package app

import "tooza/internal/domain"

// CardView is a card as clients render it.
type CardView struct {
	ID         string `json:"id"`
	Rank       string `json:"rank"`
	Suit       string `json:"suit"`
	PointValue int    `json:"pointValue"`
}

// PlayView is one laid card in the current trick.
type PlayView struct {
	PlayerID   string   `json:"playerId"`
	PlayerName string   `json:"playerName"`
	Card       CardView `json:"card"`
}

// PlayerView is a seated player as seen by one recipient. Cards is nil for
// everyone but the recipient; CardCount is always populated.
type PlayerView struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Avatar       string     `json:"avatar,omitempty"`
	Cards        []CardView `json:"cards,omitempty"`
	CardCount    int        `json:"cardCount"`
	Points       int        `json:"points"`
	IsDealer     bool       `json:"isDealer"`
	IsCurrent    bool       `json:"isCurrentPlayer"`
	IsEliminated bool       `json:"isEliminated"`
	IsAI         bool       `json:"isAI"`
	DealerCard   *CardView  `json:"dealerCard,omitempty"`
}

// GameState is the full room snapshot broadcast after every accepted
// command. Build once with Snapshot, then redact per recipient.
type GameState struct {
	RoomCode       string       `json:"roomCode"`
	Phase          domain.Phase `json:"gamePhase"`
	Round          int          `json:"round"`
	DealMode       string       `json:"dealMode,omitempty"`
	Players        []PlayerView `json:"players"`
	CurrentTrick   []PlayView   `json:"currentTrick"`
	CallingSuit    string       `json:"callingSuit,omitempty"`
	LastPlayedCard *CardView    `json:"lastPlayedCard,omitempty"`
	DeckCount      int          `json:"deckCount"`
	WinnerID       string       `json:"winnerId,omitempty"`
}

func cardView(c domain.Card) CardView {
	return CardView{
		ID:         c.ID(),
		Rank:       c.Rank.String(),
		Suit:       c.Suit.String(),
		PointValue: c.PointValue(),
	}
}

func cardViews(cards []domain.Card) []CardView {
	if len(cards) == 0 {
		return nil
	}
	out := make([]CardView, len(cards))
	for i, c := range cards {
		out[i] = cardView(c)
	}
	return out
}

// Snapshot renders the unredacted room state. Hand contents are included
// for every player; redact before sending.
func Snapshot(g *domain.Game) *GameState {
	st := &GameState{
		RoomCode:     g.Code,
		Phase:        g.Phase,
		Round:        g.Round,
		Players:      make([]PlayerView, 0, len(g.Players)),
		CurrentTrick: make([]PlayView, 0, len(g.CurrentTrick)),
	}
	if g.DealMode != "" {
		st.DealMode = string(g.DealMode)
	}
	if g.CallingSuit != domain.SuitNone {
		st.CallingSuit = g.CallingSuit.String()
	}
	if g.Deck != nil {
		st.DeckCount = g.Deck.Len()
	}
	if w := g.Winner(); w != nil {
		st.WinnerID = w.ID
	}

	for _, p := range g.Players {
		view := PlayerView{
			ID:           p.ID,
			Username:     p.Username,
			Avatar:       p.Avatar,
			Cards:        cardViews(p.Hand),
			CardCount:    len(p.Hand),
			Points:       p.Points,
			IsDealer:     p.IsDealer,
			IsCurrent:    p.IsCurrent,
			IsEliminated: p.IsEliminated,
			IsAI:         p.IsAI,
		}
		if p.DealerCard != nil {
			dc := cardView(*p.DealerCard)
			view.DealerCard = &dc
		}
		st.Players = append(st.Players, view)
	}

	for _, play := range g.CurrentTrick {
		name := play.PlayerID
		if p, ok := g.PlayerByID(play.PlayerID); ok {
			name = p.Username
		}
		st.CurrentTrick = append(st.CurrentTrick, PlayView{
			PlayerID:   play.PlayerID,
			PlayerName: name,
			Card:       cardView(play.Card),
		})
	}
	if n := len(g.CurrentTrick); n > 0 {
		last := cardView(g.CurrentTrick[n-1].Card)
		st.LastPlayedCard = &last
	}

	return st
}

// RedactFor returns a copy of the snapshot with every other player's hand
// elided. Card counts, points and the public trick stay visible.
func (st *GameState) RedactFor(playerID string) *GameState {
	out := *st
	out.Players = make([]PlayerView, len(st.Players))
	copy(out.Players, st.Players)
	for i := range out.Players {
		if out.Players[i].ID != playerID {
			out.Players[i].Cards = nil
		}
	}
	return &out
}
