package app

import (
	"math/rand"
	"time"

	"tooza/internal/domain"
)

// Service contains Tooza use-cases operating on domain state. It holds no
// room state itself; the room actor owns the Game and calls in serially.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with the provided rng or a time-seeded
// default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

// Join seats a player and announces them.
func (s *Service) Join(g *domain.Game, p *domain.Player) ([]Event, error) {
	if err := g.AddPlayer(p); err != nil {
		return nil, err
	}
	return []Event{{
		Kind: EventPlayerJoined,
		Payload: PlayerJoinedPayload{
			PlayerID: p.ID,
			Username: p.Username,
			IsAI:     p.IsAI,
		},
	}}, nil
}

// Leave unseats a player in any phase. A departure that drops the room
// below two active players ends the game; one that leaves every remaining
// active player with a card in the open trick settles the trick.
func (s *Service) Leave(g *domain.Game, playerID string) ([]Event, error) {
	res, err := g.RemovePlayer(playerID)
	if err != nil {
		return nil, err
	}
	events := []Event{{
		Kind:    EventPlayerLeft,
		Payload: PlayerLeftPayload{PlayerID: playerID},
	}}
	switch {
	case res.Trick != nil:
		events = append(events, s.trickOutcome(g, res.Trick)...)
	case res.GameOver:
		payload := GameEndedPayload{}
		if w := g.Winner(); w != nil {
			payload.WinnerID = w.ID
		}
		events = append(events, Event{Kind: EventGameEnded, Payload: payload})
	}
	return events, nil
}

// StartGame moves a waiting room into dealer selection with a fresh deck.
func (s *Service) StartGame(g *domain.Game, mode domain.DealMode) ([]Event, error) {
	if err := g.StartGame(mode, s.rng); err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventGameStarted,
		Payload: GameStartedPayload{Phase: g.Phase, DealMode: g.DealMode},
	}}, nil
}

// DrawDealerCard performs one player's dealer draw. The drawn card is
// public: the whole table watches the draw-off.
func (s *Service) DrawDealerCard(g *domain.Game, playerID string) ([]Event, error) {
	c, err := g.DrawDealerCard(playerID)
	if err != nil {
		return nil, err
	}
	return []Event{{
		Kind:    EventDealerCardDrawn,
		Payload: DealerCardDrawnPayload{PlayerID: playerID, Card: c},
	}}, nil
}

// ConfirmDealer resolves the draw-off, either selecting the dealer or
// narrowing to a re-draw among the tied players.
func (s *Service) ConfirmDealer(g *domain.Game) ([]Event, error) {
	res, err := g.ConfirmDealer(s.rng)
	if err != nil {
		return nil, err
	}
	if len(res.Tied) > 0 {
		return []Event{{
			Kind:    EventDealerTie,
			Payload: DealerTiePayload{Tied: res.Tied},
		}}, nil
	}
	return []Event{{
		Kind:    EventDealerSelected,
		Payload: DealerSelectedPayload{DealerID: res.DealerID},
	}}, nil
}

// DealCard advances dealing. Only the dealer issues deal commands. A
// manually dealt card is shown only to its receiver; completion emits each
// player their full hand plus a table-wide notice.
func (s *Service) DealCard(g *domain.Game, actorID string, phase int) ([]Event, error) {
	dealer := g.DealerPlayer()
	if dealer == nil || dealer.ID != actorID {
		return nil, domain.ErrNotDealer
	}

	res, err := g.DealCard(phase)
	if err != nil {
		return nil, err
	}

	var events []Event
	if res.PlayerID != "" {
		events = append(events, Event{
			Kind:       EventCardDealt,
			Payload:    CardDealtPayload{PlayerID: res.PlayerID, Card: res.Card},
			Recipients: []string{res.PlayerID},
		})
	}
	if res.Completed {
		for _, p := range g.ActivePlayers() {
			events = append(events, Event{
				Kind:       EventHandDealt,
				Payload:    HandDealtPayload{PlayerID: p.ID, Hand: p.Hand},
				Recipients: []string{p.ID},
			})
		}
		events = append(events, Event{
			Kind: EventDealingComplete,
			Payload: DealingCompletePayload{
				Round:         g.Round,
				FirstPlayerID: g.CurrentPlayer().ID,
			},
		})
	}
	return events, nil
}

// PlayCard applies one play and expands everything it caused into events.
func (s *Service) PlayCard(g *domain.Game, playerID, cardID string) ([]Event, error) {
	res, err := g.PlayCard(playerID, cardID)
	if err != nil {
		return nil, err
	}

	events := []Event{{
		Kind: EventCardPlayed,
		Payload: CardPlayedPayload{
			PlayerID:     res.PlayerID,
			Card:         res.Card,
			NextPlayerID: res.NextPlayerID,
		},
	}}
	return append(events, s.trickOutcome(g, res)...), nil
}

// trickOutcome expands the resolution half of a play result: trick
// completion, eliminations and round or game termination.
func (s *Service) trickOutcome(g *domain.Game, res *domain.PlayResult) []Event {
	var events []Event
	if res.TrickComplete {
		events = append(events, Event{
			Kind: EventTrickComplete,
			Payload: TrickCompletePayload{
				WinnerID:   res.TrickWinnerID,
				Points:     res.TrickPoints,
				PointsToID: res.PointsToID,
			},
		})
	}
	for _, id := range res.Eliminated {
		points := 0
		if p, ok := g.PlayerByID(id); ok {
			points = p.Points
		}
		events = append(events, Event{
			Kind:    EventPlayerEliminated,
			Payload: PlayerEliminatedPayload{PlayerID: id, Points: points},
		})
	}
	if res.RoundOver {
		events = append(events, Event{Kind: EventRoundEnded, Payload: RoundEndedPayload{}})
	}
	if res.GameOver {
		events = append(events, Event{
			Kind:    EventGameEnded,
			Payload: GameEndedPayload{WinnerID: res.GameWinnerID},
		})
	}
	return events
}

// StartRound begins the next round from roundEnd. The dealer rotates one
// active seat unless a fresh dealer draw-off is requested.
func (s *Service) StartRound(g *domain.Game, newDealerSelection bool) ([]Event, error) {
	if err := g.StartRound(newDealerSelection, s.rng); err != nil {
		return nil, err
	}
	payload := RoundStartedPayload{Phase: g.Phase}
	if d := g.DealerPlayer(); d != nil && g.Phase == domain.PhaseDealing {
		payload.DealerID = d.ID
	}
	return []Event{{Kind: EventRoundStarted, Payload: payload}}, nil
}
