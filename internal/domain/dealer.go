package domain

import "math/rand"

// DealerResult is the outcome of a confirmDealer command: either a dealer
// was chosen, or the top draws tied and those players must draw again.
type DealerResult struct {
	DealerID string
	Tied     []string
}

// DrawDealerCard draws the one-card dealer draw for a player. Each
// contender draws exactly once per draw-off iteration.
func (g *Game) DrawDealerCard(playerID string) (Card, error) {
	if g.Phase != PhaseDealerSelection {
		return Card{}, ErrInvalidPhase
	}
	p, ok := g.PlayerByID(playerID)
	if !ok {
		return Card{}, ErrPlayerNotFound
	}
	if p.IsEliminated {
		return Card{}, ErrPlayerEliminated
	}
	if p.DealerCard != nil || !g.contenders[playerID] {
		return Card{}, ErrAlreadyDrawn
	}
	c, ok := g.Deck.Draw()
	if !ok {
		panic("room " + g.Code + ": deck exhausted during dealer selection")
	}
	p.DealerCard = &c
	return c, nil
}

// AllDealerCardsDrawn reports whether every contender has drawn.
func (g *Game) AllDealerCardsDrawn() bool {
	if g.Phase != PhaseDealerSelection {
		return false
	}
	for id := range g.contenders {
		p, ok := g.PlayerByID(id)
		if !ok {
			continue
		}
		if p.DealerCard == nil {
			return false
		}
	}
	return true
}

// DealerContenders returns the players that may still draw in the current
// draw-off iteration.
func (g *Game) DealerContenders() []*Player {
	out := make([]*Player, 0, len(g.contenders))
	for _, p := range g.Players {
		if g.contenders[p.ID] && p.DealerCard == nil {
			out = append(out, p)
		}
	}
	return out
}

// ConfirmDealer resolves the draw-off once every contender has drawn.
// Rank alone decides (ace high, suit irrelevant); a tie at the top narrows
// the contender set to the tied players for a re-draw. On resolution all
// drawn cards return to the deck and it is reshuffled before dealing.
func (g *Game) ConfirmDealer(rng *rand.Rand) (*DealerResult, error) {
	if g.Phase != PhaseDealerSelection {
		return nil, ErrInvalidPhase
	}
	if !g.AllDealerCardsDrawn() {
		return nil, ErrDealerNotResolved
	}

	best := Rank(0)
	for id := range g.contenders {
		p, _ := g.PlayerByID(id)
		if p != nil && p.DealerCard.Rank > best {
			best = p.DealerCard.Rank
		}
	}

	var top []*Player
	for _, p := range g.Players {
		if g.contenders[p.ID] && p.DealerCard != nil && p.DealerCard.Rank == best {
			top = append(top, p)
		}
	}

	if len(top) > 1 {
		// Tie: only the tied players draw again.
		tied := make([]string, 0, len(top))
		next := make(map[string]bool, len(top))
		for _, p := range top {
			g.Deck.Return(*p.DealerCard)
			p.DealerCard = nil
			next[p.ID] = true
			tied = append(tied, p.ID)
		}
		g.contenders = next
		g.Deck.Shuffle(rng)
		return &DealerResult{Tied: tied}, nil
	}

	dealer := top[0]
	for _, p := range g.Players {
		if p.DealerCard != nil {
			g.Deck.Return(*p.DealerCard)
			p.DealerCard = nil
		}
	}
	g.Deck.Shuffle(rng)
	g.setDealer(g.seatOf(dealer.ID))
	g.contenders = nil
	g.Phase = PhaseDealing
	return &DealerResult{DealerID: dealer.ID}, nil
}
