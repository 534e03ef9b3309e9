package domain

import "math/rand"

// StartGame moves a waiting room into dealer selection. The deal mode is
// fixed for the rest of the game unless a later round re-enters selection.
func (g *Game) StartGame(mode DealMode, rng *rand.Rand) error {
	if g.Phase != PhaseWaiting {
		return ErrInvalidPhase
	}
	if len(g.Players) < 2 {
		return ErrTooFewPlayers
	}
	if mode != DealAuto && mode != DealManual {
		mode = DealAuto
	}
	g.DealMode = mode
	g.Deck = NewDeck()
	g.Deck.Shuffle(rng)
	g.beginDealerSelection()
	return nil
}

// StartRound begins the next round from roundEnd. The dealer rotates one
// active seat unless a fresh dealer selection is requested.
func (g *Game) StartRound(newDealerSelection bool, rng *rand.Rand) error {
	if g.Phase != PhaseRoundEnd {
		return ErrInvalidPhase
	}

	// All cards come back for the new round.
	g.Deck = NewDeck()
	g.Deck.Shuffle(rng)
	g.CurrentTrick = nil
	g.CallingSuit = SuitNone
	g.TrickHistory = nil
	g.Discard = nil
	for _, p := range g.Players {
		p.Hand = nil
		p.IsCurrent = false
	}

	if newDealerSelection {
		g.beginDealerSelection()
		return nil
	}

	g.setDealer(g.nextActiveSeat(g.dealerSeat))
	g.Phase = PhaseDealing
	return nil
}

func (g *Game) beginDealerSelection() {
	g.Phase = PhaseDealerSelection
	g.contenders = make(map[string]bool, len(g.Players))
	for _, p := range g.Players {
		p.IsDealer = false
		p.DealerCard = nil
		if p.Active() {
			g.contenders[p.ID] = true
		}
	}
	g.dealerSeat = -1
}

func (g *Game) setDealer(seat int) {
	g.dealerSeat = seat
	for i, p := range g.Players {
		p.IsDealer = i == seat
	}
}
