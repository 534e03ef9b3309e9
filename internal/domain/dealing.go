package domain

// DealResult reports what a dealCard command distributed.
type DealResult struct {
	// PlayerID and Card identify the single card dealt in manual mode;
	// empty for an automatic deal.
	PlayerID string
	Card     Card
	// Completed is true once every active player holds a full hand and
	// the room has moved to the playing phase.
	Completed bool
}

// DealCard advances dealing. In automatic mode one command deals the full
// five cards to every active player atomically; in manual mode each
// command deals a single card of the given phase (1: first three cards,
// 2: last two), in seating order starting after the dealer.
func (g *Game) DealCard(phase int) (*DealResult, error) {
	if g.Phase != PhaseDealing {
		return nil, ErrInvalidPhase
	}

	if g.DealMode == DealAuto {
		for _, seat := range g.dealOrder() {
			p := g.Players[seat]
			p.Hand = append(p.Hand, g.Deck.DrawN(HandSize)...)
		}
		g.finishDealing()
		return &DealResult{Completed: true}, nil
	}

	order := g.dealOrder()

	var target int
	switch phase {
	case 1:
		target = Phase1Cards
	case 2:
		if !g.allHandsAtLeast(order, Phase1Cards) {
			return nil, ErrInvalidPhase
		}
		target = HandSize
	default:
		return nil, ErrInvalidPhase
	}

	seat, ok := g.nextDealSeat(order, target)
	if !ok {
		return nil, ErrInvalidPhase
	}
	p := g.Players[seat]

	c, ok := g.Deck.Draw()
	if !ok {
		panic("room " + g.Code + ": deck exhausted during dealing")
	}
	p.Hand = append(p.Hand, c)

	res := &DealResult{PlayerID: p.ID, Card: c}
	if g.allHandsAtLeast(order, HandSize) {
		g.finishDealing()
		res.Completed = true
	}
	return res, nil
}

// nextDealSeat picks the recipient of the next card. Cards go out one at a
// time around the table, so the next card belongs to the first seat in
// dealing order holding the fewest cards, as long as that is still under
// the phase's target. Progress is derived from hand sizes rather than a
// running count so a player leaving mid-deal never skews completion.
func (g *Game) nextDealSeat(order []int, target int) (int, bool) {
	best, min := -1, target
	for _, seat := range order {
		if n := len(g.Players[seat].Hand); n < min {
			best, min = seat, n
		}
	}
	return best, best >= 0
}

func (g *Game) allHandsAtLeast(order []int, n int) bool {
	for _, seat := range order {
		if len(g.Players[seat].Hand) < n {
			return false
		}
	}
	return true
}

// dealOrder returns the active seats in dealing order: the seat after the
// dealer first, wrapping around, dealer last.
func (g *Game) dealOrder() []int {
	var order []int
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		seat := (g.dealerSeat + i) % n
		if g.Players[seat].Active() {
			order = append(order, seat)
		}
	}
	return order
}

func (g *Game) finishDealing() {
	g.Phase = PhasePlaying
	g.Round++
	g.CurrentTrick = nil
	g.CallingSuit = SuitNone
	g.setCurrent(g.nextActiveSeat(g.dealerSeat))
}
