package domain

// PlayResult describes everything a single accepted play caused: the play
// itself, trick resolution, eliminations and round/game termination.
type PlayResult struct {
	PlayerID string
	Card     Card

	TrickComplete bool
	TrickWinnerID string
	TrickPoints   int
	// PointsToID is the player the trick's points were credited to, per
	// the room's PointsRule. Empty when the trick is still open.
	PointsToID string

	Eliminated []string

	RoundOver    bool
	GameOver     bool
	GameWinnerID string

	// NextPlayerID leads or follows next; empty when the round or game
	// ended.
	NextPlayerID string
}

// PlayCard validates and applies one play by the current player, resolving
// the trick when every active player has played.
func (g *Game) PlayCard(playerID, cardID string) (*PlayResult, error) {
	if g.Phase != PhasePlaying {
		return nil, ErrInvalidPhase
	}
	p, ok := g.PlayerByID(playerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if p.IsEliminated {
		return nil, ErrPlayerEliminated
	}
	if !p.IsCurrent {
		return nil, ErrNotYourTurn
	}
	c, ok := p.CardByID(cardID)
	if !ok {
		return nil, ErrCardNotOwned
	}
	if g.CallingSuit != SuitNone && c.Suit != g.CallingSuit && p.HasSuit(g.CallingSuit) {
		return nil, ErrMustFollowSuit
	}

	p.RemoveCard(cardID)
	if g.CallingSuit == SuitNone {
		g.CallingSuit = c.Suit
	}
	g.CurrentTrick = append(g.CurrentTrick, Play{PlayerID: playerID, Card: c})

	res := &PlayResult{PlayerID: playerID, Card: c}

	if !g.trickSettled() {
		g.setCurrent(g.nextOwingSeat(g.seatOf(playerID)))
		res.NextPlayerID = g.CurrentPlayer().ID
		return res, nil
	}

	g.resolveTrick(res)
	return res, nil
}

// resolveTrick closes the current trick: picks the winner, credits the
// points, applies eliminations and decides how the round continues.
func (g *Game) resolveTrick(res *PlayResult) {
	trick := g.CurrentTrick
	winnerIdx := trickWinner(trick, g.CallingSuit, g.Rules.TrumpSuit)
	winnerID := trick[winnerIdx].PlayerID

	res.TrickComplete = true
	res.TrickWinnerID = winnerID
	res.TrickPoints = trickPoints(trick)
	res.PointsToID = g.creditTrick(trick, winnerIdx)

	g.TrickHistory = append(g.TrickHistory, trick)
	g.CurrentTrick = nil
	g.CallingSuit = SuitNone

	res.Eliminated = g.applyEliminations()

	if g.activeCount() == 1 {
		g.finishGame()
		res.GameOver = true
		res.GameWinnerID = g.Winner().ID
		return
	}

	if g.handsEmpty() {
		g.Phase = PhaseRoundEnd
		for _, p := range g.Players {
			p.IsCurrent = false
		}
		res.RoundOver = true
		return
	}

	// The trick winner leads the next trick, unless the winner was just
	// eliminated (possible under the winner-takes-points rule).
	winnerSeat := g.seatOf(winnerID)
	if winnerSeat >= 0 && g.Players[winnerSeat].Active() {
		g.setCurrent(winnerSeat)
	} else {
		g.advanceTurn(winnerSeat)
	}
	res.NextPlayerID = g.CurrentPlayer().ID
}

// trickWinner picks the winning play: highest trump if a trump suit is
// configured and present, otherwise the highest rank of the calling suit.
// Off-suit plays can never win.
func trickWinner(trick []Play, calling, trump Suit) int {
	if trump != SuitNone {
		if idx := highestOfSuit(trick, trump); idx >= 0 {
			return idx
		}
	}
	if idx := highestOfSuit(trick, calling); idx >= 0 {
		return idx
	}
	// The leader always plays the calling suit, so this is unreachable.
	return 0
}

func highestOfSuit(trick []Play, s Suit) int {
	best := -1
	for i, play := range trick {
		if play.Card.Suit != s {
			continue
		}
		if best < 0 || play.Card.Rank > trick[best].Card.Rank {
			best = i
		}
	}
	return best
}

func (g *Game) handsEmpty() bool {
	for _, p := range g.Players {
		if p.Active() && len(p.Hand) > 0 {
			return false
		}
	}
	return true
}
