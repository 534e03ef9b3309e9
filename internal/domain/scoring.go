package domain

// trickPoints sums the point values of every card in a trick.
func trickPoints(trick []Play) int {
	total := 0
	for _, p := range trick {
		total += p.Card.PointValue()
	}
	return total
}

// creditTrick assigns the trick's points per the room's rule and returns
// the credited player's id. Under the canonical trailer rule the points go
// to the last player in play order who did not win the trick.
func (g *Game) creditTrick(trick []Play, winnerIdx int) string {
	var id string
	switch g.Rules.PointsTo {
	case PointsToWinner:
		id = trick[winnerIdx].PlayerID
	default:
		for i := len(trick) - 1; i >= 0; i-- {
			if i != winnerIdx {
				id = trick[i].PlayerID
				break
			}
		}
	}
	if p, ok := g.PlayerByID(id); ok {
		p.Points += trickPoints(trick)
		return id
	}
	return ""
}

// applyEliminations removes every player at or over the elimination
// threshold from play. Elimination is immediate and permanent: the
// player's remaining hand is discarded and they are skipped in all later
// rotation. Returns the ids eliminated by this sweep.
func (g *Game) applyEliminations() []string {
	var out []string
	for _, p := range g.Players {
		if p.IsEliminated || p.Points < g.Rules.EliminationThreshold {
			continue
		}
		p.IsEliminated = true
		p.IsCurrent = false
		g.Discard = append(g.Discard, p.Hand...)
		p.Hand = nil
		out = append(out, p.ID)
	}
	return out
}
