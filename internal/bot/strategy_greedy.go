package bot

import "tooza/internal/domain"

// GreedyBrain tries to take every trick it can: it beats the current best
// card of the calling suit when possible, and otherwise falls back to the
// basic shedding play.
type GreedyBrain struct {
	fallback BasicBrain
}

func (b *GreedyBrain) ChooseCard(game *domain.Game, player *domain.Player) (domain.Card, error) {
	if len(player.Hand) == 0 {
		return domain.Card{}, ErrNoPlayableCard
	}

	calling := game.CallingSuit
	if calling == domain.SuitNone {
		// Lead with the strongest card to stay in control.
		return highestCard(player.Hand), nil
	}
	if !player.HasSuit(calling) {
		return b.fallback.ChooseCard(game, player)
	}

	best := bestInTrick(game.CurrentTrick, calling)
	var winner *domain.Card
	for i, c := range player.Hand {
		if c.Suit != calling || c.Rank <= best {
			continue
		}
		// Cheapest card that still wins.
		if winner == nil || c.Rank < winner.Rank {
			winner = &player.Hand[i]
		}
	}
	if winner != nil {
		return *winner, nil
	}
	return lowestOfSuit(player.Hand, calling), nil
}

func bestInTrick(trick []domain.Play, calling domain.Suit) domain.Rank {
	best := domain.Rank(0)
	for _, play := range trick {
		if play.Card.Suit == calling && play.Card.Rank > best {
			best = play.Card.Rank
		}
	}
	return best
}

func highestCard(hand []domain.Card) domain.Card {
	best := hand[0]
	for _, c := range hand[1:] {
		if c.Rank > best.Rank {
			best = c
		}
	}
	return best
}
