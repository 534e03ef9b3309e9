package bot

import (
	"errors"

	"tooza/internal/domain"
)

// ErrNoPlayableCard is returned when a brain is asked to move with an empty
// or fully blocked hand, which the engine should never allow.
var ErrNoPlayableCard = errors.New("no playable card")

// BasicBrain plays rule-legal but unsophisticated Tooza: it follows suit
// with its lowest card, and when void it dumps its most expensive card to
// shed penalty points it can no longer defend.
type BasicBrain struct{}

func (b *BasicBrain) ChooseCard(game *domain.Game, player *domain.Player) (domain.Card, error) {
	if len(player.Hand) == 0 {
		return domain.Card{}, ErrNoPlayableCard
	}

	calling := game.CallingSuit
	if calling != domain.SuitNone && player.HasSuit(calling) {
		return lowestOfSuit(player.Hand, calling), nil
	}
	if calling == domain.SuitNone {
		// Leading: open cheap.
		return lowestCard(player.Hand), nil
	}
	// Void in the calling suit: the card cannot win, so shed the biggest
	// liability.
	return heaviestCard(player.Hand), nil
}

func lowestOfSuit(hand []domain.Card, s domain.Suit) domain.Card {
	var best *domain.Card
	for i, c := range hand {
		if c.Suit != s {
			continue
		}
		if best == nil || c.Rank < best.Rank {
			best = &hand[i]
		}
	}
	return *best
}

func lowestCard(hand []domain.Card) domain.Card {
	best := hand[0]
	for _, c := range hand[1:] {
		if c.Rank < best.Rank {
			best = c
		}
	}
	return best
}

func heaviestCard(hand []domain.Card) domain.Card {
	best := hand[0]
	for _, c := range hand[1:] {
		if c.PointValue() > best.PointValue() ||
			(c.PointValue() == best.PointValue() && c.Rank > best.Rank) {
			best = c
		}
	}
	return best
}
