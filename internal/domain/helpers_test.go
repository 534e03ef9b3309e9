package domain

import (
	"fmt"
	"math/rand"
	"testing"
)

// newTestGame seats n human players p1..pn in a waiting room.
func newTestGame(t *testing.T, n int, rules Rules) *Game {
	t.Helper()
	g := NewGame("TEST", rules)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("p%d", i)
		if err := g.AddPlayer(&Player{ID: id, Username: id}); err != nil {
			t.Fatalf("add player %s: %v", id, err)
		}
	}
	return g
}

// advanceToPlaying drives a started game through dealer selection and an
// automatic deal.
func advanceToPlaying(t *testing.T, g *Game, rng *rand.Rand) {
	t.Helper()
	for _, p := range g.ActivePlayers() {
		if _, err := g.DrawDealerCard(p.ID); err != nil {
			t.Fatalf("dealer draw %s: %v", p.ID, err)
		}
	}
	for {
		res, err := g.ConfirmDealer(rng)
		if err != nil {
			t.Fatalf("confirm dealer: %v", err)
		}
		if res.DealerID != "" {
			break
		}
		for _, id := range res.Tied {
			if _, err := g.DrawDealerCard(id); err != nil {
				t.Fatalf("redraw %s: %v", id, err)
			}
		}
	}
	if _, err := g.DealCard(1); err != nil {
		t.Fatalf("auto deal: %v", err)
	}
}

// giveHands rebuilds every active player's hand: listed players get the
// exact cards given, everyone else redraws from the deck. The 52-card
// invariant keeps holding.
func giveHands(t *testing.T, g *Game, hands map[string][]Card) {
	t.Helper()
	for id := range hands {
		if _, ok := g.PlayerByID(id); !ok {
			t.Fatalf("no player %s", id)
		}
	}
	for _, p := range g.ActivePlayers() {
		g.Deck.Return(p.Hand...)
		p.Hand = nil
	}
	for id, hand := range hands {
		p, _ := g.PlayerByID(id)
		p.Hand = append([]Card(nil), hand...)
		removeFromDeck(t, g.Deck, hand)
	}
	for _, p := range g.ActivePlayers() {
		if _, listed := hands[p.ID]; !listed {
			p.Hand = g.Deck.DrawN(HandSize)
		}
	}
}

func removeFromDeck(t *testing.T, d *Deck, cards []Card) {
	t.Helper()
	for _, c := range cards {
		found := false
		for i, dc := range d.cards {
			if dc == c {
				d.cards = append(d.cards[:i], d.cards[i+1:]...)
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("card %s not available in deck", c.ID())
		}
	}
}

// stackDeck moves the given cards to the top of the deck in order,
// without changing the deck's size.
func stackDeck(t *testing.T, d *Deck, cards ...Card) {
	t.Helper()
	removeFromDeck(t, d, cards)
	d.cards = append(append([]Card(nil), cards...), d.cards...)
}

// mustPlay plays a card and fails the test on rejection.
func mustPlay(t *testing.T, g *Game, playerID string, c Card) *PlayResult {
	t.Helper()
	res, err := g.PlayCard(playerID, c.ID())
	if err != nil {
		t.Fatalf("play %s by %s: %v", c.ID(), playerID, err)
	}
	return res
}
