package domain

import (
	"math/rand"
	"testing"
)

// Scenario: four players, automatic deal. Every player ends with five
// cards and the deck keeps the remaining 32.
func TestAutoDealFourPlayers(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	g := newTestGame(t, 4, DefaultRules())
	if err := g.StartGame(DealAuto, rng); err != nil {
		t.Fatal(err)
	}
	advanceToPlaying(t, g, rng)

	for _, p := range g.Players {
		if len(p.Hand) != HandSize {
			t.Fatalf("%s hand = %d cards, want %d", p.ID, len(p.Hand), HandSize)
		}
	}
	if g.Deck.Len() != 32 {
		t.Fatalf("deck = %d cards, want 32", g.Deck.Len())
	}
	if g.Phase != PhasePlaying {
		t.Fatalf("phase = %s, want playing", g.Phase)
	}
	if g.Round != 1 {
		t.Fatalf("round = %d, want 1", g.Round)
	}
	g.AssertConservation()
}

// Scenario: the first to act after dealing is the seat after the dealer.
func TestFirstTurnIsSeatAfterDealer(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := newTestGame(t, 3, DefaultRules())
	if err := g.StartGame(DealAuto, rng); err != nil {
		t.Fatal(err)
	}
	stackDeck(t, g.Deck,
		Card{Rank: Ace, Suit: Spades}, // p1 becomes dealer
		Card{Rank: Six, Suit: Hearts},
		Card{Rank: Seven, Suit: Clubs},
	)
	advanceToPlaying(t, g, rng)

	cur := g.CurrentPlayer()
	if cur == nil || cur.ID != "p2" {
		t.Fatalf("current = %v, want p2 (seat after dealer p1)", cur)
	}
}

func TestManualDealPhases(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	g := newTestGame(t, 3, DefaultRules())
	if err := g.StartGame(DealManual, rng); err != nil {
		t.Fatal(err)
	}
	for _, p := range g.ActivePlayers() {
		if _, err := g.DrawDealerCard(p.ID); err != nil {
			t.Fatal(err)
		}
	}
	for {
		res, err := g.ConfirmDealer(rng)
		if err != nil {
			t.Fatal(err)
		}
		if res.DealerID != "" {
			break
		}
		for _, id := range res.Tied {
			g.DrawDealerCard(id)
		}
	}

	// Scenario: phase 2 before phase 1 completes is rejected.
	if _, err := g.DealCard(2); err != ErrInvalidPhase {
		t.Fatalf("early phase-2 deal: %v, want ErrInvalidPhase", err)
	}

	// Phase 1: three cards each, one command per card.
	for i := 0; i < Phase1Cards*3; i++ {
		res, err := g.DealCard(1)
		if err != nil {
			t.Fatalf("phase-1 deal %d: %v", i, err)
		}
		if res.Completed {
			t.Fatal("deal completed during phase 1")
		}
	}
	if _, err := g.DealCard(1); err != ErrInvalidPhase {
		t.Fatalf("extra phase-1 deal: %v, want ErrInvalidPhase", err)
	}
	for _, p := range g.Players {
		if len(p.Hand) != Phase1Cards {
			t.Fatalf("%s hand after phase 1 = %d, want %d", p.ID, len(p.Hand), Phase1Cards)
		}
	}

	// Phase 2: two more each; the last deal flips the room to playing.
	for i := 0; i < Phase2Cards*3; i++ {
		res, err := g.DealCard(2)
		if err != nil {
			t.Fatalf("phase-2 deal %d: %v", i, err)
		}
		if i == Phase2Cards*3-1 && !res.Completed {
			t.Fatal("final deal did not complete dealing")
		}
	}
	if g.Phase != PhasePlaying {
		t.Fatalf("phase = %s, want playing", g.Phase)
	}
	for _, p := range g.Players {
		if len(p.Hand) != HandSize {
			t.Fatalf("%s hand = %d, want %d", p.ID, len(p.Hand), HandSize)
		}
	}
	// Dealing past five per player is impossible: phase is playing now.
	if _, err := g.DealCard(2); err != ErrInvalidPhase {
		t.Fatalf("deal after completion: %v, want ErrInvalidPhase", err)
	}
	g.AssertConservation()
}

func TestManualDealOrderStartsAfterDealer(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	g := newTestGame(t, 3, DefaultRules())
	if err := g.StartGame(DealManual, rng); err != nil {
		t.Fatal(err)
	}
	stackDeck(t, g.Deck,
		Card{Rank: Ace, Suit: Spades}, // p1 dealer
		Card{Rank: Six, Suit: Hearts},
		Card{Rank: Seven, Suit: Clubs},
	)
	for _, id := range []string{"p1", "p2", "p3"} {
		g.DrawDealerCard(id)
	}
	if _, err := g.ConfirmDealer(rng); err != nil {
		t.Fatal(err)
	}

	res, err := g.DealCard(1)
	if err != nil {
		t.Fatal(err)
	}
	if res.PlayerID != "p2" {
		t.Fatalf("first card dealt to %s, want p2", res.PlayerID)
	}
	res, _ = g.DealCard(1)
	if res.PlayerID != "p3" {
		t.Fatalf("second card dealt to %s, want p3", res.PlayerID)
	}
	res, _ = g.DealCard(1)
	if res.PlayerID != "p1" {
		t.Fatalf("third card dealt to %s, want p1 (dealer last)", res.PlayerID)
	}
}
