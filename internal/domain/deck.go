package domain

import "math/rand"

// Deck is an ordered pile of cards, consumed from the front. A deck is
// owned by exactly one room while a round is active.
type Deck struct {
	cards []Card
}

// NewDeck returns the full 52-card deck in canonical order.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for s := Spades; s <= Diamonds; s++ {
		for r := Two; r <= Ace; r++ {
			cards = append(cards, Card{Rank: r, Suit: s})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle permutes the deck in place with the given source of randomness.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Draw removes and returns the top card. ok is false when the deck is empty.
func (d *Deck) Draw() (c Card, ok bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c = d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

// DrawN removes and returns up to n cards from the top.
func (d *Deck) DrawN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	out := append([]Card(nil), d.cards[:n]...)
	d.cards = d.cards[n:]
	return out
}

// Return puts cards back at the bottom of the deck.
func (d *Deck) Return(cards ...Card) {
	d.cards = append(d.cards, cards...)
}

// Len reports the number of cards remaining.
func (d *Deck) Len() int {
	return len(d.cards)
}
