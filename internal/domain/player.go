package domain

// Player holds the per-seat state for one participant in a room.
type Player struct {
	ID       string
	Username string
	Avatar   string
	AIKey    string // identity key for AI seats, empty for humans

	Hand   []Card // deal order, never suit-sorted
	Points int

	IsDealer     bool
	IsCurrent    bool
	IsEliminated bool
	IsAI         bool

	// DealerCard is the card drawn during dealer selection, nil before
	// the draw and after resolution.
	DealerCard *Card
}

// Active reports whether the player still participates in turn rotation.
func (p *Player) Active() bool {
	return !p.IsEliminated
}

// HasSuit reports whether the hand contains at least one card of s.
func (p *Player) HasSuit(s Suit) bool {
	for _, c := range p.Hand {
		if c.Suit == s {
			return true
		}
	}
	return false
}

// CardByID finds a card in the hand by identity string.
func (p *Player) CardByID(id string) (Card, bool) {
	for _, c := range p.Hand {
		if c.ID() == id {
			return c, true
		}
	}
	return Card{}, false
}

// RemoveCard takes the identified card out of the hand.
func (p *Player) RemoveCard(id string) (Card, bool) {
	for i, c := range p.Hand {
		if c.ID() == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c, true
		}
	}
	return Card{}, false
}
