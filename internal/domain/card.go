package domain

// Suit identifies one of the four card suits. SuitNone is the zero value
// and stands for "no calling suit established yet".
type Suit int

const (
	SuitNone Suit = iota
	Spades
	Clubs
	Hearts
	Diamonds
)

// String returns the glyph clients render for the suit.
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Clubs:
		return "♣"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	}
	return ""
}

// ParseSuit maps a suit glyph (or letter alias) back to a Suit.
func ParseSuit(s string) (Suit, bool) {
	switch s {
	case "♠", "S":
		return Spades, true
	case "♣", "C":
		return Clubs, true
	case "♥", "H":
		return Hearts, true
	case "♦", "D":
		return Diamonds, true
	}
	return SuitNone, false
}

// Rank is the face value of a card. Numeric ranks map to themselves;
// comparison order is the numeric value, Ace high.
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// String returns the label clients render for the rank.
func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		return itoa(int(r))
	}
}

func itoa(n int) string {
	if n == 10 {
		return "10"
	}
	return string(rune('0' + n))
}

// Card is an immutable playing-card value. Rank+suit is unique within a
// single 52-card deck, so it doubles as the card's identity.
type Card struct {
	Rank Rank
	Suit Suit
}

// ID returns the card's identity string, e.g. "Q♠".
func (c Card) ID() string {
	return c.Rank.String() + c.Suit.String()
}

// PointValue is the penalty value the card carries when its trick is lost.
// The black three of spades is the heaviest card in the game.
func (c Card) PointValue() int {
	switch {
	case c.Rank == Three && c.Suit == Spades:
		return 12
	case c.Rank == Three:
		return 6
	case c.Rank == Four:
		return 4
	case c.Rank == Ace:
		return 2
	default:
		return 1
	}
}
