package domain

import "fmt"

// Phase is the room's top-level state-machine discriminator.
type Phase string

const (
	PhaseWaiting         Phase = "waiting"
	PhaseDealerSelection Phase = "dealerSelection"
	PhaseDealing         Phase = "dealing"
	PhasePlaying         Phase = "playing"
	PhaseRoundEnd        Phase = "roundEnd"
	PhaseGameOver        Phase = "gameOver"
)

// DealMode selects how hands are distributed at the start of a round.
type DealMode string

const (
	DealAuto   DealMode = "auto"
	DealManual DealMode = "manual"
)

// PointsRule selects which player a lost trick's points are credited to.
// The game's client variants disagree on this, so it is a rule flag.
type PointsRule string

const (
	// PointsToTrailer credits the last player in play order who did not
	// win the trick. This is the canonical rule.
	PointsToTrailer PointsRule = "trailer"
	// PointsToWinner credits the trick winner instead.
	PointsToWinner PointsRule = "winner"
)

const (
	// HandSize is the number of cards each player holds after dealing.
	HandSize = 5
	// Phase1Cards and Phase2Cards split a manual deal.
	Phase1Cards = 3
	Phase2Cards = 2
)

// Rules carries the configurable rule flags for a room.
type Rules struct {
	// TrumpSuit, when not SuitNone, wins tricks over the calling suit.
	// The canonical game has no trump.
	TrumpSuit            Suit
	PointsTo             PointsRule
	EliminationThreshold int
	MaxPlayers           int
}

// DefaultRules returns the canonical rule set.
func DefaultRules() Rules {
	return Rules{
		TrumpSuit:            SuitNone,
		PointsTo:             PointsToTrailer,
		EliminationThreshold: 12,
		MaxPlayers:           6,
	}
}

// Play is one card laid into the current trick.
type Play struct {
	PlayerID string
	Card     Card
}

// Game is the authoritative state of one room. It is never shared: all
// mutation happens on the owning room's goroutine.
type Game struct {
	Code    string
	Players []*Player // seat order
	Rules   Rules

	Phase    Phase
	Round    int
	DealMode DealMode

	Deck         *Deck
	CurrentTrick []Play
	CallingSuit  Suit
	TrickHistory [][]Play
	// Discard holds cards out of play that are not in the trick history:
	// hands of eliminated or departed players.
	Discard []Card

	// Dealer draw-off state: which players may still draw in the current
	// draw-off iteration.
	contenders map[string]bool

	dealerSeat int
}

// NewGame creates an empty room in the waiting phase.
func NewGame(code string, rules Rules) *Game {
	if rules.MaxPlayers <= 0 {
		rules = DefaultRules()
	}
	return &Game{
		Code:       code,
		Rules:      rules,
		Phase:      PhaseWaiting,
		dealerSeat: -1,
	}
}

// AddPlayer seats a new player. Players can only join before the game starts.
func (g *Game) AddPlayer(p *Player) error {
	if g.Phase != PhaseWaiting {
		return ErrInvalidPhase
	}
	if len(g.Players) >= g.Rules.MaxPlayers {
		if p.IsAI {
			return ErrCapacityExceeded
		}
		return ErrRoomFull
	}
	g.Players = append(g.Players, p)
	return nil
}

// LeaveResult reports everything a departure caused. When the leaver was
// the only player still owing a card, the departure settles the trick and
// Trick carries the resolution.
type LeaveResult struct {
	GameOver bool
	Trick    *PlayResult
	// NextPlayerID is set when the departure moved the turn.
	NextPlayerID string
}

// RemovePlayer unseats a player in any phase. A player leaving mid-round
// forfeits: their hand moves to the discard pile and the turn passes to
// the next active player who has not played into the open trick. Cards the
// leaver already played stay in the trick.
func (g *Game) RemovePlayer(id string) (*LeaveResult, error) {
	seat := g.seatOf(id)
	if seat < 0 {
		return nil, ErrPlayerNotFound
	}
	p := g.Players[seat]

	wasCurrent := p.IsCurrent
	g.Discard = append(g.Discard, p.Hand...)
	p.Hand = nil
	if p.DealerCard != nil {
		// A mid-draw-off departure returns the drawn card to the deck.
		g.Deck.Return(*p.DealerCard)
		p.DealerCard = nil
	}
	delete(g.contenders, id)

	wasDealer := seat == g.dealerSeat
	g.Players = append(g.Players[:seat], g.Players[seat+1:]...)
	switch {
	case g.dealerSeat < 0:
	case seat < g.dealerSeat:
		g.dealerSeat--
	case wasDealer:
		// Dealer duties pass to the next active seat.
		g.dealerSeat = -1
		if g.activeCount() > 0 {
			g.dealerSeat = g.nextActiveSeat(seat - 1)
		}
	}
	for i, q := range g.Players {
		q.IsDealer = i == g.dealerSeat
	}

	res := &LeaveResult{}
	if g.Phase == PhaseWaiting || g.Phase == PhaseGameOver {
		return res, nil
	}
	if g.activeCount() < 2 {
		g.finishGame()
		res.GameOver = true
		return res, nil
	}
	if g.Phase != PhasePlaying {
		return res, nil
	}
	if len(g.CurrentTrick) > 0 && g.trickSettled() {
		tr := &PlayResult{}
		g.resolveTrick(tr)
		res.Trick = tr
		res.GameOver = tr.GameOver
		res.NextPlayerID = tr.NextPlayerID
		return res, nil
	}
	if wasCurrent {
		g.setCurrent(g.nextOwingSeat(seat - 1))
		res.NextPlayerID = g.CurrentPlayer().ID
	}
	return res, nil
}

// PlayerByID returns the seated player with the given id.
func (g *Game) PlayerByID(id string) (*Player, bool) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// CurrentPlayer returns the player whose turn it is, or nil.
func (g *Game) CurrentPlayer() *Player {
	for _, p := range g.Players {
		if p.IsCurrent {
			return p
		}
	}
	return nil
}

// DealerPlayer returns the current dealer, or nil before one is chosen.
func (g *Game) DealerPlayer() *Player {
	if g.dealerSeat < 0 || g.dealerSeat >= len(g.Players) {
		return nil
	}
	return g.Players[g.dealerSeat]
}

// ActivePlayers returns the non-eliminated players in seat order.
func (g *Game) ActivePlayers() []*Player {
	out := make([]*Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.Active() {
			out = append(out, p)
		}
	}
	return out
}

func (g *Game) activeCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Active() {
			n++
		}
	}
	return n
}

func (g *Game) seatOf(id string) int {
	for i, p := range g.Players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// nextActiveSeat returns the first seat after from (wrapping) whose player
// is still active. It panics when no player is active; callers guarantee
// at least one.
func (g *Game) nextActiveSeat(from int) int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		seat := ((from+i)%n + n) % n
		if g.Players[seat].Active() {
			return seat
		}
	}
	panic(fmt.Sprintf("room %s: no active players", g.Code))
}

// setCurrent makes seat the sole current player.
func (g *Game) setCurrent(seat int) {
	for i, p := range g.Players {
		p.IsCurrent = i == seat
	}
}

// advanceTurn passes the turn to the next active seat after from.
func (g *Game) advanceTurn(from int) {
	g.setCurrent(g.nextActiveSeat(from))
}

// playedInTrick reports whether id has a card in the open trick.
func (g *Game) playedInTrick(id string) bool {
	for _, pl := range g.CurrentTrick {
		if pl.PlayerID == id {
			return true
		}
	}
	return false
}

// trickSettled reports whether every active player has played into the
// open trick. Plays by departed players still count toward the trick but
// not toward who owes a card.
func (g *Game) trickSettled() bool {
	for _, p := range g.Players {
		if p.Active() && !g.playedInTrick(p.ID) {
			return false
		}
	}
	return true
}

// nextOwingSeat returns the next active seat after from whose player has
// not played into the open trick, falling back to the next active seat
// when everyone has.
func (g *Game) nextOwingSeat(from int) int {
	n := len(g.Players)
	for i := 1; i <= n; i++ {
		seat := ((from+i)%n + n) % n
		p := g.Players[seat]
		if p.Active() && !g.playedInTrick(p.ID) {
			return seat
		}
	}
	return g.nextActiveSeat(from)
}

func (g *Game) finishGame() {
	g.Phase = PhaseGameOver
	for _, p := range g.Players {
		p.IsCurrent = false
	}
}

// Winner returns the last active player once the game is over.
func (g *Game) Winner() *Player {
	if g.Phase != PhaseGameOver {
		return nil
	}
	for _, p := range g.Players {
		if p.Active() {
			return p
		}
	}
	return nil
}

// CountCards tallies every card the room can account for: deck, hands,
// drawn dealer cards, the current trick, archived tricks and the discard
// pile. While a round is live this must equal the full deck size.
func (g *Game) CountCards() int {
	n := 0
	if g.Deck != nil {
		n = g.Deck.Len()
	}
	for _, p := range g.Players {
		n += len(p.Hand)
		if p.DealerCard != nil {
			n++
		}
	}
	n += len(g.CurrentTrick)
	for _, t := range g.TrickHistory {
		n += len(t)
	}
	n += len(g.Discard)
	return n
}

// AssertConservation panics when the 52-card invariant is violated. A
// violation is a programming defect, not a user-facing error; the room
// orchestrator recovers the panic and retires the room.
func (g *Game) AssertConservation() {
	if g.Deck == nil {
		return // no round in progress
	}
	if n := g.CountCards(); n != 52 {
		panic(fmt.Sprintf("room %s: card conservation violated: %d cards accounted for", g.Code, n))
	}
}
