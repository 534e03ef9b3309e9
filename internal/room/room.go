package room

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"tooza/internal/app"
	"tooza/internal/bot"
	"tooza/internal/domain"
	"tooza/internal/logx"
)

// ErrRoomClosed is returned for commands issued against a room that has
// shut down or died.
var ErrRoomClosed = errors.New("room closed")

// Options carries the per-room knobs the server configures.
type Options struct {
	Rules       domain.Rules
	TurnTimeout time.Duration // 0 disables the force-play timer
	BotMinDelay time.Duration
	BotMaxDelay time.Duration
}

// Message is the wire envelope the room emits to subscribers.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Room is a per-room actor: one goroutine owns the game and processes
// commands strictly in order. Subscribers receive marshaled envelopes;
// a slow subscriber gets messages dropped, never blocks the room.
type Room struct {
	Code string

	svc  *app.Service
	game *domain.Game
	opts Options
	rng  *rand.Rand

	cmds chan command
	done chan struct{}
	stop sync.Once

	// subMu guards subs; subscription changes come from port goroutines.
	subMu sync.Mutex
	subs  map[string]chan []byte

	// Everything below is owned by the room goroutine.
	agents   map[string]*bot.Agent
	seq      uint64
	aiTimer  *time.Timer
	turnTime *time.Timer

	// onDead is called once when the room dies or closes, for deregistration.
	onDead func(code string)
}

// New creates a room actor. Call Run on its own goroutine to serve it.
func New(code string, opts Options, onDead func(string)) *Room {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Room{
		Code:   code,
		svc:    app.NewService(rng),
		game:   domain.NewGame(code, opts.Rules),
		opts:   opts,
		rng:    rng,
		cmds:   make(chan command, 64),
		done:   make(chan struct{}),
		subs:   make(map[string]chan []byte),
		agents: make(map[string]*bot.Agent),
		onDead: onDead,
	}
}

// Run serves the command queue until Close. A panic while handling a
// command is a defect in the engine, not recoverable room state: the room
// is marked dead and subscribers are told.
func (r *Room) Run() {
	defer func() {
		if p := recover(); p != nil {
			logx.Error("room %s died: %v", r.Code, p)
			r.broadcastRaw(Message{Type: "room-error", Payload: map[string]string{
				"message": "internal room failure",
			}})
		}
		r.shutdown()
	}()

	for {
		select {
		case cmd := <-r.cmds:
			r.handle(cmd)
		case <-r.done:
			return
		}
	}
}

// Close shuts the room down. Idempotent.
func (r *Room) Close() {
	r.stop.Do(func() { close(r.done) })
}

func (r *Room) shutdown() {
	r.Close()
	r.stopTimers()

	r.subMu.Lock()
	for id, ch := range r.subs {
		close(ch)
		delete(r.subs, id)
	}
	r.subMu.Unlock()

	if r.onDead != nil {
		r.onDead(r.Code)
	}
}

// Subscribe registers an outbound channel for a player. The returned
// cancel is safe to call more than once.
func (r *Room) Subscribe(playerID string) (<-chan []byte, func()) {
	ch := make(chan []byte, 32)
	r.subMu.Lock()
	select {
	case <-r.done:
		r.subMu.Unlock()
		close(ch)
		return ch, func() {}
	default:
	}
	if old, ok := r.subs[playerID]; ok {
		close(old)
	}
	r.subs[playerID] = ch
	r.subMu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			r.subMu.Lock()
			if cur, ok := r.subs[playerID]; ok && cur == ch {
				delete(r.subs, playerID)
				close(ch)
			}
			r.subMu.Unlock()
		})
	}
	return ch, cancel
}

func (r *Room) do(ctx context.Context, cmd command) error {
	cmd.reply = make(chan error, 1)
	select {
	case r.cmds <- cmd:
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-r.done:
		return ErrRoomClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Join seats a human player.
func (r *Room) Join(ctx context.Context, p *domain.Player) error {
	return r.do(ctx, command{kind: cmdJoin, actorID: p.ID, player: p})
}

// Leave unseats a player, human or AI.
func (r *Room) Leave(ctx context.Context, playerID string) error {
	return r.do(ctx, command{kind: cmdLeave, actorID: playerID})
}

// ManageAI adds or removes an AI seat by roster key.
func (r *Room) ManageAI(ctx context.Context, actorID, aiKey string, add bool) error {
	return r.do(ctx, command{kind: cmdManageAI, actorID: actorID, aiKey: aiKey, addAI: add})
}

// StartGame begins the game in the given deal mode.
func (r *Room) StartGame(ctx context.Context, actorID string, mode domain.DealMode) error {
	return r.do(ctx, command{kind: cmdStartGame, actorID: actorID, mode: mode})
}

// DrawDealerCard draws the actor's dealer-selection card.
func (r *Room) DrawDealerCard(ctx context.Context, actorID string) error {
	return r.do(ctx, command{kind: cmdDrawDealerCard, actorID: actorID})
}

// ConfirmDealer resolves the dealer draw-off.
func (r *Room) ConfirmDealer(ctx context.Context, actorID string) error {
	return r.do(ctx, command{kind: cmdConfirmDealer, actorID: actorID})
}

// DealCard deals, issued by the dealer. Phase is 1 or 2 in manual mode and
// ignored in auto mode.
func (r *Room) DealCard(ctx context.Context, actorID string, phase int) error {
	return r.do(ctx, command{kind: cmdDealCard, actorID: actorID, phase: phase})
}

// PlayCard plays a card for the actor.
func (r *Room) PlayCard(ctx context.Context, actorID, cardID string) error {
	return r.do(ctx, command{kind: cmdPlayCard, actorID: actorID, cardID: cardID})
}

// StateFor returns the recipient's redacted snapshot as a marshaled
// game-state envelope. It fails for players not seated in the room.
func (r *Room) StateFor(ctx context.Context, playerID string) ([]byte, error) {
	snap := make(chan []byte, 1)
	if err := r.do(ctx, command{kind: cmdSnapshot, actorID: playerID, snap: snap}); err != nil {
		return nil, err
	}
	return <-snap, nil
}

// StartRound starts the next round from roundEnd.
func (r *Room) StartRound(ctx context.Context, actorID string, newDealerSelection bool) error {
	return r.do(ctx, command{kind: cmdStartRound, actorID: actorID, newDealerSelection: newDealerSelection})
}

func (r *Room) handle(cmd command) {
	var (
		events []app.Event
		err    error
	)

	switch cmd.kind {
	case cmdJoin:
		events, err = r.svc.Join(r.game, cmd.player)
	case cmdLeave:
		events, err = r.leave(cmd.actorID)
	case cmdManageAI:
		events, err = r.manageAI(cmd.aiKey, cmd.addAI)
	case cmdStartGame:
		events, err = r.svc.StartGame(r.game, cmd.mode)
	case cmdDrawDealerCard:
		events, err = r.svc.DrawDealerCard(r.game, cmd.actorID)
	case cmdConfirmDealer:
		events, err = r.svc.ConfirmDealer(r.game)
	case cmdDealCard:
		events, err = r.svc.DealCard(r.game, cmd.actorID, cmd.phase)
	case cmdPlayCard:
		events, err = r.svc.PlayCard(r.game, cmd.actorID, cmd.cardID)
	case cmdStartRound:
		events, err = r.svc.StartRound(r.game, cmd.newDealerSelection)
	case cmdSnapshot:
		if _, ok := r.game.PlayerByID(cmd.actorID); !ok {
			if cmd.reply != nil {
				cmd.reply <- domain.ErrPlayerNotFound
			}
			return
		}
		data, merr := json.Marshal(Message{
			Type:    "game-state",
			Payload: app.Snapshot(r.game).RedactFor(cmd.actorID),
		})
		if merr == nil && cmd.snap != nil {
			cmd.snap <- data
		}
		if cmd.reply != nil {
			cmd.reply <- merr
		}
		return
	case cmdAutoAct:
		if cmd.seq != r.seq {
			return // the room moved on since this was scheduled
		}
		events, err = r.autoAct()
		if err != nil {
			logx.Warn("room %s: auto action failed: %v", r.Code, err)
			events, err = r.fallbackPlay()
		}
		if err != nil || events == nil {
			if err != nil {
				logx.Warn("room %s: fallback play failed: %v", r.Code, err)
			}
			// Re-arm the timers so a failed auto action never stalls the
			// room: without this an all-AI table would wait forever.
			r.scheduleNext()
			return
		}
	case cmdForcePlay:
		if cmd.seq != r.seq {
			return
		}
		events, err = r.forcePlay()
		if err != nil {
			logx.Warn("room %s: force play failed: %v", r.Code, err)
			r.scheduleNext()
			return
		}
		if events == nil {
			return
		}
	default:
		err = errors.New("unknown command")
	}

	if err != nil {
		// Rejected commands mutate nothing; only the issuer hears about it.
		if cmd.reply != nil {
			cmd.reply <- err
		}
		return
	}

	r.game.AssertConservation()
	r.seq++
	if cmd.reply != nil {
		cmd.reply <- nil
	}
	r.publish(events)
	r.scheduleNext()
}

func (r *Room) leave(playerID string) ([]app.Event, error) {
	events, err := r.svc.Leave(r.game, playerID)
	if err != nil {
		return nil, err
	}
	delete(r.agents, playerID)
	return events, nil
}

func (r *Room) manageAI(aiKey string, add bool) ([]app.Event, error) {
	if !add {
		for _, p := range r.game.Players {
			if p.IsAI && p.AIKey == aiKey {
				return r.leave(p.ID)
			}
		}
		return nil, domain.ErrPlayerNotFound
	}

	identity, ok := bot.GetIdentity(aiKey)
	if !ok {
		identity = bot.GetIdentityByIndex(len(r.agents))
		identity.Key = aiKey
		identity.Name = aiKey
	}
	p := &domain.Player{
		ID:       uuid.NewString(),
		Username: identity.Name,
		Avatar:   identity.Avatar,
		AIKey:    aiKey,
		IsAI:     true,
	}
	events, err := r.svc.Join(r.game, p)
	if err != nil {
		return nil, err
	}
	r.agents[p.ID] = bot.NewAgent(p.ID, identity)
	return events, nil
}

// autoAct performs the one action the room owes on behalf of its AI seats
// in the current state. A nil, nil return means nothing was due.
func (r *Room) autoAct() ([]app.Event, error) {
	g := r.game
	switch g.Phase {
	case domain.PhaseDealerSelection:
		for _, p := range g.DealerContenders() {
			if p.IsAI {
				return r.svc.DrawDealerCard(g, p.ID)
			}
		}
		if g.AllDealerCardsDrawn() {
			return r.svc.ConfirmDealer(g)
		}
	case domain.PhaseDealing:
		dealer := g.DealerPlayer()
		if dealer != nil && dealer.IsAI {
			return r.svc.DealCard(g, dealer.ID, r.dealPhase())
		}
	case domain.PhasePlaying:
		cur := g.CurrentPlayer()
		if cur == nil || !cur.IsAI {
			return nil, nil
		}
		agent, ok := r.agents[cur.ID]
		if !ok {
			agent = bot.NewAgent(cur.ID, bot.BotIdentity{})
			r.agents[cur.ID] = agent
		}
		c, err := agent.ChooseCard(g)
		if err != nil {
			return nil, err
		}
		return r.svc.PlayCard(g, cur.ID, c.ID())
	case domain.PhaseRoundEnd:
		dealer := g.DealerPlayer()
		if dealer != nil && dealer.IsAI {
			return r.svc.StartRound(g, false)
		}
	}
	return nil, nil
}

// dealPhase infers the manual-deal phase from hand sizes: everyone gets
// their first three cards before anyone sees the last two.
func (r *Room) dealPhase() int {
	for _, p := range r.game.ActivePlayers() {
		if len(p.Hand) < domain.Phase1Cards {
			return 1
		}
	}
	return 2
}

// fallbackPlay plays the current AI player's lowest legal card when its
// strategy failed, so the table keeps moving.
func (r *Room) fallbackPlay() ([]app.Event, error) {
	g := r.game
	if g.Phase != domain.PhasePlaying {
		return nil, nil
	}
	cur := g.CurrentPlayer()
	if cur == nil || !cur.IsAI || len(cur.Hand) == 0 {
		return nil, nil
	}
	c, err := (&bot.BasicBrain{}).ChooseCard(g, cur)
	if err != nil {
		return nil, err
	}
	return r.svc.PlayCard(g, cur.ID, c.ID())
}

// forcePlay plays the current human player's lowest legal card after the
// turn timeout expired.
func (r *Room) forcePlay() ([]app.Event, error) {
	g := r.game
	if g.Phase != domain.PhasePlaying {
		return nil, nil
	}
	cur := g.CurrentPlayer()
	if cur == nil || cur.IsAI || len(cur.Hand) == 0 {
		return nil, nil
	}
	c, err := (&bot.BasicBrain{}).ChooseCard(g, cur)
	if err != nil {
		return nil, err
	}
	logx.Info("room %s: turn timeout, playing %s for %s", r.Code, c.ID(), cur.ID)
	return r.svc.PlayCard(g, cur.ID, c.ID())
}

// scheduleNext arms the deferred-command timers for the new state: an AI
// think delay when the room owes an AI action, a force-play timer when a
// human is on the clock.
func (r *Room) scheduleNext() {
	r.stopTimers()
	g := r.game
	seq := r.seq

	if r.aiActionDue() {
		delay := r.thinkDelay()
		r.aiTimer = time.AfterFunc(delay, func() {
			r.enqueue(command{kind: cmdAutoAct, seq: seq})
		})
		return
	}

	if g.Phase == domain.PhasePlaying && r.opts.TurnTimeout > 0 {
		if cur := g.CurrentPlayer(); cur != nil && !cur.IsAI {
			r.turnTime = time.AfterFunc(r.opts.TurnTimeout, func() {
				r.enqueue(command{kind: cmdForcePlay, seq: seq})
			})
		}
	}
}

func (r *Room) aiActionDue() bool {
	g := r.game
	switch g.Phase {
	case domain.PhaseDealerSelection:
		for _, p := range g.DealerContenders() {
			if p.IsAI {
				return true
			}
		}
		return g.AllDealerCardsDrawn()
	case domain.PhaseDealing:
		d := g.DealerPlayer()
		return d != nil && d.IsAI
	case domain.PhasePlaying:
		cur := g.CurrentPlayer()
		return cur != nil && cur.IsAI
	case domain.PhaseRoundEnd:
		d := g.DealerPlayer()
		return d != nil && d.IsAI
	}
	return false
}

func (r *Room) thinkDelay() time.Duration {
	min, max := r.opts.BotMinDelay, r.opts.BotMaxDelay
	if max <= min {
		return min
	}
	return min + time.Duration(r.rng.Int63n(int64(max-min)))
}

func (r *Room) stopTimers() {
	if r.aiTimer != nil {
		r.aiTimer.Stop()
		r.aiTimer = nil
	}
	if r.turnTime != nil {
		r.turnTime.Stop()
		r.turnTime = nil
	}
}

func (r *Room) enqueue(cmd command) {
	select {
	case r.cmds <- cmd:
	case <-r.done:
	}
}

// publish fans the command's events out to subscribers, then sends every
// subscriber their redacted snapshot.
func (r *Room) publish(events []app.Event) {
	for _, ev := range events {
		msg := Message{Type: string(ev.Kind), Payload: ev.Payload}
		if len(ev.Recipients) == 0 {
			r.broadcastRaw(msg)
			continue
		}
		for _, id := range ev.Recipients {
			r.sendTo(id, msg)
		}
	}

	st := app.Snapshot(r.game)
	r.subMu.Lock()
	for id, ch := range r.subs {
		data, err := json.Marshal(Message{Type: "game-state", Payload: st.RedactFor(id)})
		if err != nil {
			logx.Error("room %s: marshal snapshot: %v", r.Code, err)
			continue
		}
		deliver(ch, data)
	}
	r.subMu.Unlock()
}

func (r *Room) broadcastRaw(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logx.Error("room %s: marshal %s: %v", r.Code, msg.Type, err)
		return
	}
	r.subMu.Lock()
	for _, ch := range r.subs {
		deliver(ch, data)
	}
	r.subMu.Unlock()
}

func (r *Room) sendTo(playerID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logx.Error("room %s: marshal %s: %v", r.Code, msg.Type, err)
		return
	}
	r.subMu.Lock()
	if ch, ok := r.subs[playerID]; ok {
		deliver(ch, data)
	}
	r.subMu.Unlock()
}

// deliver drops the message when the subscriber's buffer is full. The next
// snapshot will catch them up.
func deliver(ch chan []byte, data []byte) {
	select {
	case ch <- data:
	default:
	}
}
