package room

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"tooza/internal/app"
	"tooza/internal/bot"
	"tooza/internal/domain"
)

func testOptions() Options {
	return Options{
		Rules:       domain.DefaultRules(),
		TurnTimeout: 0,
		BotMinDelay: 0,
		BotMaxDelay: 0,
	}
}

func decodeState(t *testing.T, data []byte) (string, *app.GameState) {
	t.Helper()
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("bad envelope: %v", err)
	}
	if msg.Type != "game-state" {
		return msg.Type, nil
	}
	var st app.GameState
	if err := json.Unmarshal(msg.Payload, &st); err != nil {
		t.Fatalf("bad snapshot: %v", err)
	}
	return msg.Type, &st
}

func playerView(st *app.GameState, id string) *app.PlayerView {
	for i := range st.Players {
		if st.Players[i].ID == id {
			return &st.Players[i]
		}
	}
	return nil
}

func TestCreateRoomSeatsHostAndAI(t *testing.T) {
	m := NewManager(testOptions())
	defer m.Close()

	ctx := context.Background()
	code, hostID, err := m.CreateRoom(ctx, "ada", "🙂", []string{"bola", "chike"})
	if err != nil {
		t.Fatal(err)
	}
	if len(code) != codeLength {
		t.Fatalf("code = %q", code)
	}

	r, ok := m.Get(code)
	if !ok {
		t.Fatal("room not registered")
	}
	sub, cancel := r.Subscribe(hostID)
	defer cancel()

	// Any accepted command triggers a snapshot; use a join to fetch one.
	if _, err := m.JoinRoom(ctx, code, "obi", ""); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case data := <-sub:
			kind, st := decodeState(t, data)
			if kind != "game-state" {
				continue
			}
			if len(st.Players) == 4 {
				ais := 0
				for _, p := range st.Players {
					if p.IsAI {
						ais++
					}
				}
				if ais != 2 {
					t.Fatalf("AI seats = %d, want 2", ais)
				}
				return
			}
		case <-deadline:
			t.Fatal("no snapshot with all four seats")
		}
	}
}

func TestCapacityLimits(t *testing.T) {
	m := NewManager(testOptions())
	defer m.Close()

	ctx := context.Background()
	code, hostID, err := m.CreateRoom(ctx, "host", "", []string{"a1", "a2", "a3", "a4", "a5"})
	if err != nil {
		t.Fatal(err)
	}
	r, _ := m.Get(code)

	if err := r.ManageAI(ctx, hostID, "a6", true); !errors.Is(err, domain.ErrCapacityExceeded) {
		t.Fatalf("seventh AI err = %v, want ErrCapacityExceeded", err)
	}
	if _, err := m.JoinRoom(ctx, code, "late", ""); !errors.Is(err, domain.ErrRoomFull) {
		t.Fatalf("seventh human err = %v, want ErrRoomFull", err)
	}
	if err := r.ManageAI(ctx, hostID, "a5", false); err != nil {
		t.Fatalf("remove AI: %v", err)
	}
	if _, err := m.JoinRoom(ctx, code, "late", ""); err != nil {
		t.Fatalf("join after AI removal: %v", err)
	}
}

func TestRejectedCommandReachesIssuerOnly(t *testing.T) {
	m := NewManager(testOptions())
	defer m.Close()

	ctx := context.Background()
	code, hostID, err := m.CreateRoom(ctx, "solo", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := m.Get(code)
	sub, cancel := r.Subscribe(hostID)
	defer cancel()

	if err := r.StartGame(ctx, hostID, domain.DealAuto); !errors.Is(err, domain.ErrTooFewPlayers) {
		t.Fatalf("start err = %v, want ErrTooFewPlayers", err)
	}

	// A rejected command must not produce a snapshot.
	select {
	case data := <-sub:
		t.Fatalf("unexpected broadcast after rejection: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestUnknownRoom(t *testing.T) {
	m := NewManager(testOptions())
	defer m.Close()
	if _, err := m.JoinRoom(context.Background(), "ZZZZ", "x", ""); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("err = %v, want ErrRoomNotFound", err)
	}
}

// TestGameReachesPlayingWithAIs drives a room of one human and two AIs
// through dealer selection into the playing phase. The human performs
// their own draw; the AIs and the confirm step run on room timers.
func TestGameReachesPlayingWithAIs(t *testing.T) {
	m := NewManager(testOptions())
	defer m.Close()

	ctx := context.Background()
	code, hostID, err := m.CreateRoom(ctx, "human", "", []string{"ada", "bola"})
	if err != nil {
		t.Fatal(err)
	}
	r, _ := m.Get(code)
	sub, cancel := r.Subscribe(hostID)
	defer cancel()

	if err := r.StartGame(ctx, hostID, domain.DealAuto); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case data, ok := <-sub:
			if !ok {
				t.Fatal("subscription closed")
			}
			kind, st := decodeState(t, data)
			if kind != "game-state" {
				continue
			}
			me := playerView(st, hostID)
			if me == nil {
				t.Fatal("host missing from snapshot")
			}

			switch st.Phase {
			case domain.PhaseDealerSelection:
				if me.DealerCard == nil {
					// Re-draws after a tie come back through here too.
					err := r.DrawDealerCard(ctx, hostID)
					if err != nil && !errors.Is(err, domain.ErrAlreadyDrawn) &&
						!errors.Is(err, domain.ErrInvalidPhase) {
						t.Fatalf("draw: %v", err)
					}
				}
			case domain.PhaseDealing:
				if me.IsDealer {
					err := r.DealCard(ctx, hostID, 1)
					if err != nil && !errors.Is(err, domain.ErrInvalidPhase) {
						t.Fatalf("deal: %v", err)
					}
				}
			case domain.PhasePlaying:
				if me.CardCount != domain.HandSize {
					t.Fatalf("host cards = %d, want %d", me.CardCount, domain.HandSize)
				}
				for _, p := range st.Players {
					if p.ID != hostID && p.Cards != nil {
						t.Fatalf("%s's hand visible to host", p.ID)
					}
				}
				return
			}
		case <-deadline:
			t.Fatal("game never reached playing")
		}
	}
}

func TestTurnTimeoutForcesPlay(t *testing.T) {
	opts := testOptions()
	opts.TurnTimeout = 50 * time.Millisecond
	m := NewManager(opts)
	defer m.Close()

	ctx := context.Background()
	code, hostID, err := m.CreateRoom(ctx, "afk", "", []string{"ada", "bola"})
	if err != nil {
		t.Fatal(err)
	}
	r, _ := m.Get(code)
	sub, cancel := r.Subscribe(hostID)
	defer cancel()

	if err := r.StartGame(ctx, hostID, domain.DealAuto); err != nil {
		t.Fatal(err)
	}

	// The host never plays; their dealer draw is the only act they take.
	deadline := time.After(10 * time.Second)
	for {
		select {
		case data, ok := <-sub:
			if !ok {
				t.Fatal("subscription closed")
			}
			kind, st := decodeState(t, data)
			if kind != "game-state" {
				continue
			}
			me := playerView(st, hostID)
			if me == nil {
				return // host eliminated and gone is not expected, but done
			}
			switch st.Phase {
			case domain.PhaseDealerSelection:
				if me.DealerCard == nil {
					err := r.DrawDealerCard(ctx, hostID)
					if err != nil && !errors.Is(err, domain.ErrAlreadyDrawn) &&
						!errors.Is(err, domain.ErrInvalidPhase) {
						t.Fatalf("draw: %v", err)
					}
				}
			case domain.PhaseDealing:
				if me.IsDealer {
					err := r.DealCard(ctx, hostID, 1)
					if err != nil && !errors.Is(err, domain.ErrInvalidPhase) {
						t.Fatalf("deal: %v", err)
					}
				}
			case domain.PhasePlaying:
				if me.CardCount < domain.HandSize {
					return // a card was force-played for the idle host
				}
			}
		case <-deadline:
			t.Fatal("turn timeout never forced a play")
		}
	}
}

// TestLeaveDuringPlayContinues drives a table of one human and three AIs
// into the playing phase, then the human walks out. The AIs must keep
// playing tricks among themselves.
func TestLeaveDuringPlayContinues(t *testing.T) {
	m := NewManager(testOptions())
	defer m.Close()

	ctx := context.Background()
	code, hostID, err := m.CreateRoom(ctx, "quitter", "", []string{"ada", "bola", "chike"})
	if err != nil {
		t.Fatal(err)
	}
	r, _ := m.Get(code)
	sub, cancel := r.Subscribe(hostID)
	defer cancel()

	if err := r.StartGame(ctx, hostID, domain.DealAuto); err != nil {
		t.Fatal(err)
	}

	left := false
	deadline := time.After(10 * time.Second)
	for {
		select {
		case data, ok := <-sub:
			if !ok {
				t.Fatal("subscription closed")
			}
			kind, st := decodeState(t, data)
			if kind != "game-state" {
				continue
			}
			me := playerView(st, hostID)

			switch st.Phase {
			case domain.PhaseDealerSelection:
				if me != nil && me.DealerCard == nil {
					err := r.DrawDealerCard(ctx, hostID)
					if err != nil && !errors.Is(err, domain.ErrAlreadyDrawn) &&
						!errors.Is(err, domain.ErrInvalidPhase) {
						t.Fatalf("draw: %v", err)
					}
				}
			case domain.PhaseDealing:
				if me != nil && me.IsDealer {
					err := r.DealCard(ctx, hostID, 1)
					if err != nil && !errors.Is(err, domain.ErrInvalidPhase) {
						t.Fatalf("deal: %v", err)
					}
				}
			case domain.PhasePlaying, domain.PhaseRoundEnd, domain.PhaseGameOver:
				if !left {
					if err := r.Leave(ctx, hostID); err != nil {
						t.Fatalf("leave: %v", err)
					}
					left = true
					continue
				}
				if me != nil {
					t.Fatal("host still seated after leaving")
				}
				if len(st.Players) != 3 {
					t.Fatalf("players = %d, want 3", len(st.Players))
				}
				// Tricks resolving after the departure show up as points or
				// as the round running out.
				for _, p := range st.Players {
					if p.Points > 0 {
						return
					}
				}
				if st.Phase == domain.PhaseRoundEnd || st.Phase == domain.PhaseGameOver {
					return
				}
			}
		case <-deadline:
			t.Fatal("no trick resolved after the host left")
		}
	}
}

// stuckBrain always fails, standing in for a strategy defect.
type stuckBrain struct{}

func (stuckBrain) ChooseCard(*domain.Game, *domain.Player) (domain.Card, error) {
	return domain.Card{}, errors.New("stuck")
}

// TestAutoActFallsBackWhenStrategyFails feeds the handler an AI turn whose
// strategy errors. The room must still play a card rather than stall.
func TestAutoActFallsBackWhenStrategyFails(t *testing.T) {
	r := New("STUK", testOptions(), nil)
	defer r.Close()

	rng := rand.New(rand.NewSource(40))
	g := r.game
	for _, id := range []string{"b1", "b2"} {
		if err := g.AddPlayer(&domain.Player{ID: id, Username: id, IsAI: true}); err != nil {
			t.Fatal(err)
		}
		r.agents[id] = &bot.Agent{PlayerID: id, Strategy: stuckBrain{}}
	}
	if err := g.StartGame(domain.DealAuto, rng); err != nil {
		t.Fatal(err)
	}
	for g.Phase == domain.PhaseDealerSelection {
		for _, p := range g.DealerContenders() {
			if _, err := g.DrawDealerCard(p.ID); err != nil {
				t.Fatal(err)
			}
		}
		if _, err := g.ConfirmDealer(rng); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := g.DealCard(1); err != nil {
		t.Fatal(err)
	}

	cur := g.CurrentPlayer()
	before := len(cur.Hand)
	r.handle(command{kind: cmdAutoAct, seq: r.seq})

	if len(cur.Hand) != before-1 {
		t.Fatalf("hand = %d cards, want %d: no fallback play happened", len(cur.Hand), before-1)
	}
	if len(g.CurrentTrick) != 1 {
		t.Fatalf("trick = %d plays, want 1", len(g.CurrentTrick))
	}
	if r.aiTimer == nil {
		t.Fatal("no timer armed for the next AI turn")
	}
}

func TestCloseDeregistersRoom(t *testing.T) {
	m := NewManager(testOptions())
	ctx := context.Background()
	code, hostID, err := m.CreateRoom(ctx, "host", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	r, _ := m.Get(code)

	r.Close()
	// The actor deregisters itself on shutdown.
	deadline := time.After(time.Second)
	for {
		if _, ok := m.Get(code); !ok {
			break
		}
		select {
		case <-deadline:
			t.Fatal("room not deregistered after close")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := r.PlayCard(ctx, hostID, "A♠"); !errors.Is(err, ErrRoomClosed) {
		t.Fatalf("err = %v, want ErrRoomClosed", err)
	}
}
