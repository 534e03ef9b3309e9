package room

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"tooza/internal/domain"
	"tooza/internal/logx"
)

// codeAlphabet excludes lookalike characters; room codes are read aloud.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 4

// Manager routes players to room actors. It holds no game state: the lock
// only guards the routing table and code generation.
type Manager struct {
	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand
	opts  Options
}

// NewManager creates a manager that spawns rooms with the given options.
func NewManager(opts Options) *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		opts:  opts,
	}
}

// CreateRoom spawns a room, seats the host and any requested AI players,
// and returns the room code and the host's player ID.
func (m *Manager) CreateRoom(ctx context.Context, hostName, avatar string, aiKeys []string) (code, hostID string, err error) {
	m.mu.Lock()
	code = m.newCode()
	r := New(code, m.opts, m.remove)
	m.rooms[code] = r
	m.mu.Unlock()

	go r.Run()

	hostID = uuid.NewString()
	host := &domain.Player{ID: hostID, Username: hostName, Avatar: avatar}
	if err := r.Join(ctx, host); err != nil {
		r.Close()
		return "", "", err
	}
	for _, key := range aiKeys {
		if err := r.ManageAI(ctx, hostID, key, true); err != nil {
			// The room is still usable; report and seat what fits.
			logx.Warn("room %s: seating AI %q: %v", code, key, err)
		}
	}

	logx.Info("room %s created by %s (%d AI requested)", code, hostName, len(aiKeys))
	return code, hostID, nil
}

// JoinRoom seats a new human player in an existing room.
func (m *Manager) JoinRoom(ctx context.Context, code, name, avatar string) (playerID string, err error) {
	r, ok := m.Get(code)
	if !ok {
		return "", domain.ErrRoomNotFound
	}
	playerID = uuid.NewString()
	p := &domain.Player{ID: playerID, Username: name, Avatar: avatar}
	if err := r.Join(ctx, p); err != nil {
		return "", err
	}
	return playerID, nil
}

// Get returns the room actor for a code.
func (m *Manager) Get(code string) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[code]
	return r, ok
}

// Close shuts down every room.
func (m *Manager) Close() {
	m.mu.Lock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
}

func (m *Manager) remove(code string) {
	m.mu.Lock()
	delete(m.rooms, code)
	m.mu.Unlock()
}

// newCode generates an unused room code. Caller holds the lock.
func (m *Manager) newCode() string {
	for {
		buf := make([]byte, codeLength)
		for i := range buf {
			buf[i] = codeAlphabet[m.rng.Intn(len(codeAlphabet))]
		}
		code := string(buf)
		if _, taken := m.rooms[code]; !taken {
			return code
		}
	}
}
