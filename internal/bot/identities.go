package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// BotIdentity is one entry of the AI roster a room owner can seat.
type BotIdentity struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	Difficulty string `json:"difficulty"` // "easy", "medium", "hard"
}

// defaultIdentities is the built-in roster used when no identity file is
// configured.
var defaultIdentities = []BotIdentity{
	{Key: "ada", Name: "Ada", Avatar: "🤖", Difficulty: "easy"},
	{Key: "bola", Name: "Bola", Avatar: "🦊", Difficulty: "easy"},
	{Key: "chike", Name: "Chike", Avatar: "🦉", Difficulty: "medium"},
	{Key: "dayo", Name: "Dayo", Avatar: "🐯", Difficulty: "medium"},
	{Key: "efe", Name: "Efe", Avatar: "🦅", Difficulty: "hard"},
}

var (
	identities []BotIdentity
	keyMap     map[string]BotIdentity
	loadOnce   sync.Once
	loadErr    error
)

// LoadIdentities loads the AI roster from the given JSON file, falling back
// to the built-in roster when path is empty.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		identities = defaultIdentities
		if path != "" {
			data, err := os.ReadFile(path)
			if err != nil {
				loadErr = fmt.Errorf("failed to read bot identities: %w", err)
				return
			}
			var loaded []BotIdentity
			if err := json.Unmarshal(data, &loaded); err != nil {
				loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
				return
			}
			if len(loaded) > 0 {
				identities = loaded
			}
		}

		keyMap = make(map[string]BotIdentity, len(identities))
		for _, id := range identities {
			keyMap[id.Key] = id
		}
	})
	return loadErr
}

// GetIdentity returns the roster entry for a key.
func GetIdentity(key string) (BotIdentity, bool) {
	ensureLoaded()
	id, ok := keyMap[key]
	return id, ok
}

// GetIdentityByIndex returns an identity by index (mod pool size), for
// seating bots without an explicit key.
func GetIdentityByIndex(index int) BotIdentity {
	ensureLoaded()
	if len(identities) == 0 {
		return BotIdentity{
			Key:  fmt.Sprintf("bot-%d", index),
			Name: fmt.Sprintf("AI Player %d", index),
		}
	}
	return identities[index%len(identities)]
}

// Roster returns every loadable identity key in roster order.
func Roster() []BotIdentity {
	ensureLoaded()
	out := make([]BotIdentity, len(identities))
	copy(out, identities)
	return out
}

func ensureLoaded() {
	loadOnce.Do(func() {
		identities = defaultIdentities
		keyMap = make(map[string]BotIdentity, len(identities))
		for _, id := range identities {
			keyMap[id.Key] = id
		}
	})
}
