package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"tooza/internal/domain"
)

// Config is the toozad process configuration, loaded from an optional YAML
// file with TOOZA_* environment overrides.
type Config struct {
	Addr  string    `mapstructure:"addr"`
	Log   LogConf   `mapstructure:"log"`
	Room  RoomConf  `mapstructure:"room"`
	Rules RulesConf `mapstructure:"rules"`
	Bot   BotConf   `mapstructure:"bot"`
}

type LogConf struct {
	Level string `mapstructure:"level"`
}

type RoomConf struct {
	MaxPlayers     int `mapstructure:"maxPlayers"`
	TurnTimeoutSec int `mapstructure:"turnTimeoutSec"` // 0 disables
}

type RulesConf struct {
	TrumpSuit            string `mapstructure:"trumpSuit"` // "", "♠", "♣", "♥", "♦"
	PointsTo             string `mapstructure:"pointsTo"`  // "trailer" or "winner"
	EliminationThreshold int    `mapstructure:"eliminationThreshold"`
}

type BotConf struct {
	MinDelayMs     int    `mapstructure:"minDelayMs"`
	MaxDelayMs     int    `mapstructure:"maxDelayMs"`
	IdentitiesPath string `mapstructure:"identitiesPath"`
}

// Load reads the configuration. An empty path loads defaults plus
// environment overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TOOZA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("room.maxPlayers", 6)
	v.SetDefault("room.turnTimeoutSec", 30)
	v.SetDefault("rules.trumpSuit", "")
	v.SetDefault("rules.pointsTo", string(domain.PointsToTrailer))
	v.SetDefault("rules.eliminationThreshold", 12)
	v.SetDefault("bot.minDelayMs", 600)
	v.SetDefault("bot.maxDelayMs", 1800)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if _, err := cfg.GameRules(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GameRules converts the rule flags into a validated domain rule set.
func (c *Config) GameRules() (domain.Rules, error) {
	rules := domain.DefaultRules()
	if c.Room.MaxPlayers > 0 {
		rules.MaxPlayers = c.Room.MaxPlayers
	}
	if c.Rules.EliminationThreshold > 0 {
		rules.EliminationThreshold = c.Rules.EliminationThreshold
	}

	if c.Rules.TrumpSuit != "" {
		suit, ok := domain.ParseSuit(c.Rules.TrumpSuit)
		if !ok {
			return rules, fmt.Errorf("invalid trump suit %q", c.Rules.TrumpSuit)
		}
		rules.TrumpSuit = suit
	}

	switch domain.PointsRule(c.Rules.PointsTo) {
	case domain.PointsToTrailer, domain.PointsToWinner:
		rules.PointsTo = domain.PointsRule(c.Rules.PointsTo)
	case "":
	default:
		return rules, fmt.Errorf("invalid pointsTo rule %q", c.Rules.PointsTo)
	}

	return rules, nil
}

// TurnTimeout returns the configured turn timeout, zero meaning disabled.
func (c *Config) TurnTimeout() time.Duration {
	if c.Room.TurnTimeoutSec <= 0 {
		return 0
	}
	return time.Duration(c.Room.TurnTimeoutSec) * time.Second
}

// BotDelay returns the AI think-delay window.
func (c *Config) BotDelay() (min, max time.Duration) {
	min = time.Duration(c.Bot.MinDelayMs) * time.Millisecond
	max = time.Duration(c.Bot.MaxDelayMs) * time.Millisecond
	if max < min {
		max = min
	}
	return min, max
}
