package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/saverioc/quaranta-backend/internal/game"
	"github.com/saverioc/quaranta-backend/internal/room"
)

type Config struct {
	Addr             string
	MinPlayers       int
	MaxHandSize      int
	TrickDelay       time.Duration
	ScoreDelay       time.Duration
	RestartDelay     time.Duration
	GuaranteeSpecial bool
	Debug            bool
}

// Load reads an optional .env, then the environment, falling back to
// defaults.
func Load() Config {
	_ = godotenv.Load() // missing .env is fine

	d := room.DefaultDelays()
	return Config{
		Addr:             envStr("ADDR", ":8080"),
		MinPlayers:       envInt("MIN_PLAYERS", 3),
		MaxHandSize:      envInt("MAX_HAND_SIZE", 5),
		TrickDelay:       envDur("TRICK_DELAY", d.Trick),
		ScoreDelay:       envDur("SCORE_DELAY", d.Score),
		RestartDelay:     envDur("RESTART_DELAY", d.Restart),
		GuaranteeSpecial: envBool("GUARANTEE_SPECIAL", false),
		Debug:            envBool("DEBUG", false),
	}
}

func (c Config) Rules() game.Rules {
	return game.Rules{
		MinPlayers:       c.MinPlayers,
		MaxHandSize:      c.MaxHandSize,
		GuaranteeSpecial: c.GuaranteeSpecial,
	}
}

func (c Config) Delays() room.Delays {
	return room.Delays{Trick: c.TrickDelay, Score: c.ScoreDelay, Restart: c.RestartDelay}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
