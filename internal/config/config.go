package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds every runtime knob of the dummy API. All values come from
// environment variables, read once at startup.
type Config struct {
	Port    int
	Profile string

	// ThroughputK is the refill rate in thousands of tokens per second.
	// THROUGHPUT=1 means 1000 tokens/sec for the whole process.
	ThroughputK int

	// DefaultTokens is used when a request omits max_tokens.
	DefaultTokens int
}

// TokensPerSec is the bucket capacity: ThroughputK scaled to tokens/sec.
func (c Config) TokensPerSec() int {
	return c.ThroughputK * 1000
}

func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvStr(k string, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// LoadConfig reads the environment. A malformed or non-positive THROUGHPUT is
// a hard error: the limiter capacity is the one setting we refuse to guess.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:          getEnvInt("PORT", 8080),
		Profile:       getEnvStr("PROFILE", "default"),
		ThroughputK:   1,
		DefaultTokens: getEnvInt("DEFAULT_TOKENS", 50),
	}

	if v := os.Getenv("THROUGHPUT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid THROUGHPUT value %q: %w", v, err)
		}
		if n <= 0 {
			return Config{}, fmt.Errorf("invalid THROUGHPUT value %q: must be positive", v)
		}
		cfg.ThroughputK = n
	}

	return cfg, nil
}
