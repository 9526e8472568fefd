// Package config gathers the externally supplied settings. Persistence picks
// one of three modes: hosted postgres when DATABASE_URL and DATABASE_KEY are
// both set, a local sqlite file when MOODPAD_DB is set, and otherwise a
// degraded local mode where nothing is persisted but chat still works.
package config

import (
	"net/url"
	"os"
)

type Config struct {
	Addr string

	DatabaseURL string // postgres endpoint
	DatabaseKey string // postgres access key (password)
	SQLitePath  string

	InferenceBaseURL string // hosted inference API root
	InferenceKey     string // optional

	OpenAIBaseURL string
	OpenAIKey     string

	DefaultModel string
	WebDir       string
}

func FromEnv() Config {
	return Config{
		Addr:             envOr("MOODPAD_ADDR", ":8100"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		DatabaseKey:      os.Getenv("DATABASE_KEY"),
		SQLitePath:       os.Getenv("MOODPAD_DB"),
		InferenceBaseURL: os.Getenv("INFERENCE_BASE_URL"),
		InferenceKey:     os.Getenv("INFERENCE_API_KEY"),
		OpenAIBaseURL:    envOr("OPENAI_BASE_URL", "http://localhost:11434/v1/"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		DefaultModel:     envOr("MOODPAD_MODEL", "llama3.1:8b"),
		WebDir:           envOr("MOODPAD_WEB", "web"),
	}
}

// HostedPersistence reports whether both postgres values are present.
func (c Config) HostedPersistence() bool {
	return c.DatabaseURL != "" && c.DatabaseKey != ""
}

// LocalMode reports whether persistence is unconfigured entirely.
func (c Config) LocalMode() bool {
	return !c.HostedPersistence() && c.SQLitePath == ""
}

// PostgresDSN is the endpoint URL with the access key injected as the
// password.
func (c Config) PostgresDSN() string {
	u, err := url.Parse(c.DatabaseURL)
	if err != nil || u.User == nil {
		return c.DatabaseURL
	}
	u.User = url.UserPassword(u.User.Username(), c.DatabaseKey)
	return u.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
