package config

import (
	"log"
	"os"

	"github.com/goccy/go-yaml"
)

// DefaultSessionSecret is the development fallback used when SESSION_SECRET
// is unset. Fine for local use, unsafe in production.
const DefaultSessionSecret = "default-dev-secret-change-in-production"

// Config is the process configuration, assembled from an optional YAML file
// overlaid by environment variables. Env always wins.
type Config struct {
	Port           string   `yaml:"port"`
	DatabaseURL    string   `yaml:"database_url"`
	SessionSecret  string   `yaml:"session_secret"`
	Environment    string   `yaml:"environment"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	EntryPrefix    string   `yaml:"entry_prefix"`
	LoginPath      string   `yaml:"login_path"`
}

// Production reports whether the app should behave as deployed (secure
// cookies on, dev fallbacks off).
func (c Config) Production() bool {
	return c.Environment == "production"
}

// Load reads config.yaml if present, then applies environment overrides and
// defaults. A missing file is not an error; a malformed one is fatal since
// running with half a config is worse than not starting.
func Load(path string) Config {
	cfg := Config{
		Port:        "5050",
		Environment: "development",
		EntryPrefix: "/entry",
		LoginPath:   "/login",
		AllowedOrigins: []string{
			"http://localhost:5173",
			"http://localhost:3000",
		},
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Fatal("Failed to parse config file: ", err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.SessionSecret = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Environment = v
	}

	if cfg.SessionSecret == "" {
		cfg.SessionSecret = DefaultSessionSecret
		if cfg.Production() {
			log.Println("WARNING: SESSION_SECRET is unset, using the development default")
		}
	}

	return cfg
}
