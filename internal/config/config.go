package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all gateway configuration, parsed from the environment.
// Nothing reads ambient globals past startup; the struct is passed
// explicitly to whatever needs it.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// Upstream synthesis provider
	TTSAPIKey       string        `env:"TTS_API_KEY"`
	TTSEndpoint     string        `env:"TTS_ENDPOINT" envDefault:"https://texttospeech.googleapis.com/v1/text:synthesize"`
	UpstreamTimeout time.Duration `env:"TTS_UPSTREAM_TIMEOUT" envDefault:"15s"`

	// Voice defaults and fixed tuning
	DefaultLanguage string  `env:"TTS_DEFAULT_LANGUAGE" envDefault:"kn-IN"`
	DefaultVoice    string  `env:"TTS_DEFAULT_VOICE" envDefault:"kn-IN-Chirp3-HD-Achernar"`
	SpeakingRate    float64 `env:"TTS_SPEAKING_RATE" envDefault:"0.85"`
	Pitch           float64 `env:"TTS_PITCH" envDefault:"0"`

	// Artifact cache
	CacheDir      string `env:"CACHE_DIR" envDefault:"./cache"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080/cache/"`
	FileExtension string `env:"CACHE_FILE_EXTENSION" envDefault:".mp3"`

	// Eviction
	EvictionMaxAge   time.Duration `env:"EVICTION_MAX_AGE" envDefault:"720h"`
	EvictionInterval time.Duration `env:"EVICTION_INTERVAL" envDefault:"6h"`
	EvictionEnabled  bool          `env:"EVICTION_ENABLED" envDefault:"true"`

	// Admin surface
	JWTSecret string `env:"JWT_SECRET"`
}

// Load parses the configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	return cfg, nil
}

// ValidateForServe checks the settings the serve command cannot run
// without. The sweep command needs none of these.
func (c *Config) ValidateForServe() error {
	if c.TTSAPIKey == "" {
		return fmt.Errorf("TTS_API_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}
