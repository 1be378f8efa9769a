// Package config carga la configuración de ambos binarios desde env.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// API es la configuración del servidor.
type API struct {
	Port      string
	DBDSN     string // vacío => repos in-memory con datos de ejemplo
	JWTSecret string
	TokenTTL  time.Duration

	OpenAIKey   string
	OpenAIModel string
}

// Console es la configuración del cliente de terminal.
type Console struct {
	APIBaseURL    string
	SessionDBPath string // "memory" => sesión solo en memoria (no persiste)
	HTTPTimeout   time.Duration
}

// LoadAPI lee la config del servidor. Un .env local se carga si existe
// (dev/handoff); las vars ya seteadas tienen prioridad.
func LoadAPI() (*API, error) {
	_ = godotenv.Load()

	cfg := &API{
		Port:        getEnv("PORT", "8080"),
		DBDSN:       getEnv("DB_DSN", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		TokenTTL:    getEnvDuration("TOKEN_TTL", 24*time.Hour),
		OpenAIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel: getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *API) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive")
	}
	return nil
}

// LoadConsole lee la config de la consola.
func LoadConsole() (*Console, error) {
	_ = godotenv.Load()

	cfg := &Console{
		APIBaseURL:    getEnv("REGISTRY_API_URL", "http://localhost:8080"),
		SessionDBPath: getEnv("SESSION_DB_PATH", "./data/session.db"),
		HTTPTimeout:   getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
	}

	if strings.TrimSpace(cfg.APIBaseURL) == "" {
		return nil, fmt.Errorf("invalid configuration: REGISTRY_API_URL cannot be empty")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
