package config

import (
	"os"
	"time"
)

// Server captures the verification backend configuration.
type Server struct {
	Addr string

	// Upstream registry endpoints and credentials.
	PersonRegistryURL    string
	PersonRegistryKey    string
	CorporateRegistryURL string
	CorporateRegistryKey string

	// Upstream call timeout per provider request.
	ProviderTimeout time.Duration

	// ResponseCacheTTL bounds how long a successful verification is served
	// from the backend cache with cached=true.
	ResponseCacheTTL time.Duration
}

// Defaults used when the corresponding env variable is unset.
const (
	DefaultAddr             = ":8080"
	DefaultProviderTimeout  = 10 * time.Second
	DefaultResponseCacheTTL = 5 * time.Minute
)

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:                 getEnv("FORMFILL_ADDR", DefaultAddr),
		PersonRegistryURL:    getEnv("PERSON_REGISTRY_URL", "http://localhost:8081"),
		PersonRegistryKey:    getEnv("PERSON_REGISTRY_KEY", "person-registry-dev-key"),
		CorporateRegistryURL: getEnv("CORPORATE_REGISTRY_URL", "http://localhost:8082"),
		CorporateRegistryKey: getEnv("CORPORATE_REGISTRY_KEY", "corporate-registry-dev-key"),
		ProviderTimeout:      DefaultProviderTimeout,
		ResponseCacheTTL:     DefaultResponseCacheTTL,
	}

	if v := os.Getenv("PROVIDER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ProviderTimeout = d
		}
	}
	if v := os.Getenv("RESPONSE_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ResponseCacheTTL = d
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
