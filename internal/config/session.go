package config

import (
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultSessionTTL    = time.Hour
	defaultReapInterval  = time.Minute
	generatedSecretBytes = 32
)

type Session struct {
	TTL          time.Duration
	ReapInterval time.Duration
	Secret       []byte
}

func lookupDuration(key string, fallback time.Duration) (time.Duration, error) {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func loadSecret() ([]byte, error) {
	secret, ok := os.LookupEnv("SESSION_SECRET")
	if ok {
		return []byte(secret), nil
	}

	secretFile, ok := os.LookupEnv("SESSION_SECRET_FILE")
	if ok {
		data, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read session secret file: %w", err)
		}
		return []byte(strings.TrimSpace(string(data))), nil
	}

	if !Development() {
		return nil, fmt.Errorf("no SESSION_SECRET or SESSION_SECRET_FILE env variable set")
	}

	generated := make([]byte, generatedSecretBytes)
	if _, err := rand.Read(generated); err != nil {
		return nil, fmt.Errorf("unable to generate session secret: %w", err)
	}
	return generated, nil
}

func NewSession() (*Session, error) {
	ttl, err := lookupDuration("SESSION_TTL", defaultSessionTTL)
	if err != nil {
		return nil, err
	}

	interval, err := lookupDuration("SESSION_REAP_INTERVAL", defaultReapInterval)
	if err != nil {
		return nil, err
	}

	secret, err := loadSecret()
	if err != nil {
		return nil, err
	}
	if len(secret) == 0 {
		return nil, fmt.Errorf("session secret must not be empty")
	}

	s := &Session{
		TTL:          ttl,
		ReapInterval: interval,
		Secret:       secret,
	}

	return s, nil
}
