// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// envInt reads an integer environment variable, returning def when unset.
func envInt(name string, def int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

// JWTConfig holds configuration for signing and validating API tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig reads JWT_SECRET (required) and JWT_EXPIRATION_HOURS (default: 24).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	hours, err := envInt("JWT_EXPIRATION_HOURS", 24)
	if err != nil {
		return nil, err
	}
	if hours < 1 {
		return nil, fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", hours)
	}
	return &JWTConfig{Secret: secret, ExpirationHours: hours}, nil
}

// Expiration returns the token lifetime.
func (c *JWTConfig) Expiration() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
}

// NewPasswordConfig reads BCRYPT_COST (default: 12, range 10-14) and optionally PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost, err := envInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, err
	}
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cost)
	}
	return &PasswordConfig{BcryptCost: cost, Pepper: os.Getenv("PASSWORD_PEPPER")}, nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword hashes a password using bcrypt (with optional pepper).
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a stored hash (with optional pepper).
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}

// ExportConfig holds settings for the headless browser PDF export.
type ExportConfig struct {
	Timeout  time.Duration // per-export deadline
	PoolSize int           // browser tabs kept open
}

// NewExportConfig reads CHROME_EXPORT_TIMEOUT (seconds, default: 30) and
// CHROME_POOL_SIZE (default: 2).
func NewExportConfig() (*ExportConfig, error) {
	secs, err := envInt("CHROME_EXPORT_TIMEOUT", 30)
	if err != nil {
		return nil, err
	}
	if secs < 1 {
		return nil, fmt.Errorf("CHROME_EXPORT_TIMEOUT must be at least 1 second, got: %d", secs)
	}
	size, err := envInt("CHROME_POOL_SIZE", 2)
	if err != nil {
		return nil, err
	}
	if size < 1 {
		return nil, fmt.Errorf("CHROME_POOL_SIZE must be at least 1, got: %d", size)
	}
	return &ExportConfig{Timeout: time.Duration(secs) * time.Second, PoolSize: size}, nil
}
