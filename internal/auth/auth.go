// Package auth stores the data store API key in ~/.aidir/credentials.json.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Makepad-fr/aidir/internal/config"
)

const (
	credFileName = "credentials.json"

	// EnvAPIKey overrides the stored key.
	EnvAPIKey = "AIDIR_API_KEY"
)

type Credentials struct {
	APIKey    string     `json:"api_key"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // from the key's exp claim, if any
}

// KeyClaims is what aidir reads out of a Supabase-style API key.
type KeyClaims struct {
	Role      string
	Ref       string
	ExpiresAt *time.Time
}

func credFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credFileName), nil
}

// Path returns the credentials file location.
func Path() (string, error) { return credFilePath() }

// Get returns the active credentials, or nil when not logged in.
func Get() (*Credentials, error) {
	// 1) env override
	if env := strings.TrimSpace(os.Getenv(EnvAPIKey)); env != "" {
		c := &Credentials{APIKey: stripBearer(env), Source: "env"}
		if kc, err := Claims(c.APIKey); err == nil {
			c.ExpiresAt = kc.ExpiresAt
		}
		return c, nil
	}

	// 2) file
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	c.APIKey = stripBearer(c.APIKey)
	c.Source = "file"
	return &c, nil
}

// Set saves key with owner-only permissions. A JWT key's exp claim is kept
// as the expiry; opaque keys are stored as-is.
func Set(key string) (*Credentials, error) {
	key = stripBearer(strings.TrimSpace(key))
	if key == "" {
		return nil, errors.New("empty API key")
	}
	p, err := credFilePath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	c := Credentials{
		APIKey:    key,
		Source:    "file",
		CreatedAt: time.Now().UTC(),
	}
	if kc, err := Claims(key); err == nil {
		c.ExpiresAt = kc.ExpiresAt
	}

	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(p, b, 0o600); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return &c, nil
}

// Delete removes the credentials file. Not being logged in is not an error.
func Delete() error {
	p, err := credFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Claims decodes key without verifying its signature; aidir only displays
// them. Keys that are not JWTs return an error.
func Claims(key string) (*KeyClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(stripBearer(key), claims); err != nil {
		return nil, fmt.Errorf("decode key: %w", err)
	}
	kc := &KeyClaims{}
	kc.Role, _ = claims["role"].(string)
	kc.Ref, _ = claims["ref"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time.UTC()
		kc.ExpiresAt = &t
	}
	return kc, nil
}

// Expired reports whether c has an expiry in the past.
func (c *Credentials) Expired(now time.Time) bool {
	return c != nil && c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Masked shows the first and last four characters of the key.
func (c *Credentials) Masked() string {
	if c == nil {
		return ""
	}
	k := c.APIKey
	if len(k) <= 12 {
		return strings.Repeat("*", len(k))
	}
	return k[:4] + "…" + k[len(k)-4:]
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
