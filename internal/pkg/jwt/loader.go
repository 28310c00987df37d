// internal/pkg/jwt/loader.go
package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"io/fs"
	"time"
)

type Config struct {
	PrivPath string
	PubPath  string
	Issuer   string
	Audience string
	TTL      time.Duration
	KID      string

	// Ephemeral generates an in-memory key pair when the PEM files are
	// missing. Tokens then stop verifying after a restart.
	Ephemeral bool
}

type Manager struct {
	Generator *Generator
	Verifier  *Verifier
	Ephemeral bool
}

// NewManager builds a manager around an already loaded key.
func NewManager(priv *rsa.PrivateKey, cfg Config) *Manager {
	return &Manager{
		Generator: NewGenerator(priv, cfg.Issuer, cfg.Audience, cfg.KID, cfg.TTL),
		Verifier:  NewVerifier(&priv.PublicKey, cfg.Issuer, cfg.Audience),
	}
}

func LoadAndBuild(cfg Config) (*Manager, error) {
	priv, err := LoadRSAPrivateKeyFromPEM(cfg.PrivPath)
	if err != nil {
		if cfg.Ephemeral && errors.Is(err, fs.ErrNotExist) {
			return buildEphemeral(cfg)
		}
		return nil, fmt.Errorf("failed to load private key from %s: %w", cfg.PrivPath, err)
	}

	pub, err := LoadRSAPublicKeyFromPEM(cfg.PubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load public key from %s: %w", cfg.PubPath, err)
	}

	return &Manager{
		Generator: NewGenerator(priv, cfg.Issuer, cfg.Audience, cfg.KID, cfg.TTL),
		Verifier:  NewVerifier(pub, cfg.Issuer, cfg.Audience),
	}, nil
}

func buildEphemeral(cfg Config) (*Manager, error) {
	priv, err := GenerateRSAKey(DefaultKeyBits)
	if err != nil {
		return nil, err
	}
	m := NewManager(priv, cfg)
	m.Ephemeral = true
	return m, nil
}
