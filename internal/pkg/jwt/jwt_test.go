package jwt

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(dir string) Config {
	return Config{
		PrivPath: filepath.Join(dir, "jwt_private.pem"),
		PubPath:  filepath.Join(dir, "jwt_public.pem"),
		Issuer:   "ptieasy",
		Audience: "ptieasy-dashboard",
		TTL:      time.Hour,
		KID:      "test-key",
	}
}

func TestGenerateAndVerify(t *testing.T) {
	key, err := GenerateRSAKey(1024)
	require.NoError(t, err)
	m := NewManager(key, testConfig(t.TempDir()))

	token, jti, err := m.Generator.GenerateAccessToken("acc-1", "driver", "John Doe", "tablet")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.Verifier.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "driver", claims.Role)
	assert.Equal(t, "John Doe", claims.DriverRef)
	assert.Equal(t, jti, claims.ID)
	assert.True(t, claims.HasRole("driver"))
}

func TestVerify_RejectsForeignAudienceAndKey(t *testing.T) {
	key, err := GenerateRSAKey(1024)
	require.NoError(t, err)
	cfg := testConfig(t.TempDir())
	m := NewManager(key, cfg)

	token, _, err := m.Generator.GenerateAccessToken("acc-1", "manager", "", "")
	require.NoError(t, err)

	t.Run("audience", func(t *testing.T) {
		v := NewVerifier(&key.PublicKey, cfg.Issuer, "someone-else")
		_, err := v.Verify(token)
		assert.Error(t, err)
	})

	t.Run("issuer", func(t *testing.T) {
		v := NewVerifier(&key.PublicKey, "other", cfg.Audience)
		_, err := v.Verify(token)
		assert.Error(t, err)
	})

	t.Run("key", func(t *testing.T) {
		other, err := GenerateRSAKey(1024)
		require.NoError(t, err)
		v := NewVerifier(&other.PublicKey, cfg.Issuer, cfg.Audience)
		_, err = v.Verify(token)
		assert.Error(t, err)
	})

	t.Run("purpose", func(t *testing.T) {
		tok, _, err := m.Generator.Generate("acc-1", "manager", "", "", "refresh")
		require.NoError(t, err)
		_, err = m.Verifier.VerifyAccessToken(tok)
		assert.Error(t, err)
	})
}

func TestWriteKeyPairThenLoad(t *testing.T) {
	cfg := testConfig(t.TempDir())
	key, err := GenerateRSAKey(1024)
	require.NoError(t, err)
	require.NoError(t, WriteKeyPair(key, cfg.PrivPath, cfg.PubPath))

	m, err := LoadAndBuild(cfg)
	require.NoError(t, err)
	assert.False(t, m.Ephemeral)

	token, _, err := m.Generator.GenerateAccessToken("acc-2", "manager", "", "")
	require.NoError(t, err)
	_, err = m.Verifier.VerifyAccessToken(token)
	assert.NoError(t, err)
}

func TestLoadAndBuild_MissingKeys(t *testing.T) {
	cfg := testConfig(t.TempDir())

	_, err := LoadAndBuild(cfg)
	assert.Error(t, err)

	cfg.Ephemeral = true
	m, err := LoadAndBuild(cfg)
	require.NoError(t, err)
	assert.True(t, m.Ephemeral)
}
