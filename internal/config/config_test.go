package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ptieasy-service/internal/domain/inspection"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PTI_CONFIG_FILE", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, inspection.DefaultChecklist, cfg.Inspection.Checklist)
	assert.Equal(t, inspection.AbandonDiscard, cfg.Inspection.AbandonPolicy)
	assert.False(t, cfg.Inspection.RequireIssueComment)
	assert.Equal(t, 10, cfg.Notifications.Capacity)
	assert.Equal(t, 10*time.Second, cfg.Notifications.SimulationInterval)
	assert.InDelta(t, 0.05, cfg.Notifications.SimulationChance, 1e-9)
	assert.Equal(t, time.Minute, cfg.Notifications.OverdueScanInterval)
	assert.Len(t, cfg.Accounts, 2)
	assert.True(t, cfg.SeedData)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PTI_CONFIG_FILE", "")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("PTI_ABANDON_POLICY", "keep")
	t.Setenv("PTI_REQUIRE_ISSUE_COMMENT", "true")
	t.Setenv("NOTIFICATION_SIM_INTERVAL", "250ms")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, inspection.AbandonKeep, cfg.Inspection.AbandonPolicy)
	assert.True(t, cfg.Inspection.RequireIssueComment)
	assert.Equal(t, 250*time.Millisecond, cfg.Notifications.SimulationInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("PTI_CONFIG_FILE", "")

	t.Run("policy", func(t *testing.T) {
		t.Setenv("PTI_ABANDON_POLICY", "shred")
		_, err := Load("")
		assert.ErrorIs(t, err, inspection.ErrUnknownPolicy)
	})

	t.Run("duration", func(t *testing.T) {
		t.Setenv("OVERDUE_SCAN_INTERVAL", "soon")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("chance", func(t *testing.T) {
		t.Setenv("NOTIFICATION_SIM_CHANCE", "1.5")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestLoad_TOMLOverlay(t *testing.T) {
	t.Setenv("PTI_CONFIG_FILE", "")

	path := filepath.Join(t.TempDir(), "ptieasy.toml")
	content := `
http_addr = ":7000"

[inspection]
checklist = ["Brakes", "Tires", "Coupling"]
require_issue_comment = true
abandon_policy = "keep"

[notifications]
capacity = 25
simulation_interval_seconds = 30
simulation_chance = 0.0
overdue_scan_interval_seconds = 5

[[accounts]]
email = "ops@fleet.test"
name = "Ops"
role = "manager"
password = "s3cret"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7000", cfg.HTTPAddr)
	assert.Equal(t, []string{"Brakes", "Tires", "Coupling"}, cfg.Inspection.Checklist)
	assert.True(t, cfg.Inspection.RequireIssueComment)
	assert.Equal(t, inspection.AbandonKeep, cfg.Inspection.AbandonPolicy)
	assert.Equal(t, 25, cfg.Notifications.Capacity)
	assert.Equal(t, 30*time.Second, cfg.Notifications.SimulationInterval)
	assert.Zero(t, cfg.Notifications.SimulationChance)
	assert.Equal(t, 5*time.Second, cfg.Notifications.OverdueScanInterval)
	require.Len(t, cfg.Accounts, 1)
	assert.Equal(t, "ops@fleet.test", cfg.Accounts[0].Email)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestValidate_EmptyChecklistItem(t *testing.T) {
	t.Setenv("PTI_CONFIG_FILE", "")
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Inspection.Checklist = []string{"Brakes", "  "}
	assert.Error(t, cfg.Validate())
}
