package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ptieasy-service/internal/domain/inspection"
	"ptieasy-service/internal/domain/notification"
	"ptieasy-service/internal/pkg/jwt"
	"ptieasy-service/internal/pkg/logger"

	"github.com/BurntSushi/toml"
)

type AppConfig struct {
	// Server
	HTTPAddr           string
	RedisAddr          string
	RedisPass          string
	CORSAllowedOrigins []string

	Log logger.Config

	// JWT
	JWT jwt.Config

	Inspection    InspectionConfig
	Notifications NotificationConfig

	// Demo login accounts, created at startup
	Accounts []AccountConfig

	// SeedData loads the demo fleet into the in-memory repositories
	SeedData bool
}

type InspectionConfig struct {
	Checklist           []string
	RequireIssueComment bool
	AbandonPolicy       inspection.AbandonPolicy
}

type NotificationConfig struct {
	Capacity            int
	SimulationInterval  time.Duration
	SimulationChance    float64
	OverdueScanInterval time.Duration
}

type AccountConfig struct {
	Email     string `toml:"email"`
	Name      string `toml:"name"`
	Role      string `toml:"role"`
	Password  string `toml:"password"`
	DriverRef string `toml:"driver_ref"`
}

// fileConfig is the optional TOML overlay. Zero values leave the
// environment settings untouched.
type fileConfig struct {
	HTTPAddr string `toml:"http_addr"`

	Inspection struct {
		Checklist           []string `toml:"checklist"`
		RequireIssueComment *bool    `toml:"require_issue_comment"`
		AbandonPolicy       string   `toml:"abandon_policy"`
	} `toml:"inspection"`

	Notifications struct {
		Capacity                   int      `toml:"capacity"`
		SimulationIntervalSeconds  int      `toml:"simulation_interval_seconds"`
		SimulationChance           *float64 `toml:"simulation_chance"`
		OverdueScanIntervalSeconds int      `toml:"overdue_scan_interval_seconds"`
	} `toml:"notifications"`

	Accounts []AccountConfig `toml:"accounts"`
}

// DefaultAccounts are the demo logins.
func DefaultAccounts() []AccountConfig {
	return []AccountConfig{
		{Email: "manager@ptieasy.com", Name: "Fleet Manager", Role: "manager", Password: "demo123"},
		{Email: "driver@ptieasy.com", Name: "John Doe", Role: "driver", Password: "demo123", DriverRef: "John Doe"},
	}
}

// Load reads environment variables into AppConfig, then applies the TOML file
// at path (or PTI_CONFIG_FILE when path is empty) if one is given.
func Load(path string) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8000"),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPass:          getEnv("REDIS_PASS", ""),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),

		Log: logger.Config{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},

		JWT: jwt.Config{
			PrivPath:  getEnv("JWT_PRIVATE_KEY_PATH", "secrets/jwt_private.pem"),
			PubPath:   getEnv("JWT_PUBLIC_KEY_PATH", "secrets/jwt_public.pem"),
			Issuer:    "ptieasy",
			Audience:  "ptieasy-dashboard",
			TTL:       12 * time.Hour,
			KID:       "ptieasy-key",
			Ephemeral: getEnvBool("JWT_EPHEMERAL", true),
		},

		Inspection: InspectionConfig{
			Checklist:           append([]string(nil), inspection.DefaultChecklist...),
			RequireIssueComment: getEnvBool("PTI_REQUIRE_ISSUE_COMMENT", false),
		},

		Accounts: DefaultAccounts(),
		SeedData: getEnvBool("SEED_DATA", true),
	}

	var err error
	if cfg.Inspection.AbandonPolicy, err = inspection.ParseAbandonPolicy(getEnv("PTI_ABANDON_POLICY", "discard")); err != nil {
		return cfg, err
	}

	if cfg.Notifications.Capacity, err = getEnvInt("NOTIFICATION_CAPACITY", notification.DefaultCapacity); err != nil {
		return cfg, err
	}
	if cfg.Notifications.SimulationInterval, err = getEnvDuration("NOTIFICATION_SIM_INTERVAL", 10*time.Second); err != nil {
		return cfg, err
	}
	if cfg.Notifications.SimulationChance, err = getEnvFloat("NOTIFICATION_SIM_CHANCE", 0.05); err != nil {
		return cfg, err
	}
	if cfg.Notifications.OverdueScanInterval, err = getEnvDuration("OVERDUE_SCAN_INTERVAL", time.Minute); err != nil {
		return cfg, err
	}

	if path == "" {
		path = os.Getenv("PTI_CONFIG_FILE")
	}
	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}

	return cfg, cfg.Validate()
}

func (c *AppConfig) applyFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if fc.HTTPAddr != "" {
		c.HTTPAddr = fc.HTTPAddr
	}

	if len(fc.Inspection.Checklist) > 0 {
		c.Inspection.Checklist = fc.Inspection.Checklist
	}
	if fc.Inspection.RequireIssueComment != nil {
		c.Inspection.RequireIssueComment = *fc.Inspection.RequireIssueComment
	}
	if fc.Inspection.AbandonPolicy != "" {
		policy, err := inspection.ParseAbandonPolicy(fc.Inspection.AbandonPolicy)
		if err != nil {
			return err
		}
		c.Inspection.AbandonPolicy = policy
	}

	n := fc.Notifications
	if n.Capacity > 0 {
		c.Notifications.Capacity = n.Capacity
	}
	if n.SimulationIntervalSeconds > 0 {
		c.Notifications.SimulationInterval = time.Duration(n.SimulationIntervalSeconds) * time.Second
	}
	if n.SimulationChance != nil {
		c.Notifications.SimulationChance = *n.SimulationChance
	}
	if n.OverdueScanIntervalSeconds > 0 {
		c.Notifications.OverdueScanInterval = time.Duration(n.OverdueScanIntervalSeconds) * time.Second
	}

	if len(fc.Accounts) > 0 {
		c.Accounts = fc.Accounts
	}

	return nil
}

// Validate rejects settings the service cannot run with.
func (c *AppConfig) Validate() error {
	var errs []error

	for i, item := range c.Inspection.Checklist {
		if strings.TrimSpace(item) == "" {
			errs = append(errs, fmt.Errorf("inspection checklist item %d is empty", i))
		}
	}
	if len(c.Inspection.Checklist) == 0 {
		errs = append(errs, errors.New("inspection checklist is empty"))
	}
	if c.Notifications.Capacity < 1 {
		errs = append(errs, errors.New("notification capacity must be positive"))
	}
	if c.Notifications.SimulationChance < 0 || c.Notifications.SimulationChance > 1 {
		errs = append(errs, errors.New("notification simulation chance must be between 0 and 1"))
	}
	if c.Notifications.SimulationInterval <= 0 || c.Notifications.OverdueScanInterval <= 0 {
		errs = append(errs, errors.New("notification intervals must be positive"))
	}
	for _, a := range c.Accounts {
		if a.Email == "" || a.Password == "" {
			errs = append(errs, errors.New("accounts need an email and a password"))
			break
		}
	}

	return errors.Join(errs...)
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "":
		return fallback
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
