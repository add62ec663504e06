package config

import (
	"os"
	"sort"
	"strings"
)

// EnvPrefix marks the environment variables read by ApplyEnv.
const EnvPrefix = "READMEFORGE_"

// Environment variable names.
const (
	EnvConfig     = "READMEFORGE_CONFIG"
	EnvPalette    = "READMEFORGE_PALETTE"
	EnvPDFEngine  = "READMEFORGE_PDF_ENGINE"
	EnvPDFTimeout = "READMEFORGE_PDF_TIMEOUT"
	EnvAddr       = "READMEFORGE_ADDR"
	EnvStorageDSN = "READMEFORGE_STORAGE_DSN"
	EnvRedisAddr  = "READMEFORGE_REDIS_ADDR"
	EnvLogLevel   = "READMEFORGE_LOG_LEVEL"
)

// knownEnvVars lists valid READMEFORGE_* variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	EnvConfig:     true,
	EnvPalette:    true,
	EnvPDFEngine:  true,
	EnvPDFTimeout: true,
	EnvAddr:       true,
	EnvStorageDSN: true,
	EnvRedisAddr:  true,
	EnvLogLevel:   true,
}

// ApplyEnv overlays environment values on cfg. Only set variables are
// applied, so the precedence is: flags > env > config file > defaults.
// A postgres DSN without an explicit driver switches the driver to postgres.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	set := func(dst *string, name string) {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			*dst = v
		}
	}

	set(&cfg.Document.Palette, EnvPalette)
	set(&cfg.PDF.Engine, EnvPDFEngine)
	set(&cfg.PDF.Timeout, EnvPDFTimeout)
	set(&cfg.Server.Addr, EnvAddr)
	set(&cfg.Cache.RedisAddr, EnvRedisAddr)
	set(&cfg.Log.Level, EnvLogLevel)

	if dsn := strings.TrimSpace(getenv(EnvStorageDSN)); dsn != "" {
		cfg.Storage.DSN = dsn
		if cfg.Storage.Driver == "" || cfg.Storage.Driver == DriverNone {
			cfg.Storage.Driver = DriverPostgres
		}
	}
}

// UnknownEnvVars returns READMEFORGE_* names in environ that ApplyEnv does
// not recognize, sorted.
func UnknownEnvVars(environ []string) []string {
	var unknown []string
	for _, env := range environ {
		if !strings.HasPrefix(env, EnvPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	return unknown
}
