package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/dateutil"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/fileutil"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/palette"
	"github.com/Neil2813/Crimson-Scriveners-Readme-Forger/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxPaletteLength    = 20
	MaxDateFormatLength = 64
	MaxStyleLength      = 100
	MaxPathLength       = 4096
	MaxAddrLength       = 255
	MaxHeaderLength     = 100
	MaxDSNLength        = 2048
	MaxOrigins          = 32
)

// Defaults applied by DefaultConfig.
const (
	DefaultAddr           = ":8000"
	DefaultMaxUploadBytes = 5 << 20
	DefaultIdentityHeader = "X-Owner-ID"
	DefaultPDFTimeout     = "30s"
	DefaultCacheTTL       = "10m"
	DefaultArtifactsDir   = "artifacts"
	DefaultSQLitePath     = "readmeforge.db"
)

// Storage drivers.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// appDir is the directory name under $XDG_CONFIG_HOME.
const appDir = "readmeforge"

// Config holds all configuration for the converter, CLI and HTTP server.
type Config struct {
	Document DocumentConfig `yaml:"document"`
	PDF      PDFConfig      `yaml:"pdf"`
	Assets   AssetsConfig   `yaml:"assets"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
}

// DocumentConfig defines report rendering defaults.
type DocumentConfig struct {
	Palette    string `yaml:"palette"`    // Default palette key
	DateFormat string `yaml:"dateFormat"` // "auto", "auto:FORMAT" or a literal
	Highlight  string `yaml:"highlight"`  // Chroma style name (empty = plain code)
}

// PDFConfig defines PDF engine selection.
type PDFConfig struct {
	Engine  string `yaml:"engine"`  // "auto", "chrome", "native"
	Timeout string `yaml:"timeout"` // Go duration string
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
	Style    string `yaml:"style"`    // Stylesheet name or path
}

// ServerConfig defines the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	MaxUploadBytes int64    `yaml:"maxUploadBytes"`
	IdentityHeader string   `yaml:"identityHeader"` // Trusted header carrying the owner id
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

// StorageConfig defines conversion history persistence.
type StorageConfig struct {
	Driver       string `yaml:"driver"` // "none", "sqlite", "postgres"
	DSN          string `yaml:"dsn"`
	SQLitePath   string `yaml:"sqlitePath"` // Fallback database when postgres is unreachable
	ArtifactsDir string `yaml:"artifactsDir"`
}

// CacheConfig defines the preview cache.
type CacheConfig struct {
	RedisAddr     string `yaml:"redisAddr"` // Empty = in-memory cache
	RedisPassword string `yaml:"redisPassword"`
	TTL           string `yaml:"ttl"`
}

// LogConfig defines the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text", "json"
}

// PDFTimeout returns the parsed PDF timeout, or the default when unset.
func (c *Config) PDFTimeout() time.Duration {
	return parseDuration(c.PDF.Timeout, DefaultPDFTimeout)
}

// CacheTTL returns the parsed cache TTL, or the default when unset.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, DefaultCacheTTL)
}

func parseDuration(value, fallback string) time.Duration {
	if value == "" {
		value = fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"document.palette", c.Document.Palette, MaxPaletteLength},
		{"document.dateFormat", c.Document.DateFormat, MaxDateFormatLength},
		{"document.highlight", c.Document.Highlight, MaxStyleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.style", c.Assets.Style, MaxPathLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"server.identityHeader", c.Server.IdentityHeader, MaxHeaderLength},
		{"storage.dsn", c.Storage.DSN, MaxDSNLength},
		{"storage.sqlitePath", c.Storage.SQLitePath, MaxPathLength},
		{"storage.artifactsDir", c.Storage.ArtifactsDir, MaxPathLength},
		{"cache.redisAddr", c.Cache.RedisAddr, MaxAddrLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.Document.Palette != "" && !palette.IsValid(c.Document.Palette) {
		return fmt.Errorf("%w: document.palette %q (valid: %s)", ErrInvalidValue,
			c.Document.Palette, strings.Join(paletteNames(), ", "))
	}
	if c.Document.DateFormat != "" {
		if _, err := dateutil.Parse(c.Document.DateFormat); err != nil {
			return fmt.Errorf("%w: document.dateFormat: %v", ErrInvalidValue, err)
		}
	}

	switch strings.ToLower(c.PDF.Engine) {
	case "", "auto", "chrome", "native":
	default:
		return fmt.Errorf("%w: pdf.engine %q (must be auto, chrome, or native)", ErrInvalidValue, c.PDF.Engine)
	}
	if err := validateDuration("pdf.timeout", c.PDF.Timeout); err != nil {
		return err
	}
	if err := validateDuration("cache.ttl", c.Cache.TTL); err != nil {
		return err
	}

	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("%w: server.maxUploadBytes must not be negative, got %d", ErrInvalidValue, c.Server.MaxUploadBytes)
	}
	if len(c.Server.AllowedOrigins) > MaxOrigins {
		return fmt.Errorf("%w: server.allowedOrigins has %d entries (max %d)", ErrInvalidValue, len(c.Server.AllowedOrigins), MaxOrigins)
	}

	switch strings.ToLower(c.Storage.Driver) {
	case "", DriverNone, DriverSQLite:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("%w: storage.dsn: required when driver is postgres", ErrInvalidValue)
		}
	default:
		return fmt.Errorf("%w: storage.driver %q (must be none, sqlite, or postgres)", ErrInvalidValue, c.Storage.Driver)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be text or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

func paletteNames() []string {
	keys := palette.Keys()
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return names
}

func validateDuration(field, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, field, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, field, value)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Document: DocumentConfig{
			Palette:    palette.DefaultKey,
			DateFormat: dateutil.DefaultSetting,
		},
		PDF: PDFConfig{Engine: "auto", Timeout: DefaultPDFTimeout},
		Server: ServerConfig{
			Addr:           DefaultAddr,
			MaxUploadBytes: DefaultMaxUploadBytes,
			IdentityHeader: DefaultIdentityHeader,
		},
		Storage: StorageConfig{
			Driver:       DriverNone,
			SQLitePath:   DefaultSQLitePath,
			ArtifactsDir: DefaultArtifactsDir,
		},
		Cache: CacheConfig{TTL: DefaultCacheTTL},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Values absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.LooksLikePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, $XDG_CONFIG_HOME/readmeforge/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.IsRegularFile(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileutil.IsRegularFile(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
