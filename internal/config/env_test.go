package config

import (
	"reflect"
	"testing"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(name string) string { return vars[name] }
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		vars  map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "no variables keeps config",
			vars: nil,
			check: func(t *testing.T, cfg *Config) {
				if !reflect.DeepEqual(cfg, DefaultConfig()) {
					t.Errorf("config changed without env: %+v", cfg)
				}
			},
		},
		{
			name: "overrides document and pdf",
			vars: map[string]string{
				EnvPalette:    "wine",
				EnvPDFEngine:  "native",
				EnvPDFTimeout: "1m",
				EnvAddr:       ":9090",
				EnvRedisAddr:  "localhost:6379",
				EnvLogLevel:   "debug",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Document.Palette != "wine" || cfg.PDF.Engine != "native" {
					t.Errorf("Document/PDF = %+v %+v", cfg.Document, cfg.PDF)
				}
				if cfg.PDF.Timeout != "1m" || cfg.Server.Addr != ":9090" {
					t.Errorf("timeout/addr = %q %q", cfg.PDF.Timeout, cfg.Server.Addr)
				}
				if cfg.Cache.RedisAddr != "localhost:6379" || cfg.Log.Level != "debug" {
					t.Errorf("cache/log = %+v %+v", cfg.Cache, cfg.Log)
				}
			},
		},
		{
			name: "dsn selects postgres",
			vars: map[string]string{EnvStorageDSN: "postgres://db/readmeforge"},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Storage.Driver != DriverPostgres || cfg.Storage.DSN != "postgres://db/readmeforge" {
					t.Errorf("Storage = %+v", cfg.Storage)
				}
			},
		},
		{
			name: "blank values are ignored",
			vars: map[string]string{EnvPalette: "   "},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Document.Palette != "default" {
					t.Errorf("Document.Palette = %q, want default", cfg.Document.Palette)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			ApplyEnv(cfg, fakeEnv(tt.vars))
			tt.check(t, cfg)
		})
	}
}

func TestApplyEnv_KeepsExplicitSQLiteDriver(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Storage.Driver = DriverSQLite
	ApplyEnv(cfg, fakeEnv(map[string]string{EnvStorageDSN: "file:x.db"}))

	if cfg.Storage.Driver != DriverSQLite {
		t.Errorf("Storage.Driver = %q, want sqlite", cfg.Storage.Driver)
	}
}

func TestUnknownEnvVars(t *testing.T) {
	t.Parallel()

	environ := []string{
		"PATH=/usr/bin",
		"READMEFORGE_PALETTE=ocean",
		"READMEFORGE_PALLETE=ocean",
		"READMEFORGE_ADR=:80",
	}

	got := UnknownEnvVars(environ)
	want := []string{"READMEFORGE_ADR", "READMEFORGE_PALLETE"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnknownEnvVars() = %v, want %v", got, want)
	}
}
