package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("expected sqlite driver, got '%s'", cfg.Database.Driver)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Generator.Days != 600 {
		t.Errorf("expected 600 days, got %d", cfg.Generator.Days)
	}
	if !reflect.DeepEqual(cfg.Generator.Distribution, []int{0, 0, 1, 1, 2, 4, 6}) {
		t.Errorf("unexpected distribution %v", cfg.Generator.Distribution)
	}
	if cfg.Generator.HourMin != 10 || cfg.Generator.HourMax != 16 {
		t.Errorf("unexpected hours %d..%d", cfg.Generator.HourMin, cfg.Generator.HourMax)
	}
	if cfg.Generator.ConcentrationMin != 3.5 || cfg.Generator.ConcentrationMax != 7.4 {
		t.Errorf("unexpected concentration range %v..%v", cfg.Generator.ConcentrationMin, cfg.Generator.ConcentrationMax)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
database:
  driver: postgres
  dsn: postgres://u:p@db:5432/elm?sslmode=disable
  max_conns: 4
logging:
  level: debug
generator:
  days: 30
  distribution: [1, 2]
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.MaxConns != 4 {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug, got '%s'", cfg.Logging.Level)
	}
	if cfg.Generator.Days != 30 || !reflect.DeepEqual(cfg.Generator.Distribution, []int{1, 2}) {
		t.Errorf("unexpected generator config %+v", cfg.Generator)
	}
	// Unset keys keep their defaults.
	if cfg.Generator.HourMin != 10 || cfg.Generator.ConcentrationMax != 7.4 {
		t.Errorf("defaults lost: %+v", cfg.Generator)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("database: [unclosed"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ELMCHART_DB_DRIVER", "POSTGRES")
	t.Setenv("ELMCHART_DB_DSN", "postgres://env/elm")
	t.Setenv("ELMCHART_LOG_LEVEL", "trace")
	t.Setenv("ELMCHART_SEED", "42")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("expected postgres, got '%s'", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "postgres://env/elm" {
		t.Errorf("unexpected dsn '%s'", cfg.Database.DSN)
	}
	if cfg.Logging.Level != "trace" {
		t.Errorf("expected trace, got '%s'", cfg.Logging.Level)
	}
	if cfg.Generator.Seed != 42 {
		t.Errorf("expected seed 42, got %d", cfg.Generator.Seed)
	}
}

func TestLoad_BadSeed(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("ELMCHART_SEED", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Fatal("expected error for invalid ELMCHART_SEED")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"postgres", func(c *Config) { c.Database.Driver = "postgres" }, false},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"negative max conns", func(c *Config) { c.Database.MaxConns = -1 }, true},
		{"empty level", func(c *Config) { c.Logging.Level = "" }, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
