package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chartnav.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
storage:
  backend: "parquet"
  data_dir: "/tmp/chartnav/data"
server:
  host: "127.0.0.1"
  port: 8080
logging:
  level: "debug"
  format: "json"
catalog:
  dict_resource: "default"
  n_days_daily: 45
  n_days_intraday: 3
indicators:
  - name: SMA
    parameters:
      period: 20
  - name: SMA
    parameters:
      period: 50
`)

	os.Unsetenv("DATA_DIR")
	os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Storage.DataDir != "/tmp/chartnav/data" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d", cfg.Server.Port)
	}
	if cfg.Catalog.NDaysDaily != 45 || cfg.Catalog.NDaysIntraday != 3 {
		t.Errorf("radii = %d/%d, want 45/3", cfg.Catalog.NDaysDaily, cfg.Catalog.NDaysIntraday)
	}
	if len(cfg.Indicators) != 2 || cfg.Indicators[0].Name != "SMA" {
		t.Fatalf("Indicators = %+v", cfg.Indicators)
	}
}

func TestLoadResourceDefaults(t *testing.T) {
	path := writeConfig(t, `
catalog:
  dict_resource: "default"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Catalog.DataResource != "default_data" {
		t.Errorf("DataResource = %q, want default_data", cfg.Catalog.DataResource)
	}
	if cfg.Catalog.MinuteResource != "default_min" {
		t.Errorf("MinuteResource = %q, want default_min", cfg.Catalog.MinuteResource)
	}
	if cfg.Catalog.NDaysDaily != 30 {
		t.Errorf("NDaysDaily default = %d, want 30", cfg.Catalog.NDaysDaily)
	}
	if cfg.Catalog.NDaysIntraday != 5 {
		t.Errorf("NDaysIntraday default = %d, want 5", cfg.Catalog.NDaysIntraday)
	}
	if cfg.Storage.Backend != "parquet" {
		t.Errorf("Backend default = %q, want parquet", cfg.Storage.Backend)
	}
}

func TestLoadValidatesRanges(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			"daily radius too large",
			"catalog:\n  dict_resource: d\n  n_days_daily: 400\n",
			"n_days_daily",
		},
		{
			"intraday radius too large",
			"catalog:\n  dict_resource: d\n  n_days_intraday: 21\n",
			"n_days_intraday",
		},
		{
			"negative daily radius",
			"catalog:\n  dict_resource: d\n  n_days_daily: -1\n",
			"n_days_daily",
		},
		{
			"unknown backend",
			"storage:\n  backend: feather\n",
			"backend",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  data_dir: "/original/data"
catalog:
  dict_resource: "default"
`)

	os.Setenv("DATA_DIR", "/env/data")
	os.Setenv("LOG_LEVEL", "debug")
	defer os.Unsetenv("DATA_DIR")
	defer os.Unsetenv("LOG_LEVEL")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.DataDir != "/env/data" {
		t.Errorf("DataDir = %q, want env override", cfg.Storage.DataDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
}
