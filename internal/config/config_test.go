package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

// resetViper clears all viper state between tests to avoid cross-contamination.
func resetViper() {
	viper.Reset()
}

func TestLoad_Defaults(t *testing.T) {
	resetViper()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Scenario", cfg.Scenario, "scenario.toml"},
		{"TelemetryPath", cfg.TelemetryPath, ""},
		{"LogLevel", cfg.LogLevel, "info"},
		{"LogFile", cfg.LogFile, ""},
		{"Verbose", cfg.Verbose, false},
		{"Days", cfg.Days, 0},
		{"NoColor", cfg.NoColor, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetViper()

	tests := []struct {
		name   string
		envKey string
		envVal string
		field  func(Config) any
		want   any
	}{
		{
			name:   "scenario",
			envKey: "PHENO_SCENARIO",
			envVal: "/srv/crops/wheat.toml",
			field:  func(c Config) any { return c.Scenario },
			want:   "/srv/crops/wheat.toml",
		},
		{
			name:   "telemetry_path",
			envKey: "PHENO_TELEMETRY_PATH",
			envVal: "/tmp/events.jsonl",
			field:  func(c Config) any { return c.TelemetryPath },
			want:   "/tmp/events.jsonl",
		},
		{
			name:   "log_level",
			envKey: "PHENO_LOG_LEVEL",
			envVal: "warn",
			field:  func(c Config) any { return c.LogLevel },
			want:   "warn",
		},
		{
			name:   "days",
			envKey: "PHENO_DAYS",
			envVal: "42",
			field:  func(c Config) any { return c.Days },
			want:   42,
		},
		{
			name:   "no_color",
			envKey: "PHENO_NO_COLOR",
			envVal: "true",
			field:  func(c Config) any { return c.NoColor },
			want:   true,
		},
		{
			name:   "verbose forces debug",
			envKey: "PHENO_VERBOSE",
			envVal: "true",
			field:  func(c Config) any { return c.LogLevel },
			want:   "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			// Set env prefix so PHENO_* env vars map to config keys.
			viper.SetEnvPrefix("PHENO")
			viper.AutomaticEnv()

			t.Setenv(tt.envKey, tt.envVal)

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			got := tt.field(cfg)
			if got != tt.want {
				t.Errorf("%s: got %v (%T), want %v (%T)", tt.name, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	resetViper()

	path := filepath.Join(t.TempDir(), ".pheno.yaml")
	content := "scenario: crops/maize.toml\nlog_level: error\ndays: 90\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Scenario != "crops/maize.toml" {
		t.Errorf("Scenario = %q", cfg.Scenario)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.Days != 90 {
		t.Errorf("Days = %d", cfg.Days)
	}
	if cfg.TelemetryPath != "" {
		t.Errorf("unset key should keep default, got %q", cfg.TelemetryPath)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"unknown log level", "log_level", "chatty"},
		{"negative days", "days", -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper()
			viper.Set(tt.key, tt.val)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%v", tt.key, tt.val)
			}
		})
	}
}
