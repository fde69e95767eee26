package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: talento
database:
  path: data/talento.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.HTTP.Port != 8080 {
		t.Errorf("default http port = %d, want 8080", cfg.API.HTTP.Port)
	}
	if cfg.API.Auth.HeaderAPIKey != "x-api-key" {
		t.Errorf("default api key header = %q", cfg.API.Auth.HeaderAPIKey)
	}
	if cfg.API.RateLimit.RPS != 10 || cfg.API.RateLimit.Burst != 20 {
		t.Errorf("default rate limit = %v/%v", cfg.API.RateLimit.RPS, cfg.API.RateLimit.Burst)
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("default smtp port = %d", cfg.SMTP.Port)
	}
	if cfg.Notifications.QueueName != "talento:notify" {
		t.Errorf("default queue name = %q", cfg.Notifications.QueueName)
	}
	if cfg.Notifications.Workers != 2 {
		t.Errorf("default workers = %d", cfg.Notifications.Workers)
	}
	if cfg.Exports.Path != "exports" {
		t.Errorf("default exports path = %q", cfg.Exports.Path)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level = %q", cfg.Logging.Level)
	}
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("TEST_SMTP_PASSWORD", "secret123")

	path := writeConfig(t, `
database:
  path: data/talento.db
smtp:
  password: ${TEST_SMTP_PASSWORD}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SMTP.Password != "secret123" {
		t.Errorf("smtp password = %q, want expanded env value", cfg.SMTP.Password)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			"valid minimal",
			Config{Database: DatabaseConfig{Path: "data/talento.db"}},
			false,
		},
		{
			"missing database path",
			Config{},
			true,
		},
		{
			"auth enabled without keys",
			Config{
				Database: DatabaseConfig{Path: "data/talento.db"},
				API:      APIConfig{Auth: APIAuthConfig{Enabled: true}},
			},
			true,
		},
		{
			"empty api key",
			Config{
				Database: DatabaseConfig{Path: "data/talento.db"},
				API: APIConfig{Auth: APIAuthConfig{
					Enabled: true,
					APIKeys: []APIClientKey{{Name: "spa", Key: ""}},
				}},
			},
			true,
		},
		{
			"auth enabled with keys",
			Config{
				Database: DatabaseConfig{Path: "data/talento.db"},
				API: APIConfig{Auth: APIAuthConfig{
					Enabled: true,
					APIKeys: []APIClientKey{{Name: "spa", Key: "k1", Extra: "e1"}},
				}},
			},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
