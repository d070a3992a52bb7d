package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("TEST_JWT_SECRET", "super-secret")

	yamlContent := `
app:
  name: "atelier"
  environment: "test"
store:
  driver: "memory"
auth:
  jwt_secret: "${TEST_JWT_SECRET}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "atelier" {
		t.Errorf("expected app name atelier, got %s", cfg.App.Name)
	}
	if cfg.Auth.JWTSecret != "super-secret" {
		t.Errorf("expected env-expanded jwt secret, got %q", cfg.Auth.JWTSecret)
	}
	if cfg.Store.Driver != "memory" {
		t.Errorf("expected memory driver, got %s", cfg.Store.Driver)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid mongo config",
			cfg: Config{
				Store: StoreConfig{Driver: "mongo", URI: "mongodb://localhost:27017", Database: "atelier"},
				Auth:  AuthConfig{JWTSecret: "secret"},
			},
			wantErr: false,
		},
		{
			name: "valid memory config",
			cfg: Config{
				Store: StoreConfig{Driver: "memory"},
				Auth:  AuthConfig{JWTSecret: "secret"},
			},
			wantErr: false,
		},
		{
			name: "mongo without uri",
			cfg: Config{
				Store: StoreConfig{Driver: "mongo", Database: "atelier"},
				Auth:  AuthConfig{JWTSecret: "secret"},
			},
			wantErr: true,
		},
		{
			name: "mongo without database",
			cfg: Config{
				Store: StoreConfig{Driver: "mongo", URI: "mongodb://localhost:27017"},
				Auth:  AuthConfig{JWTSecret: "secret"},
			},
			wantErr: true,
		},
		{
			name: "unknown driver",
			cfg: Config{
				Store: StoreConfig{Driver: "cassandra"},
				Auth:  AuthConfig{JWTSecret: "secret"},
			},
			wantErr: true,
		},
		{
			name: "missing jwt secret",
			cfg: Config{
				Store: StoreConfig{Driver: "memory"},
			},
			wantErr: true,
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

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Store.Driver != "mongo" {
		t.Errorf("expected default driver mongo, got %s", cfg.Store.Driver)
	}
	if cfg.Auth.TokenTTLMinutes != 60 {
		t.Errorf("expected default token ttl 60 minutes, got %d", cfg.Auth.TokenTTLMinutes)
	}
	if cfg.Store.OpTimeoutSeconds != 5 {
		t.Errorf("expected default op timeout 5s, got %d", cfg.Store.OpTimeoutSeconds)
	}
	if cfg.Server.ShutdownTimeoutSeconds != 10 {
		t.Errorf("expected default shutdown timeout 10s, got %d", cfg.Server.ShutdownTimeoutSeconds)
	}
}
