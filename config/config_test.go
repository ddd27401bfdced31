package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	configContent := `
server:
  port: 9090
auth:
  jwt_secret: "test-secret"
  token_expire_hours: 48
  admin_emails:
    - "admin@mymir.test"
llm:
  api_url: "https://llm.test/v1"
  api_key: "test-key"
  model: "test-model"
  temperature: 0.2
  timeout_seconds: 30
extract:
  max_chars: 12000
store:
  db_path: "test.db"
log:
  level: "debug"
  format: "json"
`
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString(configContent); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	// Test loading config
	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Auth.JWTSecret != "test-secret" {
		t.Errorf("Expected jwt secret 'test-secret', got '%s'", cfg.Auth.JWTSecret)
	}
	if cfg.Auth.TokenExpireHours != 48 {
		t.Errorf("Expected 48 expire hours, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.LLM.APIURL != "https://llm.test/v1" {
		t.Errorf("Expected LLM api url, got '%s'", cfg.LLM.APIURL)
	}
	if cfg.LLM.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", cfg.LLM.Model)
	}
	if cfg.LLM.Temperature != 0.2 {
		t.Errorf("Expected temperature 0.2, got %f", cfg.LLM.Temperature)
	}
	if cfg.Extract.MaxChars != 12000 {
		t.Errorf("Expected max chars 12000, got %d", cfg.Extract.MaxChars)
	}
	if cfg.Store.DBPath != "test.db" {
		t.Errorf("Expected db path 'test.db', got '%s'", cfg.Store.DBPath)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Expected log level 'debug', got '%s'", cfg.Log.Level)
	}
}

func TestLoadDefaults(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString("server:\n  port: 0\n"); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Auth.TokenExpireHours != 24 {
		t.Errorf("Expected default 24 expire hours, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.LLM.Temperature != 0.3 {
		t.Errorf("Expected default temperature 0.3, got %f", cfg.LLM.Temperature)
	}
	if cfg.LLM.TimeoutSeconds != 120 {
		t.Errorf("Expected default timeout 120s, got %d", cfg.LLM.TimeoutSeconds)
	}
	if cfg.Extract.MaxChars != 15000 {
		t.Errorf("Expected default max chars 15000, got %d", cfg.Extract.MaxChars)
	}
	if cfg.Store.DBPath != "mymir.db" {
		t.Errorf("Expected default db path 'mymir.db', got '%s'", cfg.Store.DBPath)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.WriteString("auth:\n  jwt_secret: \"from-file\"\n"); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	tmpFile.Close()

	t.Setenv("MYMIR_JWT_SECRET", "from-env")
	t.Setenv("MYMIR_LLM_API_KEY", "key-from-env")

	cfg, err := Load(tmpFile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("Expected env to override jwt secret, got '%s'", cfg.Auth.JWTSecret)
	}
	if cfg.LLM.APIKey != "key-from-env" {
		t.Errorf("Expected env to override api key, got '%s'", cfg.LLM.APIKey)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestIsAdminEmail(t *testing.T) {
	cfg := &AuthConfig{AdminEmails: []string{"admin@mymir.test"}}

	if !cfg.IsAdminEmail("admin@mymir.test") {
		t.Error("Expected configured email to be admin")
	}
	if cfg.IsAdminEmail("user@mymir.test") {
		t.Error("Expected other email not to be admin")
	}
}
