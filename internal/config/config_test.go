package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := LoadConfig(".")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.TrustProxy {
		t.Error("forwarding headers must not be trusted by default")
	}
	if cfg.Server.Port != "8080" || cfg.Bank.Source != "preguntas.json" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.TTL != 24*time.Hour || cfg.Bank.FetchTimeout != 8*time.Second {
		t.Errorf("unexpected durations: %+v %+v", cfg.Session, cfg.Bank)
	}
	if cfg.RateLimit.Window() != time.Minute || cfg.RateLimit.MaxRequests != 60 {
		t.Errorf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	want := []string{"http://localhost:5173", "https://localhost:5173"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Errorf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	yaml := "server:\n  port: \"9000\"\nbank:\n  source: bank.json\nsession:\n  ttl: 2h\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XABIREN_BANK_SOURCE", "https://example.org/bank.json")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("XABIREN_SERVER_TRUST_PROXY", "true")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Errorf("port = %q, want 9000 from file", cfg.Server.Port)
	}
	if cfg.Bank.Source != "https://example.org/bank.json" {
		t.Errorf("source = %q, env should win", cfg.Bank.Source)
	}
	if !cfg.Server.TrustProxy {
		t.Error("trust_proxy should be enabled from the environment")
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("ttl = %s", cfg.Session.TTL)
	}
	want := []string{"https://a.example", "https://b.example"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Errorf("origins = %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TLS_CERT", "cert.pem")
	if _, err := LoadConfig("."); err == nil {
		t.Fatal("expected an error when only the TLS cert is set")
	}
}
