package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvHost, EnvPort, EnvLogDir, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Host != "0.0.0.0" {
		t.Fatalf("unexpected host: %q", cfg.Host)
	}
	if cfg.Port != 18080 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
	if err := ValidateConfig(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfigYAMLOverlay(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "agent.yaml", "host: 127.0.0.1\nport: 19000\nlog_level: debug\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Host != "127.0.0.1" {
		t.Fatalf("unexpected host: %q", cfg.Host)
	}
	if cfg.Port != 19000 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
	if cfg.LogFormat != model.DefaultLogFormat {
		t.Fatalf("absent key should keep default, got %q", cfg.LogFormat)
	}
}

func TestLoadConfigTOMLOverlay(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "agent.toml", "port = 19001\nlog_dir = \"/var/log/agent\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != 19001 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	if cfg.LogDir != "/var/log/agent" {
		t.Fatalf("unexpected log dir: %q", cfg.LogDir)
	}
	if cfg.Host != model.DefaultListenHost {
		t.Fatalf("absent key should keep default, got %q", cfg.Host)
	}
}

func TestLoadConfigRejectsUnknownExtension(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "agent.json", "{}")

	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unsupported extension")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearEnv(t)

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "agent.yaml", "port: 19000\n")
	t.Setenv(EnvHost, "192.168.1.10")
	t.Setenv(EnvPort, "19002")
	t.Setenv(EnvLogDir, "/tmp/agent-logs")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Host != "192.168.1.10" {
		t.Fatalf("unexpected host: %q", cfg.Host)
	}
	if cfg.Port != 19002 {
		t.Fatalf("env port should win over file, got %d", cfg.Port)
	}
	if cfg.LogDir != "/tmp/agent-logs" {
		t.Fatalf("unexpected log dir: %q", cfg.LogDir)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadConfigIgnoresInvalidEnvPort(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "agent.yaml", "port: 19000\n")
	t.Setenv(EnvPort, "99999")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Port != 19000 {
		t.Fatalf("invalid env port should be skipped, got %d", cfg.Port)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := model.DefaultConfig()
	if err := ValidateConfig(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noHost := valid
	noHost.Host = " "
	if err := ValidateConfig(noHost); err == nil {
		t.Fatalf("expected error for empty host")
	}

	badPort := valid
	badPort.Port = 0
	if err := ValidateConfig(badPort); err == nil {
		t.Fatalf("expected error for port 0")
	}

	badLevel := valid
	badLevel.LogLevel = "loud"
	if err := ValidateConfig(badLevel); err == nil {
		t.Fatalf("expected error for unknown log level")
	}

	badFormat := valid
	badFormat.LogFormat = "xml"
	if err := ValidateConfig(badFormat); err == nil {
		t.Fatalf("expected error for unknown log format")
	}
}
