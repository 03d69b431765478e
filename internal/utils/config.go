package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/model"
)

const (
	EnvHost     = "PRINT_AGENT_HOST"
	EnvPort     = "PRINT_AGENT_PORT"
	EnvLogDir   = "PRINT_AGENT_LOG_DIR"
	EnvLogLevel = "PRINT_AGENT_LOG_LEVEL"
)

// tomlConfig mirrors model.Config so meta.IsDefined can tell which keys the
// file actually sets.
type tomlConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	LogDir    string `toml:"log_dir"`
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// LoadConfig layers defaults, the optional config file and the environment.
// CLI flags are applied on top by the caller before ValidateConfig.
func LoadConfig(path string) (model.Config, error) {
	config := model.DefaultConfig()

	if path != "" {
		if err := loadConfigFile(path, &config); err != nil {
			return config, err
		}
	}

	applyEnvOverrides(&config)
	return config, nil
}

func loadConfigFile(path string, config *model.Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadToml(path, config)
	case ".yaml", ".yml":
		return loadYaml(path, config)
	default:
		return fmt.Errorf("config load failed (%s): unsupported extension", path)
	}
}

func loadYaml(path string, config *model.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func loadToml(path string, config *model.Config) error {
	var raw tomlConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}

	if meta.IsDefined("host") {
		config.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		config.Port = raw.Port
	}
	if meta.IsDefined("log_dir") {
		config.LogDir = strings.TrimSpace(raw.LogDir)
	}
	if meta.IsDefined("log_level") {
		config.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("log_format") {
		config.LogFormat = strings.TrimSpace(raw.LogFormat)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides. An invalid port
// is ignored rather than reported.
func applyEnvOverrides(config *model.Config) {
	if host := strings.TrimSpace(os.Getenv(EnvHost)); host != "" {
		config.Host = host
	}
	if port, ok := ParsePort(os.Getenv(EnvPort)); ok {
		config.Port = port
	}
	if dir := strings.TrimSpace(os.Getenv(EnvLogDir)); dir != "" {
		config.LogDir = dir
	}
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		config.LogLevel = level
	}
}

func ValidateConfig(config model.Config) error {
	if strings.TrimSpace(config.Host) == "" {
		return fmt.Errorf("listen host cannot be empty")
	}
	if config.Port < 1 || config.Port > 65535 {
		return fmt.Errorf("listen port out of range: %d", config.Port)
	}
	if _, ok := ParseLogLevel(config.LogLevel); !ok {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}
	switch strings.ToLower(config.LogFormat) {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s", config.LogFormat)
	}
	return nil
}
