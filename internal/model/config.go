package model

// --- Configuration Structures ---

const (
	DefaultListenHost  = "0.0.0.0"
	DefaultListenPort  = 18080
	DefaultPrinterPort = 9100
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "console"
	LogFileName        = "agent.log"
)

type Config struct {
	Host      string `yaml:"host" toml:"host"`
	Port      int    `yaml:"port" toml:"port"`
	LogDir    string `yaml:"log_dir" toml:"log_dir"`
	LogLevel  string `yaml:"log_level" toml:"log_level"`
	LogFormat string `yaml:"log_format" toml:"log_format"` // console | json
}

func DefaultConfig() Config {
	return Config{
		Host:      DefaultListenHost,
		Port:      DefaultListenPort,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}
