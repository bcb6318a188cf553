package perch

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string        `mapstructure:"environment"`
	LogLevel    string        `mapstructure:"log_level"`
	LogFormat   string        `mapstructure:"log_format"`
	STT         VendorConfig  `mapstructure:"stt"`
	Metrics     MetricsConfig `mapstructure:"metrics"`
}

// VendorConfig selects a provider and carries its free-form settings, which
// each factory decodes and validates against its own schema.
type VendorConfig struct {
	Provider string         `mapstructure:"provider"`
	Settings map[string]any `mapstructure:"settings"`
}

type MetricsConfig struct {
	// JSONLPath enables the JSONL metrics sink when non-empty.
	JSONLPath string `mapstructure:"jsonl_path"`
	Buffer    int    `mapstructure:"buffer"`
}

func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("stt.provider", "canary")
	v.SetDefault("metrics.buffer", 256)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
