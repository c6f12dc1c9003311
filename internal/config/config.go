package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SimConfig holds defaults for simulation queries.
type SimConfig struct {
	MaxHP     int `json:"maxHP" mapstructure:"maxHP"`
	TimeoutMs int `json:"timeoutMs" mapstructure:"timeoutMs"`
	Workers   int `json:"workers" mapstructure:"workers"`
	MaxPoints int `json:"maxPoints" mapstructure:"maxPoints"` // upper bound on /curve distances
}

// Config is the service configuration.
type Config struct {
	ListenAddr    string        `json:"listenAddr" mapstructure:"listenAddr"`
	GRPCAddr      string        `json:"grpcAddr" mapstructure:"grpcAddr"`
	DataDir       string        `json:"dataDir" mapstructure:"dataDir"`
	LogLevel      string        `json:"logLevel" mapstructure:"logLevel"`
	LogPretty     bool          `json:"logPretty" mapstructure:"logPretty"`
	Watch         bool          `json:"watch" mapstructure:"watch"`
	WatchDebounce time.Duration `json:"watchDebounce" mapstructure:"watchDebounce"`
	Sim           SimConfig     `json:"sim" mapstructure:"sim"`
}

const (
	configName = "ttk"
	envPrefix  = "TTK"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("listenAddr", ":8080")
	v.SetDefault("grpcAddr", ":9090")
	v.SetDefault("dataDir", "./data")
	v.SetDefault("logLevel", "info")
	v.SetDefault("logPretty", false)
	v.SetDefault("watch", true)
	v.SetDefault("watchDebounce", "200ms")

	v.SetDefault("sim.maxHP", 100)
	v.SetDefault("sim.timeoutMs", 10000)
	v.SetDefault("sim.workers", 4)
	v.SetDefault("sim.maxPoints", 2000)
}

// Load reads ttk.yaml from configDir when present, applies TTK_* environment overrides
// (TTK_SIM_WORKERS for sim.workers) and fills the rest with defaults.
func Load(configDir string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(configName)
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges after decoding.
func (c Config) Validate() error {
	var errs []string
	if c.ListenAddr == "" {
		errs = append(errs, "listenAddr is required")
	}
	if c.DataDir == "" {
		errs = append(errs, "dataDir is required")
	}
	if c.Sim.MaxHP < 1 {
		errs = append(errs, "sim.maxHP must be >= 1")
	}
	if c.Sim.TimeoutMs < 0 {
		errs = append(errs, "sim.timeoutMs must be >= 0 (0 disables the timeout)")
	}
	if c.Sim.Workers < 1 {
		errs = append(errs, "sim.workers must be >= 1")
	}
	if c.Sim.MaxPoints < 1 {
		errs = append(errs, "sim.maxPoints must be >= 1")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
