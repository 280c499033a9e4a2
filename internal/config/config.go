package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Game        GameConfig        `mapstructure:"game"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Turn        TurnConfig        `mapstructure:"turn"`
	Development DevelopmentConfig `mapstructure:"development"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type GameConfig struct {
	DefaultRule string `mapstructure:"default_rule"`
}

type AuthConfig struct {
	// KeyPath points at a PEM encoded EC key. When empty a key is generated at
	// startup and tokens do not survive a restart.
	KeyPath  string        `mapstructure:"key_path"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type TurnConfig struct {
	SecondsPerTurn int `mapstructure:"seconds_per_turn"`
}

// Limit is the turn clock limit; zero disables the clock.
func (t TurnConfig) Limit() time.Duration {
	if t.SecondsPerTurn <= 0 {
		return 0
	}
	return time.Duration(t.SecondsPerTurn) * time.Second
}

type DevelopmentConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

func Load() (*Config, error) {
	return load(viper.New(), ".", "./config")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Enable environment variables
	v.SetEnvPrefix("ATBG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("game.default_rule", "RuleBgCasual")
	v.SetDefault("auth.key_path", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("turn.seconds_per_turn", 0)
	v.SetDefault("development.debug", false)
	v.SetDefault("development.log_level", "info")

	// Read config
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, defaults and environment still apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Game: GameConfig{
			DefaultRule: "RuleBgCasual",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Development: DevelopmentConfig{
			Debug:    false,
			LogLevel: "info",
		},
	}
}
