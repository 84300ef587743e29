package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sagarc03/stash"
	stashhttp "github.com/sagarc03/stash/http"
	"github.com/sagarc03/stash/keybackend"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for stash.
type Config struct {
	Env     string                 `mapstructure:"env" validate:"required,oneof=development dev production prod test"`
	Server  ServerConfig           `mapstructure:"server"`
	Storage StorageConfig          `mapstructure:"storage"`
	Auth    keybackend.TokenConfig `mapstructure:"auth"`
	Paste   PasteConfig            `mapstructure:"paste"`
	CORS    stashhttp.CORSConfig   `mapstructure:"cors"`
	Log     LogConfig              `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port              int   `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxUploadSize     int64 `mapstructure:"max_upload_size" validate:"min=0"`
	ReadHeaderTimeout int   `mapstructure:"read_header_timeout" validate:"min=1"` // seconds
	IdleTimeout       int   `mapstructure:"idle_timeout" validate:"min=1"`        // seconds
}

// StorageConfig holds file storage configuration.
type StorageConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

// PasteConfig controls the HTML paste view.
type PasteConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// IsProduction reports whether the config selects the production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"storage-path":    "storage.path",
	"port":            "server.port",
	"max-upload-size": "server.max_upload_size",
	"log-level":       "log.level",
	"token-file":      "auth.token_file",
}

// bindFlags binds the flags that were set on the command line, renaming
// them through flagToViperKey.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.Visit(func(f *pflag.Flag) {
		key := f.Name
		if mapped, ok := flagToViperKey[key]; ok {
			key = mapped
		}
		_ = v.BindPFlag(key, f)
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")

	v.SetDefault("server.port", 8083)
	v.SetDefault("server.max_upload_size", stash.DefaultMaxUploadBytes)
	v.SetDefault("server.read_header_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)

	v.SetDefault("storage.path", "./data")

	v.SetDefault("auth.token", "")
	v.SetDefault("auth.token_file", "")

	v.SetDefault("paste.enabled", true)

	v.SetDefault("cors.enabled", false)
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "DELETE"})
	v.SetDefault("cors.allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("log.level", "info")
}

// loadDotEnv copies variables from ./.env into the process environment.
// Variables already set win; a missing file is not an error.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("error reading .env file", "err", err)
	}
}

// readFiles loads the given files in order, each overriding the last. With
// none given, ./config.yaml is read if it exists. Unreadable files are
// logged and skipped.
func readFiles(v *viper.Viper, files []string) {
	if len(files) == 0 {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			slog.Warn("error reading config file", "err", err)
		}
		return
	}

	for i, file := range files {
		v.SetConfigFile(file)
		read := v.MergeInConfig
		if i == 0 {
			read = v.ReadInConfig
		}
		if err := read(); err != nil {
			slog.Warn("error reading config file", "file", file, "err", err)
		}
	}
}

// bindEnv maps STASH_<SECTION>_<KEY> onto section.key, after pulling in .env.
func bindEnv(v *viper.Viper) {
	loadDotEnv()
	v.SetEnvPrefix("STASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// AUTH_TOKEN is the historical name; STASH_AUTH_TOKEN wins when both are set.
	_ = v.BindEnv("auth.token", "STASH_AUTH_TOKEN", "AUTH_TOKEN")
}

// Load builds the server configuration. Later sources override earlier
// ones: defaults, config files, environment (.env included), then flags
// that were set explicitly. flags may be nil.
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	readFiles(v, configFiles)
	bindEnv(v)
	if flags != nil {
		bindFlags(v, flags)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}
