package config

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultUserAgent is the default User-Agent string sent with all HTTP requests.
const DefaultUserAgent = "Addic7edSubtitles/1.0 (+https://github.com/Belphemur/Addic7edSubtitles)"

// Provider strategies
const (
	StrategyGestdown = "gestdown"
	StrategyAddic7ed = "addic7ed"
)

// ProviderConfig selects and configures the subtitle source
type ProviderConfig struct {
	Strategy      string `mapstructure:"strategy"`       // "gestdown" (JSON API) or "addic7ed" (HTML scraping)
	GestdownURL   string `mapstructure:"gestdown_url"`   // Base URL of the Gestdown API
	Addic7edURL   string `mapstructure:"addic7ed_url"`   // Base URL of the Addic7ed website
	LoginCooldown string `mapstructure:"login_cooldown"` // Go duration string, minimum delay between two logins
}

// BreakerConfig configures the circuit breaker wrapping the HTTP transport
type BreakerConfig struct {
	FailureThreshold uint   `mapstructure:"failure_threshold"`
	Delay            string `mapstructure:"delay"` // Go duration string
}

// LibraryConfig configures the host media catalog used to resolve series identifiers
type LibraryConfig struct {
	Type       string `mapstructure:"type"` // "sqlite" or "emby"
	EmbyURL    string `mapstructure:"emby_url"`
	EmbyAPIKey string `mapstructure:"emby_api_key"`
}

// CacheConfig configures the cache placed in front of the library catalog
type CacheConfig struct {
	Type  string `mapstructure:"type"` // "memory", "redis" or "" to disable
	Size  int    `mapstructure:"size"` // Maximum number of entries in the LRU cache
	TTL   string `mapstructure:"ttl"`  // Go duration string like "1h", "24h", etc.
	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
}

// CredentialsConfig configures how stored passwords are encrypted at rest
type CredentialsConfig struct {
	Passphrase string `mapstructure:"passphrase"`
	UseKeyring bool   `mapstructure:"use_keyring"`
}

type Config struct {
	ProxyConnectionString string         `mapstructure:"proxy_connection_string"`
	ClientTimeout         string         `mapstructure:"client_timeout"` // Go duration string like "30s", "1h", etc.
	UserAgent             string         `mapstructure:"user_agent"`
	Provider              ProviderConfig `mapstructure:"provider"`
	Breaker               BreakerConfig  `mapstructure:"breaker"`
	Server                struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	HTTP struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"http"`
	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`
	Library     LibraryConfig     `mapstructure:"library"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	LogLevel    string            `mapstructure:"log_level"`
	LogFile     string            `mapstructure:"log_file"`
	Sentry      struct {
		DSN         string `mapstructure:"dsn"`
		Environment string `mapstructure:"environment"`
	} `mapstructure:"sentry"`
}

var (
	mu           sync.RWMutex
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stdout,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	Use(config)
	logger.Info().Msg("Configuration loaded successfully")
}

// Use installs cfg as the process configuration and reconfigures the logger from it.
func Use(cfg *Config) {
	l := configureLogger(cfg)

	mu.Lock()
	globalConfig = cfg
	logger = l
	mu.Unlock()
}

func configureLogger(cfg *Config) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: false}
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	l := zerolog.New(out).With().Timestamp().Logger()

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if cfg.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			level = parsedLevel
		} else {
			l.Warn().Str("invalid_level", cfg.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	// Set the global log level
	zerolog.SetGlobalLevel(level)
	l = l.Level(level)
	l.Debug().Str("level", level.String()).Msg("Logging configured")
	return l
}

// LoadConfig reads config.yaml from the working directory or ./config.
func LoadConfig() (*Config, error) {
	return LoadConfigFile("")
}

// LoadConfigFile reads the configuration from path, or from the default
// locations when path is empty. Environment variables prefixed with APP_ override file values.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Add specific environment variable for log level
	_ = v.BindEnv("log_level", "LOG_LEVEL")

	setDefaults(v)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider.strategy", StrategyGestdown)
	v.SetDefault("provider.gestdown_url", "https://api.gestdown.info")
	v.SetDefault("provider.addic7ed_url", "https://www.addic7ed.com")
	v.SetDefault("provider.login_cooldown", "60s")
	v.SetDefault("client_timeout", "30s")
	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.delay", "1m")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.address", "localhost")
	v.SetDefault("http.enabled", true)
	v.SetDefault("http.port", 9090)
	v.SetDefault("database.path", "addic7ed.db")
	v.SetDefault("library.type", "sqlite")
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.size", 1000)
	v.SetDefault("cache.ttl", "24h")
}

func GetConfig() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return globalConfig
}

func GetUserAgent() string {
	cfg := GetConfig()
	if cfg != nil && cfg.UserAgent != "" {
		return cfg.UserAgent
	}

	return DefaultUserAgent
}

func GetLogger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// ParseDuration parses a Go duration string from the configuration, falling back to
// fallback (and logging a warning) when the value is empty or invalid.
func ParseDuration(key, value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		l := GetLogger()
		l.Warn().Err(err).Str("key", key).Str("value", value).Dur("fallback", fallback).Msg("Invalid duration, using default")
		return fallback
	}
	return d
}
