package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultSubtitleExtensions is the allow-list used to recognise subtitle files in a torrent.
var DefaultSubtitleExtensions = []string{".srt", ".vtt"}

type Config struct {
	LogLevel string `mapstructure:"log_level"`
	Log      struct {
		File       string `mapstructure:"file"`
		MaxSize    int    `mapstructure:"max_size"` // megabytes
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age"` // days
		Compress   bool   `mapstructure:"compress"`
	} `mapstructure:"log"`
	// Locale overrides the host locale used for subtitle auto-selection (e.g. "fr", "pt-BR").
	Locale    string `mapstructure:"locale"`
	Subtitles struct {
		Extensions      []string `mapstructure:"extensions"`
		LoadConcurrency int      `mapstructure:"load_concurrency"`
		LoadTimeout     string   `mapstructure:"load_timeout"` // Go duration string like "10s"
	} `mapstructure:"subtitles"`
	Cache struct {
		Provider    string `mapstructure:"provider"` // "memory" or "redis"
		Size        int    `mapstructure:"size"`     // Maximum number of entries in the LRU cache
		TTL         string `mapstructure:"ttl"`      // Go duration string like "1h", "24h", etc.
		Compression string `mapstructure:"compression"`
	} `mapstructure:"cache"`
	Redis struct {
		Address  string `mapstructure:"address"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Server struct {
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`
	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`
	Torrent struct {
		DataDir      string `mapstructure:"data_dir"`
		PollInterval string `mapstructure:"poll_interval"`
	} `mapstructure:"torrent"`
}

var (
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

	if config.Log.File != "" {
		logger = zerolog.New(newLogWriter(config)).With().Timestamp().Logger()
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	logger.Debug().Str("level", level.String()).Str("file", config.Log.File).Msg("Logging configured")
	globalConfig = config
}

// newLogWriter fans log output out to the console and a rotating log file.
func newLogWriter(cfg *Config) io.Writer {
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
	return zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stdout}, fileWriter)
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variable support
	v.AutomaticEnv()
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("log_level", "LOG_LEVEL")

	v.SetDefault("log.max_size", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("subtitles.extensions", DefaultSubtitleExtensions)
	v.SetDefault("subtitles.load_concurrency", 4)
	v.SetDefault("subtitles.load_timeout", "30s")
	v.SetDefault("cache.provider", "memory")
	v.SetDefault("cache.size", 256)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.compression", "zstd")
	v.SetDefault("server.address", "localhost")
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("torrent.poll_interval", "1s")

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
	if len(config.Subtitles.Extensions) == 0 {
		config.Subtitles.Extensions = DefaultSubtitleExtensions
	}

	return &config, nil
}

// ParseDuration parses a Go duration string, logging and falling back to def when it is empty or invalid.
func ParseDuration(key, value string, def time.Duration) time.Duration {
	if value == "" {
		return def
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logger.Warn().Err(err).Str("key", key).Str("value", value).Dur("default", def).Msg("Invalid duration, using default")
		return def
	}
	return d
}

func GetConfig() *Config {
	return globalConfig
}

func GetLogger() zerolog.Logger {
	return logger
}
