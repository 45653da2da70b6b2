package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent is the User-Agent sent with every HTTP request. The
// nerinyan mirror rejects requests that do not look like a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36 OPR/108.0.0.0"

// Default endpoints.
const (
	DefaultListingBaseURL = "https://osu.ppy.sh"
	DefaultMirrorBaseURL  = "https://api.nerinyan.moe"
)

// Settings holds all configuration options.
type Settings struct {
	// Endpoints
	ListingBaseURL string `mapstructure:"listing_base_url"`
	MirrorBaseURL  string `mapstructure:"mirror_base_url"`
	UserAgent      string `mapstructure:"user_agent"`

	// Output
	OutputDir string `mapstructure:"output_dir"`

	// Pacing and retries
	PageDelay      time.Duration `mapstructure:"page_delay"`
	DownloadDelay  time.Duration `mapstructure:"download_delay"`
	RateLimitDelay time.Duration `mapstructure:"rate_limit_delay"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryExponent  float64       `mapstructure:"retry_exponent"`

	// HTTP client
	ClientTimeout time.Duration `mapstructure:"client_timeout"`

	LogLevel string `mapstructure:"log_level"`
}

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	}).With().Timestamp().Logger()
}

// DefaultSettings returns settings with default values. The defaults
// reproduce the pacing the osu! and nerinyan endpoints expect: one second
// between requests, ten seconds after a rate-limit response.
func DefaultSettings() *Settings {
	return &Settings{
		ListingBaseURL: DefaultListingBaseURL,
		MirrorBaseURL:  DefaultMirrorBaseURL,
		UserAgent:      DefaultUserAgent,
		OutputDir:      ".",
		PageDelay:      time.Second,
		DownloadDelay:  time.Second,
		RateLimitDelay: 10 * time.Second,
		MaxRetries:     5,
		RetryExponent:  2.0,
		ClientTimeout:  60 * time.Second,
		LogLevel:       "info",
	}
}

// Load reads settings from an optional config file and the environment.
//
// When path is empty, a config.yaml is searched in the working directory and
// in ./config; a missing file is not an error and defaults apply. Every key
// can also be set through an OSUDL_ prefixed environment variable, e.g.
// OSUDL_OUTPUT_DIR.
func Load(path string) (*Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("listing_base_url", defaults.ListingBaseURL)
	v.SetDefault("mirror_base_url", defaults.MirrorBaseURL)
	v.SetDefault("user_agent", defaults.UserAgent)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("page_delay", defaults.PageDelay)
	v.SetDefault("download_delay", defaults.DownloadDelay)
	v.SetDefault("rate_limit_delay", defaults.RateLimitDelay)
	v.SetDefault("max_retries", defaults.MaxRetries)
	v.SetDefault("retry_exponent", defaults.RetryExponent)
	v.SetDefault("client_timeout", defaults.ClientTimeout)
	v.SetDefault("log_level", defaults.LogLevel)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("OSUDL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}
	if settings.UserAgent == "" {
		settings.UserAgent = DefaultUserAgent
	}

	return &settings, nil
}

// ApplyLogLevel sets the global log level from the settings. An invalid
// level falls back to info with a warning.
func ApplyLogLevel(s *Settings) {
	level := zerolog.InfoLevel
	if s.LogLevel != "" {
		parsed, err := zerolog.ParseLevel(s.LogLevel)
		if err != nil {
			logger.Warn().Str("invalid_level", s.LogLevel).Msg("Invalid log level, using default 'info'")
		} else {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)
}

// GetLogger returns the shared application logger.
func GetLogger() zerolog.Logger {
	return logger
}
