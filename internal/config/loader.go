package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	logger       = logrus.New()
	mu           sync.Mutex
	currentCfg   *Config
)

// Load reads configuration from the given path (if non-empty), environment
// variables (prefix MDC_), and falls back to Default() for anything unset.
// Grounded on the teacher's viper-based loader: YAML file format, `.`->`_`
// env-key replacer, package-level logrus logger leveled from the resolved
// config.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MDC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := Default()
	setViperDefaults(v, def)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	applyLogLevel(cfg.Other.LogLevel)

	mu.Lock()
	currentCfg = cfg
	mu.Unlock()

	return cfg, nil
}

func setViperDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("scanner.extensions", def.Scanner.Extensions)
	v.SetDefault("scanner.nfo_skip_days", def.Scanner.NfoSkipDays)
	v.SetDefault("scanner.escape_folders", def.Scanner.EscapeFolders)
	v.SetDefault("processor.location_rule", def.Processor.LocationRule)
	v.SetDefault("processor.naming_rule", def.Processor.NamingRule)
	v.SetDefault("processor.max_title_length", def.Processor.MaxTitleLength)
	v.SetDefault("processor.skip_existing", def.Processor.SkipExisting)
	v.SetDefault("processor.emit_sidecar", def.Processor.EmitSidecar)
	v.SetDefault("processor.emit_poster", def.Processor.EmitPoster)
	v.SetDefault("processor.co_move_subtitles", def.Processor.CoMoveSubtitles)
	v.SetDefault("processor.poster_resize.enabled", def.Processor.PosterResize.Enabled)
	v.SetDefault("processor.poster_resize.max_width", def.Processor.PosterResize.MaxWidth)
	v.SetDefault("processor.poster_resize.max_height", def.Processor.PosterResize.MaxHeight)
	v.SetDefault("processor.poster_resize.quality", def.Processor.PosterResize.Quality)
	v.SetDefault("network.timeout", def.Network.Timeout)
	v.SetDefault("network.retries", def.Network.Retries)
	v.SetDefault("network.verify_ssl", def.Network.VerifySSL)
	v.SetDefault("network.auto_fallback_hardened", def.Network.AutoFallback)
	v.SetDefault("network.preferred_sources", def.Network.PreferredSources)
	v.SetDefault("other.log_level", def.Other.LogLevel)
	v.SetDefault("other.max_concurrent", def.Other.MaxConcurrent)
}

func validate(cfg *Config) error {
	if cfg.Other.MaxConcurrent <= 0 {
		return fmt.Errorf("other.max_concurrent must be positive")
	}
	if cfg.Network.Retries < 0 {
		return fmt.Errorf("network.retries must not be negative")
	}
	if cfg.Processor.MaxTitleLength <= 0 {
		return fmt.Errorf("processor.max_title_length must be positive")
	}
	return nil
}

func applyLogLevel(level string) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)
}

// Logger returns the package-level structured logger, leveled according to
// the most recently loaded configuration.
func Logger() *logrus.Logger {
	return logger
}

// Get returns the most recently loaded configuration, or the default if
// Load has not been called yet.
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if currentCfg == nil {
		return Default()
	}
	return currentCfg
}

// Reset clears the cached configuration singleton; used by tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	currentCfg = nil
}
