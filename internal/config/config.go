// Package config holds the ambient, typed configuration shared across the
// pipeline: scanner behavior, file-placement behavior, network tuning and
// logging. It is loaded via viper (YAML file + environment overrides +
// CLI-flag binding), following the teacher's own configuration idiom, while
// the documented INI collaborator format (§6) is handled separately by
// internal/inifile.
package config

import "time"

// MainMode selects the overall operating mode for a run.
type MainMode int

const (
	ModeScraping MainMode = iota
	ModeOrganizing
	ModeAnalysis
)

func (m MainMode) String() string {
	switch m {
	case ModeScraping:
		return "Scraping"
	case ModeOrganizing:
		return "Organizing"
	case ModeAnalysis:
		return "Analysis"
	default:
		return "Unknown"
	}
}

// LinkMode selects the file-placement operation.
type LinkMode int

const (
	LinkMove LinkMode = iota
	LinkSoftLink
	LinkHardLink
)

func (l LinkMode) String() string {
	switch l {
	case LinkMove:
		return "Move"
	case LinkSoftLink:
		return "SoftLink"
	case LinkHardLink:
		return "HardLink"
	default:
		return "Unknown"
	}
}

// ScannerConfig configures the Scanner.
type ScannerConfig struct {
	SourceRoot    string   `mapstructure:"source_root" yaml:"source_root"`
	Extensions    []string `mapstructure:"extensions" yaml:"extensions"`
	MainMode      MainMode `mapstructure:"-" yaml:"-"`
	LinkMode      LinkMode `mapstructure:"-" yaml:"-"`
	NfoSkipDays   int      `mapstructure:"nfo_skip_days" yaml:"nfo_skip_days"`
	FailedList    string   `mapstructure:"failed_list" yaml:"failed_list"`
	SuccessFolder string   `mapstructure:"success_folder" yaml:"success_folder"`
	EscapeFolders []string `mapstructure:"escape_folders" yaml:"escape_folders"`
	ScanHardlink  bool     `mapstructure:"scan_hardlink" yaml:"scan_hardlink"`
	FilterRegex   string   `mapstructure:"filter_regex" yaml:"filter_regex"`
	Debug         bool     `mapstructure:"debug" yaml:"debug"`
}

// ProcessorConfig configures the per-file workflow (sidecar + placement).
type ProcessorConfig struct {
	MainMode        MainMode         `mapstructure:"-" yaml:"-"`
	LinkMode        LinkMode         `mapstructure:"-" yaml:"-"`
	DestinationRoot string           `mapstructure:"destination_root" yaml:"destination_root"`
	LocationRule    string           `mapstructure:"location_rule" yaml:"location_rule"`
	NamingRule      string           `mapstructure:"naming_rule" yaml:"naming_rule"`
	MaxTitleLength  int              `mapstructure:"max_title_length" yaml:"max_title_length"`
	SkipExisting    bool             `mapstructure:"skip_existing" yaml:"skip_existing"`
	EmitSidecar     bool             `mapstructure:"emit_sidecar" yaml:"emit_sidecar"`
	EmitPoster      bool             `mapstructure:"emit_poster" yaml:"emit_poster"`
	CoMoveSubtitles bool             `mapstructure:"co_move_subtitles" yaml:"co_move_subtitles"`
	PosterResize    PosterResizeConfig `mapstructure:"poster_resize" yaml:"poster_resize"`
}

// PosterResizeConfig tunes the optional poster post-processing hook
// (internal/image). Disabled by default.
type PosterResizeConfig struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	MaxWidth  int  `mapstructure:"max_width" yaml:"max_width"`
	MaxHeight int  `mapstructure:"max_height" yaml:"max_height"`
	Quality   int  `mapstructure:"quality" yaml:"quality"`
}

// NetworkConfig tunes the HTTP Gateway.
type NetworkConfig struct {
	ProxyServer      string        `mapstructure:"proxy_server" yaml:"proxy_server"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Retries          int           `mapstructure:"retries" yaml:"retries"`
	VerifySSL        bool          `mapstructure:"verify_ssl" yaml:"verify_ssl"`
	HardenedBackend  bool          `mapstructure:"hardened_backend" yaml:"hardened_backend"`
	AutoFallback     bool          `mapstructure:"auto_fallback_hardened" yaml:"auto_fallback_hardened"`
	PreferredSources []string      `mapstructure:"preferred_sources" yaml:"preferred_sources"`
}

// OtherConfig holds ambient cross-cutting knobs.
type OtherConfig struct {
	LogLevel      string `mapstructure:"log_level" yaml:"log_level"`
	MaxConcurrent int    `mapstructure:"max_concurrent" yaml:"max_concurrent"`
}

// Config is the root configuration object, constructed once at the entry
// point and passed down by reference (never mutated by workers).
type Config struct {
	Scanner   ScannerConfig   `mapstructure:"scanner" yaml:"scanner"`
	Processor ProcessorConfig `mapstructure:"processor" yaml:"processor"`
	Network   NetworkConfig   `mapstructure:"network" yaml:"network"`
	Other     OtherConfig     `mapstructure:"other" yaml:"other"`
}

// Default returns the default configuration, following the teacher's own
// GetDefaultConfig convention.
func Default() *Config {
	return &Config{
		Scanner: ScannerConfig{
			Extensions: []string{
				".3gp", ".avi", ".f4v", ".flv", ".iso", ".m2ts", ".m4v",
				".mkv", ".mov", ".mp4", ".mpeg", ".rm", ".rmvb", ".ts",
				".vob", ".webm", ".wmv", ".strm", ".mpg",
			},
			MainMode:      ModeScraping,
			LinkMode:      LinkMove,
			NfoSkipDays:   0,
			EscapeFolders: []string{"#recycle", "failed"},
			ScanHardlink:  false,
			Debug:         false,
		},
		Processor: ProcessorConfig{
			MainMode:        ModeScraping,
			LinkMode:        LinkMove,
			LocationRule:    "{number}",
			NamingRule:      "{number}",
			MaxTitleLength:  200,
			SkipExisting:    true,
			EmitSidecar:     true,
			EmitPoster:      true,
			CoMoveSubtitles: true,
			PosterResize: PosterResizeConfig{
				Enabled:   false,
				MaxWidth:  800,
				MaxHeight: 1200,
				Quality:   85,
			},
		},
		Network: NetworkConfig{
			Timeout:      10 * time.Second,
			Retries:      3,
			VerifySSL:    true,
			AutoFallback: true,
			PreferredSources: []string{
				"javbus", "javlibrary", "avmoo", "fc2", "tokyohot", "tmdb", "imdb",
			},
		},
		Other: OtherConfig{
			LogLevel:      "info",
			MaxConcurrent: 4,
		},
	}
}
