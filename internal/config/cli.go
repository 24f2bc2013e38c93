package config

import (
	"fmt"

	"github.com/spf13/cobra"
)

// CLIFlags mirrors the documented command-line surface (§6): a subset of
// Config fields that a direct invocation may override, bound onto a single
// Config via NewRootCommand.
type CLIFlags struct {
	Number        string
	Mode          string
	ConfigPath    string
	Debug         bool
	Output        string
	LocationRule  string
	NamingRule    string
	LinkModeName  string
	Concurrent    int
	ScanOnly      bool
	NoColor       bool
}

// NewRootCommand builds the cobra root command for the mdc CLI, binding the
// documented flags (-n/--number, -m/--mode, -C/--config, -g/--debug,
// -o/--output, --location-rule, --naming-rule, -l/--link-mode,
// -j/--concurrent, -s/--scan, --no-color, -v/--version) the way the teacher's
// internal/config/cli.go wires cobra+pflag onto its own Config struct.
func NewRootCommand(version string, run func(flags *CLIFlags) error) *cobra.Command {
	flags := &CLIFlags{}

	cmd := &cobra.Command{
		Use:     "mdc",
		Short:   "Scan, identify and organize adult video metadata",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&flags.Number, "number", "n", "", "identify a single title by its display ID instead of scanning")
	fs.StringVarP(&flags.Mode, "mode", "m", "", "operating mode: scraping, organizing or analysis (empty = use config)")
	fs.StringVarP(&flags.ConfigPath, "config", "C", "", "path to a YAML configuration file")
	fs.BoolVarP(&flags.Debug, "debug", "g", false, "enable debug logging")
	fs.StringVarP(&flags.Output, "output", "o", "", "destination root directory")
	fs.StringVar(&flags.LocationRule, "location-rule", "", "override the folder placement template")
	fs.StringVar(&flags.NamingRule, "naming-rule", "", "override the filename template")
	fs.StringVarP(&flags.LinkModeName, "link-mode", "l", "", "file placement operation: move, softlink or hardlink (empty = use config)")
	fs.IntVarP(&flags.Concurrent, "concurrent", "j", 0, "maximum concurrent workers (0 = use config default)")
	fs.BoolVarP(&flags.ScanOnly, "scan", "s", false, "scan and report without writing any changes")
	fs.BoolVar(&flags.NoColor, "no-color", false, "disable colored terminal output")

	return cmd
}

// ApplyFlags overlays CLI overrides onto a loaded Config. Flags win over the
// file/env-derived config; unset flags (zero value) leave cfg untouched.
func ApplyFlags(cfg *Config, flags *CLIFlags) error {
	if flags.Mode != "" {
		mode, err := parseMainMode(flags.Mode)
		if err != nil {
			return err
		}
		cfg.Scanner.MainMode = mode
		cfg.Processor.MainMode = mode
	}
	if flags.LinkModeName != "" {
		mode, err := parseLinkMode(flags.LinkModeName)
		if err != nil {
			return err
		}
		cfg.Scanner.LinkMode = mode
		cfg.Processor.LinkMode = mode
	}
	if flags.Output != "" {
		cfg.Processor.DestinationRoot = flags.Output
	}
	if flags.LocationRule != "" {
		cfg.Processor.LocationRule = flags.LocationRule
	}
	if flags.NamingRule != "" {
		cfg.Processor.NamingRule = flags.NamingRule
	}
	if flags.Concurrent > 0 {
		cfg.Other.MaxConcurrent = flags.Concurrent
	}
	if flags.Debug {
		cfg.Scanner.Debug = true
		cfg.Other.LogLevel = "debug"
		applyLogLevel("debug")
	}
	return nil
}

func parseMainMode(s string) (MainMode, error) {
	switch s {
	case "scraping", "Scraping":
		return ModeScraping, nil
	case "organizing", "Organizing":
		return ModeOrganizing, nil
	case "analysis", "Analysis":
		return ModeAnalysis, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func parseLinkMode(s string) (LinkMode, error) {
	switch s {
	case "move", "Move":
		return LinkMove, nil
	case "softlink", "SoftLink", "symlink":
		return LinkSoftLink, nil
	case "hardlink", "HardLink":
		return LinkHardLink, nil
	default:
		return 0, fmt.Errorf("unknown link mode %q", s)
	}
}
