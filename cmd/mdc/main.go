package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mdc-go/internal/avid"
	"mdc-go/internal/batch"
	"mdc-go/internal/config"
	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/image"
	"mdc-go/internal/imagefetch"
	"mdc-go/internal/inifile"
	"mdc-go/internal/mdcerrors"
	"mdc-go/internal/placer"
	"mdc-go/internal/registry"
	"mdc-go/internal/scanner"
	"mdc-go/internal/sidecar"
	"mdc-go/pkg/progress"
	"mdc-go/pkg/ui"
)

var (
	version = "v1.0.0"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := config.NewRootCommand(version, run)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Error(err.Error()))
		os.Exit(1)
	}
}

// run is the CLI collaborator's entry point, wired onto the cobra root
// command built by internal/config.NewRootCommand. It re-runs the pipeline
// the teacher's main.go ran as scanner -> crawler engine -> merger -> nfo ->
// organizer -> downloader, but against this program's own components:
// scanner -> batch coordinator -> registry (for metadata) -> placer/sidecar/
// imagefetch (for output), same shape, new collaborators.
func run(flags *config.CLIFlags) error {
	if flags.NoColor {
		ui.SetColorEnabled(false)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	logger := config.Logger()
	ctx := context.Background()

	client, err := httpgateway.New(&cfg.Network, 0)
	if err != nil {
		return fmt.Errorf("failed to create http gateway: %w", err)
	}
	defer client.Close()

	client.SetProgressCallback(func(message string, elapsed, remaining time.Duration) {
		logger.WithFields(map[string]interface{}{
			"elapsed":   progress.FormatDuration(elapsed),
			"remaining": progress.FormatDuration(remaining),
		}).Debug(message)
	})

	reg := buildRegistry(client)

	if flags.Number != "" {
		return runSingle(ctx, cfg, reg, flags.Number)
	}

	fmt.Println("=== Step 1: Scanning for video files ===")
	fileScanner, err := scanner.New(&cfg.Scanner)
	if err != nil {
		return fmt.Errorf("failed to create scanner: %w", err)
	}

	paths, stats, err := fileScanner.Scan()
	if err != nil {
		return fmt.Errorf("scanning failed: %w", err)
	}

	fmt.Printf("Total files found: %d\n", stats.Total)
	fmt.Printf("Accepted: %d\n", stats.Accepted)
	fmt.Printf("Skipped (failed list): %d\n", stats.SkipFailed)
	fmt.Printf("Skipped (nfo within window): %d\n", stats.SkipNfoDays)
	fmt.Printf("Skipped (already organized): %d\n", stats.SkipSuccessNfo)

	if flags.ScanOnly {
		fmt.Println("Scan-only run requested; no files were written.")
		return nil
	}

	if len(paths) == 0 {
		fmt.Println("No files to process.")
		return nil
	}

	fmt.Println("\n=== Step 2: Initializing processing components ===")
	plc := placer.New(&cfg.Processor)
	fetcher := buildFetcher(cfg, client)

	coordinator := batch.New(cfg, plc, fetcher)
	provider := metadataProvider(reg, cfg)

	fmt.Printf("\n=== Step 3: Processing %d files ===\n", len(paths))
	display := ui.NewBatchProgressDisplay(len(paths))
	progressFn := func(completed, total int) {
		display.Update(completed, total, "")
		fmt.Printf("\r%s", display.Render())
	}

	results, batchStats := coordinator.ProcessBatch(ctx, paths, provider, progressFn)
	fmt.Println()
	fmt.Println(display.FinalSummary(batchStats))

	if failures := ui.FailureReport(results); failures != "" {
		fmt.Println("\nFailures:")
		fmt.Print(failures)
	}

	return nil
}

// loadConfig layers the documented precedence: the INI collaborator surface
// (if a config.ini is found) onto the YAML-driven config.Load defaults,
// with CLI flags applied last.
func loadConfig(flags *config.CLIFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigPath)
	if err != nil {
		return nil, err
	}

	if iniPath := inifile.Resolve(""); iniPath != "" {
		iniFile, err := inifile.Load(iniPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", iniPath, err)
		}
		if err := iniFile.ApplyTo(cfg); err != nil {
			return nil, err
		}
	}

	if err := config.ApplyFlags(cfg, flags); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildRegistry registers every known adapter under the client: the ones
// the default dispatch list (config.Network.PreferredSources) names, in
// that list's order, with the optional javdb and mgstage adapters
// registered among them.
func buildRegistry(client *httpgateway.Client) *registry.Registry {
	reg := registry.New(client)
	reg.Register(registry.NewJavbus())
	reg.Register(registry.NewJavlibrary())
	reg.Register(registry.NewJavdb())
	reg.Register(registry.NewAvmoo())
	reg.Register(registry.NewFC2())
	reg.Register(registry.NewMgstage())
	reg.Register(registry.NewTokyoHot())
	reg.Register(registry.NewTMDb())
	reg.Register(registry.NewIMDb())
	return reg
}

// buildFetcher constructs the Image Fetcher collaborator, or nil when
// poster emission is disabled entirely.
func buildFetcher(cfg *config.Config, client *httpgateway.Client) *imagefetch.Fetcher {
	if !cfg.Processor.EmitPoster {
		return nil
	}
	imgProcessor := image.New(&image.Config{
		Enabled:   cfg.Processor.PosterResize.Enabled,
		MaxWidth:  cfg.Processor.PosterResize.MaxWidth,
		MaxHeight: cfg.Processor.PosterResize.MaxHeight,
		Quality:   cfg.Processor.PosterResize.Quality,
	})
	return imagefetch.New(client, config.Logger(), imgProcessor)
}

// metadataProvider adapts internal/registry.Registry.Search to
// internal/batch.MetadataProvider, translating between the two packages'
// distinct identifier shapes.
func metadataProvider(reg *registry.Registry, cfg *config.Config) batch.MetadataProvider {
	return func(ctx context.Context, id avid.ParsedIdentifier) (*datatype.MovieInfo, error) {
		regID := registry.Identifier{DisplayID: id.DisplayID, ContentID: id.ContentID}
		return reg.Search(ctx, regID, cfg.Network.PreferredSources, "")
	}
}

// runSingle implements the -n/--number override: identify one title by its
// display ID, fetch its metadata, and emit a sidecar/poster pair without
// scanning or placing any video file.
func runSingle(ctx context.Context, cfg *config.Config, reg *registry.Registry, number string) error {
	recognizer := avid.NewRecognizer()
	id, err := recognizer.Recognize(number)
	if err != nil {
		return fmt.Errorf("failed to parse identifier %q: %w", number, err)
	}

	regID := registry.Identifier{DisplayID: id.DisplayID, ContentID: id.ContentID}
	metadata, err := reg.Search(ctx, regID, cfg.Network.PreferredSources, "")
	if err != nil {
		return fmt.Errorf("failed to find metadata for %s: %w", id.DisplayID, err)
	}

	plc := placer.New(&cfg.Processor)
	destFolder := plc.DestinationFolder(*id, metadata)
	baseName := plc.DestinationBaseName(*id, metadata)

	if err := os.MkdirAll(destFolder, 0755); err != nil {
		return fmt.Errorf("failed to create output folder: %w", err)
	}

	if cfg.Processor.EmitSidecar {
		if err := writeSidecarFile(destFolder, baseName, metadata, id.DisplayID); err != nil {
			return err
		}
	}

	if cfg.Processor.EmitPoster {
		client, err := httpgateway.New(&cfg.Network, 0)
		if err != nil {
			return fmt.Errorf("failed to create http gateway: %w", err)
		}
		defer client.Close()

		imgProcessor := image.New(&image.Config{
			Enabled:   cfg.Processor.PosterResize.Enabled,
			MaxWidth:  cfg.Processor.PosterResize.MaxWidth,
			MaxHeight: cfg.Processor.PosterResize.MaxHeight,
			Quality:   cfg.Processor.PosterResize.Quality,
		})
		fetcher := imagefetch.New(client, config.Logger(), imgProcessor)
		fetcher.FetchPoster(ctx, metadata, destFolder, baseName)
	}

	fmt.Printf("%s %s -> %s\n", ui.SuccessIcon(), id.DisplayID, destFolder)
	return nil
}

func writeSidecarFile(folder, baseName string, metadata *datatype.MovieInfo, displayID string) error {
	xmlText, err := sidecar.Render(metadata, displayID)
	if err != nil {
		return mdcerrors.Wrap(mdcerrors.Filesystem, err, "cmd/mdc: failed to render sidecar")
	}
	dest := filepath.Join(folder, baseName+".nfo")
	if err := os.WriteFile(dest, []byte(xmlText), 0644); err != nil {
		return mdcerrors.Wrap(mdcerrors.Filesystem, err, "cmd/mdc: failed to write sidecar")
	}
	return nil
}
