// Package batch implements the Batch Coordinator (SPEC_FULL.md §4.8):
// semaphore-bounded concurrent fan-out over the Scanner's accepted paths,
// one per-file workflow per path (parse -> fetch metadata -> sidecar +
// poster + place), independent per-file failure, and result/stat
// aggregation. Grounded on the teacher's internal/downloader.go
// DownloadBatch (semaphore channel + sync.WaitGroup fan-out over a
// result channel), generalized from image downloads to the full per-file
// pipeline and from a channel-based collector to a mutex-guarded slice
// so results can carry richer per-file detail.
package batch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"mdc-go/internal/avid"
	"mdc-go/internal/config"
	"mdc-go/internal/datatype"
	"mdc-go/internal/imagefetch"
	"mdc-go/internal/mdcerrors"
	"mdc-go/internal/placer"
	"mdc-go/internal/sidecar"
)

// MetadataProvider abstracts metadata lookup away from the coordinator, per
// the documented contract; a caller typically supplies a closure around
// internal/registry.Registry.Search.
type MetadataProvider func(ctx context.Context, id avid.ParsedIdentifier) (*datatype.MovieInfo, error)

// ProgressFunc is invoked after each file finishes, with (completedIndex+1, total).
type ProgressFunc func(completed, total int)

// Status is the outcome of processing one path.
type Status int

const (
	StatusSucceeded Status = iota
	StatusFailed
	StatusSkipped
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "Succeeded"
	case StatusFailed:
		return "Failed"
	case StatusSkipped:
		return "Skipped"
	case StatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Result records the outcome of processing one source path.
type Result struct {
	Path      string
	DisplayID string
	Status    Status
	Err       error
}

// Stats is the tallied aggregate over a result list.
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Cancelled int
}

// Tally computes Stats from a finished result list.
func Tally(results []Result) Stats {
	stats := Stats{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSucceeded:
			stats.Succeeded++
		case StatusFailed:
			stats.Failed++
		case StatusSkipped:
			stats.Skipped++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// Coordinator runs the per-file workflow across many paths with bounded
// concurrency.
type Coordinator struct {
	cfg        *config.Config
	recognizer *avid.Recognizer
	placer     *placer.Placer
	fetcher    *imagefetch.Fetcher
}

// New builds a Coordinator. fetcher may be nil, which disables poster
// fetching regardless of cfg.Processor.EmitPoster.
func New(cfg *config.Config, plc *placer.Placer, fetcher *imagefetch.Fetcher) *Coordinator {
	return &Coordinator{
		cfg:        cfg,
		recognizer: avid.NewRecognizer(),
		placer:     plc,
		fetcher:    fetcher,
	}
}

// ProcessBatch fans paths out across a semaphore sized to
// cfg.Other.MaxConcurrent, running the per-file workflow for each. Failure
// of one path never cancels the others. If ctx is cancelled, in-flight
// paths finish normally and paths not yet started are recorded as
// Cancelled without being attempted.
func (c *Coordinator) ProcessBatch(ctx context.Context, paths []string, provider MetadataProvider, progress ProgressFunc) ([]Result, Stats) {
	total := len(paths)
	if total == 0 {
		return nil, Stats{}
	}

	limit := c.cfg.Other.MaxConcurrent
	if limit <= 0 {
		limit = 4
	}
	sem := make(chan struct{}, limit)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int32
		results   = make([]Result, 0, total)
	)

	record := func(r Result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
		n := atomic.AddInt32(&completed, 1)
		if progress != nil {
			progress(int(n), total)
		}
	}

	for _, path := range paths {
		// Checked separately (not just as one select arm alongside the sem
		// send) so an already-cancelled context always wins instead of
		// racing a ready semaphore slot.
		select {
		case <-ctx.Done():
			record(Result{Path: path, Status: StatusCancelled, Err: mdcerrors.New(mdcerrors.Cancelled, "batch: cancelled before start")})
			continue
		default:
		}

		select {
		case <-ctx.Done():
			record(Result{Path: path, Status: StatusCancelled, Err: mdcerrors.New(mdcerrors.Cancelled, "batch: cancelled before start")})
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			defer func() { <-sem }()
			record(c.processOne(ctx, p, provider))
		}(path)
	}

	wg.Wait()
	return results, Tally(results)
}

// processOne runs Parse -> Fetch -> Sidecar+Poster+Place for a single path.
func (c *Coordinator) processOne(ctx context.Context, path string, provider MetadataProvider) Result {
	id, err := c.recognizer.Recognize(path)
	if err != nil {
		return Result{Path: path, Status: StatusFailed, Err: mdcerrors.Wrap(mdcerrors.InvalidIdentifier, err, "batch: failed to parse identifier")}
	}

	mode := c.cfg.Processor.MainMode

	var metadata *datatype.MovieInfo
	if mode == config.ModeOrganizing {
		// Organizing never touches the network; templates fall back to
		// {number} for any field metadata would otherwise have supplied.
		metadata = &datatype.MovieInfo{Number: id.DisplayID}
	} else {
		metadata, err = provider(ctx, *id)
		if err != nil {
			return Result{Path: path, DisplayID: id.DisplayID, Status: StatusFailed, Err: err}
		}
	}

	skipped, err := c.runWorkflow(ctx, path, *id, metadata, mode)
	if err != nil {
		return Result{Path: path, DisplayID: id.DisplayID, Status: StatusFailed, Err: err}
	}
	if skipped {
		return Result{Path: path, DisplayID: id.DisplayID, Status: StatusSkipped}
	}
	return Result{Path: path, DisplayID: id.DisplayID, Status: StatusSucceeded}
}

// runWorkflow applies the documented mode specialization (SPEC_FULL.md
// §4.6): Scraping emits sidecar+poster then places; Organizing places
// only; Analysis emits sidecar/poster beside the source without moving it.
func (c *Coordinator) runWorkflow(ctx context.Context, sourcePath string, id avid.ParsedIdentifier, metadata *datatype.MovieInfo, mode config.MainMode) (skipped bool, err error) {
	destFolder := c.placer.DestinationFolder(id, metadata)
	baseName := c.placer.DestinationBaseName(id, metadata)

	switch mode {
	case config.ModeAnalysis:
		return false, c.emitAnalysis(ctx, sourcePath, baseName, metadata, id)
	case config.ModeOrganizing:
		return c.placeOnly(sourcePath, destFolder, baseName)
	default:
		return c.placeWithSidecarAndPoster(ctx, sourcePath, destFolder, baseName, metadata, id)
	}
}

// placeOnly places the video and co-moves its subtitles. The returned bool
// reports whether placement was a no-op because the destination already
// existed and skip_existing is set.
func (c *Coordinator) placeOnly(sourcePath, destFolder, baseName string) (bool, error) {
	destPath := filepath.Join(destFolder, baseName+filepath.Ext(sourcePath))
	skipped := c.cfg.Processor.SkipExisting && destinationExists(destPath)

	if err := c.placer.Place(sourcePath, destPath); err != nil {
		return false, err
	}
	if c.cfg.Processor.CoMoveSubtitles {
		if err := c.placer.PlaceSubtitles(sourcePath, filepath.Join(destFolder, baseName)); err != nil {
			return skipped, err
		}
	}
	return skipped, nil
}

// placeWithSidecarAndPoster implements Scraping mode: sidecar, then
// poster, then placement, per the documented ordering.
func (c *Coordinator) placeWithSidecarAndPoster(ctx context.Context, sourcePath, destFolder, baseName string, metadata *datatype.MovieInfo, id avid.ParsedIdentifier) (bool, error) {
	if c.cfg.Processor.EmitSidecar {
		if err := c.writeSidecar(destFolder, baseName, metadata, id.DisplayID); err != nil {
			return false, err
		}
	}
	if c.cfg.Processor.EmitPoster && c.fetcher != nil {
		c.fetcher.FetchPoster(ctx, metadata, destFolder, baseName)
	}
	return c.placeOnly(sourcePath, destFolder, baseName)
}

// emitAnalysis writes sidecar/poster beside the source file without moving
// it, per Analysis mode's documented behavior.
func (c *Coordinator) emitAnalysis(ctx context.Context, sourcePath, baseName string, metadata *datatype.MovieInfo, id avid.ParsedIdentifier) error {
	parentDir := filepath.Dir(sourcePath)

	if c.cfg.Processor.EmitSidecar {
		if err := c.writeSidecar(parentDir, baseName, metadata, id.DisplayID); err != nil {
			return err
		}
	}
	if c.cfg.Processor.EmitPoster && c.fetcher != nil {
		c.fetcher.FetchPoster(ctx, metadata, parentDir, baseName)
	}
	return nil
}

func (c *Coordinator) writeSidecar(folder, baseName string, metadata *datatype.MovieInfo, displayID string) error {
	xmlText, err := sidecar.Render(metadata, displayID)
	if err != nil {
		return mdcerrors.Wrap(mdcerrors.Filesystem, err, "batch: failed to render sidecar")
	}
	dest := filepath.Join(folder, baseName+".nfo")
	if err := writeAtomic(dest, []byte(xmlText)); err != nil {
		return mdcerrors.Wrap(mdcerrors.Filesystem, err, "batch: failed to write sidecar")
	}
	return nil
}

func destinationExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// writeAtomic writes content to a temp file beside dest, then renames it
// into place, so a crash mid-write never leaves a partial sidecar behind.
func writeAtomic(dest string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".sidecar-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, dest)
}
