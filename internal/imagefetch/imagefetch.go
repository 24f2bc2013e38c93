// Package imagefetch implements the Image Fetcher hook (SPEC_FULL.md
// §4.7): a single best-effort poster download, grounded on the
// teacher's general-purpose internal/downloader package narrowed to the
// one-shot, swallow-on-failure contract the spec calls for.
package imagefetch

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	"mdc-go/internal/image"
)

// Fetcher downloads a movie's poster image via the HTTP Gateway.
type Fetcher struct {
	client        *httpgateway.Client
	logger        *logrus.Logger
	postProcessor *image.Processor
}

// New builds a Fetcher bound to the gateway client. postProcessor is
// optional (nil disables poster post-processing entirely); when set, it
// runs against the poster file right after it's written.
func New(client *httpgateway.Client, logger *logrus.Logger, postProcessor *image.Processor) *Fetcher {
	return &Fetcher{client: client, logger: logger, postProcessor: postProcessor}
}

// FetchPoster selects cover_small if present, else cover, and writes it
// to <destFolder>/<baseName>-poster.jpg. A missing cover URL is a no-op;
// any download or write failure is logged and swallowed, since a poster
// failure must never fail the surrounding file placement.
func (f *Fetcher) FetchPoster(ctx context.Context, metadata *datatype.MovieInfo, destFolder, baseName string) {
	imageURL := metadata.CoverSmall
	if imageURL == "" {
		imageURL = metadata.Cover
	}
	if imageURL == "" {
		return
	}

	u, err := url.Parse(imageURL)
	if err != nil {
		f.logf("invalid poster URL %q: %v", imageURL, err)
		return
	}

	headers := map[string]string{
		"Accept":  "image/webp,image/apng,image/*,*/*;q=0.8",
		"Referer": u.Scheme + "://" + u.Host + "/",
	}

	body, err := f.client.GetWithHeaders(ctx, imageURL, headers)
	if err != nil {
		f.logf("failed to fetch poster %q: %v", imageURL, err)
		return
	}

	dest := filepath.Join(destFolder, baseName+"-poster.jpg")
	if err := writeAtomic(dest, []byte(body)); err != nil {
		f.logf("failed to write poster to %q: %v", dest, err)
		return
	}

	if f.postProcessor != nil {
		if err := f.postProcessor.PostProcessPoster(dest); err != nil {
			f.logf("failed to post-process poster %q: %v", dest, err)
		}
	}
}

func (f *Fetcher) logf(format string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Warnf("imagefetch: "+format, args...)
	}
}

// writeAtomic writes content to a temp file in dest's directory, then
// renames it into place, so a crash mid-write never leaves a partial
// poster behind.
func writeAtomic(dest string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".poster-*.tmp")
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
