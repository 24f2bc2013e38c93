package imagefetch

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"mdc-go/internal/config"
	"mdc-go/internal/datatype"
	"mdc-go/internal/httpgateway"
	mdcimage "mdc-go/internal/image"
)

func testClient(t *testing.T) *httpgateway.Client {
	t.Helper()
	cfg := &config.NetworkConfig{Timeout: 2 * time.Second, Retries: 1, VerifySSL: true}
	c, err := httpgateway.New(cfg, 0)
	if err != nil {
		t.Fatalf("httpgateway.New returned error: %v", err)
	}
	return c
}

func TestFetchPosterPrefersCoverSmall(t *testing.T) {
	var gotReferer, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	destDir := t.TempDir()
	f := New(testClient(t), logrus.New(), nil)
	metadata := &datatype.MovieInfo{Cover: srv.URL + "/big.jpg", CoverSmall: srv.URL + "/small.jpg"}

	f.FetchPoster(context.Background(), metadata, destDir, "ABC-123")

	dest := filepath.Join(destDir, "ABC-123-poster.jpg")
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("expected poster file, got error: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("poster content = %q, want jpeg-bytes", data)
	}
	if gotReferer == "" {
		t.Errorf("expected a Referer header to be sent")
	}
	if gotAccept == "" {
		t.Errorf("expected an Accept header to be sent")
	}
}

func TestFetchPosterFallsBackToCover(t *testing.T) {
	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte("cover-bytes"))
	}))
	defer srv.Close()

	destDir := t.TempDir()
	f := New(testClient(t), logrus.New(), nil)
	metadata := &datatype.MovieInfo{Cover: srv.URL + "/big.jpg"}

	f.FetchPoster(context.Background(), metadata, destDir, "ABC-123")

	if requestedPath != "/big.jpg" {
		t.Errorf("requested path = %q, want /big.jpg", requestedPath)
	}
}

func TestFetchPosterNoOpWhenNoCoverURLs(t *testing.T) {
	destDir := t.TempDir()
	f := New(testClient(t), logrus.New(), nil)
	metadata := &datatype.MovieInfo{}

	f.FetchPoster(context.Background(), metadata, destDir, "ABC-123")

	entries, err := os.ReadDir(destDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no files written, found %d", len(entries))
	}
}

func TestFetchPosterSwallowsDownloadErrors(t *testing.T) {
	destDir := t.TempDir()
	f := New(testClient(t), logrus.New(), nil)
	metadata := &datatype.MovieInfo{Cover: "http://127.0.0.1:0/unreachable.jpg"}

	// Must not panic or return an error; the method has no return value.
	f.FetchPoster(context.Background(), metadata, destDir, "ABC-123")

	entries, err := os.ReadDir(destDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no poster written on failure, found %d", len(entries))
	}
}

func TestFetchPosterRunsPostProcessorWhenConfigured(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1600, 2400))
	for y := 0; y < 2400; y++ {
		for x := 0; x < 1600; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
	}))
	defer srv.Close()

	destDir := t.TempDir()
	proc := mdcimage.New(&mdcimage.Config{Enabled: true, MaxWidth: 800, MaxHeight: 1200, Quality: 85})
	f := New(testClient(t), logrus.New(), proc)
	metadata := &datatype.MovieInfo{Cover: srv.URL + "/big.jpg"}

	f.FetchPoster(context.Background(), metadata, destDir, "ABC-123")

	dest := filepath.Join(destDir, "ABC-123-poster.jpg")
	file, err := os.Open(dest)
	if err != nil {
		t.Fatalf("expected poster file, got error: %v", err)
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		t.Fatalf("failed to decode poster config: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 1200 {
		t.Errorf("poster dimensions = %dx%d, want 800x1200 after post-processing", cfg.Width, cfg.Height)
	}
}
