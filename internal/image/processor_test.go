package image

import (
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			})
		}
	}
	return img
}

func writeTestJPEG(t *testing.T, path string, width, height int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, createTestImage(width, height), &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
}

func decodeDimensions(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("failed to decode config for %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

func TestDefaultConfigIsDisabled(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Enabled {
		t.Error("DefaultConfig should be disabled by default")
	}
}

func TestPostProcessPosterNoOpWhenDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poster.jpg")
	writeTestJPEG(t, path, 2000, 3000)

	p := New(&Config{Enabled: false})
	if err := p.PostProcessPoster(path); err != nil {
		t.Fatalf("PostProcessPoster returned error: %v", err)
	}

	w, h := decodeDimensions(t, path)
	if w != 2000 || h != 3000 {
		t.Errorf("dimensions changed while disabled: got %dx%d", w, h)
	}
}

func TestPostProcessPosterNoOpWhenWithinBounds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poster.jpg")
	writeTestJPEG(t, path, 400, 600)

	p := New(&Config{Enabled: true, MaxWidth: 800, MaxHeight: 1200, Quality: 85})
	if err := p.PostProcessPoster(path); err != nil {
		t.Fatalf("PostProcessPoster returned error: %v", err)
	}

	w, h := decodeDimensions(t, path)
	if w != 400 || h != 600 {
		t.Errorf("dimensions changed for in-bounds image: got %dx%d", w, h)
	}
}

func TestPostProcessPosterDownscalesOversizedPoster(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poster.jpg")
	writeTestJPEG(t, path, 1600, 2400)

	p := New(&Config{Enabled: true, MaxWidth: 800, MaxHeight: 1200, Quality: 85})
	if err := p.PostProcessPoster(path); err != nil {
		t.Fatalf("PostProcessPoster returned error: %v", err)
	}

	w, h := decodeDimensions(t, path)
	if w != 800 || h != 1200 {
		t.Errorf("expected 800x1200 after downscale, got %dx%d", w, h)
	}
}

func TestPostProcessPosterPreservesAspectRatio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "poster.jpg")
	writeTestJPEG(t, path, 1000, 4000)

	p := New(&Config{Enabled: true, MaxWidth: 800, MaxHeight: 1200, Quality: 85})
	if err := p.PostProcessPoster(path); err != nil {
		t.Fatalf("PostProcessPoster returned error: %v", err)
	}

	w, h := decodeDimensions(t, path)
	if h != 1200 {
		t.Errorf("expected height clamped to 1200, got %d", h)
	}
	if w != 300 {
		t.Errorf("expected width scaled to 300 preserving aspect ratio, got %d", w)
	}
}

func TestNewFallsBackToDefaultConfigOnNil(t *testing.T) {
	p := New(nil)
	if p.cfg == nil {
		t.Fatal("Processor cfg should not be nil")
	}
	if p.cfg.Enabled {
		t.Error("nil config should fall back to disabled default")
	}
}
