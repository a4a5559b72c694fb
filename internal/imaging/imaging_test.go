package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// testPNG renders a width x height gradient and encodes it as PNG.
func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestGenerateVariantsAllSizes(t *testing.T) {
	src := testPNG(t, 1600, 900)

	results, err := GenerateVariants(src, nil)
	if err != nil {
		t.Fatalf("GenerateVariants: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d variants, want 3", len(results))
	}

	wantWidths := map[string]int{"small": 150, "medium": 400, "large": 800}
	for _, r := range results {
		if r.Width != wantWidths[r.Name] {
			t.Errorf("%s width = %d, want %d", r.Name, r.Width, wantWidths[r.Name])
		}
		if r.ContentType != "image/jpeg" {
			t.Errorf("%s content type = %q", r.Name, r.ContentType)
		}

		cfg, err := jpeg.DecodeConfig(bytes.NewReader(r.Data))
		if err != nil {
			t.Fatalf("decode %s output: %v", r.Name, err)
		}
		if cfg.Width != r.Width || cfg.Height != r.Height {
			t.Errorf("%s reported %dx%d but encoded %dx%d", r.Name, r.Width, r.Height, cfg.Width, cfg.Height)
		}
		// 16:9 source keeps its aspect ratio.
		wantHeight := 900 * r.Width / 1600
		if r.Height != wantHeight {
			t.Errorf("%s height = %d, want %d", r.Name, r.Height, wantHeight)
		}
	}
}

func TestGenerateVariantsNeverUpscales(t *testing.T) {
	src := testPNG(t, 300, 200)

	results, err := GenerateVariants(src, nil)
	if err != nil {
		t.Fatalf("GenerateVariants: %v", err)
	}
	// small at 150, then medium collapses to the source width and the
	// large rendition is skipped.
	if len(results) != 2 {
		t.Fatalf("got %d variants, want 2", len(results))
	}
	if results[0].Name != "small" || results[0].Width != 150 {
		t.Errorf("first variant = %s/%d", results[0].Name, results[0].Width)
	}
	if results[1].Name != "medium" || results[1].Width != 300 {
		t.Errorf("second variant = %s/%d", results[1].Name, results[1].Width)
	}
}

func TestGenerateVariantsTinySource(t *testing.T) {
	src := testPNG(t, 40, 30)

	results, err := GenerateVariants(src, nil)
	if err != nil {
		t.Fatalf("GenerateVariants: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d variants, want 1", len(results))
	}
	if results[0].Width != 40 || results[0].Height != 30 {
		t.Errorf("variant = %dx%d, want 40x30", results[0].Width, results[0].Height)
	}
}

func TestGenerateVariantsRejectsGarbage(t *testing.T) {
	if _, err := GenerateVariants([]byte("definitely not an image"), nil); err == nil {
		t.Fatal("expected error for non-image input")
	}
}

func TestGenerateVariantsAcceptsJPEGSource(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 500, 500))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode test jpeg: %v", err)
	}

	results, err := GenerateVariants(buf.Bytes(), nil)
	if err != nil {
		t.Fatalf("GenerateVariants: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d variants, want 3", len(results))
	}
	// Square source: large collapses to 500.
	if results[2].Width != 500 || results[2].Height != 500 {
		t.Errorf("large = %dx%d, want 500x500", results[2].Width, results[2].Height)
	}
}
