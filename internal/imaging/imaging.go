// Package imaging generates responsive JPEG variants of uploaded images.
// Each upload keeps the original and produces small, medium, and large
// renditions; variants wider than the source are skipped to avoid
// upscaling.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Variant describes a single responsive image size.
type Variant struct {
	Name  string // "small", "medium", "large"
	Width int    // target width in pixels
}

// DefaultVariants defines the standard renditions produced per upload.
var DefaultVariants = []Variant{
	{Name: "small", Width: 150},
	{Name: "medium", Width: 400},
	{Name: "large", Width: 800},
}

const (
	// jpegQuality is the encode quality for every variant.
	jpegQuality = 80

	// maxImagePixels bounds the decoded size so a crafted upload cannot
	// exhaust memory. 50 megapixels covers any reasonable photo.
	maxImagePixels = 50_000_000
)

// ProcessedImage holds one generated variant ready for upload.
type ProcessedImage struct {
	Name        string
	Width       int
	Height      int
	Data        []byte
	ContentType string // always "image/jpeg"
}

// GenerateVariants decodes the source image and produces a JPEG rendition
// for each configured width. Variants wider than the original collapse to
// the original width, and once the source width is reached no larger
// renditions are generated.
func GenerateVariants(original []byte, variants []Variant) ([]ProcessedImage, error) {
	if len(variants) == 0 {
		variants = DefaultVariants
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("probe image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("probe image: empty dimensions %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Width*cfg.Height > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}

	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var results []ProcessedImage
	for _, v := range variants {
		targetWidth := v.Width
		if cfg.Width <= targetWidth {
			targetWidth = cfg.Width
		}

		out, err := resizeJPEG(src, targetWidth)
		if err != nil {
			return nil, fmt.Errorf("render %s variant: %w", v.Name, err)
		}
		results = append(results, ProcessedImage{
			Name:        v.Name,
			Width:       out.Width,
			Height:      out.Height,
			Data:        out.Data,
			ContentType: "image/jpeg",
		})

		if cfg.Width <= v.Width {
			break
		}
	}
	return results, nil
}

type rendition struct {
	Width  int
	Height int
	Data   []byte
}

// resizeJPEG scales src to targetWidth preserving aspect ratio and
// encodes it as JPEG. CatmullRom trades speed for the best quality of
// the stdlib-compatible scalers.
func resizeJPEG(src image.Image, targetWidth int) (*rendition, error) {
	bounds := src.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()

	targetHeight := srcH * targetWidth / srcW
	if targetHeight < 1 {
		targetHeight = 1
	}

	var scaled image.Image
	if targetWidth == srcW {
		scaled = src
		targetHeight = srcH
	} else {
		dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		scaled = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return &rendition{Width: targetWidth, Height: targetHeight, Data: buf.Bytes()}, nil
}
