/**
 * Tesseract OCR - fallback path for documents without a text layer
 *
 * Images are normalized before recognition: embedded EXIF rotation is
 * applied and the image is reduced to grayscale, which is a simple and
 * effective default for bill scans.
 */

package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// TesseractConfig holds Tesseract configuration
type TesseractConfig struct {
	// TessdataPrefix overrides the engine's trained-data location; empty
	// means platform discovery
	TessdataPrefix string
	// Language defaults to "eng"
	Language string
	// PageSegMode defaults to single-block segmentation
	PageSegMode gosseract.PageSegMode
	// Whitelist restricts recognized characters when non-empty
	Whitelist string
}

// TesseractOCR handles OCR using Tesseract
type TesseractOCR struct {
	cfg TesseractConfig
}

// NewTesseractOCR creates a new Tesseract OCR instance
func NewTesseractOCR(cfg TesseractConfig) *TesseractOCR {
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.PageSegMode == 0 {
		cfg.PageSegMode = gosseract.PSM_SINGLE_BLOCK
	}
	return &TesseractOCR{cfg: cfg}
}

// Recognize runs OCR over a single image and returns the recognized text
func (t *TesseractOCR) Recognize(ctx context.Context, imageData []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	normalized, err := normalizeImage(imageData)
	if err != nil {
		return "", fmt.Errorf("failed to normalize image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.cfg.TessdataPrefix); err != nil {
			return "", fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.cfg.Language); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetPageSegMode(t.cfg.PageSegMode); err != nil {
		return "", fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	if t.cfg.Whitelist != "" {
		if err := client.SetWhitelist(t.cfg.Whitelist); err != nil {
			return "", fmt.Errorf("failed to set character whitelist: %w", err)
		}
	}

	if err := client.SetImageFromBytes(normalized); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// normalizeImage applies embedded rotation metadata and converts the image
// to a single grayscale channel, re-encoded as PNG for the OCR engine
func normalizeImage(imageData []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	gray := imaging.Grayscale(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, gray, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
