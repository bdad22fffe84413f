/**
 * Text acquirer
 *
 * Obtains raw text from an uploaded document. PDFs get their text layer
 * extracted directly; when the aggregate text layer is empty (a scanned
 * PDF), pages are rasterized and run through OCR. Plain images go straight
 * to OCR.
 */

package document

import (
	"bytes"
	"context"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"

	errs "github.com/saveawatt/billsense/internal/errors"
)

// format identifies the document container from magic bytes
type format int

const (
	formatUnknown format = iota
	formatPDF
	formatImage
)

// Acquirer turns document bytes into extracted text
type Acquirer struct {
	ocr *TesseractOCR
	log zerolog.Logger
}

// NewAcquirer creates a new text acquirer
func NewAcquirer(ocr *TesseractOCR, log zerolog.Logger) *Acquirer {
	return &Acquirer{ocr: ocr, log: log}
}

// Acquire extracts text from a PDF or image document. Failures here are
// fatal for the request and are not retried internally.
func (a *Acquirer) Acquire(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", errs.NewInvalidInputError("empty document")
	}

	switch detectFormat(data) {
	case formatPDF:
		text, err := extractPDFText(data)
		if err != nil {
			return "", errs.NewAcquisitionError("unreadable PDF document", err)
		}
		if strings.TrimSpace(text) != "" {
			a.log.Debug().Int("chars", len(text)).Msg("extracted pdf text layer")
			return text, nil
		}
		// no text layer: scanned document, rasterize and OCR each page
		a.log.Debug().Msg("pdf has no text layer, falling back to OCR")
		return a.ocrPDF(ctx, data)

	case formatImage:
		text, err := a.ocr.Recognize(ctx, data)
		if err != nil {
			return "", errs.NewAcquisitionError("OCR failed on image document", err)
		}
		return text, nil
	}

	return "", errs.NewAcquisitionError("unsupported document format", nil)
}

// ocrPDF rasterizes every page of a scanned PDF and concatenates the OCR
// output with newline separators, preserving document order
func (a *Acquirer) ocrPDF(ctx context.Context, data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", errs.NewAcquisitionError("failed to rasterize scanned PDF", err)
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			return "", errs.NewAcquisitionError("failed to render PDF page", err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return "", errs.NewAcquisitionError("failed to encode rendered page", err)
		}

		text, err := a.ocr.Recognize(ctx, buf.Bytes())
		if err != nil {
			return "", errs.NewAcquisitionError("OCR failed on scanned PDF page", err)
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n"), nil
}

// detectFormat inspects magic bytes; uploads frequently arrive with generic
// or missing content types, so the container is decided from content alone
func detectFormat(data []byte) format {
	if len(data) < 4 {
		return formatUnknown
	}

	// PDF: %PDF-
	if bytes.HasPrefix(data, []byte("%PDF")) {
		return formatPDF
	}

	// PNG
	if len(data) >= 8 && bytes.HasPrefix(data, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}) {
		return formatImage
	}

	// JPEG
	if bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}) {
		return formatImage
	}

	// GIF
	if bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")) {
		return formatImage
	}

	// WebP
	if len(data) > 12 && bytes.HasPrefix(data, []byte("RIFF")) && string(data[8:12]) == "WEBP" {
		return formatImage
	}

	// TIFF (little- or big-endian)
	if bytes.HasPrefix(data, []byte{0x49, 0x49, 0x2A, 0x00}) || bytes.HasPrefix(data, []byte{0x4D, 0x4D, 0x00, 0x2A}) {
		return formatImage
	}

	// BMP
	if bytes.HasPrefix(data, []byte("BM")) {
		return formatImage
	}

	return formatUnknown
}
