package document

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/saveawatt/billsense/internal/errors"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want format
	}{
		{"pdf", []byte("%PDF-1.7\n..."), formatPDF},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}, formatImage},
		{"jpeg", []byte{0xFF, 0xD8, 0xFF, 0xE0}, formatImage},
		{"gif", []byte("GIF89a......"), formatImage},
		{"tiff little endian", []byte{0x49, 0x49, 0x2A, 0x00, 0x08}, formatImage},
		{"tiff big endian", []byte{0x4D, 0x4D, 0x00, 0x2A, 0x08}, formatImage},
		{"bmp", []byte("BM\x00\x00"), formatImage},
		{"webp", append([]byte("RIFF\x00\x00\x00\x00WEBP"), 0x00), formatImage},
		{"plain text", []byte("hello world"), formatUnknown},
		{"too short", []byte("%P"), formatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectFormat(tt.data))
		})
	}
}

func TestAcquireEmptyDocument(t *testing.T) {
	a := NewAcquirer(NewTesseractOCR(TesseractConfig{}), zerolog.Nop())

	_, err := a.Acquire(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, errs.ErrorInvalidInput, errs.CodeOf(err))
}

func TestAcquireUnsupportedFormat(t *testing.T) {
	a := NewAcquirer(NewTesseractOCR(TesseractConfig{}), zerolog.Nop())

	_, err := a.Acquire(context.Background(), []byte("just some text, not a document"))
	require.Error(t, err)
	assert.Equal(t, errs.ErrorAcquisitionFailed, errs.CodeOf(err))
}

func TestAcquireGarbagePDF(t *testing.T) {
	a := NewAcquirer(NewTesseractOCR(TesseractConfig{}), zerolog.Nop())

	// valid magic bytes, invalid structure
	_, err := a.Acquire(context.Background(), []byte("%PDF-1.4 this is not a real pdf body"))
	require.Error(t, err)
	assert.Equal(t, errs.ErrorAcquisitionFailed, errs.CodeOf(err))
}

func TestExtractPDFTextRecoversFromPanic(t *testing.T) {
	// the pdf reader panics on malformed xref tables; that must surface as a
	// plain error, never escape the acquirer
	_, err := extractPDFText([]byte("%PDF-1.4\nxref\ngarbage\n%%EOF"))
	assert.Error(t, err)
}

func TestNormalizeImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	normalized, err := normalizeImage(buf.Bytes())
	require.NoError(t, err)

	decoded, err := png.Decode(bytes.NewReader(normalized))
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), decoded.Bounds())

	// grayscale output has equal channels everywhere
	r, g, b, _ := decoded.At(3, 5).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	_, err := normalizeImage([]byte("not an image"))
	assert.Error(t, err)
}
