// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Options limits what the processor accepts and produces.
type Options struct {
	// MaxBytes is the largest accepted upload, and the largest data URI
	// payload produced. 0 uses DefaultMaxBytes.
	MaxBytes int64
	// MaxDimension bounds the longer image side; larger images are scaled down.
	// 0 uses DefaultMaxDimension.
	MaxDimension int
	// Quality is the JPEG quality used when re-encoding. 0 uses 85.
	Quality int
}

// Processor converts uploads into inline data URIs.
type Processor struct {
	opts Options
}

// NewProcessor creates a processor, filling zero options with defaults.
func NewProcessor(opts Options) *Processor {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.MaxDimension <= 0 {
		opts.MaxDimension = DefaultMaxDimension
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 85
	}
	return &Processor{opts: opts}
}

// MaxBytes returns the configured size limit.
func (p *Processor) MaxBytes() int64 {
	return p.opts.MaxBytes
}

// ToDataURI reads an uploaded image and returns it as a base64 data URI.
// EXIF orientation is applied and oversized images are scaled to fit
// MaxDimension. GIFs are kept byte-for-byte so animations survive.
func (p *Processor) ToDataURI(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, p.opts.MaxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	if int64(len(data)) > p.opts.MaxBytes {
		return "", ErrTooLarge
	}

	mimeType := DetectMimeType(data)
	if !IsSupportedMimeType(mimeType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
	if mimeType == MimeTypeGIF {
		return EncodeDataURI(mimeType, data), nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}

	orientation := 1
	if mimeType == MimeTypeJPEG {
		orientation = readExifOrientation(bytes.NewReader(data))
	}

	bounds := img.Bounds()
	oversized := bounds.Dx() > p.opts.MaxDimension || bounds.Dy() > p.opts.MaxDimension
	if orientation == 1 && !oversized {
		return EncodeDataURI(mimeType, data), nil
	}

	img = applyOrientation(img, orientation)
	if oversized {
		img = imaging.Fit(img, p.opts.MaxDimension, p.opts.MaxDimension, imaging.Lanczos)
	}

	outType := outputType(img, mimeType)
	out, err := encodeImage(img, outType, p.opts.Quality)
	if err != nil {
		return "", fmt.Errorf("encoding image: %w", err)
	}
	if int64(len(out)) > p.opts.MaxBytes {
		return "", ErrTooLarge
	}
	return EncodeDataURI(outType, out), nil
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation undoes the camera rotation recorded in EXIF
// orientation values 2-8.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// outputType picks the encoding for a re-encoded image. There is no pure Go
// WebP encoder, so WebP becomes JPEG, or PNG when it has transparency.
func outputType(img image.Image, mimeType string) string {
	if mimeType != MimeTypeWebP {
		return mimeType
	}
	if isOpaque(img) {
		return MimeTypeJPEG
	}
	return MimeTypePNG
}

func isOpaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

func encodeImage(img image.Image, mimeType string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch mimeType {
	case MimeTypePNG:
		err = png.Encode(&buf, img)
	case MimeTypeGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
