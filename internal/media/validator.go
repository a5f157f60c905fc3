package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const DefaultMaxDimension = 4096

var (
	ErrTooLarge     = errors.New("media: image exceeds size limit")
	ErrUnsupported  = errors.New("media: unsupported image format")
	ErrTooManyPixel = errors.New("media: image dimensions exceed limit")
)

var allowedFormats = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

// Validator sniffs uploaded product images before they are persisted. Only
// formats with a registered decoder pass, and dimensions are checked from
// the header without decoding pixel data.
type Validator struct {
	maxBytes     int64
	maxDimension int
}

func NewValidator(maxBytes int64, maxDimension int) *Validator {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &Validator{maxBytes: maxBytes, maxDimension: maxDimension}
}

type Checked struct {
	Bytes       []byte
	ContentType string
}

func (v *Validator) Check(reader io.Reader, size int64) (*Checked, error) {
	if v.maxBytes > 0 && size > v.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, size)
	}
	limit := size
	if v.maxBytes > 0 && (limit <= 0 || limit > v.maxBytes) {
		limit = v.maxBytes
	}
	var data []byte
	var err error
	if limit > 0 {
		data, err = io.ReadAll(io.LimitReader(reader, limit+1))
	} else {
		data, err = io.ReadAll(reader)
	}
	if err != nil {
		return nil, fmt.Errorf("media: read image: %w", err)
	}
	if v.maxBytes > 0 && int64(len(data)) > v.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(data))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	contentType, ok := allowedFormats[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, format)
	}
	if cfg.Width > v.maxDimension || cfg.Height > v.maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixel, cfg.Width, cfg.Height)
	}
	return &Checked{Bytes: data, ContentType: contentType}, nil
}
