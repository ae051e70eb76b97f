package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"log/slog"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP decoder
)

var (
	// ErrInvalidImage covers malformed data URIs and undecodable payloads.
	ErrInvalidImage = errors.New("invalid image")
	// ErrImageTooLarge is returned when the decoded payload exceeds the limit.
	ErrImageTooLarge = errors.New("image too large")
)

const (
	// MaxDimension is the bounding box stored images are fit into.
	MaxDimension = 1280
	jpegQuality  = 85
)

// DecodeDataURI parses "data:image/<fmt>;base64,<payload>" and decodes the image.
// It returns the decoded image and the format name reported by the decoder.
func DecodeDataURI(raw string, maxBytes int) (image.Image, string, error) {
	header, payload, ok := strings.Cut(raw, ",")
	if !ok || !strings.HasPrefix(header, "data:image/") || !strings.HasSuffix(header, ";base64") {
		return nil, "", fmt.Errorf("%w: expected a base64 image data URI", ErrInvalidImage)
	}

	payload = strings.TrimSpace(payload)
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return nil, "", fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, "", fmt.Errorf("%w: bad base64 payload", ErrInvalidImage)
		}
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, "", fmt.Errorf("%w: limit is %d bytes", ErrImageTooLarge, maxBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, format, nil
}

// Normalized is an image ready for storage.
type Normalized struct {
	JPEG     []byte
	BlurHash string
	Width    int
	Height   int
}

// Normalize fits img into MaxDimension and encodes it as JPEG.
func Normalize(img image.Image) (*Normalized, error) {
	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		return nil, err
	}

	return &Normalized{
		JPEG:     buf.Bytes(),
		BlurHash: hash,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
	}, nil
}

// Stored describes a saved upload.
type Stored struct {
	Path     string
	BlurHash string
}

// Uploader turns data URIs into stored JPEG files.
type Uploader struct {
	storage  *Storage
	maxBytes int
	logger   *slog.Logger
}

// NewUploader creates an Uploader writing to storage.
func NewUploader(storage *Storage, maxBytes int, logger *slog.Logger) *Uploader {
	return &Uploader{storage: storage, maxBytes: maxBytes, logger: logger}
}

// SaveDataURI decodes, normalizes and stores raw.
func (u *Uploader) SaveDataURI(ctx context.Context, raw string) (*Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, format, err := DecodeDataURI(raw, u.maxBytes)
	if err != nil {
		return nil, err
	}

	norm, err := Normalize(img)
	if err != nil {
		return nil, err
	}

	path, err := u.storage.Save(norm.JPEG)
	if err != nil {
		return nil, err
	}

	u.logger.Debug("image stored",
		"path", path,
		"source_format", format,
		"width", norm.Width,
		"height", norm.Height,
		"bytes", len(norm.JPEG),
	)
	return &Stored{Path: path, BlurHash: norm.BlurHash}, nil
}

// Remove deletes a stored image, logging rather than failing on errors.
func (u *Uploader) Remove(rel string) {
	if rel == "" {
		return
	}
	if err := u.storage.Delete(rel); err != nil {
		u.logger.Warn("failed to remove image", "path", rel, "error", err)
	}
}
