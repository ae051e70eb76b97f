package images

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
	"github.com/disintegration/imaging"
)

// blurHashSize bounds the thumbnail the hash is computed from; the
// placeholder is low resolution so a larger source adds only cost.
const blurHashSize = 64

// ComputeBlurHash returns a 4x3 component BlurHash for img.
func ComputeBlurHash(img image.Image) (string, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", fmt.Errorf("%w: empty image", ErrInvalidImage)
	}

	thumb := img
	if b.Dx() > blurHashSize || b.Dy() > blurHashSize {
		thumb = imaging.Fit(img, blurHashSize, blurHashSize, imaging.Box)
	}

	hash, err := blurhash.Encode(4, 3, thumb)
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}
