// Package color picks and normalizes tag colors.
package color

import (
	"fmt"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

var hexRe = regexp.MustCompile(`^#?([0-9a-fA-F]{6}|[0-9a-fA-F]{3})$`)

// Normalize returns c as an upper-case "#RRGGBB" string. Three-digit
// shorthand is expanded. ok is false when c is not a hex color.
func Normalize(c string) (string, bool) {
	m := hexRe.FindStringSubmatch(strings.TrimSpace(c))
	if m == nil {
		return "", false
	}
	digits := strings.ToUpper(m[1])
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	return "#" + digits, true
}

// ForTag derives a stable color from a tag name so seeded tags without an
// explicit color still render distinctly.
func ForTag(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	hue := float64(h.Sum32() % 360)

	r, g, b := fromHSL(hue, 0.55, 0.55)
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

// fromHSL converts hue in degrees with saturation and lightness in [0,1].
func fromHSL(hue, sat, light float64) (r, g, b uint8) {
	chroma := (1 - math.Abs(2*light-1)) * sat
	sector := hue / 60
	x := chroma * (1 - math.Abs(math.Mod(sector, 2)-1))

	var r1, g1, b1 float64
	switch {
	case sector < 1:
		r1, g1 = chroma, x
	case sector < 2:
		r1, g1 = x, chroma
	case sector < 3:
		g1, b1 = chroma, x
	case sector < 4:
		g1, b1 = x, chroma
	case sector < 5:
		r1, b1 = x, chroma
	default:
		r1, b1 = chroma, x
	}

	m := light - chroma/2
	return channel(r1 + m), channel(g1 + m), channel(b1 + m)
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
