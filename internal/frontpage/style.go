package frontpage

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic color derivation
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// DefaultLuminanceThreshold separates light backgrounds (dark text) from dark ones.
const DefaultLuminanceThreshold = 0.30

// RGB is an 8-bit sRGB color.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Hex returns the color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CSS returns the comma separated channel list used inside rgb()/rgba().
func (c RGB) CSS() string {
	return fmt.Sprintf("%d,%d,%d", c.R, c.G, c.B)
}

// Luminance is the WCAG relative luminance of c over linearized channels.
func (c RGB) Luminance() float64 {
	return 0.2126*linearize(c.R) + 0.7152*linearize(c.G) + 0.0722*linearize(c.B)
}

func linearize(v uint8) float64 {
	c := float64(v) / 255
	if c <= 0.03928 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// GradientMask describes the overlay drawn over the event image.
type GradientMask struct {
	Orientation string `json:"orientation"`
	CSS         string `json:"css"`
}

// StyleDecision is the per-render styling of an event card.
type StyleDecision struct {
	Color         RGB          `json:"color"`
	BackgroundHex string       `json:"backgroundHex"`
	Luminance     float64      `json:"luminance"`
	UseDarkText   bool         `json:"useDarkText"`
	Mask          GradientMask `json:"mask"`
}

// DeriveStyle computes the background color, text contrast and gradient mask
// for an image. It is a pure function of its arguments.
func DeriveStyle(imageID string, variant Variant, threshold float64) StyleDecision {
	color := ImageColor(imageID)
	lum := color.Luminance()
	orientation := variant.GradientOrientation()

	return StyleDecision{
		Color:         color,
		BackgroundHex: color.Hex(),
		Luminance:     lum,
		UseDarkText:   lum > threshold,
		Mask: GradientMask{
			Orientation: orientation,
			CSS: fmt.Sprintf("linear-gradient(%s,rgba(0,0,0,0),rgba(%s,.7),rgb(%s))",
				orientation, color.CSS(), color.CSS()),
		},
	}
}

// ImageColor returns the dominant color of an image. The image store appends
// it to ids as a "-rrggbb" suffix; ids without one get a color derived from
// their SHA-1 digest.
func ImageColor(imageID string) RGB {
	id := strings.TrimSpace(imageID)
	if i := strings.LastIndexByte(id, '-'); i >= 0 {
		if c, ok := parseHexColor(id[i+1:]); ok {
			return c
		}
	}
	sum := sha1.Sum([]byte(id)) //nolint:gosec
	return RGB{R: sum[0], G: sum[1], B: sum[2]}
}

func parseHexColor(s string) (RGB, bool) {
	if len(s) != 6 {
		return RGB{}, false
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return RGB{}, false
	}
	return RGB{R: b[0], G: b[1], B: b[2]}, true
}
