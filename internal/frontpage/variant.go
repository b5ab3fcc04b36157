package frontpage

import "fmt"

// Variant is the visual form an event is rendered in.
type Variant string

const (
	VariantMain       Variant = "main"
	VariantCard       Variant = "card"
	VariantMediaLeft  Variant = "media-left"
	VariantMediaRight Variant = "media-right"
	VariantZen        Variant = "zen"
	VariantZenWide    Variant = "zen-wide"
)

// ImageSize names an image rendition served by the image store.
type ImageSize string

const (
	ImageLarge  ImageSize = "large"
	ImageMedium ImageSize = "medium"
	ImageSquare ImageSize = "square"
)

const (
	gradientHorizontal = "to left"
	gradientVertical   = "to bottom"
)

// variantProfile holds the per-variant presentation rules.
type variantProfile struct {
	imageSize    ImageSize
	titleLimit   int
	summaryLimit int
	itemsLimit   int
	styled       bool
	reversed     bool
}

// profile is the single dispatch point over the closed set of variants.
func (v Variant) profile() (variantProfile, error) {
	switch v {
	case VariantMain:
		return variantProfile{imageSize: ImageLarge, titleLimit: 100, itemsLimit: 4}, nil
	case VariantCard:
		return variantProfile{imageSize: ImageMedium, titleLimit: 80}, nil
	case VariantMediaLeft:
		return variantProfile{imageSize: ImageSquare, titleLimit: 80}, nil
	case VariantMediaRight:
		return variantProfile{imageSize: ImageSquare, titleLimit: 80, reversed: true}, nil
	case VariantZen, VariantZenWide:
		return variantProfile{imageSize: ImageMedium, titleLimit: 80, summaryLimit: 120, styled: true}, nil
	}
	return variantProfile{}, fmt.Errorf("unknown variant %q", string(v))
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	_, err := v.profile()
	return err == nil
}

// DefaultImageSize is the rendition used when a slot carries no size hint.
func (v Variant) DefaultImageSize() ImageSize {
	p, err := v.profile()
	if err != nil {
		return ImageMedium
	}
	return p.imageSize
}

// GradientOrientation returns the CSS direction of the overlay mask:
// horizontal for wide variants, vertical for the rest.
func (v Variant) GradientOrientation() string {
	if v == VariantZenWide {
		return gradientHorizontal
	}
	return gradientVertical
}
