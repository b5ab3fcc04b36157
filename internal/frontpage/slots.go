package frontpage

import "github.com/samvad-hq/samvad-news-portal/internal/domain"

// Region names a block of the index page.
type Region string

const (
	RegionLead          Region = "lead"
	RegionHeroSecondary Region = "hero-secondary"
	RegionQuad          Region = "quad"
	RegionTail          Region = "tail"
)

const (
	heroSecondaryEnd = 2
	quadEnd          = 5
)

// DisplaySlot is one positioned rendering unit.
type DisplaySlot struct {
	Event     domain.NewsEvent
	Variant   Variant
	ImageSize ImageSize
}

// PageLayout is the fixed-shape arrangement of the index page.
type PageLayout struct {
	Lead          DisplaySlot
	HeroSecondary []DisplaySlot
	Quad          []DisplaySlot
	Tail          []DisplaySlot
}

// AssignSlots lays out rest around lead by position only:
// rest[0:2] hero-secondary, rest[2:5] quad, rest[5:] tail, all zen.
// Entries sharing the lead's id are dropped first.
func AssignSlots(lead domain.NewsEvent, rest []domain.NewsEvent) PageLayout {
	rest = withoutEvent(rest, lead.ID)

	return PageLayout{
		Lead: DisplaySlot{
			Event:     lead,
			Variant:   VariantZenWide,
			ImageSize: ImageLarge,
		},
		HeroSecondary: zenSlots(window(rest, 0, heroSecondaryEnd)),
		Quad:          zenSlots(window(rest, heroSecondaryEnd, quadEnd)),
		Tail:          zenSlots(window(rest, quadEnd, len(rest))),
	}
}

// Region returns the slots of the named region in display order.
func (p PageLayout) Region(r Region) []DisplaySlot {
	switch r {
	case RegionLead:
		return []DisplaySlot{p.Lead}
	case RegionHeroSecondary:
		return p.HeroSecondary
	case RegionQuad:
		return p.Quad
	case RegionTail:
		return p.Tail
	}
	return nil
}

// Slots returns every slot, lead first, in page order.
func (p PageLayout) Slots() []DisplaySlot {
	out := make([]DisplaySlot, 0, 1+len(p.HeroSecondary)+len(p.Quad)+len(p.Tail))
	out = append(out, p.Lead)
	out = append(out, p.HeroSecondary...)
	out = append(out, p.Quad...)
	out = append(out, p.Tail...)
	return out
}

// window is a bounds-clamped events[from:to].
func window(events []domain.NewsEvent, from, to int) []domain.NewsEvent {
	if from >= len(events) || from >= to {
		return nil
	}
	if to > len(events) {
		to = len(events)
	}
	return events[from:to]
}

func zenSlots(events []domain.NewsEvent) []DisplaySlot {
	if len(events) == 0 {
		return nil
	}
	out := make([]DisplaySlot, 0, len(events))
	for _, evt := range events {
		out = append(out, DisplaySlot{
			Event:     evt,
			Variant:   VariantZen,
			ImageSize: VariantZen.DefaultImageSize(),
		})
	}
	return out
}
