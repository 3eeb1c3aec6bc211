package hittest

import (
	"math"

	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

// Tester answers opacity and occlusion queries over a Document.
type Tester struct {
	doc     Document
	sampler *sampler
}

// TesterOption configures a Tester.
type TesterOption func(*Tester)

// WithSampleCache sets the number of cached bitmap samples; 0 disables the
// cache.
func WithSampleCache(size int) TesterOption {
	return func(t *Tester) {
		t.sampler = newSampler(size)
	}
}

// NewTester returns a Tester over doc.
func NewTester(doc Document, opts ...TesterOption) *Tester {
	t := &Tester{doc: doc, sampler: newSampler(DefaultSampleCacheSize)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Purge drops cached bitmap samples. Hosts call it after mutating bitmap
// pixels in place.
func (t *Tester) Purge() {
	t.sampler.purge()
}

// Stack returns every element under p front to back, descending into shadow
// roots. A shadow tree's elements are spliced in front of their host and the
// host appears exactly once.
func (t *Tester) Stack(p pointer.Point) []Element {
	seen := make(map[Element]struct{})
	return t.stack(t.doc, p, seen, nil)
}

func (t *Tester) stack(doc Document, p pointer.Point, seen map[Element]struct{}, out []Element) []Element {
	for _, el := range doc.ElementsFromPoint(p) {
		if _, dup := seen[el]; dup {
			continue
		}
		if root := el.ShadowRoot(); root != nil {
			// The host is marked first so a shadow root reporting its own
			// host (as retargeted hit tests do) doesn't duplicate it.
			seen[el] = struct{}{}
			out = t.stack(root, p, seen, out)
			out = append(out, el)
			continue
		}
		seen[el] = struct{}{}
		out = append(out, el)
	}
	return out
}

// Alpha returns the composited alpha of el at viewport position p: style
// opacity times the background composited over any bitmap content.
func (t *Tester) Alpha(el Element, p pointer.Point) float64 {
	b := el.Bounds()
	if !b.Contains(p) {
		return 0
	}
	opacity := clamp01(el.Opacity())
	if opacity == 0 {
		return 0
	}
	bg := colorAlpha(el.Background())
	var px float64
	if bm := el.Bitmap(); bm != nil {
		w := int(math.Round(b.Dx()))
		h := int(math.Round(b.Dy()))
		lx := int(math.Floor(p.X - b.Min.X))
		ly := int(math.Floor(p.Y - b.Min.Y))
		px = t.sampler.alphaAt(bm, w, h, lx, ly)
	}
	content := 1 - (1-bg)*(1-px)
	return opacity * content
}

// IsOpaqueAt reports whether surface is painted at p with an alpha of at
// least DefaultOpacityThreshold. Use OpaqueAt or ThresholdProvider for a
// configured threshold.
func (t *Tester) IsOpaqueAt(surface Element, p pointer.Point) bool {
	return t.OpaqueAt(surface, p, DefaultOpacityThreshold)
}

// DefaultOpacityThreshold is the alpha at which an element counts as opaque.
const DefaultOpacityThreshold = 0.1

// OpaqueAt reports whether el's composited alpha at p reaches threshold.
// A threshold of 0 only requires p to be inside el.
func (t *Tester) OpaqueAt(el Element, p pointer.Point, threshold float64) bool {
	if el == nil || !el.Bounds().Contains(p) {
		return false
	}
	if threshold <= 0 {
		return true
	}
	return t.Alpha(el, p) >= threshold
}

// TopmostOpaqueBehind returns the frontmost element at p that is neither one
// of excludeSurfaces nor carries one of excludeClasses and whose alpha reaches
// threshold. Threshold 0 returns the first non-excluded element.
func (t *Tester) TopmostOpaqueBehind(p pointer.Point, excludeSurfaces []Element, excludeClasses []string, threshold float64) Element {
	for _, el := range t.Stack(p) {
		if excluded(el, excludeSurfaces, excludeClasses) {
			continue
		}
		if threshold <= 0 || t.Alpha(el, p) >= threshold {
			return el
		}
	}
	return nil
}

// NextElementBehind returns the element directly behind surface at p. When
// surface is not part of the hit stack the frontmost element is returned.
func (t *Tester) NextElementBehind(surface Element, p pointer.Point) Element {
	stack := t.Stack(p)
	for i, el := range stack {
		if el == surface {
			if i+1 < len(stack) {
				return stack[i+1]
			}
			return nil
		}
	}
	if len(stack) > 0 {
		return stack[0]
	}
	return nil
}

func excluded(el Element, surfaces []Element, classes []string) bool {
	for _, s := range surfaces {
		if el == s {
			return true
		}
	}
	for _, c := range classes {
		if el.HasClass(c) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ThresholdProvider adapts a Tester to the Provider interface with a fixed
// opacity threshold for IsOpaqueAt.
type ThresholdProvider struct {
	*Tester
	Threshold float64
}

func (tp ThresholdProvider) IsOpaqueAt(surface Element, p pointer.Point) bool {
	return tp.OpaqueAt(surface, p, tp.Threshold)
}
