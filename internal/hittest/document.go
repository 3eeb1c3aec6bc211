// Package hittest implements occlusion and opacity aware hit testing.
//
// The host platform is abstracted behind Document and Element: a Document
// answers "which elements are under this point, front to back" and an
// Element describes how it is painted. Tester combines them into the
// queries the dispatcher needs: is the surface opaque here, which element
// is the next one behind it, and which is the topmost opaque drop target.
package hittest

import (
	"image"
	"image/color"

	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

// Element is one hit-testable painted element. Implementations must be
// comparable; the hit stack is deduplicated by identity.
type Element interface {
	// ElementID returns a stable identifier used for logging and caching.
	ElementID() string
	// Bounds returns the element's box in viewport coordinates.
	Bounds() pointer.Rect
	// Opacity returns the element's own style opacity in [0, 1].
	Opacity() float64
	// Background returns the background color, or nil for none.
	Background() color.Color
	// Bitmap returns the bitmap content painted into Bounds, or nil.
	Bitmap() *Bitmap
	// HasClass reports whether the element carries the class name.
	HasClass(name string) bool
	// ShadowRoot returns the document of the element's shadow tree, or nil.
	ShadowRoot() Document
}

// Document is a hit-testing scope: the top level page or a shadow root.
type Document interface {
	// ElementsFromPoint returns the elements whose box contains p, front to
	// back. Elements inside shadow trees are not included; their host is.
	ElementsFromPoint(p pointer.Point) []Element
}

// Provider is the hit-testing capability the dispatcher depends on. Tester is
// the stock implementation over a Document.
type Provider interface {
	IsOpaqueAt(surface Element, p pointer.Point) bool
	TopmostOpaqueBehind(p pointer.Point, excludeSurfaces []Element, excludeClasses []string, threshold float64) Element
	NextElementBehind(surface Element, p pointer.Point) Element
}

// Bitmap is image content scaled into an element's box.
type Bitmap struct {
	Image image.Image
	// Tainted marks content whose pixels cannot be read (for example
	// cross-origin images). Tainted bitmaps are treated as fully opaque.
	Tainted bool
}
