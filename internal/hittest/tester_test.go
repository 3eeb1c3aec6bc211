package hittest

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

var opaqueWhite = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

func box(id string, x, y, w, h float64, z int) *Node {
	return &Node{ID: id, Rect: pointer.R(x, y, w, h), Z: z, Alpha: 1, Fill: opaqueWhite}
}

func ids(els []Element) []string {
	out := make([]string, len(els))
	for i, el := range els {
		out[i] = el.ElementID()
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestStackOrder(t *testing.T) {
	scene := NewScene(
		box("back", 0, 0, 100, 100, 0),
		box("middle", 0, 0, 50, 50, 1),
		box("front", 0, 0, 20, 20, 2),
		box("same-z-later", 0, 0, 30, 30, 1),
	)
	tester := NewTester(scene)

	got := ids(tester.Stack(pointer.Pt(10, 10)))
	want := []string{"front", "same-z-later", "middle", "back"}
	if !equalIDs(got, want) {
		t.Errorf("Stack = %v, want %v", got, want)
	}

	got = ids(tester.Stack(pointer.Pt(60, 60)))
	if !equalIDs(got, []string{"back"}) {
		t.Errorf("Stack at (60,60) = %v, want [back]", got)
	}
}

// retargetingScene reports its host again after its own nodes, the way a
// shadow root hit test returns the host element in its results.
type retargetingScene struct {
	*Scene
	host Element
}

func (r retargetingScene) ElementsFromPoint(p pointer.Point) []Element {
	return append(r.Scene.ElementsFromPoint(p), r.host)
}

func TestStackSplicesShadowRoots(t *testing.T) {
	inner := NewScene(box("inner-a", 0, 0, 10, 10, 1), box("inner-b", 0, 0, 10, 10, 0))
	host := box("host", 0, 0, 10, 10, 1)
	host.Shadow = inner
	scene := NewScene(box("page", 0, 0, 100, 100, 0), host)

	got := ids(NewTester(scene).Stack(pointer.Pt(5, 5)))
	want := []string{"inner-a", "inner-b", "host", "page"}
	if !equalIDs(got, want) {
		t.Errorf("Stack = %v, want %v", got, want)
	}
}

type shadowHost struct {
	*Node
	root Document
}

func (h *shadowHost) ShadowRoot() Document { return h.root }

func TestStackRemovesDuplicateHost(t *testing.T) {
	host := &shadowHost{Node: box("host", 0, 0, 10, 10, 1)}
	host.root = retargetingScene{Scene: NewScene(box("inner", 0, 0, 10, 10, 0)), host: host}

	doc := docFunc(func(pointer.Point) []Element { return []Element{host} })
	got := ids(NewTester(doc).Stack(pointer.Pt(1, 1)))
	want := []string{"inner", "host"}
	if !equalIDs(got, want) {
		t.Errorf("Stack = %v, want %v", got, want)
	}
}

type docFunc func(pointer.Point) []Element

func (f docFunc) ElementsFromPoint(p pointer.Point) []Element { return f(p) }

func TestAlphaComposition(t *testing.T) {
	half := color.NRGBA{A: 0x80}
	tests := []struct {
		name string
		node *Node
		want float64
	}{
		{name: "opaque fill", node: &Node{Rect: pointer.R(0, 0, 10, 10), Alpha: 1, Fill: opaqueWhite}, want: 1},
		{name: "no fill", node: &Node{Rect: pointer.R(0, 0, 10, 10), Alpha: 1}, want: 0},
		{name: "half fill", node: &Node{Rect: pointer.R(0, 0, 10, 10), Alpha: 1, Fill: half}, want: 0x8080 / float64(0xffff)},
		{name: "style opacity scales", node: &Node{Rect: pointer.R(0, 0, 10, 10), Alpha: 0.25, Fill: opaqueWhite}, want: 0.25},
		{name: "transparent element", node: &Node{Rect: pointer.R(0, 0, 10, 10), Alpha: 0, Fill: opaqueWhite}, want: 0},
	}

	tester := NewTester(NewScene())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tester.Alpha(tt.node, pointer.Pt(5, 5))
			if math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("Alpha = %v, want %v", got, tt.want)
			}
		})
	}
}

// halfMask is 2x1: left pixel opaque, right pixel transparent.
func halfMask() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{A: 0})
	return img
}

func TestBitmapAlphaScaled(t *testing.T) {
	// A 2x1 mask stretched over a 20x10 box.
	node := &Node{ID: "img", Rect: pointer.R(0, 0, 20, 10), Alpha: 1, Content: &Bitmap{Image: halfMask()}}
	tester := NewTester(NewScene(node))

	if !tester.OpaqueAt(node, pointer.Pt(2, 5), 0.5) {
		t.Error("left half should be opaque")
	}
	if tester.OpaqueAt(node, pointer.Pt(17, 5), 0.5) {
		t.Error("right half should be transparent")
	}
	// Cached lookups must agree with the first sample.
	if !tester.OpaqueAt(node, pointer.Pt(2, 5), 0.5) {
		t.Error("cached sample changed result")
	}
}

func TestTaintedBitmapIsOpaque(t *testing.T) {
	node := &Node{ID: "x", Rect: pointer.R(0, 0, 20, 10), Alpha: 1, Content: &Bitmap{Image: halfMask(), Tainted: true}}
	tester := NewTester(NewScene(node), WithSampleCache(0))
	if !tester.OpaqueAt(node, pointer.Pt(17, 5), 1) {
		t.Error("tainted content must be treated as opaque")
	}
}

func TestTopmostOpaqueBehind(t *testing.T) {
	surface := box("surface", 0, 0, 100, 100, 10)
	ghost := &Node{ID: "ghost", Rect: pointer.R(0, 0, 100, 100), Z: 5, Alpha: 0.05, Fill: opaqueWhite}
	marked := box("marked", 0, 0, 100, 100, 4)
	marked.Classes = []string{"no-drop"}
	target := box("target", 0, 0, 100, 100, 3)
	scene := NewScene(target, marked, ghost, surface)
	tester := NewTester(scene)

	got := tester.TopmostOpaqueBehind(pointer.Pt(50, 50), []Element{surface}, []string{"no-drop"}, 0.1)
	if got == nil || got.ElementID() != "target" {
		t.Errorf("TopmostOpaqueBehind = %v, want target", got)
	}

	// Threshold 0 skips the opacity check but still honors exclusions.
	got = tester.TopmostOpaqueBehind(pointer.Pt(50, 50), []Element{surface}, []string{"no-drop"}, 0)
	if got == nil || got.ElementID() != "ghost" {
		t.Errorf("threshold 0 TopmostOpaqueBehind = %v, want ghost", got)
	}

	if got := tester.TopmostOpaqueBehind(pointer.Pt(500, 500), nil, nil, 0.1); got != nil {
		t.Errorf("expected nil outside every element, got %v", got.ElementID())
	}
}

func TestNextElementBehind(t *testing.T) {
	surface := box("surface", 0, 0, 50, 50, 2)
	below := box("below", 0, 0, 100, 100, 1)
	tester := NewTester(NewScene(below, surface))

	if got := tester.NextElementBehind(surface, pointer.Pt(10, 10)); got != below {
		t.Errorf("NextElementBehind = %v, want below", got)
	}
	// Outside the surface the frontmost element is the next one.
	if got := tester.NextElementBehind(surface, pointer.Pt(75, 75)); got != below {
		t.Errorf("NextElementBehind outside surface = %v, want below", got)
	}
	if got := tester.NextElementBehind(below, pointer.Pt(75, 75)); got != nil {
		t.Errorf("nothing is behind the backmost element, got %v", got.ElementID())
	}
}

func TestThresholdProvider(t *testing.T) {
	node := &Node{ID: "n", Rect: pointer.R(0, 0, 10, 10), Alpha: 0.3, Fill: opaqueWhite}
	tp := ThresholdProvider{Tester: NewTester(NewScene(node)), Threshold: 0.5}
	if tp.IsOpaqueAt(node, pointer.Pt(1, 1)) {
		t.Error("alpha 0.3 should not reach threshold 0.5")
	}
	tp.Threshold = 0.2
	if !tp.IsOpaqueAt(node, pointer.Pt(1, 1)) {
		t.Error("alpha 0.3 should reach threshold 0.2")
	}
}

func TestSceneHiddenAndRemove(t *testing.T) {
	a := box("a", 0, 0, 10, 10, 0)
	b := box("b", 0, 0, 10, 10, 1)
	scene := NewScene(a, b)
	b.Hidden = true
	if got := ids(scene.ElementsFromPoint(pointer.Pt(1, 1))); !equalIDs(got, []string{"a"}) {
		t.Errorf("hidden node still hit: %v", got)
	}
	if !scene.Remove("a") || scene.Remove("a") {
		t.Error("Remove should succeed exactly once")
	}
	if scene.Node("b") != b {
		t.Error("Node lookup failed")
	}
}
