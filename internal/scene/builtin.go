package scene

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

// Default returns the built-in demo scene: a board surface with a
// transparent window onto the shelf behind it, two drop targets, and a
// nearly invisible ghost above the inbox that is too faint to be hit.
func Default() *Scene {
	board := image.NewNRGBA(image.Rect(0, 0, 40, 16))
	draw.Draw(board, board.Bounds(), image.NewUniform(color.NRGBA{R: 0x31, G: 0x32, B: 0x44, A: 0xff}), image.Point{}, draw.Src)
	draw.Draw(board, image.Rect(24, 8, 36, 14), image.Transparent, image.Point{}, draw.Src)

	surface := &hittest.Node{
		ID:      "board",
		Rect:    pointer.R(2, 2, 40, 16),
		Z:       10,
		Alpha:   1,
		Content: &hittest.Bitmap{Image: board},
	}
	nodes := []*hittest.Node{
		{ID: "page", Rect: pointer.R(0, 0, 120, 40), Alpha: 1, Fill: hex(0x1e1e2e), Classes: []string{"page"}},
		{ID: "shelf", Rect: pointer.R(24, 9, 16, 8), Z: 5, Alpha: 1, Fill: hex(0x89b4fa)},
		{ID: "inbox", Rect: pointer.R(46, 2, 20, 6), Z: 5, Alpha: 1, Fill: hex(0xa6e3a1), Classes: []string{"target"}},
		{ID: "trash", Rect: pointer.R(46, 10, 20, 6), Z: 5, Alpha: 1, Fill: hex(0xf38ba8), Classes: []string{"target"}},
		{ID: "ghost", Rect: pointer.R(50, 4, 8, 3), Z: 8, Alpha: 0.05, Fill: hex(0xf9e2af)},
		surface,
	}
	return &Scene{Name: "built-in", Doc: hittest.NewScene(nodes...), Surface: surface}
}

func hex(rgb uint32) color.Color {
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}
}
