package scene

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/bmp"

	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

const board = `
name = "test"

[surface]
id = "board"
width = 20
height = 10
z = 10
background = "#313244"

[[element]]
id = "a"
x = 30
width = 10
height = 10
background = "#a6e3a1"
background_alpha = 0.5
classes = ["target"]

[[element]]
id = "host"
x = 50
width = 10
height = 10
opacity = 0.5

[[element.shadow]]
id = "inner"
x = 50
width = 5
height = 5
background = "#ffffff"
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(board), t.TempDir())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Name != "test" || s.Surface.ID != "board" {
		t.Fatalf("scene = %+v", s)
	}

	a := s.Doc.Node("a")
	if a == nil || !a.HasClass("target") {
		t.Fatalf("node a = %+v", a)
	}
	if _, _, _, alpha := a.Fill.RGBA(); alpha < 0x7f00 || alpha > 0x8100 {
		t.Errorf("background alpha = %#x, want about half", alpha)
	}
	if s.Doc.Node("inner") == nil {
		t.Error("shadow child not reachable")
	}

	tester := hittest.NewTester(s.Doc)
	if !tester.IsOpaqueAt(s.Surface, pointer.Pt(5, 5)) {
		t.Error("surface should be opaque")
	}
	if got := tester.Stack(pointer.Pt(52, 2)); len(got) != 2 || got[0].ElementID() != "inner" {
		t.Errorf("stack = %v, want inner in front of host", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{name: "no surface", body: "name = \"x\"\n", want: []string{ErrNoSurface.Error()}},
		{
			name: "every element reported",
			body: "[surface]\nid = \"s\"\nwidth = 0\nheight = 1\n[[element]]\nid = \"s\"\nwidth = 1\nheight = 1\nbackground = \"purple\"\n",
			want: []string{"must be positive", ErrDuplicateID.Error(), "purple"},
		},
		{
			name: "ranges",
			body: "[surface]\nid = \"s\"\nwidth = 1\nheight = 1\nopacity = 2.0\nbackground = \"#000000\"\nbackground_alpha = -1.0\n",
			want: []string{"opacity 2", "background alpha -1"},
		},
		{name: "tainted without image", body: "[surface]\nid = \"s\"\nwidth = 1\nheight = 1\ntainted = true\n", want: []string{"tainted"}},
		{name: "missing image", body: "[surface]\nid = \"s\"\nwidth = 1\nheight = 1\nimage = \"nope.png\"\n", want: []string{"failed to open image"}},
		{name: "bad toml", body: "[surface\n", want: []string{"failed to parse scene"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.body), t.TempDir())
			if err == nil {
				t.Fatal("expected an error")
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not mention %q", err, w)
				}
			}
		})
	}
	if _, err := (File{}).Build(""); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Build = %v, want ErrNoSurface", err)
	}
}

// halfMask is opaque on the left half and transparent on the right.
func halfMask() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: 0xff})
		}
	}
	return img
}

func TestLoadImages(t *testing.T) {
	opaque := image.NewGray(image.Rect(0, 0, 4, 2))
	for i := range opaque.Pix {
		opaque.Pix[i] = 0x80
	}
	tests := []struct {
		name        string
		file        string
		img         image.Image
		encode      func(*os.File, image.Image) error
		transparent bool // right half
	}{
		{name: "png", file: "mask.png", img: halfMask(), encode: func(f *os.File, img image.Image) error { return png.Encode(f, img) }, transparent: true},
		{name: "bmp", file: "mask.bmp", img: opaque, encode: func(f *os.File, img image.Image) error { return bmp.Encode(f, img) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			f, err := os.Create(filepath.Join(dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}
			if err := tt.encode(f, tt.img); err != nil {
				t.Fatal(err)
			}
			f.Close()

			body := "[surface]\nid = \"s\"\nwidth = 20\nheight = 10\nimage = \"" + tt.file + "\"\n"
			path := filepath.Join(dir, "scene.toml")
			if err := os.WriteFile(path, []byte(body), 0600); err != nil {
				t.Fatal(err)
			}
			s, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if s.Name != "scene.toml" {
				t.Errorf("name = %q, want file name", s.Name)
			}
			tester := hittest.NewTester(s.Doc)
			if !tester.IsOpaqueAt(s.Surface, pointer.Pt(2, 5)) {
				t.Error("left half should be opaque")
			}
			if got := tester.IsOpaqueAt(s.Surface, pointer.Pt(17, 5)); got == tt.transparent {
				t.Errorf("right half opaque = %v, want %v", got, !tt.transparent)
			}
		})
	}
}

func TestDefaultScene(t *testing.T) {
	s := Default()
	tester := hittest.NewTester(s.Doc)

	if !tester.IsOpaqueAt(s.Surface, pointer.Pt(5, 5)) {
		t.Error("board should be opaque away from its window")
	}
	window := pointer.Pt(30, 12)
	if tester.IsOpaqueAt(s.Surface, window) {
		t.Error("board window should be transparent")
	}
	if got := tester.NextElementBehind(s.Surface, window); got == nil || got.ElementID() != "shelf" {
		t.Errorf("behind window = %v, want shelf", got)
	}

	ghost := pointer.Pt(52, 5)
	got := tester.TopmostOpaqueBehind(ghost, []hittest.Element{s.Surface}, nil, hittest.DefaultOpacityThreshold)
	if got == nil || got.ElementID() != "inbox" {
		t.Errorf("drop target under ghost = %v, want inbox", got)
	}
}
