// Package scene loads hit-testing scenes from TOML descriptions.
//
// A scene file names one surface, the element a dispatcher is attached to,
// and any number of other elements painted around it:
//
//	name = "board"
//
//	[surface]
//	id = "board"
//	x = 2
//	y = 2
//	width = 40
//	height = 16
//	z = 10
//	background = "#313244"
//
//	[[element]]
//	id = "inbox"
//	x = 46
//	y = 2
//	width = 20
//	height = 6
//	background = "#a6e3a1"
//	classes = ["target"]
//
// Image paths are relative to the scene file. PNG, BMP and WebP are decoded.
package scene

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/Gaurav-Gosain/tuigest/internal/hittest"
	"github.com/Gaurav-Gosain/tuigest/internal/pointer"
)

var (
	// ErrNoSurface is returned for a scene without a [surface] table.
	ErrNoSurface = errors.New("scene has no surface")
	// ErrDuplicateID is returned when two elements share an id.
	ErrDuplicateID = errors.New("duplicate element id")
)

// File is the TOML form of a scene.
type File struct {
	Name     string `toml:"name"`
	Surface  *Spec  `toml:"surface"`
	Elements []Spec `toml:"element"`
}

// Spec describes one element.
type Spec struct {
	ID              string   `toml:"id"`
	X               float64  `toml:"x"`
	Y               float64  `toml:"y"`
	Width           float64  `toml:"width"`
	Height          float64  `toml:"height"`
	Z               int      `toml:"z"`
	Opacity         *float64 `toml:"opacity"`          // default 1
	Background      string   `toml:"background"`       // hex color, empty for none
	BackgroundAlpha *float64 `toml:"background_alpha"` // default 1
	Classes         []string `toml:"classes"`
	Image           string   `toml:"image"`
	Tainted         bool     `toml:"tainted"`
	Hidden          bool     `toml:"hidden"`
	Shadow          []Spec   `toml:"shadow"`
}

// Scene is a loaded scene ready for hit testing.
type Scene struct {
	Name    string
	Doc     *hittest.Scene
	Surface *hittest.Node
}

// Load reads and builds the scene at path.
func Load(path string) (*Scene, error) {
	// #nosec G304 - the scene path is user supplied on purpose
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	s, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return s, nil
}

// Parse builds a scene from TOML. Image paths are resolved against dir.
func Parse(data []byte, dir string) (*Scene, error) {
	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return f.Build(dir)
}

// Build validates f and converts it into a Scene. Every invalid element is
// reported.
func (f File) Build(dir string) (*Scene, error) {
	if f.Surface == nil {
		return nil, ErrNoSurface
	}
	b := &builder{dir: dir, seen: make(map[string]bool)}

	surface := b.node(*f.Surface)
	nodes := make([]*hittest.Node, 0, len(f.Elements)+1)
	for _, spec := range f.Elements {
		nodes = append(nodes, b.node(spec))
	}
	nodes = append(nodes, surface)
	if err := b.errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &Scene{Name: f.Name, Doc: hittest.NewScene(nodes...), Surface: surface}, nil
}

type builder struct {
	dir  string
	seen map[string]bool
	errs *multierror.Error
}

func (b *builder) fail(id string, err error) {
	b.errs = multierror.Append(b.errs, fmt.Errorf("element %q: %w", id, err))
}

func (b *builder) node(spec Spec) *hittest.Node {
	n := &hittest.Node{
		ID:      spec.ID,
		Rect:    pointer.R(spec.X, spec.Y, spec.Width, spec.Height),
		Z:       spec.Z,
		Alpha:   1,
		Classes: spec.Classes,
		Hidden:  spec.Hidden,
	}

	switch {
	case spec.ID == "":
		b.fail(spec.ID, errors.New("missing id"))
	case b.seen[spec.ID]:
		b.fail(spec.ID, ErrDuplicateID)
	}
	b.seen[spec.ID] = true

	if spec.Width <= 0 || spec.Height <= 0 {
		b.fail(spec.ID, fmt.Errorf("size %gx%g must be positive", spec.Width, spec.Height))
	}
	if spec.Opacity != nil {
		if *spec.Opacity < 0 || *spec.Opacity > 1 {
			b.fail(spec.ID, fmt.Errorf("opacity %g is outside [0, 1]", *spec.Opacity))
		}
		n.Alpha = *spec.Opacity
	}

	if spec.Background != "" {
		fill, err := parseColor(spec.Background, spec.BackgroundAlpha)
		if err != nil {
			b.fail(spec.ID, err)
		}
		n.Fill = fill
	}

	if spec.Image != "" {
		img, err := b.image(spec.Image)
		if err != nil {
			b.fail(spec.ID, err)
		} else {
			n.Content = &hittest.Bitmap{Image: img, Tainted: spec.Tainted}
		}
	} else if spec.Tainted {
		b.fail(spec.ID, errors.New("tainted requires an image"))
	}

	if len(spec.Shadow) > 0 {
		children := make([]*hittest.Node, 0, len(spec.Shadow))
		for _, child := range spec.Shadow {
			children = append(children, b.node(child))
		}
		n.Shadow = hittest.NewScene(children...)
	}
	return n
}

func (b *builder) image(name string) (image.Image, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.dir, path)
	}
	// #nosec G304 - image paths come from the scene file
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", name, err)
	}
	return img, nil
}

func parseColor(hex string, alpha *float64) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("background %q: %w", hex, err)
	}
	a := 1.0
	if alpha != nil {
		a = *alpha
		if a < 0 || a > 1 {
			return nil, fmt.Errorf("background alpha %g is outside [0, 1]", a)
		}
	}
	r, g, bl := c.RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: uint8(a*0xff + 0.5)}, nil
}
