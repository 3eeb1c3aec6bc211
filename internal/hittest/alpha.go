package hittest

import (
	"image"
	"image/color"
	"math"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/image/draw"
)

// DefaultSampleCacheSize is the number of bitmap alpha samples kept by a
// Tester.
const DefaultSampleCacheSize = 4096

type sampleKey struct {
	bitmap *Bitmap
	w, h   int
	x, y   int
}

// sampler reads the alpha of a bitmap at one rendered pixel. Samples are
// cached because pointer moves revisit the same pixels constantly.
type sampler struct {
	cache  *lru.Cache
	kernel draw.Interpolator
}

func newSampler(size int) *sampler {
	s := &sampler{kernel: draw.ApproxBiLinear}
	if size > 0 {
		// lru.New only fails for non-positive sizes.
		s.cache, _ = lru.New(size)
	}
	return s
}

// alphaAt returns the alpha in [0, 1] of bm rendered at w x h, at the
// rendered pixel (x, y).
func (s *sampler) alphaAt(bm *Bitmap, w, h, x, y int) float64 {
	if bm == nil || bm.Image == nil {
		return 0
	}
	if bm.Tainted {
		return 1
	}
	if w <= 0 || h <= 0 || x < 0 || y < 0 || x >= w || y >= h {
		return 0
	}

	key := sampleKey{bitmap: bm, w: w, h: h, x: x, y: y}
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.(float64)
		}
	}

	a := s.sample(bm.Image, w, h, x, y)
	if s.cache != nil {
		s.cache.Add(key, a)
	}
	return a
}

// sample draws the source region that maps onto rendered pixel (x, y) into a
// 1x1 image, which tolerates any scale between source and rendered size.
func (s *sampler) sample(img image.Image, w, h, x, y int) float64 {
	sb := img.Bounds()
	if sb.Empty() {
		return 0
	}
	sx := float64(sb.Dx()) / float64(w)
	sy := float64(sb.Dy()) / float64(h)

	x0 := sb.Min.X + int(math.Floor(float64(x)*sx))
	y0 := sb.Min.Y + int(math.Floor(float64(y)*sy))
	x1 := sb.Min.X + int(math.Ceil(float64(x+1)*sx))
	y1 := sb.Min.Y + int(math.Ceil(float64(y+1)*sy))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	sr := image.Rect(x0, y0, x1, y1).Intersect(sb)
	if sr.Empty() {
		return 0
	}

	dst := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	s.kernel.Scale(dst, dst.Bounds(), img, sr, draw.Src, nil)
	return float64(dst.NRGBAAt(0, 0).A) / 0xff
}

// purge drops every cached sample.
func (s *sampler) purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

// colorAlpha returns the alpha of c in [0, 1]; nil is fully transparent.
func colorAlpha(c color.Color) float64 {
	if c == nil {
		return 0
	}
	_, _, _, a := c.RGBA()
	return float64(a) / 0xffff
}
