// Package fonts provides font faces for the raster backend and font-family
// names for SVG output.
//
// The raster backend needs real glyph outlines, so the Go Regular typeface
// is parsed once and faces are cached per size. SVG output only names a
// family and leaves resolution to the viewer.
package fonts

import (
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the default font-family emitted in SVG text elements.
// Hand-drawn style fonts come first with broadly available fallbacks.
const FontFamily = `'Comic Sans MS', 'Bradley Hand', 'Segoe Script', cursive, sans-serif`

// Family stacks for the numeric fontFamily ids carried by text elements.
const (
	familySans = `'Liberation Sans', 'Helvetica', 'Arial', sans-serif`
	familyCode = `'Cascadia Code', 'Consolas', 'Courier New', monospace`
)

// Family maps a text element's fontFamily id to an SVG font-family stack.
// Id 1 is the normal sans face, id 2 the code face; everything else gets the
// hand-drawn default.
func Family(id int) string {
	switch id {
	case 1:
		return familySans
	case 2:
		return familyCode
	default:
		return FontFamily
	}
}

var (
	parseOnce sync.Once
	parsed    *truetype.Font
	parseErr  error

	faceMu sync.Mutex
	faces  = map[float64]font.Face{}
)

// Regular returns the parsed default typeface.
func Regular() (*truetype.Font, error) {
	parseOnce.Do(func() {
		parsed, parseErr = truetype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// Face returns a font face at the given point size. Faces are cached; the
// returned face must not be mutated.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faces[size]; ok {
		return face, nil
	}
	face := truetype.NewFace(f, &truetype.Options{Size: size})
	faces[size] = face
	return face, nil
}
