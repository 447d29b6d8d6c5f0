// Resolves the intrinsic pixel size of an SVG document
// from the attributes of its root element.
package svgdim

import (
	"encoding/xml"
	"errors"
	"io"
	"math"
	"strings"

	"golang.org/x/net/html/charset"
)

// Dimensions is a width and height in pixels.
type Dimensions struct {
	Width, Height float64
}

// Default is used when a document declares no usable size.
var Default = Dimensions{Width: 800, Height: 600}

// Valid reports whether both components are finite and strictly positive.
func (d Dimensions) Valid() bool {
	return isPositive(d.Width) && isPositive(d.Height)
}

// Ratio returns Height / Width, or 0 when the dimensions are not valid.
func (d Dimensions) Ratio() float64 {
	if !d.Valid() {
		return 0
	}
	return d.Height / d.Width
}

func isPositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// ParseError is returned when the input is not a well formed XML document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "svgdim: invalid svg document: " + e.Err.Error() }

func (e *ParseError) Unwrap() error { return e.Err }

var errNoRoot = errors.New("no root element")

// Root holds the name and attributes of the outermost element.
type Root struct {
	Name  string
	attrs map[string]string
}

// Attr returns the value of the (local) attribute `name`.
// Empty attributes are reported as missing.
func (r Root) Attr(name string) (string, bool) {
	v, ok := r.attrs[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Parse reads the whole document, checking it is well formed,
// and returns its root element.
func Parse(stream io.Reader) (Root, error) {
	decoder := xml.NewDecoder(stream)
	decoder.CharsetReader = charset.NewReaderLabel
	var (
		root    Root
		seenTag bool
	)
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				if !seenTag {
					return Root{}, &ParseError{Err: errNoRoot}
				}
				return root, nil
			}
			return Root{}, &ParseError{Err: err}
		}
		se, ok := t.(xml.StartElement)
		if !ok || seenTag {
			continue
		}
		seenTag = true
		root.Name = se.Name.Local
		root.attrs = make(map[string]string, len(se.Attr))
		for _, attr := range se.Attr {
			if attr.Name.Space != "" {
				continue // xlink:, xml: ... are not size related
			}
			root.attrs[attr.Name.Local] = attr.Value
		}
	}
}

// FromRoot computes the intrinsic size declared by `root`:
// explicit width and height first, then the viewBox,
// and finally Default.
func FromRoot(root Root) Dimensions {
	width, hasW := root.Attr("width")
	height, hasH := root.Attr("height")
	if hasW && hasH {
		w, errW := ParseLength(width)
		h, errH := ParseLength(height)
		if errW != nil || errH != nil {
			return Default
		}
		return orDefault(Dimensions{Width: w, Height: h})
	}
	if vb, ok := root.Attr("viewBox"); ok {
		box, err := ParseViewBox(vb)
		if err != nil {
			return Default
		}
		return orDefault(Dimensions{Width: box[2], Height: box[3]})
	}
	return Default
}

func orDefault(d Dimensions) Dimensions {
	if !d.Valid() {
		return Default
	}
	return d
}

// Resolve returns the intrinsic size of `svgText`.
// It never fails: any problem degrades to Default.
func Resolve(svgText string) Dimensions {
	d, _ := ResolveReader(strings.NewReader(svgText))
	return d
}

// ResolveReader is like Resolve, but also reports the parse error, if any.
// The returned dimensions are always usable.
func ResolveReader(stream io.Reader) (Dimensions, error) {
	root, err := Parse(stream)
	if err != nil {
		return Default, err
	}
	return FromRoot(root), nil
}
