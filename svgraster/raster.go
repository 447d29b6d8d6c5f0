// Implements a raster backend rendering SVG documents
// into PNG images, by wrapping oksvg and rasterx.
package svgraster

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"sync"

	"github.com/benoitkugler/svgpng/svgdim"
	"github.com/charmbracelet/log"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// DefaultMaxPixels bounds the surface area (width * height)
// of a render, which is 256 MiB of RGBA pixels.
const DefaultMaxPixels = 1 << 26

// Size is the pixel size of a raster surface.
type Size struct {
	Width, Height int
}

func (s Size) String() string { return fmt.Sprintf("%dx%d", s.Width, s.Height) }

// Dimensions converts the size to floating point dimensions.
func (s Size) Dimensions() svgdim.Dimensions {
	return svgdim.Dimensions{Width: float64(s.Width), Height: float64(s.Height)}
}

// Result is an encoded PNG image and the size used to produce it.
type Result struct {
	PNG  []byte
	Size Size
}

// DataURL returns the image as a base64 "data:" URL.
func (r *Result) DataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(r.PNG)
}

// WriteTo writes the PNG bytes to w.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.PNG)
	return int64(n), err
}

// Encoder renders SVG sources into PNG images.
// Each call to Render owns its surface and source handle,
// so an Encoder may be shared between goroutines.
type Encoder struct {
	sources     *Registry
	maxPixels   int
	compression png.CompressionLevel
	errMode     oksvg.ErrorMode
	logger      *log.Logger
	buffers     *bufferPool
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithRegistry uses `r` to hold the temporary sources.
func WithRegistry(r *Registry) Option { return func(e *Encoder) { e.sources = r } }

// WithMaxPixels sets the surface limit. Values <= 0 select DefaultMaxPixels.
func WithMaxPixels(n int) Option { return func(e *Encoder) { e.maxPixels = n } }

// WithCompression sets the zlib effort of the PNG writer.
func WithCompression(level png.CompressionLevel) Option {
	return func(e *Encoder) { e.compression = level }
}

// WithErrorMode decides how unsupported SVG elements are reported by the decoder.
func WithErrorMode(mode oksvg.ErrorMode) Option { return func(e *Encoder) { e.errMode = mode } }

// WithLogger enables debug logging.
func WithLogger(l *log.Logger) Option { return func(e *Encoder) { e.logger = l } }

// NewEncoder returns an encoder with default values, modified by `opts`.
func NewEncoder(opts ...Option) *Encoder {
	e := &Encoder{
		compression: png.DefaultCompression,
		errMode:     oksvg.IgnoreErrorMode,
		buffers:     new(bufferPool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.sources == nil {
		e.sources = NewRegistry()
	}
	if e.maxPixels <= 0 {
		e.maxPixels = DefaultMaxPixels
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Sources returns the registry holding the in-flight sources.
func (e *Encoder) Sources() *Registry { return e.sources }

// Render draws `svgText` stretched over a `target` sized surface and
// encodes it as PNG, using `quality` as described by Quality.
// Failures are reported as *RenderError or *EncodeError.
//
// The decoding step is the only one waiting on `ctx`; there is no
// internal timeout.
func (e *Encoder) Render(ctx context.Context, svgText string, target Size, quality Quality) (*Result, error) {
	src := e.sources.Create([]byte(svgText), MIMETypeSVG)
	defer e.sources.Revoke(src.URL)

	img, err := e.rasterize(ctx, src.URL, target)
	if err != nil {
		return nil, err
	}
	data, err := e.encode(img, quality)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("rendered", "size", target, "quality", float64(quality), "bytes", len(data))
	return &Result{PNG: data, Size: target}, nil
}

// Rasterize is like Render but returns the surface, without encoding it.
func (e *Encoder) Rasterize(ctx context.Context, svgText string, target Size) (*image.RGBA, error) {
	src := e.sources.Create([]byte(svgText), MIMETypeSVG)
	defer e.sources.Revoke(src.URL)
	return e.rasterize(ctx, src.URL, target)
}

func (e *Encoder) checkTarget(target Size) error {
	if target.Width <= 0 || target.Height <= 0 {
		return &EncodeError{Err: fmt.Errorf("%w: %s", ErrEmptyTarget, target)}
	}
	if target.Width > e.maxPixels/target.Height {
		return &EncodeError{Err: fmt.Errorf("%w: %s", ErrTargetTooLarge, target)}
	}
	return nil
}

func (e *Encoder) rasterize(ctx context.Context, url string, target Size) (*image.RGBA, error) {
	if err := e.checkTarget(target); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, target.Width, target.Height))

	src, ok := e.sources.Lookup(url)
	if !ok {
		return nil, &RenderError{Err: fmt.Errorf("source %s is not registered", url)}
	}
	icon, err := e.decode(ctx, src)
	if err != nil {
		return nil, &RenderError{Err: err}
	}

	draw.Draw(img, img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	if err := drawIcon(icon, img); err != nil {
		return nil, &RenderError{Err: err}
	}
	return img, nil
}

type decoded struct {
	icon *oksvg.SvgIcon
	err  error
}

// decode parses the source in its own goroutine, so that
// callers may give up through `ctx`.
func (e *Encoder) decode(ctx context.Context, src *Blob) (*oksvg.SvgIcon, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// buffered: an abandoned decode must not block forever
	out := make(chan decoded, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				out <- decoded{err: fmt.Errorf("svg decoder panic: %v", r)}
			}
		}()
		icon, err := readIcon(src, e.errMode)
		out <- decoded{icon: icon, err: err}
	}()

	select {
	case <-ctx.Done():
		e.logger.Debug("decode abandoned", "source", src.URL, "err", ctx.Err())
		return nil, ctx.Err()
	case res := <-out:
		return res.icon, res.err
	}
}

func readIcon(src *Blob, errMode oksvg.ErrorMode) (*oksvg.SvgIcon, error) {
	root, err := svgdim.Parse(src.Open())
	if err != nil {
		return nil, err
	}
	if root.Name != "svg" {
		return nil, ErrNotSVG
	}
	icon, err := oksvg.ReadIconStream(src.Open(), errMode)
	if err != nil {
		return nil, err
	}
	// documents without a usable viewBox are drawn in their intrinsic space
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		intrinsic := svgdim.FromRoot(root)
		icon.ViewBox.W, icon.ViewBox.H = intrinsic.Width, intrinsic.Height
	}
	return icon, nil
}

// drawIcon fills the whole surface with the icon, without
// preserving its aspect ratio.
func drawIcon(icon *oksvg.SvgIcon, img *image.RGBA) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rasterizer panic: %v", r)
		}
	}()
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return nil
}

func (e *Encoder) encode(img *image.RGBA, quality Quality) ([]byte, error) {
	if img.Bounds().Empty() {
		return nil, &EncodeError{Err: ErrEmptyTarget}
	}
	src := image.NewNRGBA(img.Bounds())
	draw.Draw(src, src.Bounds(), img, img.Bounds().Min, draw.Src)

	// try the requested step and every step above, keeping the smallest
	var (
		best    []byte
		scratch *image.NRGBA
	)
	for _, step := range qualitySteps[stepIndex(quality):] {
		levels := step.Levels()
		quantized := src
		if levels < 256 {
			if scratch == nil {
				scratch = image.NewNRGBA(src.Bounds())
			}
			posterizeInto(scratch, src, levels)
			quantized = scratch
		}
		data, err := e.encodePNG(quantized)
		if err != nil {
			return nil, err
		}
		if best == nil || len(data) < len(best) {
			best = data
		}
	}
	return best, nil
}

func (e *Encoder) encodePNG(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: e.compression, BufferPool: e.buffers}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, &EncodeError{Err: err}
	}
	if buf.Len() == 0 {
		return nil, &EncodeError{Err: errors.New("no data produced")}
	}
	return buf.Bytes(), nil
}

// bufferPool recycles the PNG writer scratch buffers.
type bufferPool struct {
	pool sync.Pool
}

func (p *bufferPool) Get() *png.EncoderBuffer {
	b, _ := p.pool.Get().(*png.EncoderBuffer)
	return b
}

func (p *bufferPool) Put(b *png.EncoderBuffer) { p.pool.Put(b) }
