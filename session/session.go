// Package session holds the state of one conversion: the loaded document,
// the target size with its aspect lock, the quality and the last result.
//
// A Session is safe for concurrent use. Any change of the
// (document, target, quality) tuple drops the cached result and
// abandons the conversion in flight, if any.
package session

import (
	"context"
	"errors"
	"io"
	"math"
	"sync"

	"github.com/benoitkugler/svgpng/aspect"
	"github.com/benoitkugler/svgpng/svgdim"
	"github.com/benoitkugler/svgpng/svgraster"
	"github.com/charmbracelet/log"
)

var (
	// ErrNoDocument is returned by Convert before any Load.
	ErrNoDocument = errors.New("session: no document loaded")
	// ErrStale is returned by a conversion whose input changed,
	// or which was superseded by a newer one, before it completed.
	ErrStale = errors.New("session: conversion superseded")
)

// Renderer produces the PNG of a document. It is implemented by *svgraster.Encoder.
type Renderer interface {
	Render(ctx context.Context, svgText string, target svgraster.Size, quality svgraster.Quality) (*svgraster.Result, error)
}

type conversion struct {
	generation uint64
	cancel     context.CancelFunc
}

type Session struct {
	renderer Renderer
	logger   *log.Logger

	mu         sync.Mutex
	name       string
	text       string
	intrinsic  svgdim.Dimensions
	target     svgraster.Size
	locked     bool
	quality    svgraster.Quality
	result     *svgraster.Result
	generation uint64
	inflight   *conversion
}

type Option func(*Session)

// WithLogger sets the logger used to report conversions.
func WithLogger(l *log.Logger) Option { return func(s *Session) { s.logger = l } }

// WithQuality sets the initial quality.
func WithQuality(q svgraster.Quality) Option {
	return func(s *Session) { s.quality = svgraster.ClampQuality(float64(q)) }
}

// WithLock sets the initial state of the aspect lock.
func WithLock(locked bool) Option { return func(s *Session) { s.locked = locked } }

// New returns an empty session, with the aspect lock enabled and
// the maximum quality.
func New(renderer Renderer, opts ...Option) *Session {
	s := &Session{
		renderer: renderer,
		logger:   log.New(io.Discard),
		locked:   true,
		quality:  svgraster.MaxQuality,
		target:   SizeOf(svgdim.Default),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SizeOf rounds `d` to integer pixels, each component being at least 1.
func SizeOf(d svgdim.Dimensions) svgraster.Size {
	return svgraster.Size{Width: pixels(d.Width), Height: pixels(d.Height)}
}

// pixels rounds to the nearest integer, never below 1
func pixels(f float64) int {
	if math.IsNaN(f) || f < 1 {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Round(f))
}

// invalidate must be called with the lock held.
func (s *Session) invalidate() {
	s.result = nil
	s.generation++
	if s.inflight != nil {
		s.inflight.cancel()
		s.inflight = nil
	}
}

// Load replaces the document and resets the target to its intrinsic size,
// which is returned.
func (s *Session) Load(name, svgText string) svgdim.Dimensions {
	intrinsic := svgdim.Resolve(svgText)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidate()
	s.name = name
	s.text = svgText
	s.intrinsic = intrinsic
	s.target = SizeOf(intrinsic)
	s.logger.Debug("document loaded", "name", name, "intrinsic", s.target)
	return intrinsic
}

// SetWidth updates the target width. When the aspect lock is on,
// the height follows. A non positive width is ignored.
func (s *Session) SetWidth(width int) svgraster.Size {
	return s.edit(aspect.Width, width)
}

// SetHeight is the same as SetWidth for the height.
func (s *Session) SetHeight(height int) svgraster.Size {
	return s.edit(aspect.Height, height)
}

// SetWidthText parses `text` with ParseDimension and calls SetWidth.
// Unparsable input keeps the last valid width.
func (s *Session) SetWidthText(text string) svgraster.Size {
	v, _ := ParseDimension(text)
	return s.edit(aspect.Width, v)
}

// SetHeightText is the same as SetWidthText for the height.
func (s *Session) SetHeightText(text string) svgraster.Size {
	v, _ := ParseDimension(text)
	return s.edit(aspect.Height, v)
}

func (s *Session) edit(axis aspect.Axis, value int) svgraster.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editLocked(axis, value)
}

// editLocked must be called with the lock held.
func (s *Session) editLocked(axis aspect.Axis, value int) svgraster.Size {
	if value <= 0 {
		return s.target
	}
	next := s.target
	if axis == aspect.Width {
		next.Width = value
		next.Height = pixels(aspect.Link(s.intrinsic, axis, float64(value), float64(next.Height), s.locked))
	} else {
		next.Height = value
		next.Width = pixels(aspect.Link(s.intrinsic, axis, float64(value), float64(next.Width), s.locked))
	}
	if next != s.target {
		s.target = next
		s.invalidate()
	}
	return s.target
}

// SetSize sets both components at once, bypassing the aspect lock.
// Non positive components are ignored.
func (s *Session) SetSize(size svgraster.Size) svgraster.Size {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.target
	if size.Width > 0 {
		next.Width = size.Width
	}
	if size.Height > 0 {
		next.Height = size.Height
	}
	if next != s.target {
		s.target = next
		s.invalidate()
	}
	return s.target
}

// SetLocked toggles the aspect lock. Turning it on recomputes
// the height from the current width.
func (s *Session) SetLocked(locked bool) svgraster.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locked = locked
	if locked {
		return s.editLocked(aspect.Width, s.target.Width)
	}
	return s.target
}

// SetQuality updates the quality, clamped to [MinQuality, MaxQuality].
func (s *Session) SetQuality(q float64) svgraster.Quality {
	quality := svgraster.ClampQuality(q)

	s.mu.Lock()
	defer s.mu.Unlock()
	if quality != s.quality {
		s.quality = quality
		s.invalidate()
	}
	return s.quality
}

// Convert renders the current document at the current target and quality.
// A conversion started before is cancelled. If the input changes while
// rendering, the result is discarded and ErrStale is returned.
// On failure, the session state is left unchanged.
func (s *Session) Convert(ctx context.Context) (*svgraster.Result, error) {
	s.mu.Lock()
	if s.text == "" {
		s.mu.Unlock()
		return nil, ErrNoDocument
	}
	if s.inflight != nil {
		s.inflight.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	conv := &conversion{generation: s.generation, cancel: cancel}
	s.inflight = conv
	text, target, quality := s.text, s.target, s.quality
	s.mu.Unlock()

	res, err := s.renderer.Render(ctx, text, target, quality)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight != conv || s.generation != conv.generation {
		s.logger.Debug("conversion discarded", "target", target, "quality", quality)
		return nil, ErrStale
	}
	s.inflight = nil
	if err != nil {
		return nil, err
	}
	s.result = res
	s.logger.Info("converted", "name", s.name, "target", target, "quality", quality, "bytes", len(res.PNG))
	return res, nil
}

// Result returns the last conversion, or nil if none is valid for
// the current input.
func (s *Session) Result() *svgraster.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *Session) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *Session) Document() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *Session) Intrinsic() svgdim.Dimensions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intrinsic
}

func (s *Session) Target() svgraster.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.target
}

func (s *Session) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

func (s *Session) Quality() svgraster.Quality {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quality
}

// FileName is the suggested name for the current result.
func (s *Session) FileName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FileName(s.name, s.target)
}

// Estimate returns EstimatePNGSize for the current target and quality.
func (s *Session) Estimate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return EstimatePNGSize(s.target, s.quality)
}
