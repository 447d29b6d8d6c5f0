package svgraster

import "errors"

var (
	// ErrEmptyTarget is wrapped in an EncodeError for zero or negative sizes.
	ErrEmptyTarget = errors.New("target has zero area")
	// ErrTargetTooLarge is wrapped in an EncodeError when the surface
	// would exceed the pixel limit of the Encoder.
	ErrTargetTooLarge = errors.New("target exceeds the pixel limit")
	// ErrNotSVG is wrapped in a RenderError when the root element is not <svg>.
	ErrNotSVG = errors.New("root element is not <svg>")
)

// RenderError is returned when the image can't be decoded or drawn.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "svgraster: render failed: " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

// EncodeError is returned when the surface can't be turned into PNG bytes.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "svgraster: encode failed: " + e.Err.Error() }

func (e *EncodeError) Unwrap() error { return e.Err }
