package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"time"

	"github.com/benoitkugler/svgpng/aspect"
	"github.com/benoitkugler/svgpng/logger"
	"github.com/benoitkugler/svgpng/session"
	"github.com/benoitkugler/svgpng/svgraster"
	"github.com/benoitkugler/svgpng/watch"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type convertCmd struct {
	env *env

	output  string
	width   string
	height  string
	fit     string
	quality float64
	unlock  bool
	watch   bool
	timeout time.Duration
}

func (c *convertCmd) Name() string     { return "convert" }
func (c *convertCmd) Synopsis() string { return "Convert an SVG file to PNG" }
func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "/path/to/output.png : defaults to <name>_<w>x<h>.png next to the input")
	f.StringVar(&c.width, "w", "", "target width in pixels (defaults to the intrinsic width)")
	f.StringVar(&c.height, "h", "", "target height in pixels (defaults to the intrinsic height)")
	f.StringVar(&c.fit, "fit", "", "<w>x<h> : largest size keeping the aspect ratio inside this box")
	f.Float64Var(&c.quality, "q", -1, "quality between 0.1 and 1.0 (defaults to SVGPNG_QUALITY)")
	f.BoolVar(&c.unlock, "unlock", false, "do not keep the aspect ratio when only one of -w and -h is given")
	f.BoolVar(&c.watch, "watch", false, "convert again each time the input changes")
	f.DurationVar(&c.timeout, "timeout", 0, "abort a conversion after this duration (0 for none)")
}
func (c *convertCmd) Usage() string {
	return `convert [-o <output>] [-w <width>] [-h <height>] [-fit <w>x<h>] [-q <quality>] [-watch] <input.svg>
  Render the input at the requested size and write it as PNG.
`
}

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println("[svgpng] Error: expected exactly one input file")
		return subcommands.ExitUsageError
	}
	input := f.Arg(0)

	var bounds svgraster.Size
	if c.fit != "" {
		var err error
		if bounds, err = parseSize(c.fit); err != nil {
			fmt.Println("[svgpng] Error:", err)
			return subcommands.ExitUsageError
		}
	}

	quality := float64(c.env.cfg.Quality)
	if c.quality >= 0 {
		quality = c.quality
	}
	s := c.env.session(quality, c.env.cfg.Lock && !c.unlock)

	if err := c.convert(ctx, s, input, bounds); err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}
	c.env.record(ctx, filepath.Base(input))

	if !c.watch {
		return subcommands.ExitSuccess
	}
	if err := c.watchInput(ctx, s, input, bounds); err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// convert loads `input` in `s`, applies the size flags and writes the PNG.
func (c *convertCmd) convert(ctx context.Context, s *session.Session, input string, bounds svgraster.Size) error {
	text, err := readSVG(input)
	if err != nil {
		return err
	}
	intrinsic := s.Load(filepath.Base(input), text)

	switch {
	case bounds != (svgraster.Size{}):
		fit := aspect.Fit(intrinsic, bounds.Dimensions())
		s.SetSize(svgraster.Size{Width: int(fit.Width), Height: int(fit.Height)})
	case c.width != "" && c.height != "":
		// both given: the lock has nothing to follow
		w, _ := session.ParseDimension(c.width)
		h, _ := session.ParseDimension(c.height)
		s.SetSize(svgraster.Size{Width: w, Height: h})
	case c.width != "":
		s.SetWidthText(c.width)
	case c.height != "":
		s.SetHeightText(c.height)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	res, err := s.Convert(ctx)
	if err != nil {
		return err
	}
	out := outputPath(c.output, input, s)
	if err := writeResult(out, res); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Printf("[svgpng] %s -> %s (%s, %s)\n", input, out, res.Size, session.FormatFileSize(int64(len(res.PNG))))
	return nil
}

// watchInput converts again on every change of `input`, until `ctx` is done.
func (c *convertCmd) watchInput(ctx context.Context, s *session.Session, input string, bounds svgraster.Size) error {
	changes := make(chan struct{}, 1)
	w, err := watch.New(input, func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}, logger.Logger)
	if err != nil {
		return err
	}
	logger.Logger.Info("Watching for changes", "path", w.Path())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Run(gctx) })
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-changes:
				err := c.convert(gctx, s, input, bounds)
				switch {
				case errors.Is(err, session.ErrStale), errors.Is(err, context.Canceled):
				case err != nil:
					// keep watching: the file may be saved half written
					logger.Logger.Error("Conversion failed", "path", input, "err", err)
				}
			}
		}
	})
	return g.Wait()
}
