package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgpng/session"
	"github.com/benoitkugler/svgpng/svgdim"
	"github.com/benoitkugler/svgpng/svgraster"
	"github.com/google/subcommands"
)

type infoCmd struct {
	env     *env
	quality float64
}

func (i *infoCmd) Name() string     { return "info" }
func (i *infoCmd) Synopsis() string { return "Show the intrinsic size of an SVG file" }
func (i *infoCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&i.quality, "q", -1, "quality used for the size estimate (defaults to SVGPNG_QUALITY)")
}
func (i *infoCmd) Usage() string {
	return `info [-q <quality>] <input.svg>
  Print the file size, the intrinsic size and the estimated PNG size.
`
}

func (i *infoCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println("[svgpng] Error: expected exactly one input file")
		return subcommands.ExitUsageError
	}
	text, err := readSVG(f.Arg(0))
	if err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}
	quality := i.env.cfg.Quality
	if i.quality >= 0 {
		quality = svgraster.ClampQuality(i.quality)
	}
	printInfo(os.Stdout, filepath.Base(f.Arg(0)), text, quality)
	return subcommands.ExitSuccess
}

func printInfo(w io.Writer, name, text string, quality svgraster.Quality) {
	dims, err := svgdim.ResolveReader(strings.NewReader(text))
	size := session.SizeOf(dims)
	fmt.Fprintf(w, "File:      %s\n", name)
	fmt.Fprintf(w, "Size:      %s\n", session.FormatFileSize(int64(len(text))))
	fmt.Fprintf(w, "Intrinsic: %s\n", size)
	if err != nil {
		fmt.Fprintf(w, "Warning:   %s (using the default size)\n", err)
	}
	fmt.Fprintf(w, "Estimate:  %s at quality %.2f\n", session.EstimatePNGSize(size, quality), float64(quality))
}
