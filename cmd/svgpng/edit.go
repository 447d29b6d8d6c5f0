package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/benoitkugler/svgpng/session"
	"github.com/benoitkugler/svgpng/svgraster"
	"github.com/google/subcommands"
)

type editCmd struct {
	env *env
}

func (e *editCmd) Name() string             { return "edit" }
func (e *editCmd) Synopsis() string         { return "Choose the size and quality interactively" }
func (e *editCmd) SetFlags(_ *flag.FlagSet) {}
func (e *editCmd) Usage() string {
	return `edit <input.svg>
  Convert the input after answering questions about the output.
`
}

func (e *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println("[svgpng] Error: expected exactly one input file")
		return subcommands.ExitUsageError
	}
	input := f.Arg(0)
	text, err := readSVG(input)
	if err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}

	s := e.env.session(float64(e.env.cfg.Quality), e.env.cfg.Lock)
	s.Load(filepath.Base(input), text)
	target := s.Target()
	fmt.Printf("[svgpng] Intrinsic size: %s\n", target)

	var answers struct {
		Lock    bool
		Width   string
		Height  string
		Quality string
	}
	err = survey.Ask([]*survey.Question{
		{
			Name:   "Lock",
			Prompt: &survey.Confirm{Message: "Keep the aspect ratio?", Default: s.Locked()},
		},
		{
			Name:     "Width",
			Prompt:   &survey.Input{Message: "Width", Default: strconv.Itoa(target.Width)},
			Validate: dimensionValidator,
		},
	}, &answers)
	if err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}
	s.SetLocked(answers.Lock)
	target = s.SetWidthText(answers.Width)

	// with the lock, the height follows the width
	if !answers.Lock {
		err = survey.AskOne(&survey.Input{Message: "Height", Default: strconv.Itoa(target.Height)}, &answers.Height, survey.WithValidator(dimensionValidator))
		if err != nil {
			fmt.Println("[svgpng] Error:", err)
			return subcommands.ExitFailure
		}
		s.SetHeightText(answers.Height)
	}

	err = survey.AskOne(&survey.Input{
		Message: "Quality",
		Default: strconv.FormatFloat(float64(s.Quality()), 'f', -1, 64),
		Help:    "Between 0.1 and 1.0, lower values reduce the number of colors",
	}, &answers.Quality, survey.WithValidator(qualityValidator))
	if err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}
	q, _ := strconv.ParseFloat(answers.Quality, 64)
	s.SetQuality(q)

	output := filepath.Join(filepath.Dir(input), s.FileName())
	err = survey.AskOne(&survey.Input{
		Message: fmt.Sprintf("Output file (%s, %s)", s.Target(), s.Estimate()),
		Default: output,
	}, &output, survey.WithValidator(survey.Required))
	if err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}

	res, err := s.Convert(ctx)
	if err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}
	if err := writeResult(output, res); err != nil {
		fmt.Println("[svgpng] Error:", err)
		return subcommands.ExitFailure
	}
	e.env.record(ctx, filepath.Base(input))
	fmt.Printf("[svgpng] Wrote %s (%s, %s)\n", output, res.Size, session.FormatFileSize(int64(len(res.PNG))))
	return subcommands.ExitSuccess
}

func dimensionValidator(ans interface{}) error {
	if str, ok := ans.(string); ok {
		if _, ok := session.ParseDimension(str); !ok {
			return errors.New("expected a positive number of pixels")
		}
	}
	return nil
}

func qualityValidator(ans interface{}) error {
	if str, ok := ans.(string); ok {
		q, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		if q < float64(svgraster.MinQuality) || q > float64(svgraster.MaxQuality) {
			return fmt.Errorf("expected a value between %v and %v", svgraster.MinQuality, svgraster.MaxQuality)
		}
	}
	return nil
}
