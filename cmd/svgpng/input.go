package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/benoitkugler/svgpng/session"
	"github.com/benoitkugler/svgpng/svgdim"
	"github.com/benoitkugler/svgpng/svgraster"
)

var errNotSVG = errors.New("please provide an SVG file")

// readSVG returns the content of `path`, which must either have
// the .svg extension or an <svg> root element.
func readSVG(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !isSVG(path, data) {
		return "", fmt.Errorf("%s: %w", filepath.Base(path), errNotSVG)
	}
	return string(data), nil
}

func isSVG(path string, data []byte) bool {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return true
	}
	root, err := svgdim.Parse(bytes.NewReader(data))
	return err == nil && root.Name == "svg"
}

// parseSize reads "<w>x<h>".
func parseSize(s string) (svgraster.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		width, okW := session.ParseDimension(w)
		height, okH := session.ParseDimension(h)
		if okW && okH {
			return svgraster.Size{Width: width, Height: height}, nil
		}
	}
	return svgraster.Size{}, fmt.Errorf("invalid size %q, expected <width>x<height>", s)
}

// outputPath returns `out` when set, or the suggested name
// next to the input file.
func outputPath(out, input string, s *session.Session) string {
	if out != "" {
		return out
	}
	return filepath.Join(filepath.Dir(input), s.FileName())
}

func writeResult(path string, res *svgraster.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := res.WriteTo(f); err != nil {
		f.Close() //nolint:errcheck
		return err
	}
	return f.Close()
}
