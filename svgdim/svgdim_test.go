package svgdim

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const svgNS = `xmlns="http://www.w3.org/2000/svg"`

func TestResolveExplicitSize(t *testing.T) {
	for _, tc := range []struct {
		width, height string
		want          Dimensions
	}{
		{"100", "50", Dimensions{100, 50}},
		{"100px", "50px", Dimensions{100, 50}},
		{"12.5mm", "7.25mm", Dimensions{12.5, 7.25}},
		{" 64", "32pt", Dimensions{64, 32}},
		{"50%", "25%", Dimensions{50, 25}},
		{"1e2", "2E1", Dimensions{100, 20}},
	} {
		src := `<svg width="` + tc.width + `" height="` + tc.height + `" viewBox="0 0 1 1" ` + svgNS + `/>`
		assert.Equal(t, tc.want, Resolve(src), src)
	}
}

func TestResolveViewBox(t *testing.T) {
	d := Resolve(`<svg viewBox="0 0 300 150" ` + svgNS + `><rect width="10" height="10"/></svg>`)
	assert.Equal(t, Dimensions{300, 150}, d)

	// only one of width/height: the viewBox wins
	d = Resolve(`<svg width="40" viewBox="-5 -5  64	48" ` + svgNS + `/>`)
	assert.Equal(t, Dimensions{64, 48}, d)
}

func TestResolveDefaults(t *testing.T) {
	for _, src := range []string{
		`<svg ` + svgNS + `/>`,
		`<svg viewBox="0 0 300" ` + svgNS + `/>`,
		`<svg viewBox="0 0 300 150 2" ` + svgNS + `/>`,
		`<svg viewBox="0,0,300,150" ` + svgNS + `/>`,
		`<svg width="auto" height="50" ` + svgNS + `/>`,
		`<svg width="0" height="50" ` + svgNS + `/>`,
		`<svg width="-10" height="50" ` + svgNS + `/>`,
		`<svg width="" height="" ` + svgNS + `/>`,
		`<svg viewBox="0 0 abc 150" ` + svgNS + `/>`,
		``,
		`not xml at all`,
		`<svg width="100" height="50"><rect`,
	} {
		assert.Equal(t, Default, Resolve(src), src)
	}
}

func TestResolveReaderReportsParseError(t *testing.T) {
	d, err := ResolveReader(strings.NewReader(`<svg width="100" height="50"><g></svg>`))
	assert.Equal(t, Default, d)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Error(), "invalid svg document")

	_, err = ResolveReader(strings.NewReader("   "))
	require.True(t, errors.As(err, &perr))
	assert.ErrorIs(t, err, errNoRoot)
}

func TestParseRoot(t *testing.T) {
	root, err := Parse(strings.NewReader(`<?xml version="1.0" encoding="UTF-8"?>
<!-- comment -->
<svg xmlns:xlink="http://www.w3.org/1999/xlink" width="10" height="20" ` + svgNS + `>
	<use xlink:href="#a" width="99"/>
</svg>`))
	require.NoError(t, err)
	assert.Equal(t, "svg", root.Name)
	w, ok := root.Attr("width")
	assert.True(t, ok)
	assert.Equal(t, "10", w)
	_, ok = root.Attr("viewBox")
	assert.False(t, ok)
}

func TestParseLength(t *testing.T) {
	for in, want := range map[string]float64{
		"0":      0,
		"5.":     5,
		".5em":   0.5,
		"-3.25":  -3.25,
		"+7in":   7,
		"2e3px":  2000,
		"2e":     2,
		"4e+":    4,
		"1.5e-1": 0.15,
	} {
		got, err := ParseLength(in)
		require.NoError(t, err, in)
		assert.InDelta(t, want, got, 1e-12, in)
	}
	for _, in := range []string{"", "px", ".", "-", "e5", "auto"} {
		_, err := ParseLength(in)
		assert.Error(t, err, in)
	}
}

func TestDimensionsRatio(t *testing.T) {
	assert.Equal(t, 0.5, Dimensions{400, 200}.Ratio())
	assert.Equal(t, 0.0, Dimensions{0, 200}.Ratio())
	assert.False(t, Dimensions{1, -1}.Valid())
}
