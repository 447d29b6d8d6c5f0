package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benoitkugler/svgpng/config"
	"github.com/benoitkugler/svgpng/history"
	"github.com/benoitkugler/svgpng/svgraster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wide = `<svg width="400" height="200" xmlns="http://www.w3.org/2000/svg"><rect width="400" height="200" fill="red"/></svg>`

func testEnv(t *testing.T) *env {
	return &env{cfg: &config.Config{
		History:   history.Options{Backend: history.BackendFile, Path: t.TempDir()},
		Quality:   svgraster.MaxQuality,
		Lock:      true,
		MaxPixels: svgraster.DefaultMaxPixels,
	}}
}

func TestIsSVG(t *testing.T) {
	assert.True(t, isSVG("a.svg", nil))
	assert.True(t, isSVG("a.SVG", []byte("garbage")))
	assert.True(t, isSVG("drawing", []byte(wide)))
	assert.True(t, isSVG("drawing.xml", []byte(`<?xml version="1.0"?><svg/>`)))
	assert.False(t, isSVG("page.html", []byte(`<html/>`)))
	assert.False(t, isSVG("photo.png", []byte("\x89PNG")))
}

func TestReadSVG(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.svg")
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte(wide), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("hello"), 0o644))

	text, err := readSVG(good)
	require.NoError(t, err)
	assert.Equal(t, wide, text)

	_, err = readSVG(bad)
	assert.ErrorIs(t, err, errNotSVG)

	_, err = readSVG(filepath.Join(dir, "missing.svg"))
	assert.Error(t, err)
}

func TestParseSize(t *testing.T) {
	size, err := parseSize("640x480")
	require.NoError(t, err)
	assert.Equal(t, svgraster.Size{Width: 640, Height: 480}, size)

	size, err = parseSize("32X16")
	require.NoError(t, err)
	assert.Equal(t, svgraster.Size{Width: 32, Height: 16}, size)

	for _, s := range []string{"", "640", "x480", "0x10", "ax b"} {
		_, err = parseSize(s)
		assert.Error(t, err, s)
	}
}

func TestValidators(t *testing.T) {
	assert.NoError(t, dimensionValidator("120"))
	assert.Error(t, dimensionValidator("zero"))
	assert.NoError(t, qualityValidator("0.5"))
	assert.Error(t, qualityValidator("1.5"))
	assert.Error(t, qualityValidator("high"))
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	printInfo(&buf, "wide.svg", wide, 1)
	assert.Contains(t, buf.String(), "Intrinsic: 400x200")
	assert.Contains(t, buf.String(), "Estimate:  ~312.5 KB")

	// sub pixel sizes are reported as the session renders them
	buf.Reset()
	printInfo(&buf, "dot.svg", `<svg width="0.3" height="0.3"/>`, 1)
	assert.Contains(t, buf.String(), "Intrinsic: 1x1")
	assert.Contains(t, buf.String(), "Estimate:  ~0.0 KB")

	buf.Reset()
	printInfo(&buf, "broken.svg", "<svg", 1)
	assert.Contains(t, buf.String(), "Intrinsic: 800x600")
	assert.Contains(t, buf.String(), "Warning:")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	printHistory(&buf, nil)
	assert.Equal(t, "No recent files\n", buf.String())

	buf.Reset()
	printHistory(&buf, []history.Entry{{Name: "a.svg", Date: time.Now()}, {Name: "b.svg", Date: time.Now()}})
	assert.Contains(t, buf.String(), "a.svg")
	assert.Contains(t, buf.String(), "b.svg")
}

func TestConvert(t *testing.T) {
	e := testEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "wide.svg")
	require.NoError(t, os.WriteFile(input, []byte(wide), 0o644))

	c := &convertCmd{env: e, width: "100"}
	s := e.session(1, true)
	require.NoError(t, c.convert(context.Background(), s, input, svgraster.Size{}))

	out := filepath.Join(dir, "wide_100x50.png")
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)

	// both dimensions given: the ratio is not kept
	c = &convertCmd{env: e, width: "30", height: "70", output: filepath.Join(dir, "out.png")}
	require.NoError(t, c.convert(context.Background(), s, input, svgraster.Size{}))
	cfg, err = png.DecodeConfig(bytes.NewReader(mustRead(t, c.output)))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 70, cfg.Height)

	c = &convertCmd{env: e}
	require.NoError(t, c.convert(context.Background(), s, input, svgraster.Size{Width: 50, Height: 50}))
	_, err = os.Stat(filepath.Join(dir, "wide_50x25.png"))
	assert.NoError(t, err)
}

func TestRecord(t *testing.T) {
	e := testEnv(t)
	e.record(context.Background(), "first.svg")
	e.record(context.Background(), "second.svg")

	store := e.openHistory()
	defer store.Close()
	entries, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second.svg", entries[0].Name)
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}
