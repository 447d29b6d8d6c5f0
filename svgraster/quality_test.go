package svgraster

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestQualityLevels(t *testing.T) {
	for q, want := range map[Quality]int{
		0.1:  2,
		1.0:  256,
		0.55: 129,
		0:    2,
		3:    256,
	} {
		if got := q.Levels(); got != want {
			t.Errorf("quality %v: expected %d levels, got %d", q, want, got)
		}
	}
}

func TestStepIndex(t *testing.T) {
	for q, want := range map[Quality]int{
		0:    0,
		0.1:  0,
		0.15: 0,
		0.3:  2,
		0.7:  6,
		0.99: 8,
		1:    9,
		4:    9,
	} {
		if got := stepIndex(q); got != want {
			t.Errorf("quality %v: expected step %d, got %d", q, want, got)
		}
	}
	for i := 1; i <= 10; i++ {
		if got := stepIndex(Quality(float64(i) / 10)); got != i-1 {
			t.Errorf("quality %d/10: expected step %d, got %d", i, i-1, got)
		}
	}
}

func TestPosterizeInto(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 127, B: 200, A: 255})
	dst := image.NewNRGBA(src.Bounds())
	posterizeInto(dst, src, 2)
	if got := dst.NRGBAAt(0, 0); got != (color.NRGBA{R: 0, G: 0, B: 255, A: 255}) {
		t.Errorf("unexpected posterized pixel %v", got)
	}
	if got := src.NRGBAAt(0, 0); got != (color.NRGBA{R: 1, G: 127, B: 200, A: 255}) {
		t.Errorf("source modified: %v", got)
	}
	posterizeInto(dst, src, 256)
	if got := dst.NRGBAAt(0, 0); got != src.NRGBAAt(0, 0) {
		t.Errorf("256 levels must copy, got %v", got)
	}
}

func TestClampQuality(t *testing.T) {
	for in, want := range map[float64]Quality{
		-1:   MinQuality,
		0.05: MinQuality,
		0.1:  0.1,
		0.42: 0.42,
		1:    MaxQuality,
		7:    MaxQuality,
	} {
		if got := ClampQuality(in); got != want {
			t.Errorf("ClampQuality(%v) = %v, expected %v", in, got, want)
		}
	}
	if got := ClampQuality(math.NaN()); got != MaxQuality {
		t.Errorf("NaN should map to max quality, got %v", got)
	}
}

func TestPosterizeTable(t *testing.T) {
	table := posterizeTable(2)
	for v, got := range table {
		want := uint8(0)
		if v >= 128 {
			want = 255
		}
		if got != want {
			t.Fatalf("2 levels: %d mapped to %d", v, got)
		}
	}

	table = posterizeTable(256)
	for v, got := range table {
		if int(got) != v {
			t.Fatalf("256 levels must be the identity, %d mapped to %d", v, got)
		}
	}

	// values are preserved at the ends, and the mapping is monotonic
	for levels := 2; levels <= 256; levels++ {
		table = posterizeTable(levels)
		if table[0] != 0 || table[255] != 255 {
			t.Fatalf("%d levels: ends not preserved", levels)
		}
		distinct := 1
		for v := 1; v < 256; v++ {
			if table[v] < table[v-1] {
				t.Fatalf("%d levels: not monotonic at %d", levels, v)
			}
			if table[v] != table[v-1] {
				distinct++
			}
		}
		if distinct != levels {
			t.Fatalf("%d levels: got %d distinct values", levels, distinct)
		}
	}
}

func TestPosterizeNoop(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, G: 127, B: 200, A: 33})
	posterizeInto(img, img, 256)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 1, G: 127, B: 200, A: 33}) {
		t.Errorf("max quality changed the pixel to %v", got)
	}
	posterizeInto(img, img, 2)
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{R: 0, G: 0, B: 255, A: 0}) {
		t.Errorf("unexpected posterized pixel %v", got)
	}
}
