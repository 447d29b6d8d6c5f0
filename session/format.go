package session

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/benoitkugler/svgpng/svgraster"
)

// DefaultBaseName is used when the document has no usable name.
const DefaultBaseName = "converted"

// FileName returns the suggested name of the PNG produced from
// the document `name` at `size`, as <base>_<w>x<h>.png.
func FileName(name string, size svgraster.Size) string {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}
	if i := strings.Index(strings.ToLower(base), ".svg"); i >= 0 {
		base = base[:i] + base[i+len(".svg"):]
	}
	if base == "" {
		base = DefaultBaseName
	}
	return fmt.Sprintf("%s_%dx%d.png", base, size.Width, size.Height)
}

// FormatFileSize returns a human readable size, in KB below 1024 KB.
func FormatFileSize(bytes int64) string {
	kb := float64(bytes) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%.2f KB", kb)
	}
	return fmt.Sprintf("%.2f MB", kb/1024)
}

// EstimatePNGSize returns a rough upper bound of the encoded size,
// counting 4 bytes per pixel scaled by the quality.
func EstimatePNGSize(size svgraster.Size, quality svgraster.Quality) string {
	if size.Width <= 0 || size.Height <= 0 {
		return ""
	}
	kb := float64(size.Width) * float64(size.Height) * 4 * float64(quality) / 1024
	if kb < 1024 {
		return fmt.Sprintf("~%.1f KB", kb)
	}
	return fmt.Sprintf("~%.1f MB", kb/1024)
}

// ParseDimension reads the leading integer of `s` ("120px" is 120).
// It reports false when no integer is found or when it is not positive.
func ParseDimension(s string) (int, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && '0' <= s[end] && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0, false
	}
	v, err := strconv.Atoi(s[:end])
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
