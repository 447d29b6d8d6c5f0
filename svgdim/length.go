package svgdim

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errParamMismatch = errors.New("svgdim: viewBox requires exactly 4 values")

// ParseLength reads the leading number of `v`, ignoring any trailing unit,
// so that "100", "100px", "12.5mm" and "50%" give 100, 100, 12.5 and 50.
// Leading white space is skipped. An error is returned when `v` does
// not start with a number.
func ParseLength(v string) (float64, error) {
	v = strings.TrimLeft(v, " \t\n\r\f")
	n := numberPrefix(v)
	if n == 0 {
		return 0, fmt.Errorf("svgdim: invalid length %q", v)
	}
	return strconv.ParseFloat(v[:n], 64)
}

// numberPrefix returns the length of the longest prefix of s
// matching [+-]? (digits [. digits*] | . digits) ([eE] [+-]? digits)?
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	intDigits := digits(s[i:])
	i += intDigits
	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		fracDigits = digits(s[i+1:])
		if intDigits > 0 || fracDigits > 0 {
			i += 1 + fracDigits
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0
	}
	// the exponent is only consumed when complete
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if exp := digits(s[j:]); exp > 0 {
			i = j + exp
		}
	}
	return i
}

func digits(s string) int {
	i := 0
	for i < len(s) && '0' <= s[i] && s[i] <= '9' {
		i++
	}
	return i
}

// ParseViewBox splits `v` on white space and returns the
// min-x, min-y, width and height values.
func ParseViewBox(v string) ([4]float64, error) {
	var out [4]float64
	fields := strings.Fields(v)
	if len(fields) != 4 {
		return out, errParamMismatch
	}
	for i, f := range fields {
		x, err := ParseLength(f)
		if err != nil {
			return out, err
		}
		out[i] = x
	}
	return out, nil
}
