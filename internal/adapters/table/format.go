package table

import (
	"math"
	"strconv"
	"strings"

	perr "seqfeat/internal/platform/errors"
)

// FormatInts renders v as a list literal, e.g. [1, 0, 0]
func FormatInts(v []int32) string {
	var sb strings.Builder
	sb.Grow(len(v)*3 + 2)
	sb.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatInt(int64(x), 10))
	}
	sb.WriteByte(']')
	return sb.String()
}

// FormatFloats renders v as a list literal using shortest round-trip floats, e.g. [0.25, 0.0]
func FormatFloats(v []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, x := range v {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(FormatFloat(x))
	}
	sb.WriteByte(']')
	return sb.String()
}

// FormatFloat renders x the way a repr would: fixed notation in [1e-4, 1e16),
// scientific outside it, and always a decimal point for integral values
func FormatFloat(x float64) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	if a := math.Abs(x); a != 0 && (a < 1e-4 || a >= 1e16) {
		return strconv.FormatFloat(x, 'e', -1, 64)
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// ParseInts parses a list literal produced by FormatInts
func ParseInts(s string) ([]int32, error) {
	parts, err := listItems(s)
	if err != nil {
		return nil, err
	}
	out := make([]int32, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 32)
		if err != nil {
			return nil, perr.WrapIOf(err, "invalid integer %q", p)
		}
		out[i] = int32(n)
	}
	return out, nil
}

// ParseFloats parses a list literal produced by FormatFloats
func ParseFloats(s string) ([]float64, error) {
	parts, err := listItems(s)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(parts))
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, perr.WrapIOf(err, "invalid float %q", p)
		}
		out[i] = f
	}
	return out, nil
}

func listItems(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, perr.IOf("invalid list literal %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, nil
	}
	parts := strings.Split(body, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}
