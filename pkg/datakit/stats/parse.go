package stats

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrNotFinite is returned for NaN and infinite sample values.
var ErrNotFinite = errors.New("value is not finite")

// ParseSamples reads floating-point values separated by whitespace and/or
// commas. Blank input yields an empty sample. NaN and infinities are
// rejected with ErrNotFinite.
func ParseSamples(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	samples := make([]float64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("value %d (%q): %w", i+1, f, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("value %d (%q): %w", i+1, f, ErrNotFinite)
		}
		samples = append(samples, v)
	}
	return samples, nil
}
