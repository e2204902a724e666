package utils

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// roundFloat rounds a float64 to a specified number of decimal places.
func roundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}

// CalculateStats calculates the average and sample standard deviation of a slice of float64 pointers.
// Nil values in the input slice are ignored.
// Returns (average, standardDeviation).
func CalculateStats(data []*float64) (float64, float64) {
	filteredData := []float64{}
	for _, valPtr := range data {
		if valPtr != nil {
			filteredData = append(filteredData, *valPtr)
		}
	}

	n := len(filteredData)
	if n == 0 {
		return 0.0, 0.0
	}

	sum := 0.0
	for _, val := range filteredData {
		sum += val
	}
	average := sum / float64(n)

	if n < 2 {
		return roundFloat(average, 4), 0.0
	}

	varianceSum := 0.0
	for _, val := range filteredData {
		varianceSum += math.Pow(val-average, 2)
	}
	stdDev := math.Sqrt(varianceSum / float64(n-1))

	return roundFloat(average, 4), roundFloat(stdDev, 4)
}

// ParseNumber reads a numeric test value. Strings such as " 5.9 " are
// accepted, anything that is not a number yields nil.
func ParseNumber(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Range is a reference interval. A nil bound is open.
type Range struct {
	Min *float64
	Max *float64
}

var (
	betweenRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*[-–—]\s*(-?\d+(?:\.\d+)?)$`)
	upToRe    = regexp.MustCompile(`(?i)^(?:up to|<=?)\s*(\d+(?:\.\d+)?)$`)
	atLeastRe = regexp.MustCompile(`(?i)^(?:>=?)\s*(\d+(?:\.\d+)?)$`)
)

// ParseRange parses reference ranges like "70–110", "Up to 60", "<1.1" and
// ">40". Ranges that depend on sex or age ("M: 13–16; F: 11.5–14.5") are
// reported as not parseable.
func ParseRange(s string) (Range, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, ":") {
		return Range{}, false
	}
	if m := betweenRe.FindStringSubmatch(s); m != nil {
		return Range{Min: ParseNumber(m[1]), Max: ParseNumber(m[2])}, true
	}
	if m := upToRe.FindStringSubmatch(s); m != nil {
		return Range{Max: ParseNumber(m[1])}, true
	}
	if m := atLeastRe.FindStringSubmatch(s); m != nil {
		return Range{Min: ParseNumber(m[1])}, true
	}
	return Range{}, false
}

// Contains reports whether v lies inside the range, bounds inclusive.
func (r Range) Contains(v float64) bool {
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}
