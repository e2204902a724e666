package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// bindFields decodes a JSON object body into a field map so handlers can tell
// absent fields apart from zero values.
func bindFields(c *gin.Context) (map[string]any, error) {
	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ValidationError{Message: "Request body is required"}
		}
		return nil, &ValidationError{Message: "Invalid JSON body"}
	}
	if body == nil {
		return nil, &ValidationError{Message: "Request body must be a JSON object"}
	}
	return body, nil
}

// isBlank reports whether v is absent for validation purposes: null, or a
// string that is empty after trimming. Numbers, booleans and containers are
// never blank.
func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}

// stringify converts a JSON scalar into the string stored in a text column.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// toInt accepts a JSON number or a numeric string holding a whole number.
func toInt(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || x > math.MaxInt32 || x < math.MinInt32 {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// toID is toInt restricted to positive values.
func toID(v any) (uint, bool) {
	n, ok := toInt(v)
	if !ok || n < 1 {
		return 0, false
	}
	return uint(n), true
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, invalidField(name, "must be a positive integer")
	}
	return uint(id), nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

// parseTimestamp reads an ISO-8601 timestamp. Values without a zone are UTC.
func parseTimestamp(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
