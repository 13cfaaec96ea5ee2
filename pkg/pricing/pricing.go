// Package pricing parses the loosely-structured price_range JSON stored on
// services. Provider-supplied data is messy; callers that filter on price
// must fail open when the payload cannot be understood.
package pricing

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Bounds is a parsed monetary range.
type Bounds struct {
	Min float64
	Max float64
}

// ParseBounds extracts min/max bounds from a raw price_range payload.
// Supported shapes: {"min":50,"max":120}, numeric strings inside the same
// object, a bare number (treated as both bounds), or a bare numeric string.
// The second return value is false when no usable bound could be extracted;
// callers filtering on price must treat that as "keep the service".
func ParseBounds(raw json.RawMessage) (Bounds, bool) {
	if len(raw) == 0 {
		return Bounds{}, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		min, minOK := parseNumber(obj["min"])
		max, maxOK := parseNumber(obj["max"])
		if !minOK && !maxOK {
			return Bounds{}, false
		}
		if !maxOK {
			max = min
		}
		if !minOK {
			min = max
		}
		return Bounds{Min: min, Max: max}, true
	}

	if v, ok := parseNumber(raw); ok {
		return Bounds{Min: v, Max: v}, true
	}

	return Bounds{}, false
}

// MaxWithin reports whether the range's upper bound is within limit.
// Unparseable payloads pass the check.
func MaxWithin(raw json.RawMessage, limit float64) bool {
	bounds, ok := ParseBounds(raw)
	if !ok {
		return true
	}
	return bounds.Max <= limit
}

func parseNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, true
		}
	}

	return 0, false
}
