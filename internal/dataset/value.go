package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// missingMarkers are the cell spellings read as a missing value.
var missingMarkers = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"n/a":  true,
	"NaN":  true,
	"nan":  true,
	"null": true,
	"NULL": true,
	"<NA>": true,
}

// ParseValue converts a raw CSV cell into a scalar: nil for missing
// markers, int64, float64, or the trimmed string.
func ParseValue(s string) interface{} {
	s = strings.TrimSpace(s)

	if missingMarkers[s] {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// infinities are kept as text so every value stays JSON encodable
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return s
}

// IsMissing reports whether v is a missing value.
func IsMissing(v interface{}) bool {
	if v == nil {
		return true
	}
	if f, ok := v.(float64); ok && math.IsNaN(f) {
		return true
	}
	return false
}

// ToFloat converts numeric scalars to float64.
func ToFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case int:
		return float64(val), true
	case float64:
		if math.IsNaN(val) {
			return 0, false
		}
		return val, true
	case float32:
		return float64(val), true
	}
	return 0, false
}

// FormatValue renders v the way it is written to CSV. Integral floats
// keep a trailing ".0" so the column reads back as decimal.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		if math.IsNaN(val) {
			return ""
		}
		s := strconv.FormatFloat(val, 'f', -1, 64)
		if val == math.Trunc(val) && !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Compare orders two non-missing values. Numbers compare numerically
// when numeric is set; everything else compares as text.
func Compare(a, b interface{}, numeric bool) int {
	if numeric {
		af, aok := ToFloat(a)
		bf, bok := ToFloat(b)
		if aok && bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(FormatValue(a), FormatValue(b))
}
