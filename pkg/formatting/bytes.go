package formatting

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

var byteUnits = []string{"B", "KB", "MB", "GB", "TB", "PB"}

// ParseBytes parses a human-readable byte size string (e.g. "10MB") into a
// byte count using base-1024 units. A bare number is treated as bytes; unit
// matching is case-insensitive and may be separated by a space.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	split := len(s)
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			split = i
			break
		}
	}

	value, err := strconv.ParseFloat(s[:split], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	unit := strings.ToUpper(strings.TrimSpace(s[split:]))
	if unit == "" {
		return int64(value), nil
	}

	idx := slices.Index(byteUnits, unit)
	if idx == -1 {
		return 0, fmt.Errorf("unknown byte size unit %q", unit)
	}

	return int64(value * math.Pow(1024, float64(idx))), nil
}

// FormatBytes renders a byte count as a human-readable base-1024 string.
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 B"
	}

	idx := int(math.Floor(math.Log(float64(n)) / math.Log(1024)))
	if idx >= len(byteUnits) {
		idx = len(byteUnits) - 1
	}

	size := float64(n) / math.Pow(1024, float64(idx))
	return strconv.FormatFloat(size, 'f', -1, 64) + " " + byteUnits[idx]
}
