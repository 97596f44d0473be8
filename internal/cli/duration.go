package cli

import (
	"fmt"
	"strconv"
	"time"
)

const day = 24 * time.Hour

var durationUnits = map[byte]time.Duration{
	'h': time.Hour,
	'd': day,
	'w': 7 * day,
	'm': 30 * day,
}

// parseDuration parses a period flag like "12h", "7d", "2w" or "1m"
func parseDuration(s string) (time.Duration, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	unit, ok := durationUnits[s[len(s)-1]]
	if !ok {
		return 0, fmt.Errorf("unknown duration unit %q (use h, d, w, or m)", s[len(s)-1:])
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid duration value %q", s[:len(s)-1])
	}
	return time.Duration(n) * unit, nil
}
