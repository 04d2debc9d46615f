package matrix

import (
	"fmt"
	"strings"
)

// Level is a QR error-correction level.
//
// The ordinal values are stable (they may be persisted):
// LevelLow=0, LevelMedium=1, LevelQuartile=2, LevelHigh=3.
type Level int

const (
	LevelLow      Level = iota // ~7% recovery
	LevelMedium                // ~15% recovery
	LevelQuartile              // ~25% recovery
	LevelHigh                  // ~30% recovery
)

// Levels lists every level in ordinal order.
var Levels = [...]Level{LevelLow, LevelMedium, LevelQuartile, LevelHigh}

// Valid reports whether l is one of the four defined levels.
func (l Level) Valid() bool {
	return l >= LevelLow && l <= LevelHigh
}

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelLow:
		return "Low"
	case LevelMedium:
		return "Medium"
	case LevelQuartile:
		return "Quartile"
	case LevelHigh:
		return "High"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Next returns the following level, wrapping from High back to Low.
func (l Level) Next() Level {
	return Level((int(l) + 1) % len(Levels))
}

// ParseLevel parses a level name. It accepts the full names and the
// single-letter forms L, M, Q and H, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l", "low":
		return LevelLow, nil
	case "m", "medium":
		return LevelMedium, nil
	case "q", "quartile":
		return LevelQuartile, nil
	case "h", "high":
		return LevelHigh, nil
	}
	return LevelMedium, fmt.Errorf("%w: unknown level %q", ErrInvalidLevel, s)
}
