package normalize

import (
	"fmt"
	"math"
	"strings"

	"github.com/desertthunder/starsync/internal/models"
)

// Scale identifies how a source expresses ratings.
type Scale int

const (
	ScaleFive Scale = iota // already 0-5
	ScaleTen               // 0-10, halved (Amarok)
	ScaleUnit              // 0.0-1.0, times 5 (FMPS tags)
)

func (s Scale) String() string {
	switch s {
	case ScaleFive:
		return "five"
	case ScaleTen:
		return "ten"
	case ScaleUnit:
		return "unit"
	default:
		return ""
	}
}

// ParseScale accepts the names returned by [Scale.String].
func ParseScale(name string) (Scale, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "five", "5":
		return ScaleFive, nil
	case "ten", "10":
		return ScaleTen, nil
	case "unit", "1":
		return ScaleUnit, nil
	default:
		return 0, fmt.Errorf("unknown rating scale %q", name)
	}
}

func (s Scale) max() float64 {
	switch s {
	case ScaleTen:
		return 10
	case ScaleUnit:
		return 1
	default:
		return models.MaxRating
	}
}

// Convert maps a raw rating onto the 0-5 scale, rounding half away from zero.
func (s Scale) Convert(raw float64) (int, error) {
	if math.IsNaN(raw) || raw < 0 || raw > s.max() {
		return 0, errOutOfRange
	}

	var stars float64
	switch s {
	case ScaleTen:
		stars = raw / 2
	case ScaleUnit:
		stars = raw * models.MaxRating
	default:
		stars = raw
	}

	return int(math.Round(stars)), nil
}
