// Package score turns raw evaluation points into the gamified progress
// display: a running total, a clamped value for rendering, a named tier,
// and a block progress bar.
package score

import (
	"math"
	"strings"
)

// DisplayMax is the ceiling of the rendered score range. Stored totals are
// unbounded; clamping happens only at display time.
const DisplayMax = 500

// ApplyDelta adds delta to the running total, flooring at zero. A non-finite
// delta (NaN or Inf, possible when an evaluation score arrives malformed) is
// ignored and the total is returned unchanged.
func ApplyDelta(total int, delta float64) int {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		return total
	}
	next := total + int(delta)
	if next < 0 {
		return 0
	}
	return next
}

// DisplayClamp bounds a stored total to the [0, DisplayMax] display range.
func DisplayClamp(total int) int {
	if total < 0 {
		return 0
	}
	if total > DisplayMax {
		return DisplayMax
	}
	return total
}

type Tier struct {
	Name        string
	Description string
	Min         int // inclusive
	Max         int // exclusive, except the top tier which includes DisplayMax
}

var tiers = []Tier{
	{"Novice", "Just getting started. Every answer counts.", 0, 100},
	{"Apprentice", "Finding your footing. Keep the streak going.", 100, 200},
	{"Conversationalist", "You can hold your own in a chat.", 200, 300},
	{"Storyteller", "Complex texts and long answers suit you.", 300, 400},
	{"Wordsmith", "Near the top of the board. Polish and shine.", 400, 500},
}

// TierOf maps a clamped total to its progression tier. Bands are
// closed-open except the top band, which is closed at DisplayMax.
func TierOf(clamped int) Tier {
	for _, t := range tiers[:len(tiers)-1] {
		if clamped < t.Max {
			return t
		}
	}
	return tiers[len(tiers)-1]
}

// Tiers returns all progression bands in ascending order.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// ProgressBar splits the display range into blocks and reports how many are
// filled at the given clamped total.
func ProgressBar(clamped, blocks int) (filled, empty int) {
	filled = int(math.Round(float64(clamped) / float64(DisplayMax) * float64(blocks)))
	return filled, blocks - filled
}

// RenderBar renders a ProgressBar result as a string of block glyphs.
func RenderBar(clamped, blocks int) string {
	filled, empty := ProgressBar(clamped, blocks)
	return strings.Repeat("▰", filled) + strings.Repeat("▱", empty)
}
