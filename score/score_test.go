package score

import (
	"math"
	"testing"
)

func TestApplyDeltaFloorsAtZero(t *testing.T) {
	if got := ApplyDelta(0, -5); got != 0 {
		t.Errorf("ApplyDelta(0, -5) = %d, want 0", got)
	}
	if got := ApplyDelta(3, -10); got != 0 {
		t.Errorf("ApplyDelta(3, -10) = %d, want 0", got)
	}
}

func TestApplyDeltaIgnoresNonFinite(t *testing.T) {
	for _, d := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := ApplyDelta(42, d); got != 42 {
			t.Errorf("ApplyDelta(42, %v) = %d, want 42", d, got)
		}
	}
}

func TestApplyDeltaAdditiveWhileUnclamped(t *testing.T) {
	cases := []struct{ total, d1, d2 int }{
		{0, 7, 3},
		{100, 5, 9},
		{250, 1, 0},
	}
	for _, c := range cases {
		chained := ApplyDelta(ApplyDelta(c.total, float64(c.d1)), float64(c.d2))
		combined := ApplyDelta(c.total, float64(c.d1+c.d2))
		if chained != combined {
			t.Errorf("chained %d != combined %d for %+v", chained, combined, c)
		}
	}
}

func TestDisplayClamp(t *testing.T) {
	cases := []struct{ in, want int }{
		{-1, 0},
		{0, 0},
		{250, 250},
		{500, 500},
		{501, 500},
		{99999, 500},
	}
	for _, c := range cases {
		if got := DisplayClamp(c.in); got != c.want {
			t.Errorf("DisplayClamp(%d) = %d, want %d", c.in, got, c.want)
		}
	}
	// Monotonic non-decreasing across the whole range.
	prev := DisplayClamp(-10)
	for v := -9; v <= 510; v++ {
		cur := DisplayClamp(v)
		if cur < prev {
			t.Fatalf("DisplayClamp not monotonic at %d: %d < %d", v, cur, prev)
		}
		prev = cur
	}
}

func TestTierBoundaries(t *testing.T) {
	if TierOf(99).Name == TierOf(100).Name {
		t.Errorf("tier at 99 and 100 should differ, both %q", TierOf(99).Name)
	}
	if TierOf(0).Name != "Novice" {
		t.Errorf("TierOf(0) = %q, want Novice", TierOf(0).Name)
	}
	// Top band is closed at 500.
	if TierOf(500).Name != "Wordsmith" {
		t.Errorf("TierOf(500) = %q, want Wordsmith", TierOf(500).Name)
	}
	for _, tier := range Tiers() {
		if TierOf(tier.Min).Name != tier.Name {
			t.Errorf("TierOf(%d) = %q, want %q", tier.Min, TierOf(tier.Min).Name, tier.Name)
		}
		if TierOf(tier.Max-1).Name != tier.Name {
			t.Errorf("TierOf(%d) = %q, want %q", tier.Max-1, TierOf(tier.Max-1).Name, tier.Name)
		}
	}
}

func TestProgressBar(t *testing.T) {
	cases := []struct{ total, blocks, filled, empty int }{
		{250, 10, 5, 5},
		{0, 10, 0, 10},
		{500, 10, 10, 0},
		{125, 10, 3, 7}, // rounds 2.5 up
	}
	for _, c := range cases {
		filled, empty := ProgressBar(c.total, c.blocks)
		if filled != c.filled || empty != c.empty {
			t.Errorf("ProgressBar(%d, %d) = (%d, %d), want (%d, %d)",
				c.total, c.blocks, filled, empty, c.filled, c.empty)
		}
	}
}

func TestRenderBar(t *testing.T) {
	if got := RenderBar(250, 10); got != "▰▰▰▰▰▱▱▱▱▱" {
		t.Errorf("RenderBar(250, 10) = %q", got)
	}
}
