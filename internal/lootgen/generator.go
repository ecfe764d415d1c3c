// Package lootgen implements the probabilistic per-tick loot emission
// process, capped so the map never holds more live loot than there are
// looters: a base interval, a probability of at least one spawn within
// that interval, and a supplied uniform RNG sample.
package lootgen

import (
	"math"
	"time"
)

// Config configures a Generator. BaseInterval is the reference time
// window for Probability; the config boundary (JSON) expresses this in
// seconds, but internally we always carry milliseconds-resolution
// durations.
type Config struct {
	BaseInterval time.Duration
	Probability  float64
}

// RandomSource yields a uniform sample in [0, 1).
type RandomSource func() float64

// Generator is stateful: it accumulates elapsed time without a spawn and
// resets whenever it emits at least one item.
type Generator struct {
	cfg             Config
	timeWithoutLoot time.Duration
	random          RandomSource
}

// New creates a Generator. If random is nil, it defaults to always
// returning 1.0, which yields the maximum deterministic loot count for
// the given parameters.
func New(cfg Config, random RandomSource) *Generator {
	if random == nil {
		random = func() float64 { return 1.0 }
	}
	return &Generator{cfg: cfg, random: random}
}

// Generate returns how many loot items should appear after timeDelta has
// elapsed, given lootCount currently live and looterCount dogs present.
// The result never exceeds max(0, looterCount-lootCount) and the
// internal clock resets to zero whenever it emits a nonzero count.
func (g *Generator) Generate(timeDelta time.Duration, lootCount, looterCount int) int {
	capacity := looterCount - lootCount
	if capacity <= 0 {
		// Still accumulate elapsed time even when capped at zero. The
		// accumulated time is bookkeeping only: the count below is
		// computed from timeDelta alone.
		g.timeWithoutLoot += timeDelta
		return 0
	}

	g.timeWithoutLoot += timeDelta

	if g.cfg.BaseInterval <= 0 || timeDelta <= 0 {
		return 0
	}

	ratio := float64(timeDelta) / float64(g.cfg.BaseInterval)
	u := g.random()
	generated := int(math.Floor(float64(capacity)*(1-math.Pow(1-g.cfg.Probability, ratio)) + u))

	if generated < 0 {
		generated = 0
	}
	if generated > capacity {
		generated = capacity
	}
	if generated > 0 {
		g.timeWithoutLoot = 0
	}
	return generated
}
