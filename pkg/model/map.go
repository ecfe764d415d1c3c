package model

import (
	"fmt"
)

// RNG is the minimal random source Map needs: a uniform float in [0,1)
// and a uniform int in [0,n). math/rand.Rand satisfies it;
// math/rand/v2.Rand does not, since its method is named IntN.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// Map is a single playable map: an immutable collection of roads,
// buildings, offices and loot types, with optional per-map overrides for
// dog speed and bag capacity. Maps never change after they are added to
// the game, so concurrent read-only access is always safe.
type Map struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Roads       []Road     `json:"roads"`
	Buildings   []Building `json:"buildings"`
	Offices     []Office   `json:"offices"`
	LootTypes   []LootType `json:"lootTypes"`
	DogSpeed    *float64   `json:"dogSpeed,omitempty"`
	BagCapacity *int       `json:"bagCapacity,omitempty"`
}

// Validate checks the map's structural invariants: every road is
// axis-aligned and office ids are unique. A map with no roads passes
// validation; Joinable reports it as not joinable.
func (m *Map) Validate() error {
	for _, r := range m.Roads {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("map %q: %w", m.ID, err)
		}
	}
	seen := make(map[string]bool, len(m.Offices))
	for _, o := range m.Offices {
		if seen[o.ID] {
			return fmt.Errorf("map %q: duplicate office id %q", m.ID, o.ID)
		}
		seen[o.ID] = true
	}
	return nil
}

// Joinable reports whether a dog can be placed on this map at all.
func (m *Map) Joinable() bool {
	return len(m.Roads) > 0
}

// RandomPositionOnRoad uniformly picks a road, then uniformly picks a
// point within that road's bounds rectangle.
func (m *Map) RandomPositionOnRoad(rng RNG) Vec2 {
	if len(m.Roads) == 0 {
		return Vec2{}
	}
	road := m.Roads[rng.Intn(len(m.Roads))]
	b := road.Bounds()
	x := b.MinX + rng.Float64()*(b.MaxX-b.MinX)
	y := b.MinY + rng.Float64()*(b.MaxY-b.MinY)
	return Vec2{X: x, Y: y}
}

// BoundedMove computes the furthest point reachable from origin towards
// desired without leaving any road that currently contains origin.
//
// Roads overlap at intersections, so more than one road may contain
// origin; a move along the current corridor should go as far as any
// containing road permits, hence "furthest reachable" rather than "first
// match". ok is false when no road contains origin (should not happen
// in steady state).
func (m *Map) BoundedMove(origin, desired Vec2) (result Vec2, ok bool) {
	best := origin
	bestSq := -1.0
	found := false
	for _, road := range m.Roads {
		if !road.Contains(origin) {
			continue
		}
		found = true
		candidate := road.Clamp(desired)
		sq := origin.SqDist(candidate)
		if sq > bestSq {
			bestSq = sq
			best = candidate
		}
	}
	if !found {
		return Vec2{}, false
	}
	return best, true
}

// EffectiveDogSpeed resolves the map's dog speed against the game-wide
// default.
func (m *Map) EffectiveDogSpeed(gameDefault float64) float64 {
	if m.DogSpeed != nil {
		return *m.DogSpeed
	}
	return gameDefault
}

// EffectiveBagCapacity resolves the map's bag capacity against the
// game-wide default, falling back to 3 if neither is set.
func (m *Map) EffectiveBagCapacity(gameDefault *int) int {
	if m.BagCapacity != nil {
		return *m.BagCapacity
	}
	if gameDefault != nil {
		return *gameDefault
	}
	return 3
}
