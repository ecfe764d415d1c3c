package lootgen

import "testing"

func TestGenerate_ZeroDeltaIsNoop(t *testing.T) {
	g := New(Config{BaseInterval: 1000000000, Probability: 1}, nil)
	if n := g.Generate(0, 0, 5); n != 0 {
		t.Fatalf("expected zero loot for a zero time delta, got %d", n)
	}
}

func TestGenerate_CappedByLooterCount(t *testing.T) {
	g := New(Config{BaseInterval: 1000000000, Probability: 1}, func() float64 { return 0.999 })
	// 2 looters, 2 already live: no capacity left regardless of time elapsed.
	if n := g.Generate(10000000000, 2, 2); n != 0 {
		t.Fatalf("expected 0 (at capacity), got %d", n)
	}
}

func TestGenerate_FillsCapacityWithHighProbability(t *testing.T) {
	g := New(Config{BaseInterval: 1000000000, Probability: 1}, func() float64 { return 0.999 })
	// probability=1 means after >=1 base interval, generation saturates
	// at (looterCount - lootCount).
	n := g.Generate(10000000000, 0, 2)
	if n != 2 {
		t.Fatalf("expected generator to fill the 2-item capacity, got %d", n)
	}
}

func TestGenerate_NeverNegative(t *testing.T) {
	g := New(Config{BaseInterval: 1000000000, Probability: 0}, func() float64 { return 0 })
	n := g.Generate(1000000000, 0, 5)
	if n < 0 {
		t.Fatalf("generated count must never be negative, got %d", n)
	}
}
