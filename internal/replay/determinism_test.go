package replay

import (
	"testing"
	"time"

	"github.com/kanelabs/dogrun-engine/internal/engine"
	"github.com/kanelabs/dogrun-engine/pkg/model"
)

func testMap() *model.Map {
	v := 2
	return &model.Map{
		ID: "replay-map",
		Roads: []model.Road{
			{Start: model.Point{X: 0, Y: 0}, End: model.Point{X: 20, Y: 0}},
		},
		LootTypes:   []model.LootType{{Name: "coin"}},
		BagCapacity: &v,
	}
}

func TestChecker_IdenticalSchedulesNeverDiverge(t *testing.T) {
	checker, err := NewChecker(engine.Config{RandomizeSpawn: true}, []*model.Map{testMap()}, 42)
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	if err := checker.Join("alice", "replay-map"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if err := checker.Join("bob", "replay-map"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	schedule := make([]time.Duration, 20)
	for i := range schedule {
		schedule[i] = 50 * time.Millisecond
	}

	divergedAt, err := checker.Run(schedule)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if divergedAt != -1 {
		t.Fatalf("expected no divergence for two identically-seeded engines, diverged at tick %d", divergedAt)
	}
}

func TestChecker_AsymmetricJoinDiverges(t *testing.T) {
	checker, err := NewChecker(engine.Config{}, []*model.Map{testMap()}, 7)
	if err != nil {
		t.Fatalf("NewChecker: %v", err)
	}
	if err := checker.Join("alice", "replay-map"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	// Break symmetry directly: only engine B gets a second player, so
	// its session has one extra dog and a different looter count.
	if _, err := checker.b.Join("bob", "replay-map"); err != nil {
		t.Fatalf("Join on engine B: %v", err)
	}

	diverged, err := checker.Step(10 * time.Millisecond)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !diverged {
		t.Fatal("expected snapshots to diverge once engine B has an extra dog")
	}
}
