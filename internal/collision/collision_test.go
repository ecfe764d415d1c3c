package collision

import (
	"testing"

	"github.com/kanelabs/dogrun-engine/pkg/model"
)

type mockProvider struct {
	items     []Item
	gatherers []Gatherer
}

func (m *mockProvider) ItemsCount() int         { return len(m.items) }
func (m *mockProvider) Item(i int) Item         { return m.items[i] }
func (m *mockProvider) GatherersCount() int     { return len(m.gatherers) }
func (m *mockProvider) Gatherer(j int) Gatherer { return m.gatherers[j] }

func TestFindGatherEvents_Empty(t *testing.T) {
	p := &mockProvider{}
	events := FindGatherEvents(p)
	if len(events) != 0 {
		t.Fatalf("expected no events, got %d", len(events))
	}
}

func TestFindGatherEvents_SingleHit(t *testing.T) {
	p := &mockProvider{
		items:     []Item{{Position: model.Vec2{X: 1, Y: 1}, Width: 0.5}},
		gatherers: []Gatherer{{Start: model.Vec2{}, End: model.Vec2{X: 2, Y: 2}, Width: 0.5}},
	}
	events := FindGatherEvents(p)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].Time <= 0 || events[0].Time >= 1 {
		t.Fatalf("expected projection ratio within (0,1), got %v", events[0].Time)
	}
}

func TestFindGatherEvents_Ordering(t *testing.T) {
	// Three colinear items; gatherer sweeps through all of them. Events
	// must come back ordered by time ascending.
	p := &mockProvider{
		items: []Item{
			{Position: model.Vec2{X: 8, Y: 0}, Width: 0.1},
			{Position: model.Vec2{X: 2, Y: 0}, Width: 0.1},
			{Position: model.Vec2{X: 5, Y: 0}, Width: 0.1},
		},
		gatherers: []Gatherer{
			{Start: model.Vec2{X: 0, Y: 0}, End: model.Vec2{X: 10, Y: 0}, Width: 0.2},
		},
	}
	events := FindGatherEvents(p)
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Time < events[i-1].Time {
			t.Fatalf("events not sorted by time: %v", events)
		}
	}
	if events[0].ItemID != 1 || events[1].ItemID != 2 || events[2].ItemID != 0 {
		t.Fatalf("unexpected item order: %+v", events)
	}
}

func TestFindGatherEvents_OutOfSegmentRange(t *testing.T) {
	p := &mockProvider{
		items:     []Item{{Position: model.Vec2{X: -5, Y: 0}, Width: 0.5}},
		gatherers: []Gatherer{{Start: model.Vec2{}, End: model.Vec2{X: 10, Y: 0}, Width: 0.5}},
	}
	events := FindGatherEvents(p)
	if len(events) != 0 {
		t.Fatalf("expected no events for item behind the gatherer's start, got %d", len(events))
	}
}

func TestFindGatherEvents_DegenerateGatherer(t *testing.T) {
	p := &mockProvider{
		items: []Item{
			{Position: model.Vec2{X: 0.3, Y: 0}, Width: 0.1},
			{Position: model.Vec2{X: 5, Y: 5}, Width: 0.1},
		},
		gatherers: []Gatherer{{Start: model.Vec2{}, End: model.Vec2{}, Width: 0.5}},
	}
	events := FindGatherEvents(p)
	if len(events) != 1 {
		t.Fatalf("expected exactly the in-range item to collect, got %d", len(events))
	}
	if events[0].ItemID != 0 || events[0].Time != 0 {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}
