package engine

import (
	"context"
	"testing"
	"time"

	"github.com/kanelabs/dogrun-engine/internal/lootgen"
	"github.com/kanelabs/dogrun-engine/pkg/model"
)

func cornerMap() *model.Map {
	return &model.Map{
		ID:   "corner",
		Name: "Corner",
		Roads: []model.Road{
			{Start: model.Point{X: 0, Y: 0}, End: model.Point{X: 10, Y: 0}},
			{Start: model.Point{X: 10, Y: 0}, End: model.Point{X: 10, Y: 10}},
		},
	}
}

func TestBoundedMove_CornerClamp(t *testing.T) {
	m := cornerMap()
	origin := model.Vec2{X: 10, Y: 0}
	desired := model.Vec2{X: 12, Y: -3}

	got, ok := m.BoundedMove(origin, desired)
	if !ok {
		t.Fatal("expected a bounded move result")
	}
	want := model.Vec2{X: 10.4, Y: -0.4}
	if !got.Equal(want) {
		t.Fatalf("expected furthest reachable point %v, got %v", want, got)
	}
}

func TestBoundedMove_OriginOffAllRoads(t *testing.T) {
	m := cornerMap()
	_, ok := m.BoundedMove(model.Vec2{X: 500, Y: 500}, model.Vec2{X: 501, Y: 501})
	if ok {
		t.Fatal("expected no bounded move when origin is off every road")
	}
}

func straightLineMap(value0, value1 int) *model.Map {
	v0, v1 := value0, value1
	return &model.Map{
		ID:   "line",
		Name: "Line",
		Roads: []model.Road{
			{Start: model.Point{X: 0, Y: 0}, End: model.Point{X: 20, Y: 0}},
		},
		LootTypes: []model.LootType{
			{Name: "a", Type: 0, Value: &v0},
			{Name: "b", Type: 1, Value: &v1},
		},
	}
}

func TestDog_PickupVsCapacity(t *testing.T) {
	m := straightLineMap(10, 5)
	session := NewGameSession(m, lootgen.Config{}, 1)

	dog := NewDog(1, model.Vec2{X: 0, Y: 0}, time.Now())
	session.AddDog(dog)

	// Three colinear items the dog's sweep will cross in order A,B,C.
	a := &model.LootInstance{ID: 1, TypeIdx: 0, Position: model.Vec2{X: 2, Y: 0}}
	b := &model.LootInstance{ID: 2, TypeIdx: 0, Position: model.Vec2{X: 5, Y: 0}}
	c := &model.LootInstance{ID: 3, TypeIdx: 0, Position: model.Vec2{X: 8, Y: 0}}
	session.Loot[a.ID] = a
	session.Loot[b.ID] = b
	session.Loot[c.ID] = c

	dog.SetPosition(model.Vec2{X: 10, Y: 0}) // sweeps 0,0 -> 10,0 this tick

	nextID := int64(100)
	session.Tick(0, 2, func() int64 { nextID++; return nextID })

	if !a.Gathered || !b.Gathered {
		t.Fatalf("expected A and B gathered, got a=%v b=%v", a.Gathered, b.Gathered)
	}
	if c.Gathered {
		t.Fatal("expected C to remain ungathered (bag capacity 2)")
	}
	if len(dog.Bag) != 2 {
		t.Fatalf("expected bag size 2, got %d", len(dog.Bag))
	}
	if dog.Score != 0 {
		t.Fatalf("score should be unchanged until deposit, got %d", dog.Score)
	}
	if _, stillLive := session.Loot[c.ID]; !stillLive {
		t.Fatal("ungathered item C should remain in the live loot list")
	}
	if _, stillLive := session.Loot[a.ID]; stillLive {
		t.Fatal("gathered item A should have been compacted out of the live loot list")
	}
}

func TestDog_Deposit(t *testing.T) {
	v0, v1 := 10, 5
	lootTypes := []model.LootType{{Value: &v0}, {Value: &v1}}
	dog := NewDog(1, model.Vec2{}, time.Now())
	dog.Bag = []*model.LootInstance{
		{TypeIdx: 0}, {TypeIdx: 1}, {TypeIdx: 0},
	}
	dog.Deposit(lootTypes)
	if dog.Score != 25 {
		t.Fatalf("expected score 25, got %d", dog.Score)
	}
	if len(dog.Bag) != 0 {
		t.Fatalf("expected empty bag after deposit, got %d items", len(dog.Bag))
	}
}

func TestDog_DepositIdempotentOnEmptyBag(t *testing.T) {
	dog := NewDog(1, model.Vec2{}, time.Now())
	dog.Deposit(nil)
	if dog.Score != 0 {
		t.Fatalf("expected score 0, got %d", dog.Score)
	}
}

func TestGame_ExternalTickGate(t *testing.T) {
	g := NewGame(Config{})
	sched := NewScheduler(g, 0, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sched.Run(ctx)
	if err := sched.ExternalTick(100); err != nil {
		t.Fatalf("expected external tick to be accepted in external mode, got %v", err)
	}

	sched2 := NewScheduler(g, 50*time.Millisecond, nil)
	if err := sched2.ExternalTick(100); err != ErrExternalTickRejected {
		t.Fatalf("expected ErrExternalTickRejected in internal mode, got %v", err)
	}
}

func TestGame_Retirement(t *testing.T) {
	v0 := 3
	m := &model.Map{
		ID: "retire-map",
		Roads: []model.Road{
			{Start: model.Point{X: 0, Y: 0}, End: model.Point{X: 10, Y: 0}},
		},
		BagCapacity: &v0,
	}
	g := NewGame(Config{DogRetirementTime: 60 * time.Second})
	if err := g.AddMap(m); err != nil {
		t.Fatalf("AddMap: %v", err)
	}
	p, err := g.Join("alice", "retire-map")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}

	retired := g.Think(60001 * time.Millisecond)
	found := false
	for _, tok := range retired {
		if tok == p.Token {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected player to be retired after 60001ms stopped, got %v", retired)
	}

	rec, ok := g.Retire(p.Token)
	if !ok {
		t.Fatal("expected Retire to succeed")
	}
	if rec.UserName != "alice" {
		t.Fatalf("unexpected retired record: %+v", rec)
	}
	if g.Registry.ByToken(p.Token) != nil {
		t.Fatal("expected player to be evicted from registry after retirement")
	}
}

func TestGame_LootCap(t *testing.T) {
	v1 := 1.0
	m := &model.Map{
		ID: "cap-map",
		Roads: []model.Road{
			{Start: model.Point{X: 0, Y: 0}, End: model.Point{X: 10, Y: 0}},
		},
		LootTypes: []model.LootType{{Name: "x"}},
	}
	g := NewGame(Config{})
	g.LootGenConfig.BaseInterval = time.Second
	g.LootGenConfig.Probability = 1.0
	_ = v1
	if err := g.AddMap(m); err != nil {
		t.Fatalf("AddMap: %v", err)
	}
	if _, err := g.Join("a", "cap-map"); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if _, err := g.Join("b", "cap-map"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	g.Think(10 * time.Second)

	s := g.Sessions["cap-map"]
	if len(s.Loot) > 2 {
		t.Fatalf("expected live loot capped at looter count (2), got %d", len(s.Loot))
	}
}
