package engine

import (
	"math/rand"
	"sort"
	"time"

	"github.com/kanelabs/dogrun-engine/internal/collision"
	"github.com/kanelabs/dogrun-engine/internal/lootgen"
	"github.com/kanelabs/dogrun-engine/pkg/model"
)

// GameSession is the per-map instantiation of the simulation: it owns
// every dog currently on that map and the map's live loot instances, and
// runs the four-step per-tick procedure described in the design (loot
// generation, pickup pass, deposit pass, compaction).
type GameSession struct {
	MapID     string
	Map       *model.Map
	Dogs      map[int64]*Dog
	Loot      map[int64]*model.LootInstance
	generator *lootgen.Generator
	rng       *rand.Rand
}

// NewGameSession creates an empty session for the given map. seed is
// this session's own PRNG seed, sessions never share a random source,
// per the design note against global PRNG state.
func NewGameSession(m *model.Map, genCfg lootgen.Config, seed int64) *GameSession {
	rng := rand.New(rand.NewSource(seed))
	return &GameSession{
		MapID:     m.ID,
		Map:       m,
		Dogs:      make(map[int64]*Dog),
		Loot:      make(map[int64]*model.LootInstance),
		generator: lootgen.New(genCfg, rng.Float64),
		rng:       rng,
	}
}

// AddDog inserts a dog, owned exclusively by this session from now on.
func (s *GameSession) AddDog(d *Dog) {
	s.Dogs[d.ID] = d
}

// RemoveDog evicts a dog, e.g. once its owning player has retired.
func (s *GameSession) RemoveDog(id int64) {
	delete(s.Dogs, id)
}

// lootProvider adapts the session's live loot + dogs to the collision
// detector's Provider interface for the pickup pass.
type lootProvider struct {
	loot []*model.LootInstance
	dogs []*Dog
}

func (p *lootProvider) ItemsCount() int { return len(p.loot) }
func (p *lootProvider) Item(i int) collision.Item {
	return collision.Item{Position: p.loot[i].Position, Width: 0}
}
func (p *lootProvider) GatherersCount() int { return len(p.dogs) }
func (p *lootProvider) Gatherer(j int) collision.Gatherer {
	d := p.dogs[j]
	return collision.Gatherer{Start: d.MotionStart(), End: d.Position, Width: gatherRadius}
}

// officeProvider adapts the session's offices + dogs for the deposit
// pass.
type officeProvider struct {
	offices []model.Office
	dogs    []*Dog
}

func (p *officeProvider) ItemsCount() int { return len(p.offices) }
func (p *officeProvider) Item(i int) collision.Item {
	return collision.Item{Position: p.offices[i].PosVec(), Width: officeRadius}
}
func (p *officeProvider) GatherersCount() int { return len(p.dogs) }
func (p *officeProvider) Gatherer(j int) collision.Gatherer {
	d := p.dogs[j]
	return collision.Gatherer{Start: d.MotionStart(), End: d.Position, Width: gatherRadius}
}

// orderedDogs returns the session's dogs sorted by id so collision
// events (indexed by gatherer slot) map back to the same dog within one
// call to Tick.
func (s *GameSession) orderedDogs() []*Dog {
	dogs := make([]*Dog, 0, len(s.Dogs))
	for _, d := range s.Dogs {
		dogs = append(dogs, d)
	}
	sort.Slice(dogs, func(i, j int) bool { return dogs[i].ID < dogs[j].ID })
	return dogs
}

func (s *GameSession) orderedLoot() []*model.LootInstance {
	loot := make([]*model.LootInstance, 0, len(s.Loot))
	for _, l := range s.Loot {
		loot = append(loot, l)
	}
	sort.Slice(loot, func(i, j int) bool { return loot[i].ID < loot[j].ID })
	return loot
}

// Tick runs this session's per-tick procedure: spawn loot, resolve
// pickups, resolve deposits (only for dogs that actually appear as
// gatherers in this tick's office events), then compact the live loot
// list. bagCapacity is the effective bag capacity already resolved by
// the caller (map override, else game default, else 3); allocLootID
// mints the next monotonic loot id, shared across all sessions of the
// owning Game.
func (s *GameSession) Tick(elapsed time.Duration, bagCapacity int, allocLootID func() int64) {
	dogs := s.orderedDogs()

	s.spawnLoot(elapsed, len(dogs), allocLootID)

	loot := s.orderedLoot()
	pickupEvents := collision.FindGatherEvents(&lootProvider{loot: loot, dogs: dogs})
	for _, ev := range pickupEvents {
		dogs[ev.GathererID].Gather(loot[ev.ItemID], bagCapacity)
	}

	depositEvents := collision.FindGatherEvents(&officeProvider{offices: s.Map.Offices, dogs: dogs})
	depositedDogs := make(map[int]bool, len(depositEvents))
	for _, ev := range depositEvents {
		if depositedDogs[ev.GathererID] {
			continue
		}
		depositedDogs[ev.GathererID] = true
		dogs[ev.GathererID].Deposit(s.Map.LootTypes)
	}

	for id, item := range s.Loot {
		if item.Gathered {
			delete(s.Loot, id)
		}
	}
}

func (s *GameSession) spawnLoot(elapsed time.Duration, dogCount int, allocLootID func() int64) {
	n := s.generator.Generate(elapsed, len(s.Loot), dogCount)
	for i := 0; i < n; i++ {
		if len(s.Map.LootTypes) == 0 || len(s.Map.Roads) == 0 {
			break
		}
		typeIdx := s.rng.Intn(len(s.Map.LootTypes))
		pos := s.Map.RandomPositionOnRoad(s.rng)
		id := allocLootID()
		s.Loot[id] = &model.LootInstance{ID: id, TypeIdx: typeIdx, Position: pos}
	}
}
