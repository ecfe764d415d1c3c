// Package engine implements the simulation core: dogs, sessions, the
// player/token registry, and the top-level Game that ties them together
// and drives ticks. The domain is split into small, arena-keyed,
// mutex-guarded managers rather than one monolithic type.
package engine

import (
	"time"

	"github.com/kanelabs/dogrun-engine/pkg/model"
)

// gatherRadius and officeRadius are the fixed collection widths used by
// the collision detector: a dog's own width when sweeping for loot, and
// an office tile's width when sweeping for deposits.
const (
	gatherRadius = 0.6
	officeRadius = 0.5
	stopEpsilon  = 1e-10
)

// Direction codes accepted by Dog.SetDirection.
const (
	DirLeft  = "L"
	DirRight = "R"
	DirUp    = "U"
	DirDown  = "D"
	DirStop  = ""
)

// Dog is a player's avatar within one GameSession.
type Dog struct {
	ID               int64
	Position         model.Vec2
	PreviousPosition *model.Vec2
	Velocity         model.Vec2
	Direction        string
	Bag              []*model.LootInstance
	Score            int
	CreatedAt        time.Time
}

// NewDog creates a dog at the given starting position, facing down (the
// default orientation for a freshly spawned avatar).
func NewDog(id int64, start model.Vec2, now time.Time) *Dog {
	return &Dog{
		ID:        id,
		Position:  start,
		Direction: DirDown,
		CreatedAt: now,
	}
}

// directionVelocity maps a direction code and speed to a velocity
// vector. An empty code always yields zero velocity.
func directionVelocity(code string, speed float64) model.Vec2 {
	switch code {
	case DirLeft:
		return model.Vec2{X: -speed, Y: 0}
	case DirRight:
		return model.Vec2{X: speed, Y: 0}
	case DirUp:
		return model.Vec2{X: 0, Y: -speed}
	case DirDown:
		return model.Vec2{X: 0, Y: speed}
	default:
		return model.Vec2{}
	}
}

// SetDirection sets the dog's velocity from a direction code and speed.
// An empty code stops the dog but leaves Direction facing unchanged, so
// a stopped dog still renders facing the way it was moving.
func (d *Dog) SetDirection(code string, speed float64) {
	d.Velocity = directionVelocity(code, speed)
	if code != DirStop {
		d.Direction = code
	}
}

// SetPosition is the only source of PreviousPosition: it records the
// prior position before overwriting it, which is what lets the
// collision detector sweep a dog's motion across one tick.
func (d *Dog) SetPosition(p model.Vec2) {
	prev := d.Position
	d.PreviousPosition = &prev
	d.Position = p
}

// MotionStart returns the position the dog's current-tick sweep should
// start from: its previous position if one was recorded, else its
// current position (a zero-length sweep).
func (d *Dog) MotionStart() model.Vec2 {
	if d.PreviousPosition != nil {
		return *d.PreviousPosition
	}
	return d.Position
}

// IsStopped reports whether the dog's velocity magnitude is
// (approximately) zero.
func (d *Dog) IsStopped() bool {
	return d.Velocity.SqLen() < stopEpsilon
}

// Gather attempts to add item to the dog's bag. It fails silently (and
// returns false) if the item was already gathered by someone else this
// tick, or if the bag is already at capacity.
func (d *Dog) Gather(item *model.LootInstance, bagCapacity int) bool {
	if item.Gathered || len(d.Bag) >= bagCapacity {
		return false
	}
	item.Gathered = true
	d.Bag = append(d.Bag, item)
	return true
}

// Deposit credits the dog's score for every item in its bag using the
// map's loot type values, then empties the bag. Safe to call on an
// empty bag.
func (d *Dog) Deposit(lootTypes []model.LootType) {
	for _, item := range d.Bag {
		if item.TypeIdx >= 0 && item.TypeIdx < len(lootTypes) {
			d.Score += lootTypes[item.TypeIdx].ValueOrZero()
		}
	}
	d.Bag = d.Bag[:0]
}
