// Package collision implements the swept circle-vs-point intersection
// test shared by loot pickup and office deposit: a gatherer moves along
// a segment during one tick, and we ask which stationary items it swept
// close enough to collect. Callers implement an abstract Provider of
// gatherers and items; the package produces time-ordered events.
package collision

import (
	"sort"

	"github.com/kanelabs/dogrun-engine/pkg/model"
)

// Item is a stationary target: a loot instance or an office tile.
type Item struct {
	Position model.Vec2
	Width    float64
}

// Gatherer is a moving agent, a dog's position delta over one tick.
type Gatherer struct {
	Start model.Vec2
	End   model.Vec2
	Width float64
}

// Provider exposes the items and gatherers to test against each other
// for one tick, by index, so the detector never needs to know their
// concrete owning types.
type Provider interface {
	ItemsCount() int
	Item(i int) Item
	GatherersCount() int
	Gatherer(j int) Gatherer
}

// Event records that gatherer GathererID passed within collecting range
// of item ItemID at parametric Time along its motion.
type Event struct {
	ItemID     int
	GathererID int
	SqDistance float64
	Time       float64
}

// tryCollect parameterizes the gatherer's motion as p(t) = a + t*(b-a),
// t in [0,1], and returns the squared perpendicular distance from c to
// that line together with the projection ratio of c onto the segment.
func tryCollect(a, b, c model.Vec2) (sqDistance, projRatio float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	segLenSq := dx*dx + dy*dy

	if segLenSq == 0 {
		// Degenerate: stationary gatherer. Only the point itself matters.
		return c.SqDist(a), 0
	}

	cx, cy := c.X-a.X, c.Y-a.Y
	t := (cx*dx + cy*dy) / segLenSq

	projX, projY := a.X+t*dx, a.Y+t*dy
	ddx, ddy := c.X-projX, c.Y-projY
	return ddx*ddx + ddy*ddy, t
}

// FindGatherEvents tests every (item, gatherer) pair and returns the
// events where the gatherer's swept path came within their combined
// radius of the item while still within the segment (t in [0,1]),
// sorted by time ascending, ties broken by item id then gatherer id.
func FindGatherEvents(p Provider) []Event {
	var events []Event

	itemCount := p.ItemsCount()
	gathererCount := p.GatherersCount()

	for i := 0; i < itemCount; i++ {
		item := p.Item(i)
		for j := 0; j < gathererCount; j++ {
			g := p.Gatherer(j)

			sqDist, t := tryCollect(g.Start, g.End, item.Position)
			if g.Start == g.End {
				// Degenerate gatherer: only collect at t=0, combined radius test.
				radius := item.Width + g.Width
				if sqDist <= radius*radius {
					events = append(events, Event{ItemID: i, GathererID: j, SqDistance: sqDist, Time: 0})
				}
				continue
			}
			if t < 0 || t > 1 {
				continue
			}
			radius := item.Width + g.Width
			if sqDist > radius*radius {
				continue
			}
			events = append(events, Event{ItemID: i, GathererID: j, SqDistance: sqDist, Time: t})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Time != events[j].Time {
			return events[i].Time < events[j].Time
		}
		if events[i].ItemID != events[j].ItemID {
			return events[i].ItemID < events[j].ItemID
		}
		return events[i].GathererID < events[j].GathererID
	})

	return events
}
