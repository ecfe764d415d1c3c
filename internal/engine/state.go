package engine

import "strconv"

// BagItemState is one item in a dog's bag, as it appears on the wire.
type BagItemState struct {
	ID   int64 `json:"id"`
	Type int   `json:"type"`
}

// DogState is one dog's externally visible state.
type DogState struct {
	Pos   [2]float64     `json:"pos"`
	Speed [2]float64     `json:"speed"`
	Dir   string         `json:"dir"`
	Bag   []BagItemState `json:"bag"`
	Score int            `json:"score"`
}

// LostObjectState is one live loot instance's externally visible state.
type LostObjectState struct {
	Type int        `json:"type"`
	Pos  [2]float64 `json:"pos"`
}

// SessionState is the full "game state" payload for one map.
type SessionState struct {
	Players     map[string]DogState        `json:"players"`
	LostObjects map[string]LostObjectState `json:"lostObjects"`
}

// State renders the session's current dogs and live loot into the wire
// shape. Map keys are decimal ids, so JSON marshaling, which sorts
// map[string]... keys lexicographically, gives a stable byte-for-byte
// output for any two sessions in the same state, which the determinism
// checker relies on.
func (s *GameSession) State() SessionState {
	players := make(map[string]DogState, len(s.Dogs))
	for id, d := range s.Dogs {
		bag := make([]BagItemState, len(d.Bag))
		for i, item := range d.Bag {
			bag[i] = BagItemState{ID: item.ID, Type: item.TypeIdx}
		}
		players[strconv.FormatInt(id, 10)] = DogState{
			Pos:   [2]float64{d.Position.X, d.Position.Y},
			Speed: [2]float64{d.Velocity.X, d.Velocity.Y},
			Dir:   d.Direction,
			Bag:   bag,
			Score: d.Score,
		}
	}

	lost := make(map[string]LostObjectState, len(s.Loot))
	for id, item := range s.Loot {
		lost[strconv.FormatInt(id, 10)] = LostObjectState{
			Type: item.TypeIdx,
			Pos:  [2]float64{item.Position.X, item.Position.Y},
		}
	}

	return SessionState{Players: players, LostObjects: lost}
}

// SessionState returns the state for one map's session, and whether
// that session currently exists.
func (g *Game) SessionState(mapID string) (SessionState, bool) {
	s, ok := g.Sessions[mapID]
	if !ok {
		return SessionState{}, false
	}
	return s.State(), true
}

// Snapshot renders every active session's state keyed by map id, for
// use by the determinism checker (internal/replay).
func (g *Game) Snapshot() map[string]SessionState {
	out := make(map[string]SessionState, len(g.Sessions))
	for mapID, s := range g.Sessions {
		out[mapID] = s.State()
	}
	return out
}
