// Package model holds the wire-level and geometric value types shared by
// the config loader, the simulation engine, and the HTTP layer, the
// single definition of what a Road, Office, or LootType looks like.
package model

import "math"

// roadHalfWidth is the inflation applied to a road segment on every side
// when computing its bounds for containment and clamping.
const roadHalfWidth = 0.4

// Point is an integer lattice coordinate, used for road endpoints,
// building corners, and office tiles.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is an integer width/height pair.
type Size struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// Offset is an integer displacement, used for office rendering offsets.
type Offset struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

// Vec2 is a continuous-coordinate position or velocity.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// SqDist returns the squared Euclidean distance between v and other.
func (v Vec2) SqDist(other Vec2) float64 {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

// SqLen returns the squared length of v.
func (v Vec2) SqLen() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Equal reports whether v and other are within float epsilon of each other.
func (v Vec2) Equal(other Vec2) bool {
	const eps = 1e-9
	return math.Abs(v.X-other.X) < eps && math.Abs(v.Y-other.Y) < eps
}

// Rectangle is an axis-aligned bounding box in continuous coordinates,
// inclusive of its boundary.
type Rectangle struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Contains reports whether p lies within the rectangle, inclusive.
func (r Rectangle) Contains(p Vec2) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Clamp returns p with each component clamped into the rectangle.
func (r Rectangle) Clamp(p Vec2) Vec2 {
	x := p.X
	if x < r.MinX {
		x = r.MinX
	} else if x > r.MaxX {
		x = r.MaxX
	}
	y := p.Y
	if y < r.MinY {
		y = r.MinY
	} else if y > r.MaxY {
		y = r.MaxY
	}
	return Vec2{X: x, Y: y}
}
