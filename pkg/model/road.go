package model

import (
	"encoding/json"
	"fmt"
)

// Road is an axis-aligned segment from Start to End, either vertical
// (Start.X == End.X) or horizontal (Start.Y == End.Y), never both unless
// degenerate. Its bounds are the segment inflated by roadHalfWidth on
// every side.
//
// On the wire a road is flattened to {x0,y0,x1} for a horizontal road or
// {x0,y0,y1} for a vertical one, never a nested start/end pair, so
// MarshalJSON/UnmarshalJSON translate between that shape and the struct.
type Road struct {
	Start Point
	End   Point
}

type roadWire struct {
	X0 int  `json:"x0"`
	Y0 int  `json:"y0"`
	X1 *int `json:"x1,omitempty"`
	Y1 *int `json:"y1,omitempty"`
}

// MarshalJSON emits the flattened {x0,y0,x1}/{x0,y0,y1} wire shape.
func (r Road) MarshalJSON() ([]byte, error) {
	w := roadWire{X0: r.Start.X, Y0: r.Start.Y}
	if r.IsVertical() {
		y1 := r.End.Y
		w.Y1 = &y1
	} else {
		x1 := r.End.X
		w.X1 = &x1
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the flattened wire shape, inferring orientation
// from whether x1 or y1 is present.
func (r *Road) UnmarshalJSON(data []byte) error {
	var w roadWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Start = Point{X: w.X0, Y: w.Y0}
	switch {
	case w.X1 != nil:
		r.End = Point{X: *w.X1, Y: w.Y0}
	case w.Y1 != nil:
		r.End = Point{X: w.X0, Y: *w.Y1}
	default:
		return fmt.Errorf("road must carry exactly one of x1 or y1")
	}
	return nil
}

// IsVertical reports whether the road runs along the Y axis.
func (r Road) IsVertical() bool {
	return r.Start.X == r.End.X
}

// IsHorizontal reports whether the road runs along the X axis.
func (r Road) IsHorizontal() bool {
	return r.Start.Y == r.End.Y
}

// Validate checks the road is exactly one of vertical or horizontal.
func (r Road) Validate() error {
	v, h := r.IsVertical(), r.IsHorizontal()
	if v == h {
		return fmt.Errorf("road from (%d,%d) to (%d,%d) must be axis-aligned (vertical xor horizontal)",
			r.Start.X, r.Start.Y, r.End.X, r.End.Y)
	}
	return nil
}

// Bounds returns the road's collision/containment rectangle: the segment
// inflated by roadHalfWidth on every side.
func (r Road) Bounds() Rectangle {
	minX, maxX := float64(r.Start.X), float64(r.End.X)
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY := float64(r.Start.Y), float64(r.End.Y)
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	return Rectangle{
		MinX: minX - roadHalfWidth, MinY: minY - roadHalfWidth,
		MaxX: maxX + roadHalfWidth, MaxY: maxY + roadHalfWidth,
	}
}

// Contains reports whether p lies within the road's bounds (inclusive).
func (r Road) Contains(p Vec2) bool {
	return r.Bounds().Contains(p)
}

// Clamp returns p clamped componentwise into the road's bounds.
func (r Road) Clamp(p Vec2) Vec2 {
	return r.Bounds().Clamp(p)
}

// StartVec returns the road's start point as a continuous vector.
func (r Road) StartVec() Vec2 {
	return Vec2{X: float64(r.Start.X), Y: float64(r.Start.Y)}
}

// Building is a rectangular obstacle on a map. Purely decorative and
// static: it plays no role in movement or collision, rendered geometry
// only. On the wire it is flattened to {x,y,w,h}.
type Building struct {
	Pos  Point
	Size Size
}

type buildingWire struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

func (b Building) MarshalJSON() ([]byte, error) {
	return json.Marshal(buildingWire{X: b.Pos.X, Y: b.Pos.Y, W: b.Size.Width, H: b.Size.Height})
}

func (b *Building) UnmarshalJSON(data []byte) error {
	var w buildingWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	b.Pos = Point{X: w.X, Y: w.Y}
	b.Size = Size{Width: w.W, Height: w.H}
	return nil
}

// Office is a named deposit tile on a map. On the wire it is flattened
// to {id,x,y,offsetX,offsetY}.
type Office struct {
	ID     string
	Pos    Point
	Offset Offset
}

type officeWire struct {
	ID      string `json:"id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	OffsetX int    `json:"offsetX"`
	OffsetY int    `json:"offsetY"`
}

func (o Office) MarshalJSON() ([]byte, error) {
	return json.Marshal(officeWire{ID: o.ID, X: o.Pos.X, Y: o.Pos.Y, OffsetX: o.Offset.DX, OffsetY: o.Offset.DY})
}

func (o *Office) UnmarshalJSON(data []byte) error {
	var w officeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	o.ID = w.ID
	o.Pos = Point{X: w.X, Y: w.Y}
	o.Offset = Offset{DX: w.OffsetX, DY: w.OffsetY}
	return nil
}

// PosVec returns the office's position as a continuous vector.
func (o Office) PosVec() Vec2 {
	return Vec2{X: float64(o.Pos.X), Y: float64(o.Pos.Y)}
}
