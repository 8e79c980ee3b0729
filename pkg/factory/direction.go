package factory

import "fmt"

// Direction is a cardinal facing in the game's 8-way encoding.
type Direction int

const (
	North Direction = 0
	East  Direction = 2
	South Direction = 4
	West  Direction = 6
)

// ParseDirection converts a blueprint direction value. A nil value means the
// entity faces north. Diagonal or unknown values are rejected.
func ParseDirection(v *int) (Direction, error) {
	if v == nil {
		return North, nil
	}
	switch d := Direction(*v); d {
	case North, East, South, West:
		return d, nil
	}
	return North, fmt.Errorf("unsupported direction %d", *v)
}

// Ahead returns the offset of the cell directly in front of something facing d.
func (d Direction) Ahead() Vec {
	switch d {
	case East:
		return Vec{1, 0}
	case South:
		return Vec{0, 1}
	case West:
		return Vec{-1, 0}
	default:
		return Vec{0, -1}
	}
}

// Opposes reports whether d and o face each other along the same axis.
func (d Direction) Opposes(o Direction) bool {
	switch d {
	case East:
		return o == West
	case West:
		return o == East
	case South:
		return o == North
	case North:
		return o == South
	}
	return false
}

func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Vec is an integer cell offset or coordinate.
type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns v+o.
func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

// Neg returns -v.
func (v Vec) Neg() Vec { return Vec{-v.X, -v.Y} }

// Scale returns v multiplied by k.
func (v Vec) Scale(k int) Vec { return Vec{v.X * k, v.Y * k} }
