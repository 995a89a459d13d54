// Package compass models the eight compass directions of the NESW cipher
// and the rotation sequence that selects a direction for each letter.
package compass

import (
	"fmt"
	"strings"
)

// Direction is one of the eight cardinal and ordinal compass directions,
// in clockwise order starting from north.
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// Count is the number of compass directions.
const Count = 8

var tokens = [Count]string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}

func (d Direction) String() string {
	if d < 0 || d >= Count {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return tokens[d]
}

// Parse resolves a direction token (n, ne, e, se, s, sw, w, nw),
// case-insensitively.
func Parse(token string) (Direction, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	for i, s := range tokens {
		if t == s {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q (choose one of %s)", token, strings.Join(tokens[:], ", "))
}

// Opposite returns the direction a half turn away: N<->S, NE<->SW, E<->W, SE<->NW.
//
// A message enciphered starting from d deciphers with the same square, step,
// and rotation sense starting from d.Opposite().
func (d Direction) Opposite() Direction {
	return (d + Count/2) % Count
}

// Cardinal reports whether d is one of the four cardinal directions.
func (d Direction) Cardinal() bool {
	return d%2 == 0
}

// Vector returns the unit displacement (row, column) for one move in
// direction d on the key square. Rows grow southward, columns eastward.
func (d Direction) Vector() (dr, dc int) {
	switch d {
	case North:
		return -1, 0
	case NorthEast:
		return -1, 1
	case East:
		return 0, 1
	case SouthEast:
		return 1, 1
	case South:
		return 1, 0
	case SouthWest:
		return 1, -1
	case West:
		return 0, -1
	case NorthWest:
		return -1, -1
	}
	return 0, 0
}
