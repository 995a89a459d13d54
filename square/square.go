// Package square builds the 5x5 key square of the NESW cipher: the 26-letter
// alphabet with one letter omitted, optionally reordered by a keyword in the
// Playfair manner, laid out row-major with exact letter/coordinate lookup in
// both directions.
package square

import (
	"fmt"
	"strings"
)

const (
	// Rows and Cols are the key square dimensions.
	Rows = 5
	Cols = 5
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// Coord is a (row, column) position on the key square.
type Coord struct {
	Row int
	Col int
}

// KeySquare is an immutable 5x5 grid holding each of the 25 permitted
// lowercase letters exactly once.
type KeySquare struct {
	cells [Rows][Cols]byte
	pos   [26]int8 // letter index -> row-major cell index, -1 if absent
}

// Build lays out the key square for a keyword and omit/replace pair.
//
// The keyword is lowercased and pre-normalized (occurrences of omit become
// replace), then its letters are taken in first-occurrence order, followed by
// the rest of the alphabet in natural order, skipping the omitted letter.
//
// keyword must contain only Latin letters; omit and replace must be two
// distinct lowercase letters.
func Build(keyword string, omit, replace byte) (*KeySquare, error) {
	if omit == replace || !isLower(omit) || !isLower(replace) {
		return nil, fmt.Errorf("omit/replace pair must be two distinct letters (got %q, %q)", omit, replace)
	}
	keyword = strings.ToLower(keyword)
	for i := 0; i < len(keyword); i++ {
		if !isLower(keyword[i]) {
			return nil, fmt.Errorf("keyword must contain only letters (got %q)", keyword[i])
		}
	}

	var order []byte
	seen := [26]bool{}
	take := func(c byte) {
		if c == omit {
			c = replace
		}
		if !seen[c-'a'] {
			seen[c-'a'] = true
			order = append(order, c)
		}
	}
	for i := 0; i < len(keyword); i++ {
		take(keyword[i])
	}
	for i := 0; i < len(alphabet); i++ {
		take(alphabet[i])
	}

	// Guards against changes to the alphabet or grid dimensions; unreachable
	// with the 26-letter Latin alphabet and a valid pair.
	if len(order) != Rows*Cols {
		return nil, fmt.Errorf("alphabet has %d letters, key square needs %d", len(order), Rows*Cols)
	}

	sq := &KeySquare{}
	for i := range sq.pos {
		sq.pos[i] = -1
	}
	for i, c := range order {
		sq.cells[i/Cols][i%Cols] = c
		sq.pos[c-'a'] = int8(i)
	}
	return sq, nil
}

// At returns the letter at (row, col). Row and column are taken modulo the
// grid size, so stepping off an edge wraps around.
func (sq *KeySquare) At(row, col int) byte {
	return sq.cells[mod(row, Rows)][mod(col, Cols)]
}

// Find returns the coordinates of a lowercase letter, or false if the letter
// is not on the square (the omitted letter, or not a letter at all).
func (sq *KeySquare) Find(letter byte) (Coord, bool) {
	if !isLower(letter) {
		return Coord{}, false
	}
	i := sq.pos[letter-'a']
	if i < 0 {
		return Coord{}, false
	}
	return Coord{Row: int(i) / Cols, Col: int(i) % Cols}, true
}

// Contains reports whether a lowercase letter appears on the square.
func (sq *KeySquare) Contains(letter byte) bool {
	_, ok := sq.Find(letter)
	return ok
}

// Letters returns the 25-letter permutation in row-major order.
func (sq *KeySquare) Letters() string {
	var sb strings.Builder
	for row := 0; row < Rows; row++ {
		sb.Write(sq.cells[row][:])
	}
	return sb.String()
}

// String renders the grid one row per line, letters separated by spaces.
func (sq *KeySquare) String() string {
	var sb strings.Builder
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteByte(sq.cells[row][col])
		}
		if row < Rows-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}

func mod(v, n int) int {
	return ((v % n) + n) % n
}
