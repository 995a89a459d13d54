package compass

import "fmt"

// MaxStep is the largest meaningful rotation step. Rotating by 5, 6, or 7
// positions is equivalent to rotating by -3, -2, or -1, so larger steps add
// nothing; a step of 0 would degrade the cipher to plain substitution.
const MaxStep = Count / 2

// Sequencer produces the deterministic, infinite sequence of directions
// applied to successive letters of a message. A fresh Sequencer with the
// same parameters always reproduces the same sequence from the start.
//
// The direction for the n-th letter is start + n*step positions around the
// compass, clockwise for positive steps and widdershins for negative ones.
type Sequencer struct {
	current int
	step    int
}

// NewSequencer returns a sequencer starting at start and rotating by step
// positions after each letter, widdershins if requested. step must be
// between 1 and MaxStep.
func NewSequencer(start Direction, step int, widdershins bool) (*Sequencer, error) {
	if step < 1 || step > MaxStep {
		return nil, fmt.Errorf("rotation step must be between 1 and %d (got %d)", MaxStep, step)
	}
	signed := step
	if widdershins {
		signed = -step
	}
	return &Sequencer{current: int(start), step: signed}, nil
}

// Advance returns the direction for the next letter and rotates the compass.
func (s *Sequencer) Advance() Direction {
	d := Direction(s.current)
	s.current = ((s.current+s.step)%Count + Count) % Count
	return d
}

// Period returns the length of the repeating cycle: 8/gcd(step, 8).
// Steps 1 and 3 visit all eight directions, step 2 only four, and step 4
// alternates between the start direction and its opposite.
func (s *Sequencer) Period() int {
	step := s.step
	if step < 0 {
		step = -step
	}
	return Count / gcd(step, Count)
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
