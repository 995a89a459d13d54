package cipher

import (
	"fmt"
	"strings"

	"github.com/louisbranch/nesw/compass"
	"github.com/louisbranch/nesw/square"
)

// DefaultReplacement is the default omit/replace pair: J is dropped from the
// square and replaced with I in plaintext and keyword.
const DefaultReplacement = "ji"

// Config is a validated cipher configuration. Build one with ParseConfig;
// a Config obtained that way is immutable and safe to copy.
type Config struct {
	// Keyword reorders the alphabet before the square is built. Lowercase;
	// may be empty.
	Keyword string
	// Omit is the letter dropped from the square; Replace stands in for it.
	Omit    byte
	Replace byte
	// Start is the compass direction applied to the first letter.
	Start compass.Direction
	// Step is the number of compass positions rotated after each letter,
	// between 1 and compass.MaxStep.
	Step int
	// Widdershins rotates counterclockwise instead of clockwise.
	Widdershins bool
}

// ParseConfig validates raw option values and returns a typed configuration.
//
// replacement is a two-letter string: the omitted letter followed by its
// substitute. direction is one of the eight compass tokens, case-insensitive.
// Every violation is reported as a *Error with KindConfig.
func ParseConfig(keyword, replacement, direction string, step int, widdershins bool) (Config, error) {
	start, err := compass.Parse(direction)
	if err != nil {
		return Config{}, wrapError(KindConfig, "NESW-CFG-001", err.Error(), err)
	}
	if step < 1 || step > compass.MaxStep {
		return Config{}, newError(KindConfig, "NESW-CFG-002",
			fmt.Sprintf("step size must be between 1 and %d (got %d)", compass.MaxStep, step))
	}
	omit, replace, err := parseReplacement(replacement)
	if err != nil {
		return Config{}, wrapError(KindConfig, "NESW-CFG-003", err.Error(), err)
	}
	keyword = strings.ToLower(keyword)
	for i := 0; i < len(keyword); i++ {
		if keyword[i] < 'a' || keyword[i] > 'z' {
			return Config{}, newError(KindConfig, "NESW-CFG-004",
				fmt.Sprintf("keyword must contain only letters (got %q)", keyword[i]))
		}
	}
	return Config{
		Keyword:     keyword,
		Omit:        omit,
		Replace:     replace,
		Start:       start,
		Step:        step,
		Widdershins: widdershins,
	}, nil
}

func parseReplacement(replacement string) (omit, replace byte, err error) {
	r := strings.ToLower(replacement)
	if len(r) != 2 || r[0] == r[1] || !isLower(r[0]) || !isLower(r[1]) {
		return 0, 0, fmt.Errorf("replacement must be exactly two distinct letters (got %q)", replacement)
	}
	return r[0], r[1], nil
}

// Replacement returns the omit/replace pair as a two-letter string.
func (c Config) Replacement() string {
	return string([]byte{c.Omit, c.Replace})
}

// Rotation returns the rotation sense as a token: "clockwise" or "widdershins".
func (c Config) Rotation() string {
	if c.Widdershins {
		return "widdershins"
	}
	return "clockwise"
}

// Inverted returns the configuration that deciphers messages enciphered with
// c: identical in every respect except that the start direction is the
// compass opposite.
func (c Config) Inverted() Config {
	c.Start = c.Start.Opposite()
	return c
}

// BuildSquare builds the key square for a configuration.
func BuildSquare(c Config) (*square.KeySquare, error) {
	sq, err := square.Build(c.Keyword, c.Omit, c.Replace)
	if err != nil {
		// ParseConfig already vets keyword and pair; only the size guard
		// inside square.Build can trip here.
		return nil, wrapError(KindInternal, "NESW-INTERNAL-001", err.Error(), err)
	}
	return sq, nil
}

// NewSequencer builds the direction sequencer for a configuration.
func NewSequencer(c Config) (*compass.Sequencer, error) {
	seq, err := compass.NewSequencer(c.Start, c.Step, c.Widdershins)
	if err != nil {
		return nil, wrapError(KindConfig, "NESW-CFG-002", err.Error(), err)
	}
	return seq, nil
}

func isLower(c byte) bool {
	return c >= 'a' && c <= 'z'
}
