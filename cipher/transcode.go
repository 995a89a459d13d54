package cipher

import (
	"strings"

	"github.com/louisbranch/nesw/compass"
	"github.com/louisbranch/nesw/square"
)

// Transcoder applies the NESW cipher to messages. It owns one key square and
// one direction sequencer, both scoped to a single Transform run; it is not
// safe for concurrent use.
type Transcoder struct {
	cfg Config
	sq  *square.KeySquare
}

// New builds a transcoder from a validated configuration.
func New(cfg Config) (*Transcoder, error) {
	sq, err := BuildSquare(cfg)
	if err != nil {
		return nil, err
	}
	if _, serr := NewSequencer(cfg); serr != nil {
		return nil, serr
	}
	return &Transcoder{cfg: cfg, sq: sq}, nil
}

// Square returns the transcoder's key square.
func (t *Transcoder) Square() *square.KeySquare {
	return t.sq
}

// Transform enciphers (or, with an inverted start direction, deciphers) a
// message. Each Latin letter is replaced by its compass neighbor on the key
// square, wrapping at the edges; the compass rotates once per letter. All
// other characters pass through unchanged and do not rotate the compass.
// Letter case is preserved.
func (t *Transcoder) Transform(message string) string {
	// New validated the config, so the sequencer cannot fail here.
	seq, _ := compass.NewSequencer(t.cfg.Start, t.cfg.Step, t.cfg.Widdershins)
	return transcode(message, t.sq, seq, t.cfg)
}

// Transform runs one message through an externally built square and
// sequencer. It fails only when square and config disagree (square built
// from a different alphabet than the config's pair); that is a programmer
// error, never a message-content error.
func Transform(message string, sq *square.KeySquare, seq *compass.Sequencer, cfg Config) (string, error) {
	if sq.Contains(cfg.Omit) || !sq.Contains(cfg.Replace) {
		return "", newError(KindInternal, "NESW-INTERNAL-002",
			"key square does not match the configured replacement pair")
	}
	return transcode(message, sq, seq, cfg), nil
}

// Encipher transforms plaintext into ciphertext under cfg.
func Encipher(message string, cfg Config) (string, error) {
	t, err := New(cfg)
	if err != nil {
		return "", err
	}
	return t.Transform(message), nil
}

// Decipher recovers plaintext from a message enciphered under cfg. It runs
// the identical transform with the start direction inverted.
func Decipher(message string, cfg Config) (string, error) {
	return Encipher(message, cfg.Inverted())
}

// transcode walks the message byte by byte. Cipher letters are plain ASCII,
// and UTF-8 continuation bytes never fall in the letter ranges, so every
// non-letter byte (multi-byte runes and malformed sequences included)
// passes through untouched.
func transcode(message string, sq *square.KeySquare, seq *compass.Sequencer, cfg Config) string {
	var sb strings.Builder
	sb.Grow(len(message))
	for i := 0; i < len(message); i++ {
		lower, upper := letterCase(message[i])
		if lower == 0 {
			sb.WriteByte(message[i])
			continue
		}
		c := lower
		if c == cfg.Omit {
			c = cfg.Replace
		}
		pos, ok := sq.Find(c)
		if !ok {
			// Unreachable for a square matching the pair; pass through
			// rather than fail mid-message.
			sb.WriteByte(message[i])
			continue
		}
		dr, dc := seq.Advance().Vector()
		out := sq.At(pos.Row+dr, pos.Col+dc)
		if upper {
			out -= 'a' - 'A'
		}
		sb.WriteByte(out)
	}
	return sb.String()
}

// letterCase returns the lowercase form of a Latin letter and whether the
// original was uppercase, or (0, false) for anything else.
func letterCase(b byte) (byte, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return b, false
	case b >= 'A' && b <= 'Z':
		return b + 'a' - 'A', true
	}
	return 0, false
}
