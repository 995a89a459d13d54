// Package keyfile defines the canonical armored text form of a NESW cipher
// key. Canonical bytes are the unit of exchange and of fingerprinting: two
// correspondents hold the same key exactly when their canonical key bytes
// are identical.
//
// Render is the single producer of canonical bytes. Parse accepts only
// canonical bytes; Normalize additionally tolerates a UTF-8 BOM, CRLF line
// endings, and trailing newlines.
package keyfile

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/louisbranch/nesw/cipher"
)

const (
	Preamble  = "-----BEGIN NESW KEY-----"
	Postamble = "-----END NESW KEY-----"
)

// Keys allowed in a key file, in canonical (lexicographic) order.
// Keyword is omitted when empty; the rest are required.
var fieldOrder = []string{"Direction", "Keyword", "Replacement", "Rotation", "Step"}

// Render produces the canonical key file bytes for a configuration.
// The output carries no trailing newline.
func Render(cfg cipher.Config) ([]byte, error) {
	pairs := map[string]string{
		"Direction":   cfg.Start.String(),
		"Replacement": cfg.Replacement(),
		"Rotation":    cfg.Rotation(),
		"Step":        strconv.Itoa(cfg.Step),
	}
	if cfg.Keyword != "" {
		pairs["Keyword"] = cfg.Keyword
	}

	var sb strings.Builder
	sb.WriteString(Preamble)
	sb.WriteString("\n")
	for _, k := range fieldOrder {
		v, ok := pairs[k]
		if !ok {
			continue
		}
		if v == "" || strings.ContainsAny(v, "\r\n") || strings.HasSuffix(v, " ") {
			return nil, fmt.Errorf("invalid %s value %q", k, v)
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v)
		sb.WriteString("\n")
	}
	sb.WriteString(Postamble)
	return []byte(sb.String()), nil
}

// Parse reads a canonical key file and returns its validated configuration.
// Non-canonical inputs are rejected; use Normalize for tolerant reading.
func Parse(data []byte) (cipher.Config, error) {
	if err := checkCanonicalBytes(data); err != nil {
		return cipher.Config{}, err
	}
	pairs, err := parsePairs(data)
	if err != nil {
		return cipher.Config{}, err
	}
	cfg, err := configFromPairs(pairs)
	if err != nil {
		return cipher.Config{}, err
	}
	// Canonical byte identity: re-render and compare, so any accepted input
	// has exactly one byte form.
	canonical, err := Render(cfg)
	if err != nil {
		return cipher.Config{}, err
	}
	if !bytes.Equal(data, canonical) {
		return cipher.Config{}, errors.New("non-canonical key file")
	}
	return cfg, nil
}

// Normalize reads a key file, tolerating a UTF-8 BOM, CRLF line endings, and
// trailing newlines, and returns its canonical bytes.
func Normalize(data []byte) ([]byte, error) {
	b := data
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		b = b[3:]
	}
	if bytes.Contains(b, []byte("\r")) {
		b = bytes.ReplaceAll(b, []byte("\r\n"), []byte("\n"))
		if bytes.Contains(b, []byte("\r")) {
			return nil, errors.New("CR line endings not allowed")
		}
	}
	for len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	cfg, err := Parse(b)
	if err != nil {
		return nil, err
	}
	return Render(cfg)
}

func checkCanonicalBytes(data []byte) error {
	if !utf8.Valid(data) {
		return errors.New("key file must be valid UTF-8")
	}
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return errors.New("BOM not allowed")
	}
	if bytes.Contains(data, []byte("\r")) {
		return errors.New("CR line endings not allowed")
	}
	if len(data) > 0 && data[len(data)-1] == '\n' {
		return errors.New("trailing newline not allowed")
	}
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(line) > 0 && (line[len(line)-1] == ' ' || line[len(line)-1] == '\t') {
			return errors.New("trailing whitespace forbidden")
		}
	}
	if !bytes.HasPrefix(data, []byte(Preamble+"\n")) {
		return errors.New("missing key file preamble")
	}
	if !bytes.HasSuffix(data, []byte("\n"+Postamble)) {
		return errors.New("missing key file postamble")
	}
	return nil
}

func parsePairs(data []byte) (map[string]string, error) {
	known := make(map[string]bool, len(fieldOrder))
	for _, k := range fieldOrder {
		known[k] = true
	}

	pairs := make(map[string]string)
	var keyOrder []string
	lines := strings.Split(string(data), "\n")
	for _, line := range lines[1 : len(lines)-1] {
		if line == "" {
			return nil, errors.New("blank line not allowed")
		}
		kv := strings.SplitN(line, ": ", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid key-value line %q", line)
		}
		key, val := kv[0], kv[1]
		if !known[key] {
			return nil, fmt.Errorf("unknown key %q", key)
		}
		if _, dup := pairs[key]; dup {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		if strings.HasPrefix(val, " ") {
			return nil, errors.New("value must not start with a space")
		}
		pairs[key] = val
		keyOrder = append(keyOrder, key)
	}

	sorted := append([]string(nil), keyOrder...)
	sort.Strings(sorted)
	for i := range sorted {
		if sorted[i] != keyOrder[i] {
			return nil, errors.New("keys not sorted lexicographically")
		}
	}
	return pairs, nil
}

func configFromPairs(pairs map[string]string) (cipher.Config, error) {
	for _, k := range []string{"Direction", "Replacement", "Rotation", "Step"} {
		if pairs[k] == "" {
			return cipher.Config{}, fmt.Errorf("missing required key %q", k)
		}
	}
	step, err := strconv.Atoi(pairs["Step"])
	if err != nil {
		return cipher.Config{}, fmt.Errorf("invalid Step %q", pairs["Step"])
	}
	var widdershins bool
	switch pairs["Rotation"] {
	case "clockwise":
	case "widdershins":
		widdershins = true
	default:
		return cipher.Config{}, fmt.Errorf("invalid Rotation %q", pairs["Rotation"])
	}
	return cipher.ParseConfig(pairs["Keyword"], pairs["Replacement"], pairs["Direction"], step, widdershins)
}
