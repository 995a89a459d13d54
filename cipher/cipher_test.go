package cipher

import (
	"testing"

	"github.com/louisbranch/nesw/compass"
)

func mustConfig(t *testing.T, keyword, replacement, direction string, step int, widdershins bool) Config {
	t.Helper()
	cfg, err := ParseConfig(keyword, replacement, direction, step, widdershins)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	return cfg
}

func TestEncipher_ReferenceVectors(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		in   string
		want string
	}{
		{
			name: "default",
			cfg:  mustConfig(t, "", "ji", "n", 2, false),
			in:   "lorem ipsum dolor sit amet",
			want: "fpwdg kurpn infpw rdu flzu",
		},
		{
			name: "keyword northeast",
			cfg:  mustConfig(t, "northeast", "ji", "n", 2, false),
			in:   "lorem ipsum dolor sit amet",
			want: "drscf kxakp lndrs abh flnh",
		},
		{
			name: "east widdershins",
			cfg:  mustConfig(t, "", "ji", "e", 2, true),
			in:   "the quick brown fox jumps over the lazy dog",
			want: "ucd vqdbp cmnbo anc kplut izks ogk mvyd eif",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Encipher(c.in, c.cfg)
			if err != nil {
				t.Fatalf("Encipher: %v", err)
			}
			if got != c.want {
				t.Fatalf("Encipher(%q) = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

func TestDecipher_ReferenceVector(t *testing.T) {
	cfg := mustConfig(t, "", "ji", "s", 2, false)
	got, err := Encipher("fpwdg kurpn infpw rdu flzu", cfg)
	if err != nil {
		t.Fatalf("Encipher: %v", err)
	}
	if got != "lorem ipsum dolor sit amet" {
		t.Fatalf("decipher with opposite start = %q", got)
	}
}

func TestTransform_CasePreserved(t *testing.T) {
	cfg := mustConfig(t, "", "ji", "n", 2, false)
	got, err := Encipher("Lorem IPSUM dOlOr", cfg)
	if err != nil {
		t.Fatalf("Encipher: %v", err)
	}
	if got != "Fpwdg KURPN iNfPw" {
		t.Fatalf("Encipher = %q, want %q", got, "Fpwdg KURPN iNfPw")
	}
}

func TestTransform_NonLettersPassThrough(t *testing.T) {
	cfg := mustConfig(t, "", "ji", "n", 2, false)
	in := "12 :-) \tnaïve\n"
	got, err := Encipher(in, cfg)
	if err != nil {
		t.Fatalf("Encipher: %v", err)
	}
	// Non-letters (including the non-Latin ï) keep their positions; only the
	// Latin letters change.
	wantShape := []struct {
		index int
		char  byte
	}{
		{0, '1'}, {1, '2'}, {2, ' '}, {3, ':'}, {4, '-'}, {5, ')'}, {6, ' '}, {7, '\t'},
	}
	for _, s := range wantShape {
		if got[s.index] != s.char {
			t.Fatalf("position %d = %q, want %q", s.index, got[s.index], s.char)
		}
	}
	if got[len(got)-1] != '\n' {
		t.Fatalf("trailing newline not preserved: %q", got)
	}
	if len([]rune(got)) != len([]rune(in)) {
		t.Fatalf("rune length changed: %d != %d", len([]rune(got)), len([]rune(in)))
	}
}

func TestTransform_NonLettersDoNotRotate(t *testing.T) {
	cfg := mustConfig(t, "", "ji", "n", 2, false)
	// "lo" and "l o" must encipher the letters identically: the space does
	// not consume a compass direction.
	withSpace, err := Encipher("l o", cfg)
	if err != nil {
		t.Fatalf("Encipher: %v", err)
	}
	without, err := Encipher("lo", cfg)
	if err != nil {
		t.Fatalf("Encipher: %v", err)
	}
	if withSpace != without[:1]+" "+without[1:] {
		t.Fatalf("space advanced the sequencer: %q vs %q", withSpace, without)
	}
}

func TestTransform_OmittedLetterNormalized(t *testing.T) {
	cfg := mustConfig(t, "", "ji", "e", 2, true)
	// The reference vector: "j" in "jumps" enciphers as "i" would.
	gotJ, err := Encipher("jumps", cfg)
	if err != nil {
		t.Fatalf("Encipher: %v", err)
	}
	gotI, err := Encipher("iumps", cfg)
	if err != nil {
		t.Fatalf("Encipher: %v", err)
	}
	if gotJ != gotI {
		t.Fatalf("Encipher(jumps) = %q, Encipher(iumps) = %q", gotJ, gotI)
	}
}

func TestTransform_SquareMismatch(t *testing.T) {
	cfg := mustConfig(t, "", "ji", "n", 2, false)
	other := mustConfig(t, "", "vu", "n", 2, false)
	sq, err := BuildSquare(other)
	if err != nil {
		t.Fatalf("BuildSquare: %v", err)
	}
	seq, err := NewSequencer(cfg)
	if err != nil {
		t.Fatalf("NewSequencer: %v", err)
	}
	if _, err := Transform("abc", sq, seq, cfg); err == nil {
		t.Fatal("expected mismatch error")
	} else if !IsKind(err, KindInternal) {
		t.Fatalf("expected KindInternal, got %v", err)
	}
}

func TestParseConfig_Validation(t *testing.T) {
	cases := []struct {
		name        string
		keyword     string
		replacement string
		direction   string
		step        int
		wantRule    string
	}{
		{"bad direction", "", "ji", "north", 2, "NESW-CFG-001"},
		{"step zero", "", "ji", "n", 0, "NESW-CFG-002"},
		{"step five", "", "ji", "n", 5, "NESW-CFG-002"},
		{"pair too long", "", "jih", "n", 2, "NESW-CFG-003"},
		{"pair same letter", "", "jj", "n", 2, "NESW-CFG-003"},
		{"pair non-letter", "", "j1", "n", 2, "NESW-CFG-003"},
		{"keyword digits", "k3y", "ji", "n", 2, "NESW-CFG-004"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseConfig(c.keyword, c.replacement, c.direction, c.step, false)
			if err == nil {
				t.Fatal("expected error")
			}
			if !IsKind(err, KindConfig) {
				t.Fatalf("expected KindConfig, got %v", err)
			}
			if got := RuleID(err); got != c.wantRule {
				t.Fatalf("RuleID = %s, want %s", got, c.wantRule)
			}
		})
	}
}

func TestParseConfig_Normalizes(t *testing.T) {
	cfg, err := ParseConfig("NorthEast", "JI", "NE", 3, true)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Keyword != "northeast" {
		t.Fatalf("Keyword = %q", cfg.Keyword)
	}
	if cfg.Replacement() != "ji" {
		t.Fatalf("Replacement() = %q", cfg.Replacement())
	}
	if cfg.Start != compass.NorthEast {
		t.Fatalf("Start = %v", cfg.Start)
	}
	if cfg.Rotation() != "widdershins" {
		t.Fatalf("Rotation() = %q", cfg.Rotation())
	}
}

func TestInverted(t *testing.T) {
	cfg := mustConfig(t, "key", "vu", "se", 3, true)
	inv := cfg.Inverted()
	if inv.Start != compass.NorthWest {
		t.Fatalf("Inverted().Start = %v, want nw", inv.Start)
	}
	inv.Start = cfg.Start
	if inv != cfg {
		t.Fatal("Inverted() changed more than the start direction")
	}
}
