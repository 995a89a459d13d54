package cipher

import (
	"strings"
	"testing"
)

// normalize applies the plaintext normalization the cipher performs before
// lookup: every occurrence of the omitted letter becomes the replacement
// letter, case preserved. Round-tripping recovers this form, not the raw
// input.
func normalize(msg string, cfg Config) string {
	var sb strings.Builder
	for _, r := range msg {
		switch {
		case r == rune(cfg.Omit):
			sb.WriteByte(cfg.Replace)
		case r == rune(cfg.Omit-'a'+'A'):
			sb.WriteByte(cfg.Replace - 'a' + 'A')
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func TestRoundTrip_AllConfigurations(t *testing.T) {
	messages := []string{
		"lorem ipsum dolor sit amet",
		"The Quick Brown Fox Jumps Over The Lazy Dog!",
		"attack at dawn -- 05:00, map square J7",
		"",
		"   \n\t1234567890",
	}
	directions := []string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}
	for _, keyword := range []string{"", "northeast", "playfair"} {
		for _, replacement := range []string{"ji", "vu"} {
			for _, direction := range directions {
				for step := 1; step <= 4; step++ {
					for _, widdershins := range []bool{false, true} {
						cfg := mustConfig(t, keyword, replacement, direction, step, widdershins)
						for _, msg := range messages {
							enc, err := Encipher(msg, cfg)
							if err != nil {
								t.Fatalf("Encipher: %v", err)
							}
							dec, err := Decipher(enc, cfg)
							if err != nil {
								t.Fatalf("Decipher: %v", err)
							}
							if want := normalize(msg, cfg); dec != want {
								t.Fatalf("round trip failed (keyword=%q pair=%s dir=%s step=%d widdershins=%v):\n  msg  %q\n  enc  %q\n  dec  %q\n  want %q",
									keyword, replacement, direction, step, widdershins, msg, enc, dec, want)
							}
						}
					}
				}
			}
		}
	}
}

func TestTransform_Deterministic(t *testing.T) {
	cfg := mustConfig(t, "northeast", "ji", "sw", 3, true)
	msg := "determinism is the whole point of a hand cipher"
	first, err := Encipher(msg, cfg)
	if err != nil {
		t.Fatalf("Encipher: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := Encipher(msg, cfg)
		if err != nil {
			t.Fatalf("Encipher: %v", err)
		}
		if again != first {
			t.Fatalf("run %d differs: %q vs %q", i, again, first)
		}
	}
}

func TestTranscoder_ReusableAcrossMessages(t *testing.T) {
	cfg := mustConfig(t, "", "ji", "n", 2, false)
	tr, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	// Each Transform run restarts the rotation from the configured start.
	first := tr.Transform("lorem ipsum dolor sit amet")
	second := tr.Transform("lorem ipsum dolor sit amet")
	if first != second {
		t.Fatalf("second run differs: %q vs %q", second, first)
	}
	if first != "fpwdg kurpn infpw rdu flzu" {
		t.Fatalf("Transform = %q", first)
	}
}
