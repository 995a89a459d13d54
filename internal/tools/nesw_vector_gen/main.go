// Command nesw_vector_gen regenerates the conformance vectors under
// testdata/conformance/nesw-1: reference plaintexts, their ciphertexts,
// canonical key files, their fingerprints, and deliberately non-canonical
// key file variants.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/louisbranch/nesw/cipher"
	"github.com/louisbranch/nesw/keyfile"
)

type vector struct {
	n           int
	keyword     string
	direction   string
	step        int
	widdershins bool
	plaintext   string
}

var vectors = []vector{
	{n: 1, direction: "n", step: 2, plaintext: "lorem ipsum dolor sit amet"},
	{n: 2, keyword: "northeast", direction: "n", step: 2, plaintext: "lorem ipsum dolor sit amet"},
	{n: 3, direction: "e", step: 2, widdershins: true, plaintext: "the quick brown fox jumps over the lazy dog"},
}

func main() {
	outDir := flag.String("out", filepath.Join("testdata", "conformance", "nesw-1"), "Output directory")
	flag.Parse()

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		panic(err)
	}

	for _, v := range vectors {
		cfg, err := cipher.ParseConfig(v.keyword, cipher.DefaultReplacement, v.direction, v.step, v.widdershins)
		if err != nil {
			panic(err)
		}

		ciphertext, err := cipher.Encipher(v.plaintext, cfg)
		if err != nil {
			panic(err)
		}
		keyBytes, err := keyfile.Render(cfg)
		if err != nil {
			panic(err)
		}
		fp, err := keyfile.Fingerprint(cfg)
		if err != nil {
			panic(err)
		}

		// Vector 2 reuses vector 1's plaintext.
		if v.n != 2 {
			write(*outDir, fmt.Sprintf("plaintext_%d.txt", v.n), []byte(v.plaintext+"\n"))
		}
		write(*outDir, fmt.Sprintf("ciphertext_%d.txt", v.n), []byte(ciphertext+"\n"))
		write(*outDir, fmt.Sprintf("key_%d.key", v.n), keyBytes)
		write(*outDir, fmt.Sprintf("key_%d.cid", v.n), []byte(fp+"\n"))

		if v.n == 1 {
			crlf := bytes.ReplaceAll(keyBytes, []byte("\n"), []byte("\r\n"))
			write(*outDir, "key_1.noncanonical_crlf.key", crlf)

			unsorted := bytes.Replace(keyBytes,
				[]byte("Direction: n\nReplacement: ji\n"),
				[]byte("Replacement: ji\nDirection: n\n"), 1)
			write(*outDir, "key_1.noncanonical_unsorted.key", unsorted)
		}
	}
}

func write(dir, name string, data []byte) {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		panic(err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", path, len(data))
}
