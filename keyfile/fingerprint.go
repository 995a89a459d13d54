package keyfile

import (
	"io"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/sha3"

	"github.com/louisbranch/nesw/cipher"
)

// Fingerprint returns a deterministic content identifier for a key: an
// IPFS-compatible CIDv1 (raw + sha2-256) over the canonical key file bytes.
// Two correspondents can compare fingerprints to confirm they configured the
// same key without transcribing the key itself.
func Fingerprint(cfg cipher.Config) (string, error) {
	b, err := Render(cfg)
	if err != nil {
		return "", err
	}
	sum, err := multihash.Sum(b, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1
		// length this should be unreachable.
		return "", err
	}
	return cid.NewCidV1(cid.Raw, sum).String(), nil
}

// CheckCodeLength is the number of letters in a check code.
const CheckCodeLength = 5

// CheckCode derives a short check group from the canonical key bytes,
// spelled in the key's own square so it can be read letter by letter over a
// voice channel. It is a coarse guard against transcription mistakes, not a
// cryptographic commitment; use Fingerprint for an exact comparison.
func CheckCode(cfg cipher.Config) (string, error) {
	b, err := Render(cfg)
	if err != nil {
		return "", err
	}
	sq, err := cipher.BuildSquare(cfg)
	if err != nil {
		return "", err
	}

	shake := sha3.NewShake128()
	_, _ = shake.Write(b)
	var digest [CheckCodeLength]byte
	if _, err := io.ReadFull(shake, digest[:]); err != nil {
		return "", err
	}

	letters := sq.Letters()
	code := make([]byte, CheckCodeLength)
	for i, v := range digest {
		code[i] = letters[int(v)%len(letters)]
	}
	return string(code), nil
}
