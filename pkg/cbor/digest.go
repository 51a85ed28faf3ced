package cbor

import (
	"crypto/sha256"

	"golang.org/x/crypto/sha3"
)

// Digest holds the canonical encoding of a value together with both
// bridge hashes computed over it. SHA-256 serves general content
// addressing; SHA3-256 matches the hash the WASM-side verifier
// computes natively. Both hashes cover the encoded bytes, never the
// logical value.
type Digest struct {
	Encoded []byte
	SHA256  [32]byte
	SHA3    [32]byte
}

// ComputeDigest canonically encodes v once and hashes the result with
// both hash functions.
func ComputeDigest(v any) (*Digest, error) {
	encoded, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return &Digest{
		Encoded: encoded,
		SHA256:  sha256.Sum256(encoded),
		SHA3:    HashSHA3(encoded),
	}, nil
}

// HashSHA3 computes the SHA3-256 hash of raw bytes.
func HashSHA3(data []byte) [32]byte {
	var out [32]byte
	h := sha3.New256()
	h.Write(data)
	h.Sum(out[:0])
	return out
}
