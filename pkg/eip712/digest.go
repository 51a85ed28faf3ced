// Package eip712 computes the typed-data signing digest for intents.
// Field widths, order and the type strings are a bit-exact external
// interface shared with the on-chain verifier; every quantity except
// addresses is left-padded into a 32-byte big-endian word.
package eip712

import (
	"golang.org/x/crypto/sha3"

	"github.com/vagus-network/planner-go/pkg/intent"
)

// Type strings are part of the signing contract; a one-character change
// produces unrelated digests.
const (
	DomainTypeString = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"
	IntentTypeString = "Intent(" +
		"uint256 executorId," +
		"bytes32 actionId," +
		"bytes params," +
		"bytes32 envelopeHash," +
		"bytes32 preStateRoot," +
		"uint256 notBefore," +
		"uint256 notAfter," +
		"uint32 maxDurationMs," +
		"uint32 maxEnergyJ," +
		"address planner," +
		"uint256 nonce" +
		")"
)

// Domain binds signatures to one protocol deployment: name, version,
// chain and verifying contract. Signatures made under one domain are
// meaningless under any other.
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract intent.Address
}

// DefaultDomain is the development deployment: local chain, placeholder
// contract.
func DefaultDomain() Domain {
	return Domain{Name: "Vagus", Version: "1", ChainID: 31337}
}

// Separator computes the domain separator hash.
func (d Domain) Separator() [32]byte {
	nameHash := Keccak256([]byte(d.Name))
	versionHash := Keccak256([]byte(d.Version))
	typeHash := Keccak256([]byte(DomainTypeString))
	return Keccak256(
		typeHash[:],
		nameHash[:],
		versionHash[:],
		be32(d.ChainID),
		d.VerifyingContract[:],
	)
}

// StructHash computes the typed hash of the intent's fields.
func StructHash(it *intent.Intent) [32]byte {
	typeHash := Keccak256([]byte(IntentTypeString))
	paramsHash := Keccak256(it.Params)
	return Keccak256(
		typeHash[:],
		be32(it.ExecutorID),
		it.ActionID[:],
		paramsHash[:],
		it.EnvelopeHash[:],
		it.PreStateRoot[:],
		be32(it.NotBefore),
		be32(it.NotAfter),
		be32(uint64(it.MaxDurationMs)),
		be32(uint64(it.MaxEnergyJ)),
		it.Planner[:],
		be32(it.Nonce),
	)
}

// SigningDigest computes the final 32-byte digest an external signer
// signs: keccak256(0x19 || 0x01 || domainSeparator || structHash).
func SigningDigest(d Domain, it *intent.Intent) [32]byte {
	separator := d.Separator()
	structHash := StructHash(it)
	return Keccak256([]byte{0x19, 0x01}, separator[:], structHash[:])
}

// Keccak256 hashes the concatenation of chunks with legacy Keccak-256,
// the EVM-native hash (not NIST SHA3-256).
func Keccak256(chunks ...[]byte) [32]byte {
	var out [32]byte
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	h.Sum(out[:0])
	return out
}

// be32 left-pads n into a 32-byte big-endian word.
func be32(n uint64) []byte {
	var out [32]byte
	for i := 0; i < 8; i++ {
		out[31-i] = byte(n >> uint(8*i))
	}
	return out[:]
}
