// Package digest computes content hashes and domain-separated derived
// identifiers over canonical bytes.
package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/sha3"
)

// DefaultAlg is the fixed algorithm for content hashes and identity
// derivation: a 256-bit digest, hex encoded.
const DefaultAlg = "sha256"

// SumHex returns the lowercase hex SHA-256 digest of data.
func SumHex(data []byte) string {
	s := sha256.Sum256(data)
	return hex.EncodeToString(s[:])
}

// SumHexAlg returns the lowercase hex digest of data under a named algorithm.
// Supported: sha256, sha512, sha3-256. An unknown algorithm is a structured
// failure, never a silent default.
func SumHexAlg(alg string, data []byte) (string, error) {
	switch alg {
	case "sha256":
		s := sha256.Sum256(data)
		return hex.EncodeToString(s[:]), nil
	case "sha512":
		s := sha512.Sum512(data)
		return hex.EncodeToString(s[:]), nil
	case "sha3-256":
		s := sha3.Sum256(data)
		return hex.EncodeToString(s[:]), nil
	default:
		return "", fmt.Errorf("digest: unsupported algorithm %q", alg)
	}
}

// DomainPrefix separates derived-identifier namespaces per artifact kind.
// Two artifacts of different kinds can never share a stable identifier even
// if their logical IDs and reference material collide.
type DomainPrefix string

const (
	// PrefixPosition tags identifiers derived for trading-position artifacts.
	PrefixPosition DomainPrefix = "pos"
	// PrefixResolution tags identifiers derived for resolution-outcome artifacts.
	PrefixResolution DomainPrefix = "res"
)

// DeriveID returns the stable identifier for a logical record:
// sha256 over "prefix:logicalID:ref".
//
// ref is typically a prefix of a content hash. The derived identifier is
// intentionally distinct from the content hash itself so it can stay stable
// across schema revisions that do not change canonical payload fields.
func DeriveID(prefix DomainPrefix, logicalID, ref string) string {
	return SumHex([]byte(string(prefix) + ":" + logicalID + ":" + ref))
}

// PublicInputFromHash reinterprets a hex digest's digits as a base-16 integer
// and renders it as a decimal string.
//
// This is a documented fallback for a Poseidon-style public input, not an
// algebraic hash: it provides a stable decimal handle for a content hash in
// proof-shaped records. Do not assume equivalence to any circuit's expected
// public input.
func PublicInputFromHash(hexDigest string) (string, error) {
	h := strings.TrimPrefix(strings.ToLower(hexDigest), "0x")
	if h == "" {
		return "", fmt.Errorf("digest: empty hex digest")
	}
	n, ok := new(big.Int).SetString(h, 16)
	if !ok {
		return "", fmt.Errorf("digest: invalid hex digest %q", hexDigest)
	}
	return n.String(), nil
}
