package artifact

import (
	"verdict.market/sealmint/cidutil"
	"verdict.market/sealmint/digest"
)

// stableIDRefLen is how many hex digits of the content hash feed the derived
// identifier. The identifier stays stable across schema revisions that leave
// canonical payload fields unchanged, because it is derived from the logical
// id plus this content-hash prefix rather than from the full container.
const stableIDRefLen = 16

// Identity is an artifact's permanent addressing record.
type Identity struct {
	// ContentHash is the sha256 hex digest of the fully assembled container
	// bytes.
	ContentHash string `json:"contentHash"`
	// StableID is the domain-separated derived identifier.
	StableID string `json:"stableId"`
	// CID is the archive key: CIDv1 (raw + sha2-256) of the container bytes.
	CID string `json:"cid"`
}

// Identify computes the identity of assembled container bytes.
//
// Re-running the full pipeline over an unchanged logical payload and seal
// reproduces identical container bytes and therefore an identical Identity;
// this is the load-bearing correctness property of the whole pipeline.
func Identify(container []byte, kind Kind, logicalID string) (Identity, error) {
	prefix, ok := kind.DomainPrefix()
	if !ok {
		return Identity{}, newError(StageIdentify, "MINT-ID-001", "unknown artifact kind")
	}
	if len(container) == 0 {
		return Identity{}, newError(StageIdentify, "MINT-ID-002", "empty container")
	}
	if logicalID == "" {
		return Identity{}, newError(StageIdentify, "MINT-ID-003", "missing logical id")
	}

	contentHash := digest.SumHex(container)
	id := cidutil.CIDv1RawSHA256(container)
	if id == "" {
		return Identity{}, newError(StageIdentify, "MINT-ID-004", "cid derivation failed")
	}
	return Identity{
		ContentHash: contentHash,
		StableID:    digest.DeriveID(prefix, logicalID, contentHash[:stableIDRefLen]),
		CID:         id,
	}, nil
}
