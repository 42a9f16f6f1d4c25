package model

import "encoding/json"

// MomentDTO is the discrete time coordinate carried by every payload.
type MomentDTO struct {
	Pulse     uint64 `json:"pulse"`
	Beat      uint64 `json:"beat"`
	StepIndex uint64 `json:"stepIndex"`
}

// PayloadDTO is the JSON boundary form of a mint payload.
//
// Monetary quantities are decimal strings of micro units so that consumers in
// any language can carry them without float drift.
type PayloadDTO struct {
	Version          string            `json:"version"`
	Kind             string            `json:"kind"`
	Moment           MomentDTO         `json:"moment"`
	MarketID         string            `json:"marketId"`
	Side             string            `json:"side,omitempty"`
	Outcome          string            `json:"outcome,omitempty"`
	OwnerKey         string            `json:"ownerKey,omitempty"`
	LockedStakeMicro string            `json:"lockedStakeMicro,omitempty"`
	PayoutMicro      string            `json:"payoutMicro,omitempty"`
	Attrs            map[string]string `json:"attrs,omitempty"`
}

// MintRequest is the JSON boundary form of a mint call.
//
// Sources are opaque upstream records (indexer rows, chain events) probed for
// proof material; each must be a JSON object.
type MintRequest struct {
	Payload PayloadDTO        `json:"payload"`
	Sources []json.RawMessage `json:"sources,omitempty"`
}

// SealDTO is the JSON projection of the assurance seal bound into a container.
type SealDTO struct {
	CanonicalHash   string `json:"canonicalHash"`
	CanonicalLength int    `json:"canonicalLength"`
	PublicInput     string `json:"publicInput"`
	Scheme          string `json:"scheme"`
	Tier            string `json:"tier"`
	Verified        bool   `json:"verified"`
}

// MintedRecord is the JSON boundary form of a minted artifact.
//
// JSON note: Container bytes are encoded as base64 by encoding/json.
type MintedRecord struct {
	StableID    string  `json:"stableId"`
	ContentHash string  `json:"contentHash"`
	CID         string  `json:"cid"`
	Seal        SealDTO `json:"seal"`
	Container   []byte  `json:"container,omitempty"`
}
