package storage

import "github.com/ipfs/go-cid"

// Archive is a minimal content-addressable store for minted containers.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written (callers supply the exact
//   container bytes, so the archive key equals the artifact CID).
// - Get MUST return ErrNotFound when the CID is absent.
type Archive interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}

// Sizer is an optional Archive extension reporting a stored container's size
// without transferring its bytes. Backends that can stat cheaply (localfs)
// implement it; callers fall back to Get otherwise.
type Sizer interface {
	Size(id cid.Cid) (uint64, error)
}
