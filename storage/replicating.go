package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"verdict.market/sealmint/cidutil"
)

// NamedArchive associates an Archive with a stable backend name.
//
// This is used for multi-backend orchestration where callers need to retain
// per-backend metadata (e.g., for reporting or auditing).
type NamedArchive struct {
	Name    string
	Archive Archive
}

// ReplicatingArchive writes to all configured backends.
//
// Reads fall back in order. Writes go to all backends and require all
// returned CIDs to match (otherwise ErrCIDMismatch is returned).
//
// Use PutAll when you need the per-backend CID mapping.
type ReplicatingArchive struct {
	Backends []NamedArchive
}

var _ Archive = (*ReplicatingArchive)(nil)

// PutAll writes the same bytes to all backends.
//
// It returns:
// - the canonical CID (computed from bytes)
// - a map of backend name -> returned CID
//
// If any backend returns a different CID, ErrCIDMismatch is returned.
func (r ReplicatingArchive) PutAll(bytes []byte) (cid.Cid, map[string]cid.Cid, error) {
	want, err := cidutil.CIDv1RawSHA256CID(bytes)
	if err != nil {
		return cid.Undef, nil, err
	}
	if !want.Defined() {
		return cid.Undef, nil, ErrInvalidCID
	}
	if len(r.Backends) == 0 {
		return cid.Undef, nil, fmt.Errorf("storage: ReplicatingArchive has no backends")
	}

	out := make(map[string]cid.Cid, len(r.Backends))
	for _, b := range r.Backends {
		if b.Archive == nil {
			return cid.Undef, nil, fmt.Errorf("storage: nil archive for backend %q", b.Name)
		}
		got, err := b.Archive.Put(bytes)
		if err != nil {
			return cid.Undef, nil, err
		}
		out[b.Name] = got
		if got != want {
			return cid.Undef, out, ErrCIDMismatch
		}
	}
	return want, out, nil
}

func (r ReplicatingArchive) Put(bytes []byte) (cid.Cid, error) {
	id, _, err := r.PutAll(bytes)
	return id, err
}

func (r ReplicatingArchive) Get(id cid.Cid) ([]byte, error) {
	for _, b := range r.Backends {
		if b.Archive == nil {
			continue
		}
		out, err := b.Archive.Get(id)
		if err == nil {
			return out, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (r ReplicatingArchive) Has(id cid.Cid) bool {
	for _, b := range r.Backends {
		if b.Archive != nil && b.Archive.Has(id) {
			return true
		}
	}
	return false
}
