package storage

import (
	"errors"

	"github.com/ipfs/go-cid"
)

// MultiArchive provides deterministic, ordered fallback across multiple
// archive adapters.
//
// Hydration order is the slice order in Adapters; callers MUST supply a fixed
// order. This avoids map-iteration nondeterminism and makes the retrieval
// strategy explicit.
//
// Put is defined to write only to the first adapter.
type MultiArchive struct {
	Adapters []Archive
}

func (m MultiArchive) Put(bytes []byte) (cid.Cid, error) {
	if len(m.Adapters) == 0 {
		return cid.Undef, errors.New("storage: MultiArchive has no adapters")
	}
	return m.Adapters[0].Put(bytes)
}

func (m MultiArchive) Get(id cid.Cid) ([]byte, error) {
	for _, a := range m.Adapters {
		b, err := a.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (m MultiArchive) Has(id cid.Cid) bool {
	for _, a := range m.Adapters {
		if a.Has(id) {
			return true
		}
	}
	return false
}
