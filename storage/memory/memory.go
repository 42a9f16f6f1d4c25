// Package memory provides an in-memory storage.Archive.
//
// Contents live for the life of the process. Intended for tests and for
// daemons that front a replicated archive with a volatile cache tier.
package memory

import (
	"sync"

	"github.com/ipfs/go-cid"

	"verdict.market/sealmint/cidutil"
	"verdict.market/sealmint/storage"
)

type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var (
	_ storage.Archive = (*Store)(nil)
	_ storage.Sizer   = (*Store)(nil)
)

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Put(bytes []byte) (cid.Cid, error) {
	id, err := cidutil.CIDv1RawSHA256CID(bytes)
	if err != nil {
		return cid.Undef, err
	}
	if !id.Defined() {
		return cid.Undef, storage.ErrInvalidCID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	key := id.String()
	if _, ok := s.data[key]; !ok {
		cp := make([]byte, len(bytes))
		copy(cp, bytes)
		s.data[key] = cp
	}
	return id, nil
}

func (s *Store) Get(id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, storage.ErrInvalidCID
	}

	s.mu.RLock()
	b, ok := s.data[id.String()]
	s.mu.RUnlock()
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp, nil
}

func (s *Store) Has(id cid.Cid) bool {
	if !id.Defined() {
		return false
	}
	s.mu.RLock()
	_, ok := s.data[id.String()]
	s.mu.RUnlock()
	return ok
}

// Size reports the stored container size in bytes.
func (s *Store) Size(id cid.Cid) (uint64, error) {
	if !id.Defined() {
		return 0, storage.ErrInvalidCID
	}
	s.mu.RLock()
	b, ok := s.data[id.String()]
	s.mu.RUnlock()
	if !ok {
		return 0, storage.ErrNotFound
	}
	return uint64(len(b)), nil
}

// Len reports the number of stored containers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
