package storage

import "errors"

// Sentinel failures shared by every archive backend. Backends may wrap them
// with transport or path detail; callers match with errors.Is.
var (
	// ErrNotFound reports that no container is archived under the CID.
	ErrNotFound = errors.New("storage: not found")
	// ErrInvalidCID reports an undefined or undecodable archive key.
	ErrInvalidCID = errors.New("storage: invalid cid")
	// ErrCIDMismatch reports stored bytes whose recomputed CID differs from
	// the requested key, or replicas disagreeing about a write.
	ErrCIDMismatch = errors.New("storage: cid mismatch")
	// ErrImmutable reports an attempt to change an archived container, or an
	// archived container found changed out-of-band.
	ErrImmutable = errors.New("storage: immutable object mismatch")
)

// IsNotFound reports whether err means the container is absent, however
// deeply a backend wrapped the sentinel.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
