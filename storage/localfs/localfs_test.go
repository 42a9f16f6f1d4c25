package localfs

import (
	"os"
	"testing"

	"verdict.market/sealmint/cidutil"
	"verdict.market/sealmint/storage"
	"verdict.market/sealmint/storage/testkit"
)

func TestLocalFS_Conformance(t *testing.T) {
	testkit.RunArchiveConformance(t, func(t *testing.T) storage.Archive {
		t.Helper()
		dir := t.TempDir()
		store, err := New(dir)
		if err != nil {
			t.Fatalf("New failed: %v", err)
		}
		return store
	})
}

func TestLocalFS_SizeWithoutRead(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var _ storage.Sizer = store

	b := []byte("sized object")
	id, err := store.Put(b)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	n, err := store.Size(id)
	if err != nil {
		t.Fatalf("Size failed: %v", err)
	}
	if n != uint64(len(b)) {
		t.Fatalf("Size = %d, want %d", n, len(b))
	}

	otherID, err := cidutil.CIDv1RawSHA256CID([]byte("absent"))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
	}
	if _, err := store.Size(otherID); !storage.IsNotFound(err) {
		t.Fatalf("Size missing: got %v want ErrNotFound", err)
	}
}

func TestLocalFS_RejectMutationByOverwrite(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	orig := []byte("original")
	id, err := store.Put(orig)
	if err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Corrupt the stored object out-of-band.
	path := store.pathFor(id)
	if err := os.Chmod(path, 0o644); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("corrupted"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Get must detect hash mismatch.
	_, err = store.Get(id)
	if err != storage.ErrCIDMismatch {
		t.Fatalf("Get mismatch: got %v want %v", err, storage.ErrCIDMismatch)
	}

	// Put must not "repair" or overwrite the corrupted object.
	_, err = store.Put(orig)
	if err != storage.ErrImmutable {
		t.Fatalf("Put after corruption: got %v want %v", err, storage.ErrImmutable)
	}

	// Sanity: the CID is still the CID of the original bytes.
	wantID, err := cidutil.CIDv1RawSHA256CID(orig)
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID failed: %v", err)
	}
	if id != wantID {
		t.Fatalf("unexpected CID: got %s want %s", id, wantID)
	}
}
