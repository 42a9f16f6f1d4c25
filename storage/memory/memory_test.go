package memory_test

import (
	"testing"

	"verdict.market/sealmint/storage"
	"verdict.market/sealmint/storage/memory"
	"verdict.market/sealmint/storage/testkit"
)

func TestMemory_Conformance(t *testing.T) {
	testkit.RunArchiveConformance(t, func(t *testing.T) storage.Archive {
		return memory.New()
	})
}

func TestMemory_CopiesBytesBothWays(t *testing.T) {
	s := memory.New()

	in := []byte("caller-owned buffer")
	id, err := s.Put(in)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	in[0] = 'X'

	got, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "caller-owned buffer" {
		t.Fatalf("store must not alias the caller's buffer: %q", got)
	}

	got[0] = 'Y'
	again, err := s.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(again) != "caller-owned buffer" {
		t.Fatalf("returned bytes must not alias the stored copy: %q", again)
	}

	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}
}
