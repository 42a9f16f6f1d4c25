package archconfig_test

import (
	"os"
	"path/filepath"
	"testing"

	"verdict.market/sealmint/storage/archconfig"
	"verdict.market/sealmint/storage/archregistry"

	_ "verdict.market/sealmint/storage/localfs"
)

func twoLocalBackends(t *testing.T) (archconfig.Config, string, string) {
	t.Helper()
	dirA := t.TempDir()
	dirB := t.TempDir()
	cfg := archconfig.Config{
		Backends: []archconfig.BackendConfig{
			{Name: "localfs", ID: "a", Config: map[string]string{"localfs-dir": dirA}},
			{Name: "localfs", ID: "b", Config: map[string]string{"localfs-dir": dirB}},
		},
	}
	return cfg, dirA, dirB
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", dir, err)
	}
	return n
}

func TestConfig_WritePolicyFirst(t *testing.T) {
	cfg, dirA, dirB := twoLocalBackends(t)

	arch, closeFn, err := cfg.Open(archregistry.UsageDaemon, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if closeFn != nil {
		defer closeFn()
	}

	id, err := arch.Put([]byte("first-policy container"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !arch.Has(id) {
		t.Fatalf("Has must see the written container")
	}
	if countFiles(t, dirA) != 1 {
		t.Fatalf("first backend must hold the container")
	}
	if countFiles(t, dirB) != 0 {
		t.Fatalf("write_policy first must not replicate to later backends")
	}
}

func TestConfig_WritePolicyAllReplicates(t *testing.T) {
	cfg, dirA, dirB := twoLocalBackends(t)
	cfg.WritePolicy = "all"

	arch, closeFn, err := cfg.Open(archregistry.UsageDaemon, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if closeFn != nil {
		defer closeFn()
	}

	id, err := arch.Put([]byte("replicated container"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := arch.Get(id)
	if err != nil || string(got) != "replicated container" {
		t.Fatalf("Get after replicated Put: %q, %v", got, err)
	}
	if countFiles(t, dirA) != 1 || countFiles(t, dirB) != 1 {
		t.Fatalf("write_policy all must write every backend (a=%d b=%d)",
			countFiles(t, dirA), countFiles(t, dirB))
	}
}

func TestConfig_PreferredBackendReorders(t *testing.T) {
	cfg, dirA, dirB := twoLocalBackends(t)

	arch, closeFn, err := cfg.Open(archregistry.UsageDaemon, "b")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if closeFn != nil {
		defer closeFn()
	}

	if _, err := arch.Put([]byte("preferred write")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if countFiles(t, dirB) != 1 {
		t.Fatalf("preferred backend must receive the write")
	}
	if countFiles(t, dirA) != 0 {
		t.Fatalf("non-preferred backend must stay untouched under first policy")
	}

	if _, _, err := cfg.Open(archregistry.UsageDaemon, "nope"); err == nil {
		t.Fatalf("unknown preferred backend must fail")
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (archconfig.Config{}).Validate(); err == nil {
		t.Fatalf("empty backend list must fail validation")
	}

	dup := archconfig.Config{Backends: []archconfig.BackendConfig{
		{Name: "localfs"},
		{Name: "localfs"},
	}}
	if err := dup.Validate(); err == nil {
		t.Fatalf("duplicate backend id must fail validation")
	}

	bad := archconfig.Config{
		WritePolicy: "quorum",
		Backends:    []archconfig.BackendConfig{{Name: "localfs"}},
	}
	if err := bad.Validate(); err == nil {
		t.Fatalf("unknown write_policy must fail validation")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "archive.json")
	body := `{"write_policy":"all","backends":[{"name":"localfs","config":{"localfs-dir":"` + dir + `"}}]}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := archconfig.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.WritePolicy != "all" || len(cfg.Backends) != 1 {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if _, err := archconfig.LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("missing file must fail")
	}
	if _, err := archconfig.LoadFile(""); err == nil {
		t.Fatalf("empty path must fail")
	}
}
