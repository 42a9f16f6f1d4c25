package memory

import (
	"flag"

	"verdict.market/sealmint/storage"
	"verdict.market/sealmint/storage/archregistry"
)

func init() {
	archregistry.MustRegister(archregistry.Backend{
		// Daemon-only: a per-invocation CLI process would discard the
		// contents before anyone could read them.
		Name:          "memory",
		Description:   "In-memory archive (volatile, per-process)",
		Usage:         archregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {},
		Open: func() (storage.Archive, func() error, error) {
			return New(), nil, nil
		},
	})
}
