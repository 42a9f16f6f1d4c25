package localfs

import (
	"flag"
	"fmt"

	"verdict.market/sealmint/storage"
	"verdict.market/sealmint/storage/archregistry"
)

var (
	flagLocalDir string
)

func init() {
	archregistry.MustRegister(archregistry.Backend{
		Name:        "localfs",
		Description: "Local filesystem archive (directory)",
		Usage:       archregistry.UsageCLI | archregistry.UsageDaemon,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagLocalDir, "localfs-dir", "", "LocalFS archive directory (for --backend=localfs)")
		},
		Open: func() (storage.Archive, func() error, error) {
			if flagLocalDir == "" {
				return nil, nil, fmt.Errorf("missing --localfs-dir")
			}
			store, err := New(flagLocalDir)
			return store, nil, err
		},
	})
}
