package ipfs

import (
	"flag"
	"os"

	"verdict.market/sealmint/storage"
	"verdict.market/sealmint/storage/archregistry"
)

var (
	flagBin  string
	flagPath string
)

func init() {
	archregistry.MustRegister(archregistry.Backend{
		Name:        "ipfs",
		Description: "Kubo CLI archive (local IPFS repo, offline block store)",
		Usage:       archregistry.UsageCLI,
		RegisterFlags: func(fs *flag.FlagSet) {
			fs.StringVar(&flagBin, "ipfs-bin", "", "Path to the ipfs binary (for --backend=ipfs; default \"ipfs\")")
			fs.StringVar(&flagPath, "ipfs-path", "", "IPFS repo path (sets IPFS_PATH for --backend=ipfs)")
		},
		Open: func() (storage.Archive, func() error, error) {
			opts := Options{Bin: flagBin}
			if flagPath != "" {
				opts.Env = append(os.Environ(), "IPFS_PATH="+flagPath)
			}
			return New(opts), nil, nil
		},
	})
}
