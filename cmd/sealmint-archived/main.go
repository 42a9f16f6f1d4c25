package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"verdict.market/sealmint/storage"
	"verdict.market/sealmint/storage/archconfig"
	"verdict.market/sealmint/storage/archregistry"
	"verdict.market/sealmint/storage/grpcarchive"

	_ "verdict.market/sealmint/storage/localfs"
	_ "verdict.market/sealmint/storage/memory"
)

func main() {
	fs := flag.NewFlagSet("sealmint-archived", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7777", "listen address")
	backend := fs.String("backend", "localfs", "archive backend name (with --config: the preferred write backend)")
	configPath := fs.String("config", "", "archive config file (JSON, see archconfig); overrides single-backend flags")
	listBackends := fs.Bool("list-backends", false, "List supported backends and exit")

	archregistry.RegisterFlags(fs, archregistry.UsageDaemon)

	_ = fs.Parse(os.Args[1:])
	if *listBackends {
		for _, b := range archregistry.List(archregistry.UsageDaemon) {
			if b.Description == "" {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", b.Name)
				continue
			}
			_, _ = fmt.Fprintf(os.Stdout, "%s\t%s\n", b.Name, b.Description)
		}
		return
	}

	var (
		arch    storage.Archive
		closeFn func() error
		err     error
	)
	if *configPath != "" {
		cfg, cfgErr := archconfig.LoadFile(*configPath)
		if cfgErr != nil {
			fmt.Fprintln(os.Stderr, cfgErr)
			os.Exit(2)
		}
		preferred := ""
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "backend" {
				preferred = *backend
			}
		})
		arch, closeFn, err = cfg.Open(archregistry.UsageDaemon, preferred)
	} else {
		arch, closeFn, err = archregistry.Open(*backend, archregistry.UsageDaemon)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if closeFn != nil {
		defer closeFn()
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpcarchive.RegisterArchiveServer(s, &grpcarchive.Server{Archive: arch})

	source := "backend=" + *backend
	if *configPath != "" {
		source = "config=" + *configPath
	}
	fmt.Fprintf(os.Stderr, "sealmint-archived listening on %s (%s)\n", lis.Addr().String(), source)
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
