package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ipfs/go-cid"

	"verdict.market/sealmint/artifact"
	"verdict.market/sealmint/canonical"
	"verdict.market/sealmint/cidutil"
	"verdict.market/sealmint/digest"
	"verdict.market/sealmint/keys"
	"verdict.market/sealmint/model"
	"verdict.market/sealmint/storage"
	"verdict.market/sealmint/storage/archregistry"
	"verdict.market/sealmint/storage/bundle"

	_ "verdict.market/sealmint/storage/grpcarchive"
	_ "verdict.market/sealmint/storage/ipfs"
	_ "verdict.market/sealmint/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "mint":
		return cmdMint(args[1:], out, errOut)
	case "inspect":
		return cmdInspect(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "id":
		return cmdID(args[1:], out, errOut)
	case "attest":
		return cmdAttest(args[1:], out, errOut)
	case "key":
		return cmdKey(args[1:], out, errOut)
	case "archive":
		return cmdArchive(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "sealmint: deterministic artifact minting for position and resolution records")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sealmint mint --payload <file> [--source <file> ...] [--out <file>]")
	fmt.Fprintln(w, "  sealmint inspect (--payload | --seal | --summary) <container>")
	fmt.Fprintln(w, "  sealmint verify <container>")
	fmt.Fprintln(w, "  sealmint id <container>")
	fmt.Fprintln(w, "  sealmint attest --container <file> (--seed-hex <64hex> | --signer <name> [--signer-purpose <p>] | --key-file <path>)")
	fmt.Fprintln(w, "  sealmint key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  sealmint key derive --from <name> --purpose <purpose> [--force]")
	fmt.Fprintln(w, "  sealmint key list")
	fmt.Fprintln(w, "  sealmint key export --name <name> [--purpose <purpose>]")
	fmt.Fprintln(w, "  sealmint archive put --backend <name> [backend flags] <container>")
	fmt.Fprintln(w, "  sealmint archive get --backend <name> [backend flags] <cid>")
	fmt.Fprintln(w, "  sealmint archive has --backend <name> [backend flags] <cid>")
	fmt.Fprintln(w, "  sealmint archive stat --backend <name> [backend flags] <cid>")
	fmt.Fprintln(w, "  sealmint archive export --backend <name> [backend flags] --out <bundle.tar> <cid> [<cid> ...]")
	fmt.Fprintln(w, "  sealmint archive import --backend <name> [backend flags] <bundle.tar>")
	fmt.Fprintln(w, "  sealmint archive backends")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --payload is a JSON payload document; --source files are upstream records probed for proof material")
	fmt.Fprintln(w, "  - mint writes the container bytes to --out (or stdout) and the identity to stderr")
	fmt.Fprintln(w, "  - verify re-derives the seal from the embedded payload and fails on any drift")
	fmt.Fprintln(w, "  - --seed-hex must be 32 bytes (64 hex chars) ed25519 seed")
	fmt.Fprintln(w, "  - the key vault stores seeds under ~/.sealmint/keys/<name> (0600 seed files)")
}

func cmdMint(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("mint", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var payloadPath string
	var sourcePaths stringList
	var outPath string

	fs.StringVar(&payloadPath, "payload", "", "Payload JSON file")
	fs.Var(&sourcePaths, "source", "Upstream source record JSON file (repeatable)")
	fs.StringVar(&outPath, "out", "", "Write container bytes to this file (default stdout)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if payloadPath == "" {
		fmt.Fprintln(errOut, "missing --payload")
		return 2
	}

	payloadBytes, err := os.ReadFile(payloadPath)
	if err != nil {
		fmt.Fprintf(errOut, "read payload: %v\n", err)
		return 1
	}
	var dto model.PayloadDTO
	if err := json.Unmarshal(payloadBytes, &dto); err != nil {
		fmt.Fprintf(errOut, "parse payload: %v\n", err)
		return 2
	}

	req := model.MintRequest{Payload: dto}
	for _, p := range sourcePaths {
		b, rerr := os.ReadFile(p)
		if rerr != nil {
			fmt.Fprintf(errOut, "read source %s: %v\n", p, rerr)
			return 1
		}
		req.Sources = append(req.Sources, json.RawMessage(b))
	}

	rec, err := model.Mint(context.Background(), req, model.MintOptions{})
	if err != nil {
		fmt.Fprintf(errOut, "mint: %v\n", err)
		return 1
	}

	fmt.Fprintf(errOut, "Stable-ID: %s\n", rec.StableID)
	fmt.Fprintf(errOut, "Content-Hash: %s\n", rec.ContentHash)
	fmt.Fprintf(errOut, "CID: %s\n", rec.CID)
	fmt.Fprintf(errOut, "Tier: %s\n", rec.Seal.Tier)

	if outPath == "" {
		_, _ = out.Write(rec.Container)
		return 0
	}
	if err := os.WriteFile(outPath, rec.Container, 0o644); err != nil {
		fmt.Fprintf(errOut, "write %s: %v\n", outPath, err)
		return 1
	}
	return 0
}

func cmdInspect(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var showPayload bool
	var showSeal bool
	var showSummary bool

	fs.BoolVar(&showPayload, "payload", false, "Print the embedded canonical payload")
	fs.BoolVar(&showSeal, "seal", false, "Print the embedded seal")
	fs.BoolVar(&showSummary, "summary", false, "Print the summary fields")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sealmint inspect (--payload | --seal | --summary) <container>")
		return 2
	}
	if !showPayload && !showSeal && !showSummary {
		showSummary = true
	}

	container, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read container: %v\n", err)
		return 1
	}

	if showPayload {
		v, perr := artifact.ExtractPayload(container)
		if perr != nil {
			fmt.Fprintf(errOut, "extract payload: %v\n", perr)
			return 1
		}
		_, _ = out.Write(append(canonical.Encode(v), '\n'))
	}
	if showSeal {
		seal, serr := artifact.ExtractSeal(container)
		if serr != nil {
			fmt.Fprintf(errOut, "extract seal: %v\n", serr)
			return 1
		}
		_, _ = out.Write(append(seal.CanonicalBytes(), '\n'))
	}
	if showSummary {
		fields, serr := artifact.Summary(container)
		if serr != nil {
			fmt.Fprintf(errOut, "extract summary: %v\n", serr)
			return 1
		}
		fmt.Fprintf(out, "Kind: %s\n", fields[0])
		fmt.Fprintf(out, "Version: %s\n", fields[1])
		fmt.Fprintf(out, "Logical-ID: %s\n", fields[2])
		fmt.Fprintf(out, "Canonical-Hash: %s\n", fields[3])
		fmt.Fprintf(out, "Tier: %s\n", fields[4])
	}
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var expectCID string
	fs.StringVar(&expectCID, "expect-cid", "", "Fail unless the container CID equals this value")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sealmint verify <container>")
		return 2
	}

	container, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read container: %v\n", err)
		return 1
	}

	identity, seal, err := verifyContainer(container)
	if err != nil {
		fmt.Fprintf(errOut, "invalid: %v\n", err)
		return 1
	}
	if expectCID != "" && identity.CID != expectCID {
		fmt.Fprintf(errOut, "invalid: cid %s does not match --expect-cid %s\n", identity.CID, expectCID)
		return 1
	}

	fmt.Fprintf(errOut, "Stable-ID: %s\n", identity.StableID)
	fmt.Fprintf(errOut, "CID: %s\n", identity.CID)
	fmt.Fprintf(errOut, "Tier: %s\n", seal.Assurance.Tier)
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

// verifyContainer re-derives the seal binding from the embedded payload and
// checks every recorded field against the recomputed value.
func verifyContainer(container []byte) (artifact.Identity, artifact.Seal, error) {
	payloadValue, err := artifact.ExtractPayload(container)
	if err != nil {
		return artifact.Identity{}, artifact.Seal{}, err
	}
	seal, err := artifact.ExtractSeal(container)
	if err != nil {
		return artifact.Identity{}, artifact.Seal{}, err
	}

	canonBytes := canonical.Encode(payloadValue)
	if got := digest.SumHex(canonBytes); got != seal.CanonicalHash {
		return artifact.Identity{}, artifact.Seal{}, fmt.Errorf("canonical hash drifted: %s vs sealed %s", got, seal.CanonicalHash)
	}
	if len(canonBytes) != seal.CanonicalLength {
		return artifact.Identity{}, artifact.Seal{}, fmt.Errorf("canonical length drifted: %d vs sealed %d", len(canonBytes), seal.CanonicalLength)
	}
	wantInput, err := digest.PublicInputFromHash(seal.CanonicalHash)
	if err != nil {
		return artifact.Identity{}, artifact.Seal{}, err
	}
	if wantInput != seal.PublicInput {
		return artifact.Identity{}, artifact.Seal{}, fmt.Errorf("public input drifted: %s vs sealed %s", wantInput, seal.PublicInput)
	}

	fields, err := artifact.Summary(container)
	if err != nil {
		return artifact.Identity{}, artifact.Seal{}, err
	}
	if fields[3] != seal.CanonicalHash {
		return artifact.Identity{}, artifact.Seal{}, fmt.Errorf("summary hash %s does not match seal %s", fields[3], seal.CanonicalHash)
	}

	identity, err := artifact.Identify(container, artifact.Kind(fields[0]), fields[2])
	if err != nil {
		return artifact.Identity{}, artifact.Seal{}, err
	}
	return identity, seal, nil
}

func cmdID(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("id", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sealmint id <container>")
		return 2
	}
	path := fs.Arg(0)
	b, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "read %s: %v\n", filepath.Base(path), err)
		return 1
	}

	fields, err := artifact.Summary(b)
	if err != nil {
		// Not a minted container; still print the raw content CID.
		_, _ = fmt.Fprintln(out, cidutil.CIDv1RawSHA256(b))
		return 0
	}
	identity, err := artifact.Identify(b, artifact.Kind(fields[0]), fields[2])
	if err != nil {
		fmt.Fprintf(errOut, "identify: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Stable-ID: %s\n", identity.StableID)
	fmt.Fprintf(out, "Content-Hash: %s\n", identity.ContentHash)
	fmt.Fprintf(out, "CID: %s\n", identity.CID)
	return 0
}

func cmdAttest(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("attest", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var containerPath string
	var seedHex string
	var signerName string
	var signerPurpose string
	var keyFile string
	var printOwnerKey bool

	fs.StringVar(&containerPath, "container", "", "Minted container file to attest")
	fs.StringVar(&seedHex, "seed-hex", "", "ed25519 seed as 64 hex chars")
	fs.StringVar(&signerName, "signer", "", "Use a stored key by name (from 'sealmint key init')")
	fs.StringVar(&signerPurpose, "signer-purpose", "", "When using --signer, optionally use a derived purpose key")
	fs.StringVar(&keyFile, "key-file", "", "Path to a seed file (hex) created by 'sealmint key init/derive'")
	fs.BoolVar(&printOwnerKey, "print-owner-key", true, "Print Owner-Key to stderr")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if containerPath == "" {
		fmt.Fprintln(errOut, "missing --container")
		return 2
	}
	if seedHex == "" && signerName == "" && keyFile == "" {
		fmt.Fprintln(errOut, "missing signer: use --seed-hex, --signer, or --key-file")
		return 2
	}
	if seedHex != "" && (signerName != "" || keyFile != "") {
		fmt.Fprintln(errOut, "conflicting signer flags: --seed-hex cannot be combined with --signer or --key-file")
		return 2
	}
	if signerName != "" && keyFile != "" {
		fmt.Fprintln(errOut, "conflicting signer flags: --signer cannot be combined with --key-file")
		return 2
	}

	container, err := os.ReadFile(containerPath)
	if err != nil {
		fmt.Fprintf(errOut, "read container: %v\n", err)
		return 1
	}
	// Refuse to attest bytes that do not verify as a minted container.
	if _, _, err := verifyContainer(container); err != nil {
		fmt.Fprintf(errOut, "refusing to attest invalid container: %v\n", err)
		return 1
	}

	vault, err := keys.OpenVault("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	seed, err := vault.LoadSeed(seedHex, signerName, signerPurpose, keyFile)
	if err != nil {
		fmt.Fprintf(errOut, "invalid signer: %v\n", err)
		return 2
	}
	priv := ed25519.NewKeyFromSeed(seed)
	if printOwnerKey {
		fmt.Fprintf(errOut, "Owner-Key: %s\n", keys.OwnerKeyFromSeed(seed))
	}

	_, _ = fmt.Fprintln(out, keys.AttestEd25519SHA256(container, priv))
	return 0
}

func cmdKey(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printKeyUsage(errOut)
		return 2
	}
	switch args[0] {
	case "init":
		return cmdKeyInit(args[1:], out, errOut)
	case "derive":
		return cmdKeyDerive(args[1:], out, errOut)
	case "list":
		return cmdKeyList(args[1:], out, errOut)
	case "export":
		return cmdKeyExport(args[1:], out, errOut)
	case "help", "-h", "--help":
		printKeyUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown key subcommand: %s\n\n", args[0])
		printKeyUsage(errOut)
		return 2
	}
}

func printKeyUsage(w io.Writer) {
	fmt.Fprintln(w, "sealmint key: minimal local key management")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sealmint key init --name <name> [--seed-hex <64hex>] [--force]")
	fmt.Fprintln(w, "  sealmint key derive --from <name> --purpose <purpose> [--force]")
	fmt.Fprintln(w, "  sealmint key list")
	fmt.Fprintln(w, "  sealmint key export --name <name> [--purpose <purpose>]")
}

func cmdKeyInit(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key init", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var seedHex string
	var force bool

	fs.StringVar(&name, "name", "", "Key name (directory under ~/.sealmint/keys)")
	fs.StringVar(&seedHex, "seed-hex", "", "Optional ed25519 seed as 64 hex chars (for reproducible demos)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	vault, err := keys.OpenVault("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}

	var seed []byte
	if seedHex != "" {
		var derr error
		seed, derr = keys.ParseSeedHex(seedHex)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid --seed-hex: %v\n", derr)
			return 2
		}
	} else {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			fmt.Fprintf(errOut, "rand: %v\n", err)
			return 1
		}
	}

	ownerKey, rootPath, err := vault.InitializeRootKey(name, seed, force)
	if err != nil {
		fmt.Fprintf(errOut, "write key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created root key: %s\n", ownerKey)
	fmt.Fprintf(out, "Stored at: %s\n", rootPath)
	return 0
}

func cmdKeyDerive(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key derive", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var from string
	var purpose string
	var force bool

	fs.StringVar(&from, "from", "", "Root key name")
	fs.StringVar(&purpose, "purpose", "", "Purpose identifier (e.g. trading, attestation)")
	fs.BoolVar(&force, "force", false, "Overwrite existing key files")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if from == "" {
		fmt.Fprintln(errOut, "missing --from")
		return 2
	}
	if purpose == "" {
		fmt.Fprintln(errOut, "missing --purpose")
		return 2
	}
	if err := keys.CheckKeyName(from); err != nil {
		fmt.Fprintf(errOut, "invalid --from: %v\n", err)
		return 2
	}
	if err := keys.CheckPurpose(purpose); err != nil {
		fmt.Fprintf(errOut, "invalid --purpose: %v\n", err)
		return 2
	}
	vault, err := keys.OpenVault("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	ownerKey, purposePath, err := vault.DeriveKeyForPurpose(from, purpose, force)
	if err != nil {
		fmt.Fprintf(errOut, "derive purpose key: %v\n", err)
		return 1
	}
	fmt.Fprintf(out, "Created purpose key: %s\n", ownerKey)
	fmt.Fprintf(out, "Stored at: %s\n", purposePath)
	return 0
}

func cmdKeyExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key export", flag.ContinueOnError)
	fs.SetOutput(errOut)

	var name string
	var purpose string

	fs.StringVar(&name, "name", "", "Key name")
	fs.StringVar(&purpose, "purpose", "", "Optional purpose (if set, exports derived purpose key)")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if name == "" {
		fmt.Fprintln(errOut, "missing --name")
		return 2
	}
	if err := keys.CheckKeyName(name); err != nil {
		fmt.Fprintf(errOut, "invalid --name: %v\n", err)
		return 2
	}
	if purpose != "" {
		if err := keys.CheckPurpose(purpose); err != nil {
			fmt.Fprintf(errOut, "invalid --purpose: %v\n", err)
			return 2
		}
	}
	vault, err := keys.OpenVault("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	ownerKey, err := vault.ExportKey(name, purpose)
	if err != nil {
		fmt.Fprintf(errOut, "export key: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, ownerKey)
	return 0
}

func cmdKeyList(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("key list", flag.ContinueOnError)
	fs.SetOutput(errOut)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	vault, err := keys.OpenVault("")
	if err != nil {
		fmt.Fprintf(errOut, "keys: %v\n", err)
		return 1
	}
	entries, err := vault.ListKeys()
	if err != nil {
		fmt.Fprintf(errOut, "list keys: %v\n", err)
		return 1
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s\n", e.Identifier)
		for _, p := range e.Purposes {
			fmt.Fprintf(out, "  - %s\n", p)
		}
	}
	return 0
}

func cmdArchive(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printArchiveUsage(errOut)
		return 2
	}
	switch args[0] {
	case "put":
		return cmdArchivePut(args[1:], out, errOut)
	case "get":
		return cmdArchiveGet(args[1:], out, errOut)
	case "has":
		return cmdArchiveHas(args[1:], out, errOut)
	case "stat":
		return cmdArchiveStat(args[1:], out, errOut)
	case "export":
		return cmdArchiveExport(args[1:], out, errOut)
	case "import":
		return cmdArchiveImport(args[1:], out, errOut)
	case "backends":
		for _, b := range archregistry.List(archregistry.UsageCLI) {
			if b.Description == "" {
				fmt.Fprintf(out, "%s\n", b.Name)
				continue
			}
			fmt.Fprintf(out, "%s\t%s\n", b.Name, b.Description)
		}
		return 0
	case "help", "-h", "--help":
		printArchiveUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown archive subcommand: %s\n\n", args[0])
		printArchiveUsage(errOut)
		return 2
	}
}

func printArchiveUsage(w io.Writer) {
	fmt.Fprintln(w, "sealmint archive: container archive operations")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  sealmint archive put --backend <name> [backend flags] <container>")
	fmt.Fprintln(w, "  sealmint archive get --backend <name> [backend flags] <cid>")
	fmt.Fprintln(w, "  sealmint archive has --backend <name> [backend flags] <cid>")
	fmt.Fprintln(w, "  sealmint archive stat --backend <name> [backend flags] <cid>")
	fmt.Fprintln(w, "  sealmint archive export --backend <name> [backend flags] --out <bundle.tar> <cid> [<cid> ...]")
	fmt.Fprintln(w, "  sealmint archive import --backend <name> [backend flags] <bundle.tar>")
	fmt.Fprintln(w, "  sealmint archive backends")
}

func openBackend(name string, errOut io.Writer) (storage.Archive, func() error, bool) {
	if name == "" {
		fmt.Fprintln(errOut, "missing --backend")
		return nil, nil, false
	}
	a, closeFn, err := archregistry.Open(name, archregistry.UsageCLI)
	if err != nil {
		fmt.Fprintf(errOut, "open backend: %v\n", err)
		return nil, nil, false
	}
	return a, closeFn, true
}

func cmdArchivePut(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive put", flag.ContinueOnError)
	fs.SetOutput(errOut)
	backend := fs.String("backend", "localfs", "Archive backend name")
	archregistry.RegisterFlags(fs, archregistry.UsageCLI)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sealmint archive put --backend <name> [backend flags] <container>")
		return 2
	}

	b, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "read container: %v\n", err)
		return 1
	}

	arch, closeFn, ok := openBackend(*backend, errOut)
	if !ok {
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	id, err := arch.Put(b)
	if err != nil {
		fmt.Fprintf(errOut, "put: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, id.String())
	return 0
}

func cmdArchiveGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	backend := fs.String("backend", "localfs", "Archive backend name")
	archregistry.RegisterFlags(fs, archregistry.UsageCLI)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sealmint archive get --backend <name> [backend flags] <cid>")
		return 2
	}

	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid cid: %v\n", err)
		return 2
	}

	arch, closeFn, ok := openBackend(*backend, errOut)
	if !ok {
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	b, err := arch.Get(id)
	if err != nil {
		fmt.Fprintf(errOut, "get: %v\n", err)
		return 1
	}
	_, _ = out.Write(b)
	return 0
}

func cmdArchiveHas(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive has", flag.ContinueOnError)
	fs.SetOutput(errOut)
	backend := fs.String("backend", "localfs", "Archive backend name")
	archregistry.RegisterFlags(fs, archregistry.UsageCLI)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sealmint archive has --backend <name> [backend flags] <cid>")
		return 2
	}

	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid cid: %v\n", err)
		return 2
	}

	arch, closeFn, ok := openBackend(*backend, errOut)
	if !ok {
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	if !arch.Has(id) {
		_, _ = fmt.Fprintln(out, "absent")
		return 1
	}
	_, _ = fmt.Fprintln(out, "present")
	return 0
}

func cmdArchiveStat(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive stat", flag.ContinueOnError)
	fs.SetOutput(errOut)
	backend := fs.String("backend", "localfs", "Archive backend name")
	archregistry.RegisterFlags(fs, archregistry.UsageCLI)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sealmint archive stat --backend <name> [backend flags] <cid>")
		return 2
	}

	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "invalid cid: %v\n", err)
		return 2
	}

	arch, closeFn, ok := openBackend(*backend, errOut)
	if !ok {
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	var size uint64
	if sized, ok := arch.(storage.Sizer); ok {
		size, err = sized.Size(id)
	} else {
		var b []byte
		b, err = arch.Get(id)
		size = uint64(len(b))
	}
	if err != nil {
		fmt.Fprintf(errOut, "stat: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(out, "%d\n", size)
	return 0
}

func cmdArchiveExport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive export", flag.ContinueOnError)
	fs.SetOutput(errOut)
	backend := fs.String("backend", "localfs", "Archive backend name")
	outPath := fs.String("out", "", "Bundle output file")
	archregistry.RegisterFlags(fs, archregistry.UsageCLI)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *outPath == "" || fs.NArg() == 0 {
		fmt.Fprintln(errOut, "usage: sealmint archive export --backend <name> [backend flags] --out <bundle.tar> <cid> [<cid> ...]")
		return 2
	}

	ids := make([]cid.Cid, 0, fs.NArg())
	labels := map[string]cid.Cid{}
	for _, s := range fs.Args() {
		id, derr := cid.Decode(s)
		if derr != nil {
			fmt.Fprintf(errOut, "invalid cid %s: %v\n", s, derr)
			return 2
		}
		ids = append(ids, id)
	}

	arch, closeFn, ok := openBackend(*backend, errOut)
	if !ok {
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	// Label each exported container with its stable ID when it decodes as a
	// minted container.
	for _, id := range ids {
		b, gerr := arch.Get(id)
		if gerr != nil {
			continue
		}
		fields, serr := artifact.Summary(b)
		if serr != nil {
			continue
		}
		if identity, ierr := artifact.Identify(b, artifact.Kind(fields[0]), fields[2]); ierr == nil {
			labels[identity.StableID] = id
		}
	}

	f, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(errOut, "create %s: %v\n", *outPath, err)
		return 1
	}
	defer f.Close()

	if err := bundle.Export(f, arch, ids, bundle.ExportOptions{IncludeIndex: true, Labels: labels}); err != nil {
		fmt.Fprintf(errOut, "export: %v\n", err)
		return 1
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(errOut, "close %s: %v\n", *outPath, err)
		return 1
	}
	fmt.Fprintf(out, "exported %d containers to %s\n", len(ids), *outPath)
	return 0
}

func cmdArchiveImport(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("archive import", flag.ContinueOnError)
	fs.SetOutput(errOut)
	backend := fs.String("backend", "localfs", "Archive backend name")
	ignoreUnknown := fs.Bool("ignore-unknown", false, "Skip unknown bundle entries instead of failing")
	archregistry.RegisterFlags(fs, archregistry.UsageCLI)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "usage: sealmint archive import --backend <name> [backend flags] <bundle.tar>")
		return 2
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(errOut, "open bundle: %v\n", err)
		return 1
	}
	defer f.Close()

	arch, closeFn, ok := openBackend(*backend, errOut)
	if !ok {
		return 2
	}
	if closeFn != nil {
		defer closeFn()
	}

	if err := bundle.ImportWithOptions(f, arch, bundle.ImportOptions{IgnoreUnknown: *ignoreUnknown}); err != nil {
		fmt.Fprintf(errOut, "import: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintln(out, "OK")
	return 0
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
