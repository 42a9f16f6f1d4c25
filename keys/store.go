package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Vault is a simple local-first owner-key store.
//
// EXPERIMENTAL: this filesystem-backed storage surface is not part of the
// stable artifact core API and may change in MINOR releases.
//
// Features:
// - Supports Ed25519 keys only
// - Stores seeds on the local filesystem
// - Generates deterministic subkeys per purpose
type Vault struct {
	Directory string
}

type VaultEntry struct {
	Identifier string
	Purposes   []string
}

func DefaultVaultDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".sealmint", "keys"), nil
}

func OpenVault(directory string) (*Vault, error) {
	if directory == "" {
		var err error
		directory, err = DefaultVaultDirectory()
		if err != nil {
			return nil, err
		}
	}
	return &Vault{Directory: directory}, nil
}

func (v *Vault) rootSeedPath(identifier string) string {
	return filepath.Join(v.Directory, identifier, "root.key")
}

func (v *Vault) purposeSeedPath(identifier, purpose string) string {
	return filepath.Join(v.Directory, identifier, "purposes", purpose+".key")
}

func CheckKeyName(identifier string) error {
	if identifier == "" {
		return errors.New("identifier cannot be empty")
	}
	for _, char := range identifier {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in identifier", char)
	}
	return nil
}

func CheckPurpose(purpose string) error {
	if purpose == "" {
		return errors.New("purpose cannot be empty")
	}
	for _, char := range purpose {
		if (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-' || char == '_' {
			continue
		}
		return fmt.Errorf("invalid character %q in purpose", char)
	}
	return nil
}

func ParseSeedHex(seedHex string) ([]byte, error) {
	seedHex = strings.TrimSpace(seedHex)
	seedHex = strings.TrimPrefix(seedHex, "0x")
	data, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, err
	}
	if len(data) != ed25519.SeedSize {
		return nil, fmt.Errorf("expected seed length of %d bytes, got %d", ed25519.SeedSize, len(data))
	}
	return data, nil
}

func (v *Vault) saveSeedToFile(filePath string, seed []byte, overwrite bool) error {
	if len(seed) != ed25519.SeedSize {
		return fmt.Errorf("expected seed length of %d bytes", ed25519.SeedSize)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o700); err != nil {
		return err
	}
	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(filePath, flags, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.WriteString(hex.EncodeToString(seed) + "\n"); err != nil {
		return err
	}
	return file.Close()
}

func (v *Vault) loadSeedFromFile(filePath string) ([]byte, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return ParseSeedHex(strings.TrimSpace(string(data)))
}

func (v *Vault) InitializeRootKey(identifier string, seed []byte, overwrite bool) (ownerKey string, filePath string, err error) {
	if err := CheckKeyName(identifier); err != nil {
		return "", "", err
	}
	filePath = v.rootSeedPath(identifier)
	if err := v.saveSeedToFile(filePath, seed, overwrite); err != nil {
		return "", "", err
	}
	return OwnerKeyFromSeed(seed), filePath, nil
}

func (v *Vault) DeriveKeyForPurpose(from, purpose string, overwrite bool) (ownerKey string, filePath string, err error) {
	if err := CheckKeyName(from); err != nil {
		return "", "", err
	}
	if err := CheckPurpose(purpose); err != nil {
		return "", "", err
	}
	rootSeed, err := v.loadSeedFromFile(v.rootSeedPath(from))
	if err != nil {
		return "", "", err
	}
	purposeSeed, err := DerivePurposeSeed(rootSeed, purpose)
	if err != nil {
		return "", "", err
	}
	filePath = v.purposeSeedPath(from, purpose)
	if err := v.saveSeedToFile(filePath, purposeSeed, overwrite); err != nil {
		return "", "", err
	}
	return OwnerKeyFromSeed(purposeSeed), filePath, nil
}

func (v *Vault) ExportKey(identifier string, purpose string) (string, error) {
	if err := CheckKeyName(identifier); err != nil {
		return "", err
	}
	var seed []byte
	var err error
	if purpose == "" {
		seed, err = v.loadSeedFromFile(v.rootSeedPath(identifier))
	} else {
		if err := CheckPurpose(purpose); err != nil {
			return "", err
		}
		seed, err = v.loadSeedFromFile(v.purposeSeedPath(identifier, purpose))
	}
	if err != nil {
		return "", err
	}
	return OwnerKeyFromSeed(seed), nil
}

// LoadSeed resolves signer key material from the first configured input:
// an inline hex seed, a key file path, or a vault identifier with an
// optional purpose.
func (v *Vault) LoadSeed(seedHex, signerName, signerPurpose, keyFile string) ([]byte, error) {
	if seedHex != "" {
		return ParseSeedHex(seedHex)
	}
	if keyFile != "" {
		return v.loadSeedFromFile(keyFile)
	}
	if signerName != "" {
		if err := CheckKeyName(signerName); err != nil {
			return nil, err
		}
		if signerPurpose == "" {
			return v.loadSeedFromFile(v.rootSeedPath(signerName))
		}
		if err := CheckPurpose(signerPurpose); err != nil {
			return nil, err
		}
		return v.loadSeedFromFile(v.purposeSeedPath(signerName, signerPurpose))
	}
	return nil, errors.New("no signer provided")
}

func (v *Vault) ListKeys() ([]VaultEntry, error) {
	entries, err := os.ReadDir(v.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var identifiers []string
	for _, entry := range entries {
		if entry.IsDir() {
			identifiers = append(identifiers, entry.Name())
		}
	}
	sort.Strings(identifiers)

	var result []VaultEntry
	for _, identifier := range identifiers {
		purposesDir := filepath.Join(v.Directory, identifier, "purposes")
		purposeEntries, perr := os.ReadDir(purposesDir)
		var purposes []string
		if perr == nil {
			for _, pe := range purposeEntries {
				if pe.IsDir() {
					continue
				}
				if strings.HasSuffix(pe.Name(), ".key") {
					purposes = append(purposes, strings.TrimSuffix(pe.Name(), ".key"))
				}
			}
			sort.Strings(purposes)
		}
		result = append(result, VaultEntry{Identifier: identifier, Purposes: purposes})
	}
	return result, nil
}
