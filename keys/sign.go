package keys

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"verdict.market/sealmint/digest"
)

func digestFor(hashAlg string, message []byte) ([]byte, error) {
	sumHex, err := digest.SumHexAlg(hashAlg, message)
	if err != nil {
		return nil, err
	}
	return hex.DecodeString(sumHex)
}

// AttestEd25519SHA256 returns a base64 signature over sha256(container).
//
// Attestations sign the container bytes, not the canonical payload, so a
// signature also covers the embedded seal and rendering.
func AttestEd25519SHA256(container []byte, privateKey ed25519.PrivateKey) string {
	d := sha256.Sum256(container)
	sig := ed25519.Sign(privateKey, d[:])
	return base64.StdEncoding.EncodeToString(sig)
}

// VerifyEd25519SHA256 reports whether sig is a valid attestation of container.
func VerifyEd25519SHA256(container []byte, sigB64 string, pub ed25519.PublicKey) bool {
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false
	}
	d := sha256.Sum256(container)
	return ed25519.Verify(pub, d[:], sig)
}

// AttestDilithium3 returns a base64 dilithium3 signature over hash(container).
// hashAlg must be one of: sha256, sha512, sha3-256.
func AttestDilithium3(container []byte, hashAlg string, privateKey *mode3.PrivateKey) (string, error) {
	if privateKey == nil {
		return "", fmt.Errorf("missing private key")
	}
	d, err := digestFor(hashAlg, container)
	if err != nil {
		return "", err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(privateKey, d, sig)
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyDilithium3 reports whether sig is a valid dilithium3 attestation.
func VerifyDilithium3(container []byte, hashAlg, sigB64 string, pub *mode3.PublicKey) (bool, error) {
	if pub == nil {
		return false, fmt.Errorf("missing public key")
	}
	d, err := digestFor(hashAlg, container)
	if err != nil {
		return false, err
	}
	sig, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return false, err
	}
	return mode3.Verify(pub, d, sig), nil
}

// GenerateDilithium3Keypair returns a new Dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}
