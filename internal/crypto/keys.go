package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/privacymoney/shield-wallet/internal/model"

	"golang.org/x/crypto/sha3"
)

// SignInMessage is the fixed message a wallet signs to derive its shielded
// balance keys. Changing it would orphan every existing balance.
const SignInMessage = "Privacy Money account sign in"

const (
	v1KeyLen = 31
	v2KeyLen = 32

	// boxSeedSuffix domain-separates the box keypair seed from the v2
	// symmetric key.
	boxSeedSuffix = "box"
)

// SignFunc is the wallet signing capability: it signs a message and returns
// the raw signature bytes. The wallet itself is an external collaborator.
type SignFunc func(message []byte) ([]byte, error)

// Session owns the key material derived from one wallet signature and the
// codecs built on it. Key material is written once by a Derive call and
// read-only afterwards, so concurrent reads are safe without locking.
// Reset racing with reads is undefined; callers must serialize Reset
// against all other use (single-writer, multi-reader contract).
type Session struct {
	v1Key []byte // signature[0:31]
	v2Key []byte // keccak256(signature), independent of v1Key

	utxoPrivKeyV1 string
	utxoPrivKeyV2 string
}

// NewSession returns a session with no key material. Every key-dependent
// operation fails until DeriveFromSignature runs.
func NewSession() *Session {
	return &Session{}
}

// DeriveFromSignature derives both key sets from a wallet signature.
// v1 is the first 31 signature bytes (legacy), v2 is keccak256 of the whole
// signature. The per-version UTXO private keys are precomputed here so that
// later reads are pure cache hits. Idempotent for the same signature.
func (s *Session) DeriveFromSignature(signature []byte) error {
	if len(signature) < v1KeyLen {
		return fmt.Errorf("signature too short: got %d bytes, need at least %d", len(signature), v1KeyLen)
	}

	s.v1Key = make([]byte, v1KeyLen)
	copy(s.v1Key, signature[:v1KeyLen])
	s.v2Key = keccak256(signature)

	v1Sum := sha256.Sum256(s.v1Key)
	s.utxoPrivKeyV1 = "0x" + hex.EncodeToString(v1Sum[:])
	s.utxoPrivKeyV2 = "0x" + hex.EncodeToString(keccak256(s.v2Key))
	return nil
}

// DeriveFromWalletSignMessage signs SignInMessage with the supplied wallet
// capability and derives from the resulting signature.
func (s *Session) DeriveFromWalletSignMessage(sign SignFunc) error {
	signature, err := sign([]byte(SignInMessage))
	if err != nil {
		return fmt.Errorf("failed to sign derivation message: %w", err)
	}
	return s.DeriveFromSignature(signature)
}

// UtxoPrivateKey returns the cached hex-encoded UTXO private key for the
// given version. Returns ErrKeyNotDerived if derivation has not run.
func (s *Session) UtxoPrivateKey(version model.KeyVersion) (string, error) {
	var key string
	switch version {
	case model.KeyVersionV1:
		key = s.utxoPrivKeyV1
	case model.KeyVersionV2:
		key = s.utxoPrivKeyV2
	default:
		return "", fmt.Errorf("unknown key version %q", version)
	}
	if key == "" {
		return "", fmt.Errorf("%w: version %s", ErrKeyNotDerived, version)
	}
	return key, nil
}

// Derived reports whether key material is present.
func (s *Session) Derived() bool {
	return s.v2Key != nil
}

// Reset zeroes and drops all cached key material. Must not race with any
// other call on the session; used for key rotation and fresh-session tests.
func (s *Session) Reset() {
	clear(s.v1Key)
	clear(s.v2Key)
	s.v1Key = nil
	s.v2Key = nil
	s.utxoPrivKeyV1 = ""
	s.utxoPrivKeyV2 = ""
}

// keccak256 is the legacy Keccak-256 (pre-NIST padding), matching the hash
// the on-chain ciphertexts were keyed with.
func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
