package solana

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Signer wraps a Solana keypair and provides the signing capability the
// key-derivation session consumes. The wallet signature never leaves this
// process; only material derived from it does.
type Signer struct {
	key solana.PrivateKey
}

// NewSigner wraps an in-memory private key.
func NewSigner(key solana.PrivateKey) *Signer {
	return &Signer{key: key}
}

// LoadSigner reads a solana-keygen JSON keypair file.
func LoadSigner(filePath string) (*Signer, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair: %w", err)
	}
	return &Signer{key: key}, nil
}

// SignMessage signs an arbitrary message with the wallet key and returns
// the raw 64-byte ed25519 signature.
func (s *Signer) SignMessage(message []byte) ([]byte, error) {
	signature, err := s.key.Sign(message)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	return signature[:], nil
}

// Address returns the wallet's base58 public address.
func (s *Signer) Address() string {
	return s.key.PublicKey().String()
}

// ValidMintAddress reports whether addr parses as a base58 Solana public
// key, the form asset mint identifiers take inside UTXO records.
func ValidMintAddress(addr string) bool {
	_, err := solana.PublicKeyFromBase58(addr)
	return err == nil
}
