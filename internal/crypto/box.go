package crypto

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/box"
)

// Box wire format: versionTag(8) || ephemeralPublicKey(32) || nonce(24) ||
// sealed. NaCl box (X25519 + XSalsa20-Poly1305); the Poly1305 tag lives
// inside the sealed portion.
const (
	boxPubKeyLen = 32
	boxNonceLen  = 24
	boxHeaderLen = versionTagLen + boxPubKeyLen + boxNonceLen
)

// BoxKeypair derives the session's deterministic box keypair from the v2
// key material: seed = SHA-256(v2 || "box"). The same signature always
// yields the same keypair, so a pay link stays valid across sessions.
func (s *Session) BoxKeypair() (publicKey, secretKey *[32]byte, err error) {
	if s.v2Key == nil {
		return nil, nil, fmt.Errorf("%w: box keypair needs v2 material", ErrKeyNotDerived)
	}
	seed := sha256.Sum256(append(append(make([]byte, 0, len(s.v2Key)+len(boxSeedSuffix)), s.v2Key...), boxSeedSuffix...))
	publicKey, secretKey, err = box.GenerateKey(bytes.NewReader(seed[:]))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive box keypair: %w", err)
	}
	return publicKey, secretKey, nil
}

// BoxPublicKeyHex returns only the public half of the box keypair,
// hex-encoded. This is the value embedded in a shareable pay link.
func (s *Session) BoxPublicKeyHex() (string, error) {
	publicKey, _, err := s.BoxKeypair()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(publicKey[:]), nil
}

// EncryptForRecipient seals plaintext so that only the holder of the
// matching box secret key can open it. A fresh ephemeral keypair and nonce
// are generated per call; the sender needs no key material of their own,
// which is what lets a pay-link deposit happen without a handshake.
func EncryptForRecipient(plaintext, recipientPublicKey []byte) ([]byte, error) {
	if len(recipientPublicKey) != boxPubKeyLen {
		return nil, fmt.Errorf("%w: recipient key is %d bytes", ErrInvalidKeyLength, len(recipientPublicKey))
	}

	ephemeralPub, ephemeralSec, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ephemeral keypair: %w", err)
	}

	var nonce [boxNonceLen]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	var recipient [boxPubKeyLen]byte
	copy(recipient[:], recipientPublicKey)
	sealed := box.Seal(nil, plaintext, &nonce, &recipient, ephemeralSec)

	blob := make([]byte, 0, boxHeaderLen+len(sealed))
	blob = append(blob, versionTagBox...)
	blob = append(blob, ephemeralPub[:]...)
	blob = append(blob, nonce[:]...)
	blob = append(blob, sealed...)
	return blob, nil
}

// DecryptBox opens a pay-link blob with the session's own box secret key.
func (s *Session) DecryptBox(blob []byte) ([]byte, error) {
	if DetectFormat(blob) != FormatBox {
		return nil, fmt.Errorf("%w: not a box blob", ErrDecryptionFailed)
	}
	if len(blob) < boxHeaderLen {
		return nil, fmt.Errorf("%w: truncated input", ErrDecryptionFailed)
	}

	_, secretKey, err := s.BoxKeypair()
	if err != nil {
		return nil, err
	}

	var ephemeralPub [boxPubKeyLen]byte
	copy(ephemeralPub[:], blob[versionTagLen:versionTagLen+boxPubKeyLen])
	var nonce [boxNonceLen]byte
	copy(nonce[:], blob[versionTagLen+boxPubKeyLen:boxHeaderLen])

	plaintext, ok := box.Open(nil, blob[boxHeaderLen:], &nonce, &ephemeralPub, secretKey)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
