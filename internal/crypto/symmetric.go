package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// V1 (legacy) wire format: nonce(16) || authTag(16) || ciphertext.
// AES-128-CTR keyed with v1Key[0:16], HMAC-SHA256 keyed with v1Key[16:31]
// over nonce || ciphertext, truncated to 16 bytes. The cipher/MAC key split
// of a single 31-byte buffer is frozen legacy behavior: existing on-chain
// blobs decrypt under exactly this construction and no other. Never reuse
// it for a new format.
const (
	v1CipherKeyLen = 16
	v1NonceLen     = 16
	v1TagLen       = 16
)

// V2 (current) wire format: versionTag(8) || nonce(12) || authTag(16) ||
// ciphertext. AES-256-GCM; the GCM tag is relocated in front of the
// ciphertext to match the on-chain layout.
const (
	v2NonceLen  = 12
	v2TagLen    = 16
	v2HeaderLen = versionTagLen + v2NonceLen + v2TagLen
)

// EncryptV1 encrypts with the legacy format. Kept for backward-compat
// fixtures only; new application data must use EncryptV2.
func (s *Session) EncryptV1(plaintext []byte) ([]byte, error) {
	if s.v1Key == nil {
		return nil, fmt.Errorf("%w: v1", ErrKeyNotSet)
	}

	nonce := make([]byte, v1NonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	block, err := aes.NewCipher(s.v1Key[:v1CipherKeyLen])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCTR(block, nonce).XORKeyStream(ciphertext, plaintext)

	tag := v1AuthTag(s.v1Key[v1CipherKeyLen:], nonce, ciphertext)

	blob := make([]byte, 0, v1NonceLen+v1TagLen+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// EncryptV2 encrypts with the current symmetric format under the session's
// derived v2 key. A fresh random nonce is generated per call; nonce reuse
// under the same key breaks GCM entirely.
func (s *Session) EncryptV2(plaintext []byte) ([]byte, error) {
	if s.v2Key == nil {
		return nil, fmt.Errorf("%w: v2", ErrKeyNotSet)
	}
	return sealV2(s.v2Key, plaintext)
}

// EncryptWithExternalKey encrypts in the V2 format under a caller-supplied
// 32-byte key instead of the derived one. Used when encrypting for someone
// else, e.g. a pay-link recipient whose symmetric key the sender holds.
func EncryptWithExternalKey(plaintext, key []byte) ([]byte, error) {
	if len(key) != v2KeyLen {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidKeyLength, len(key))
	}
	return sealV2(key, plaintext)
}

// Decrypt routes a blob to the matching symmetric decode path by its
// version tag. Blobs without a V2 tag take the legacy V1 path. Box blobs
// are rejected here; they require DecryptBox.
func (s *Session) Decrypt(blob []byte) ([]byte, error) {
	switch DetectFormat(blob) {
	case FormatV2:
		return s.decryptV2(blob)
	case FormatBox:
		return nil, fmt.Errorf("%w: box blob on symmetric path", ErrDecryptionFailed)
	default:
		return s.decryptV1(blob)
	}
}

func (s *Session) decryptV1(blob []byte) ([]byte, error) {
	if s.v1Key == nil {
		return nil, fmt.Errorf("%w: v1", ErrKeyNotSet)
	}
	if len(blob) < v1NonceLen+v1TagLen {
		return nil, fmt.Errorf("%w: truncated input", ErrDecryptionFailed)
	}

	nonce := blob[:v1NonceLen]
	tag := blob[v1NonceLen : v1NonceLen+v1TagLen]
	ciphertext := blob[v1NonceLen+v1TagLen:]

	// Authenticate before touching the ciphertext. hmac.Equal is
	// constant-time.
	want := v1AuthTag(s.v1Key[v1CipherKeyLen:], nonce, ciphertext)
	if !hmac.Equal(tag, want) {
		return nil, ErrDecryptionFailed
	}

	block, err := aes.NewCipher(s.v1Key[:v1CipherKeyLen])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCTR(block, nonce).XORKeyStream(plaintext, ciphertext)
	return plaintext, nil
}

func (s *Session) decryptV2(blob []byte) ([]byte, error) {
	if s.v2Key == nil {
		return nil, fmt.Errorf("%w: v2", ErrKeyNotSet)
	}
	if len(blob) < v2HeaderLen {
		return nil, fmt.Errorf("%w: truncated input", ErrDecryptionFailed)
	}

	nonce := blob[versionTagLen : versionTagLen+v2NonceLen]
	tag := blob[versionTagLen+v2NonceLen : v2HeaderLen]
	ciphertext := blob[v2HeaderLen:]

	aead, err := newGCM(s.v2Key)
	if err != nil {
		return nil, err
	}

	// GCM expects ciphertext || tag; the wire layout stores the tag first.
	sealed := make([]byte, 0, len(ciphertext)+v2TagLen)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func sealV2(key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, v2NonceLen)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	ciphertext := sealed[:len(sealed)-v2TagLen]
	tag := sealed[len(sealed)-v2TagLen:]

	blob := make([]byte, 0, v2HeaderLen+len(ciphertext))
	blob = append(blob, versionTagV2...)
	blob = append(blob, nonce...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

func v1AuthTag(macKey, nonce, ciphertext []byte) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(nonce)
	mac.Write(ciphertext)
	return mac.Sum(nil)[:v1TagLen]
}
