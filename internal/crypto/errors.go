package crypto

import "errors"

var (
	// ErrKeyNotDerived is returned when an operation needs key material
	// that was never derived for this session.
	ErrKeyNotDerived = errors.New("key material not derived")

	// ErrKeyNotSet is returned by codec paths when the key required for
	// the requested format is absent.
	ErrKeyNotSet = errors.New("encryption key not set")

	// ErrInvalidKeyLength is returned when a supplied key is not exactly
	// 32 bytes.
	ErrInvalidKeyLength = errors.New("key must be exactly 32 bytes")

	// ErrDecryptionFailed covers authentication failure, truncated input
	// and cipher-level errors. Callers must treat it as "wrong key or
	// corrupted data" without distinguishing further.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMalformedRecord is returned when decrypted plaintext does not
	// split into exactly 4 non-empty UTXO fields.
	ErrMalformedRecord = errors.New("malformed utxo record")

	// ErrInvalidField is returned when a UTXO field contains the
	// reserved delimiter or is not a valid decimal value.
	ErrInvalidField = errors.New("invalid utxo field")
)
