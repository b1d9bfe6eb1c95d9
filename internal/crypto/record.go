package crypto

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/privacymoney/shield-wallet/internal/model"
)

// recordDelimiter separates the four UTXO fields in the plaintext wire
// form. Field values must never contain it; there is no escaping.
const recordDelimiter = "|"

const recordFieldCount = 4

// SerializeRecord renders a record to its plaintext wire form
// "amount|blinding|index|mintAddress". Amount must be an unsigned decimal
// string and blinding a decimal integer string; any field containing the
// delimiter is rejected before encryption can happen.
func SerializeRecord(record *model.UtxoRecord) (string, error) {
	fields := []string{
		record.Amount,
		record.Blinding,
		strconv.FormatUint(record.Index, 10),
		record.MintAddress,
	}
	for _, field := range fields {
		if strings.Contains(field, recordDelimiter) {
			return "", fmt.Errorf("%w: %q contains reserved delimiter", ErrInvalidField, field)
		}
	}
	if _, ok := new(big.Int).SetString(record.Amount, 10); !ok || strings.HasPrefix(record.Amount, "-") {
		return "", fmt.Errorf("%w: amount %q is not an unsigned decimal", ErrInvalidField, record.Amount)
	}
	if _, ok := new(big.Int).SetString(record.Blinding, 10); !ok {
		return "", fmt.Errorf("%w: blinding %q is not a decimal integer", ErrInvalidField, record.Blinding)
	}
	return strings.Join(fields, recordDelimiter), nil
}

// EncryptRecord encrypts a self-owned record. Always writes the current V2
// format; the V1 write path below exists only for backward-compat fixtures.
func (s *Session) EncryptRecord(record *model.UtxoRecord) ([]byte, error) {
	plaintext, err := SerializeRecord(record)
	if err != nil {
		return nil, err
	}
	return s.EncryptV2([]byte(plaintext))
}

// EncryptRecordV1 writes the legacy format. Test fixtures only.
func (s *Session) EncryptRecordV1(record *model.UtxoRecord) ([]byte, error) {
	plaintext, err := SerializeRecord(record)
	if err != nil {
		return nil, err
	}
	return s.EncryptV1([]byte(plaintext))
}

// EncryptRecordForRecipient seals a record for a pay-link recipient
// identified by their 32-byte box public key.
func EncryptRecordForRecipient(record *model.UtxoRecord, recipientPublicKey []byte) ([]byte, error) {
	plaintext, err := SerializeRecord(record)
	if err != nil {
		return nil, err
	}
	return EncryptForRecipient([]byte(plaintext), recipientPublicKey)
}

// DecryptRecord detects the blob's wire format, decrypts via the matching
// path, splits the plaintext and reconstructs a typed record. The record
// carries the key version of the format actually used and the matching
// UTXO private key: V1 blobs must stay spendable under the V1-derived key.
// Either a complete record or an error is returned, never a partial one.
func (s *Session) DecryptRecord(blob []byte) (*model.UtxoRecord, error) {
	var (
		plaintext []byte
		err       error
	)
	version := model.KeyVersionV2
	switch DetectFormat(blob) {
	case FormatBox:
		plaintext, err = s.DecryptBox(blob)
	case FormatV2:
		plaintext, err = s.decryptV2(blob)
	default:
		plaintext, err = s.decryptV1(blob)
		version = model.KeyVersionV1
	}
	if err != nil {
		return nil, err
	}

	parts := strings.Split(string(plaintext), recordDelimiter)
	if len(parts) != recordFieldCount {
		return nil, fmt.Errorf("%w: got %d fields", ErrMalformedRecord, len(parts))
	}
	for _, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%w: empty field", ErrMalformedRecord)
		}
	}

	index, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad index %q", ErrMalformedRecord, parts[2])
	}

	privateKey, err := s.UtxoPrivateKey(version)
	if err != nil {
		return nil, err
	}

	return &model.UtxoRecord{
		Amount:      parts[0],
		Blinding:    parts[1],
		Index:       index,
		MintAddress: parts[3],
		Version:     version,
		PrivateKey:  privateKey,
	}, nil
}
