package crypto

import (
	"testing"

	"github.com/privacymoney/shield-wallet/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

func testRecord() *model.UtxoRecord {
	return &model.UtxoRecord{
		Amount:      "1000",
		Blinding:    "42",
		Index:       0,
		MintAddress: "So11111111111111111111111111111111111111112",
	}
}

func TestSerializeRecord(t *testing.T) {
	plaintext, err := SerializeRecord(testRecord())
	require.NoError(t, err)
	assert.Equal(t, "1000|42|0|So11111111111111111111111111111111111111112", plaintext)
}

func TestSerializeRecordDelimiterRejection(t *testing.T) {
	record := testRecord()
	record.MintAddress = "So1111|11112"
	_, err := SerializeRecord(record)
	assert.ErrorIs(t, err, ErrInvalidField)

	// The encrypt path must reject before any encryption happens, even
	// without derived keys.
	s := NewSession()
	_, err = s.EncryptRecord(record)
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestSerializeRecordFieldValidation(t *testing.T) {
	record := testRecord()
	record.Amount = "12a"
	_, err := SerializeRecord(record)
	assert.ErrorIs(t, err, ErrInvalidField)

	record = testRecord()
	record.Amount = "-5"
	_, err = SerializeRecord(record)
	assert.ErrorIs(t, err, ErrInvalidField)

	// A negative blinding factor is a legal decimal integer.
	record = testRecord()
	record.Blinding = "-42"
	_, err = SerializeRecord(record)
	assert.NoError(t, err)
}

func TestRecordRoundTripV2(t *testing.T) {
	s := derivedSession(t)
	blob, err := s.EncryptRecord(testRecord())
	require.NoError(t, err)

	got, err := s.DecryptRecord(blob)
	require.NoError(t, err)
	assert.Equal(t, "1000", got.Amount)
	assert.Equal(t, "42", got.Blinding)
	assert.Equal(t, uint64(0), got.Index)
	assert.Equal(t, "So11111111111111111111111111111111111111112", got.MintAddress)
	assert.Equal(t, model.KeyVersionV2, got.Version)

	wantKey, err := s.UtxoPrivateKey(model.KeyVersionV2)
	require.NoError(t, err)
	assert.Equal(t, wantKey, got.PrivateKey)
}

func TestRecordRoundTripV1(t *testing.T) {
	s := derivedSession(t)
	record := testRecord()
	record.Amount = "123456789012345678901234567890"
	record.Index = 41

	blob, err := s.EncryptRecordV1(record)
	require.NoError(t, err)

	got, err := s.DecryptRecord(blob)
	require.NoError(t, err)
	assert.Equal(t, record.Amount, got.Amount)
	assert.Equal(t, uint64(41), got.Index)
	assert.Equal(t, model.KeyVersionV1, got.Version)

	// V1 records must carry the V1-derived spending key.
	wantKey, err := s.UtxoPrivateKey(model.KeyVersionV1)
	require.NoError(t, err)
	assert.Equal(t, wantKey, got.PrivateKey)
}

func TestRecordRoundTripBox(t *testing.T) {
	recipient := derivedSession(t)
	publicKey, _, err := recipient.BoxKeypair()
	require.NoError(t, err)

	record := testRecord()
	record.MintAddress = usdcMint
	blob, err := EncryptRecordForRecipient(record, publicKey[:])
	require.NoError(t, err)

	got, err := recipient.DecryptRecord(blob)
	require.NoError(t, err)
	assert.Equal(t, record.Amount, got.Amount)
	assert.Equal(t, usdcMint, got.MintAddress)
	assert.Equal(t, model.KeyVersionV2, got.Version)

	wantKey, err := recipient.UtxoPrivateKey(model.KeyVersionV2)
	require.NoError(t, err)
	assert.Equal(t, wantKey, got.PrivateKey)
}

func TestDecryptRecordMalformed(t *testing.T) {
	s := derivedSession(t)
	for name, plaintext := range map[string]string{
		"too few fields":  "a|b",
		"too many fields": "1|2|3|mint|extra",
		"empty field":     "1||0|mint",
		"bad index":       "1|2|x|mint",
	} {
		t.Run(name, func(t *testing.T) {
			blob, err := s.EncryptV2([]byte(plaintext))
			require.NoError(t, err)
			_, err = s.DecryptRecord(blob)
			assert.ErrorIs(t, err, ErrMalformedRecord)
		})
	}
}

func TestCrossVersionSpendability(t *testing.T) {
	s := derivedSession(t)
	blob, err := s.EncryptRecordV1(testRecord())
	require.NoError(t, err)

	// Only V1 material present: the legacy record still decrypts and is
	// tagged v1.
	clear(s.v2Key)
	s.v2Key = nil
	s.utxoPrivKeyV2 = ""
	got, err := s.DecryptRecord(blob)
	require.NoError(t, err)
	assert.Equal(t, model.KeyVersionV1, got.Version)

	// Only V2 material present: the V1 path has no key and fails closed.
	v2Only := derivedSession(t)
	clear(v2Only.v1Key)
	v2Only.v1Key = nil
	v2Only.utxoPrivKeyV1 = ""
	_, err = v2Only.DecryptRecord(blob)
	assert.ErrorIs(t, err, ErrKeyNotSet)
}

func TestDecryptRecordTamperFailsClosed(t *testing.T) {
	s := derivedSession(t)
	blob, err := s.EncryptRecord(testRecord())
	require.NoError(t, err)
	blob[len(blob)-1] ^= 0x01

	record, err := s.DecryptRecord(blob)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
	assert.Nil(t, record, "no partial record on failure")
}
