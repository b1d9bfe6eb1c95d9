package model

// KeyVersion selects which derived UTXO private key a record is spendable
// with. Old on-chain ciphertexts were written under v1 keys and must remain
// spendable, so the version travels with every decrypted record.
type KeyVersion string

const (
	KeyVersionV1 KeyVersion = "v1"
	KeyVersionV2 KeyVersion = "v2"
)

// UtxoRecord is one shielded balance fragment. Amount and Blinding are
// arbitrary-precision decimal strings; the on-chain plaintext form is
// "amount|blinding|index|mintAddress".
type UtxoRecord struct {
	Amount      string `json:"amount"`      // unsigned decimal string
	Blinding    string `json:"blinding"`    // decimal string
	Index       uint64 `json:"index"`       // position in the commitment tree
	MintAddress string `json:"mintAddress"` // base58 asset identifier

	// Version and PrivateKey are populated on decrypt only: the wire
	// format the blob used, and the matching spending key.
	Version    KeyVersion `json:"version,omitempty"`
	PrivateKey string     `json:"privateKey,omitempty"`
}
