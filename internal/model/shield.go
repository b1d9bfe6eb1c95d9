package model

// DeriveRequest represents request for POST /shield/derive
type DeriveRequest struct {
	Signature string `json:"signature" binding:"required"` // base64 wallet signature
}

// DeriveResponse represents response for POST /shield/derive
type DeriveResponse struct {
	Success      bool   `json:"success"`
	BoxPublicKey string `json:"boxPublicKey"` // hex, safe to share
}

// KeyResponse represents response for GET /shield/keys/{version}
type KeyResponse struct {
	Version    KeyVersion `json:"version"`
	PrivateKey string     `json:"privateKey"` // 0x-prefixed hex
}

// PayLinkResponse represents response for GET /shield/paylink
type PayLinkResponse struct {
	Link string `json:"link"`
	QR   string `json:"qr"` // base64 PNG
}

// EncryptRequest represents request for POST /shield/encrypt
type EncryptRequest struct {
	Plaintext string `json:"plaintext" binding:"required"` // base64
}

// EncryptResponse carries a ciphertext blob produced by any encrypt route
type EncryptResponse struct {
	CipherText string `json:"cipherText"` // base64
}

// DecryptRequest represents request for POST /shield/decrypt and /shield/utxo/decrypt
type DecryptRequest struct {
	CipherText string `json:"cipherText" binding:"required"` // base64
}

// DecryptResponse represents response for POST /shield/decrypt
type DecryptResponse struct {
	Plaintext string `json:"plaintext"` // base64
}

// UtxoEncryptForRequest represents request for POST /shield/utxo/encrypt-for
type UtxoEncryptForRequest struct {
	Record       UtxoRecord `json:"record" binding:"required"`
	RecipientKey string     `json:"recipientKey" binding:"required"` // hex box public key
}

// DetectResponse represents response for POST /shield/detect
type DetectResponse struct {
	Format     string     `json:"format"` // v1 | v2 | box
	KeyVersion KeyVersion `json:"keyVersion"`
}

// ResetResponse represents response for POST /shield/reset
type ResetResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
