package handler

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/privacymoney/shield-wallet/internal/common"
	"github.com/privacymoney/shield-wallet/internal/config"
	"github.com/privacymoney/shield-wallet/internal/crypto"
	"github.com/privacymoney/shield-wallet/internal/model"
	"github.com/privacymoney/shield-wallet/solana"
)

// ShieldHandler exposes one key-derivation session over HTTP. The service
// is single-user (one wallet, one session) like the rest of the local
// wallet tooling.
type ShieldHandler struct {
	session        *crypto.Session
	payLinkBaseURL string
}

// NewShieldHandler creates a handler with a fresh session. When
// WALLET_KEYPAIR_PATH is configured, keys are derived at startup from the
// local wallet; otherwise the client derives via POST /shield/derive.
func NewShieldHandler() (*ShieldHandler, error) {
	h := &ShieldHandler{
		session:        crypto.NewSession(),
		payLinkBaseURL: config.GetPayLinkBaseURL(),
	}

	if path := config.GetWalletKeypairPath(); path != "" {
		signer, err := solana.LoadSigner(path)
		if err != nil {
			return nil, err
		}
		if err := h.session.DeriveFromWalletSignMessage(signer.SignMessage); err != nil {
			return nil, fmt.Errorf("failed to derive keys from wallet: %w", err)
		}
	}
	return h, nil
}

// Derive handles POST /shield/derive
// @Summary      Derive session keys
// @Description  Derives v1/v2 key material and the box keypair from a wallet signature
// @Tags         shield
// @Accept       json
// @Produce      json
// @Param        request  body      model.DeriveRequest  true  "Base64 wallet signature"
// @Success      200      {object}  model.DeriveResponse
// @Router       /shield/derive [post]
func (h *ShieldHandler) Derive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.DeriveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	signature, err := base64.StdEncoding.DecodeString(req.Signature)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid signature encoding: %w", err))
		return
	}
	defer clear(signature)

	if err := h.session.DeriveFromSignature(signature); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	boxPublicKey, err := h.session.BoxPublicKeyHex()
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, model.DeriveResponse{Success: true, BoxPublicKey: boxPublicKey})
}

// GetKey handles GET /shield/keys/{version}
// @Summary      Get UTXO private key
// @Description  Returns the cached hex UTXO private key for version v1 or v2
// @Tags         shield
// @Produce      json
// @Param        version  path      string  true  "Key version (v1 or v2)"
// @Success      200      {object}  model.KeyResponse
// @Router       /shield/keys/{version} [get]
func (h *ShieldHandler) GetKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	version := model.KeyVersion(strings.TrimPrefix(r.URL.Path, "/shield/keys/"))
	if version != model.KeyVersionV1 && version != model.KeyVersionV2 {
		respondError(w, http.StatusBadRequest, fmt.Errorf("unknown key version %q", version))
		return
	}
	privateKey, err := h.session.UtxoPrivateKey(version)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, model.KeyResponse{Version: version, PrivateKey: privateKey})
}

// PayLink handles GET /shield/paylink
// @Summary      Get shareable pay link
// @Description  Returns the pay-link URL embedding the box public key, plus a QR code
// @Tags         shield
// @Produce      json
// @Success      200  {object}  model.PayLinkResponse
// @Router       /shield/paylink [get]
func (h *ShieldHandler) PayLink(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	boxPublicKey, err := h.session.BoxPublicKeyHex()
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	link := common.BuildPayLink(h.payLinkBaseURL, boxPublicKey)
	qr, err := common.PayLinkQRCode(link)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, model.PayLinkResponse{Link: link, QR: qr})
}

// Encrypt handles POST /shield/encrypt
// @Summary      Encrypt raw buffer
// @Description  Encrypts an opaque payload with the current symmetric format
// @Tags         shield
// @Accept       json
// @Produce      json
// @Param        request  body      model.EncryptRequest  true  "Base64 plaintext"
// @Success      200      {object}  model.EncryptResponse
// @Router       /shield/encrypt [post]
func (h *ShieldHandler) Encrypt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.EncryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	plaintext, err := base64.StdEncoding.DecodeString(req.Plaintext)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid plaintext encoding: %w", err))
		return
	}
	defer clear(plaintext)

	blob, err := h.session.EncryptV2(plaintext)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, model.EncryptResponse{CipherText: base64.StdEncoding.EncodeToString(blob)})
}

// Decrypt handles POST /shield/decrypt
// @Summary      Decrypt raw buffer
// @Description  Decrypts a symmetric blob, auto-detecting V1 vs V2 by version tag
// @Tags         shield
// @Accept       json
// @Produce      json
// @Param        request  body      model.DecryptRequest  true  "Base64 ciphertext blob"
// @Success      200      {object}  model.DecryptResponse
// @Router       /shield/decrypt [post]
func (h *ShieldHandler) Decrypt(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	blob, ok := decodeBlob(w, r)
	if !ok {
		return
	}

	plaintext, err := h.session.Decrypt(blob)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	defer clear(plaintext)
	respondJSON(w, http.StatusOK, model.DecryptResponse{Plaintext: base64.StdEncoding.EncodeToString(plaintext)})
}

// EncryptUtxo handles POST /shield/utxo/encrypt
// @Summary      Encrypt UTXO record
// @Description  Serializes and encrypts a self-owned UTXO record (V2 format)
// @Tags         shield
// @Accept       json
// @Produce      json
// @Param        request  body      model.UtxoRecord  true  "UTXO record"
// @Success      200      {object}  model.EncryptResponse
// @Router       /shield/utxo/encrypt [post]
func (h *ShieldHandler) EncryptUtxo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var record model.UtxoRecord
	if err := json.NewDecoder(r.Body).Decode(&record); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if !solana.ValidMintAddress(record.MintAddress) {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid mint address %q", record.MintAddress))
		return
	}

	blob, err := h.session.EncryptRecord(&record)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, model.EncryptResponse{CipherText: base64.StdEncoding.EncodeToString(blob)})
}

// EncryptUtxoFor handles POST /shield/utxo/encrypt-for
// @Summary      Encrypt UTXO record for recipient
// @Description  Seals a record for a pay-link recipient's box public key
// @Tags         shield
// @Accept       json
// @Produce      json
// @Param        request  body      model.UtxoEncryptForRequest  true  "Record and recipient key"
// @Success      200      {object}  model.EncryptResponse
// @Router       /shield/utxo/encrypt-for [post]
func (h *ShieldHandler) EncryptUtxoFor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.UtxoEncryptForRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	recipientKey, err := common.DecodePublicKeyHex(req.RecipientKey)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if !solana.ValidMintAddress(req.Record.MintAddress) {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid mint address %q", req.Record.MintAddress))
		return
	}

	blob, err := crypto.EncryptRecordForRecipient(&req.Record, recipientKey)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, model.EncryptResponse{CipherText: base64.StdEncoding.EncodeToString(blob)})
}

// DecryptUtxo handles POST /shield/utxo/decrypt
// @Summary      Decrypt UTXO record
// @Description  Decrypts a blob of any wire format into a typed UTXO record
// @Tags         shield
// @Accept       json
// @Produce      json
// @Param        request  body      model.DecryptRequest  true  "Base64 ciphertext blob"
// @Success      200      {object}  model.UtxoRecord
// @Router       /shield/utxo/decrypt [post]
func (h *ShieldHandler) DecryptUtxo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	blob, ok := decodeBlob(w, r)
	if !ok {
		return
	}

	record, err := h.session.DecryptRecord(blob)
	if err != nil {
		respondError(w, statusFor(err), err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Detect handles POST /shield/detect
// @Summary      Detect blob format
// @Description  Classifies a blob's wire format and required key version without decrypting
// @Tags         shield
// @Accept       json
// @Produce      json
// @Param        request  body      model.DecryptRequest  true  "Base64 ciphertext blob"
// @Success      200      {object}  model.DetectResponse
// @Router       /shield/detect [post]
func (h *ShieldHandler) Detect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	blob, ok := decodeBlob(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, model.DetectResponse{
		Format:     crypto.DetectFormat(blob).String(),
		KeyVersion: crypto.KeyVersionForBlob(blob),
	})
}

// Reset handles POST /shield/reset
// @Summary      Drop session keys
// @Description  Zeroes and discards all cached key material
// @Tags         shield
// @Produce      json
// @Success      200  {object}  model.ResetResponse
// @Router       /shield/reset [post]
func (h *ShieldHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	h.session.Reset()
	respondJSON(w, http.StatusOK, model.ResetResponse{Success: true, Message: "Session keys cleared"})
}

func decodeBlob(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	var req model.DecryptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return nil, false
	}
	blob, err := base64.StdEncoding.DecodeString(req.CipherText)
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("invalid ciphertext encoding: %w", err))
		return nil, false
	}
	return blob, true
}

// statusFor maps core error kinds to HTTP statuses: missing keys are a
// session-state conflict, everything the caller sent wrong is a 400.
func statusFor(err error) int {
	switch {
	case errors.Is(err, crypto.ErrKeyNotDerived), errors.Is(err, crypto.ErrKeyNotSet):
		return http.StatusConflict
	case errors.Is(err, crypto.ErrDecryptionFailed),
		errors.Is(err, crypto.ErrMalformedRecord),
		errors.Is(err, crypto.ErrInvalidField),
		errors.Is(err, crypto.ErrInvalidKeyLength):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, model.ErrorResponse{Error: err.Error()})
}
