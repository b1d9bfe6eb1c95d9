package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/privacymoney/shield-wallet/internal/config"
	"github.com/privacymoney/shield-wallet/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *ShieldHandler {
	t.Helper()
	t.Setenv("WALLET_KEYPAIR_PATH", "")
	require.NoError(t, config.Init())
	h, err := NewShieldHandler()
	require.NoError(t, err)
	return h
}

func deriveTestKeys(t *testing.T, h *ShieldHandler) model.DeriveResponse {
	t.Helper()
	signature := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x11}, 64))
	rec := doJSON(t, h.Derive, http.MethodPost, model.DeriveRequest{Signature: signature})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp model.DeriveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func doJSON(t *testing.T, handlerFn http.HandlerFunc, method string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, "/shield/test", &buf)
	rec := httptest.NewRecorder()
	handlerFn(rec, req)
	return rec
}

func TestDeriveAndGetKeys(t *testing.T) {
	h := newTestHandler(t)
	resp := deriveTestKeys(t, h)
	assert.True(t, resp.Success)
	assert.Len(t, resp.BoxPublicKey, 64)

	for _, version := range []string{"v1", "v2"} {
		req := httptest.NewRequest(http.MethodGet, "/shield/keys/"+version, nil)
		rec := httptest.NewRecorder()
		h.GetKey(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var key model.KeyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &key))
		assert.Len(t, key.PrivateKey, 66)
	}
}

func TestGetKeyBeforeDerive(t *testing.T) {
	h := newTestHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/shield/keys/v2", nil)
	rec := httptest.NewRecorder()
	h.GetKey(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUtxoEncryptDecryptRoundTrip(t *testing.T) {
	h := newTestHandler(t)
	deriveTestKeys(t, h)

	record := model.UtxoRecord{
		Amount:      "1000",
		Blinding:    "42",
		Index:       0,
		MintAddress: "So11111111111111111111111111111111111111112",
	}
	rec := doJSON(t, h.EncryptUtxo, http.MethodPost, record)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var enc model.EncryptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enc))

	rec = doJSON(t, h.DecryptUtxo, http.MethodPost, model.DecryptRequest{CipherText: enc.CipherText})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got model.UtxoRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, record.Amount, got.Amount)
	assert.Equal(t, record.MintAddress, got.MintAddress)
	assert.Equal(t, model.KeyVersionV2, got.Version)
	assert.NotEmpty(t, got.PrivateKey)
}

func TestUtxoEncryptRejectsBadMint(t *testing.T) {
	h := newTestHandler(t)
	deriveTestKeys(t, h)

	record := model.UtxoRecord{Amount: "1", Blinding: "2", MintAddress: "nope"}
	rec := doJSON(t, h.EncryptUtxo, http.MethodPost, record)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEncryptForRecipientFlow(t *testing.T) {
	// Recipient derives and shares their box public key; the sender seals
	// a record for it without any derived keys of their own.
	recipient := newTestHandler(t)
	boxPublicKey := deriveTestKeys(t, recipient).BoxPublicKey

	sender := newTestHandler(t)
	req := model.UtxoEncryptForRequest{
		Record: model.UtxoRecord{
			Amount:      "500",
			Blinding:    "7",
			Index:       3,
			MintAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		},
		RecipientKey: boxPublicKey,
	}
	rec := doJSON(t, sender.EncryptUtxoFor, http.MethodPost, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var enc model.EncryptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enc))

	rec = doJSON(t, recipient.DecryptUtxo, http.MethodPost, model.DecryptRequest{CipherText: enc.CipherText})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got model.UtxoRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "500", got.Amount)
	assert.Equal(t, model.KeyVersionV2, got.Version)
}

func TestDetect(t *testing.T) {
	h := newTestHandler(t)
	deriveTestKeys(t, h)

	rec := doJSON(t, h.Encrypt, http.MethodPost, model.EncryptRequest{
		Plaintext: base64.StdEncoding.EncodeToString([]byte("payload")),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var enc model.EncryptResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &enc))

	rec = doJSON(t, h.Detect, http.MethodPost, model.DecryptRequest{CipherText: enc.CipherText})
	require.Equal(t, http.StatusOK, rec.Code)

	var detect model.DetectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detect))
	assert.Equal(t, "v2", detect.Format)
	assert.Equal(t, model.KeyVersionV2, detect.KeyVersion)
}

func TestPayLink(t *testing.T) {
	h := newTestHandler(t)
	boxPublicKey := deriveTestKeys(t, h).BoxPublicKey

	req := httptest.NewRequest(http.MethodGet, "/shield/paylink", nil)
	rec := httptest.NewRecorder()
	h.PayLink(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var link model.PayLinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &link))
	assert.Contains(t, link.Link, boxPublicKey)
	assert.NotEmpty(t, link.QR)
}

func TestResetDropsKeys(t *testing.T) {
	h := newTestHandler(t)
	deriveTestKeys(t, h)

	rec := doJSON(t, h.Reset, http.MethodPost, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/shield/keys/v2", nil)
	getRec := httptest.NewRecorder()
	h.GetKey(getRec, req)
	assert.Equal(t, http.StatusConflict, getRec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestHandler(t)
	rec := doJSON(t, h.Derive, http.MethodGet, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
