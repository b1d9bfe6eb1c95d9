package common

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const boxPublicKeyHexLen = 64 // 32 bytes, hex-encoded

// BuildPayLink builds the shareable pay-link URL for a box public key.
// The key rides in the fragment so it never reaches a web server's logs.
func BuildPayLink(baseURL, boxPublicKeyHex string) string {
	return strings.TrimRight(baseURL, "/") + "#" + boxPublicKeyHex
}

// ParsePayLink extracts the box public key (hex) from a pay-link URL.
func ParsePayLink(link string) (string, error) {
	_, fragment, found := strings.Cut(link, "#")
	if !found {
		return "", fmt.Errorf("pay link has no key fragment")
	}
	if _, err := DecodePublicKeyHex(fragment); err != nil {
		return "", err
	}
	return fragment, nil
}

// DecodePublicKeyHex decodes a hex-encoded 32-byte public key. A leading
// "0x" is accepted and ignored.
func DecodePublicKeyHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) != boxPublicKeyHexLen {
		return nil, fmt.Errorf("public key must be %d hex chars, got %d", boxPublicKeyHexLen, len(s))
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid public key hex: %w", err)
	}
	return key, nil
}

// PayLinkQRCode renders a pay link as a base64-encoded PNG.
func PayLinkQRCode(link string) (string, error) {
	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return "", fmt.Errorf("failed to create QR code: %w", err)
	}
	png, err := qr.PNG(256)
	if err != nil {
		return "", fmt.Errorf("failed to generate PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
