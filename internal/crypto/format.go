package crypto

import (
	"bytes"

	"github.com/privacymoney/shield-wallet/internal/model"
)

// WireFormat identifies which encryption scheme produced a ciphertext blob.
type WireFormat int

const (
	// FormatV1 is the legacy symmetric format. It carries no version tag;
	// any blob without a recognized tag is classified as V1.
	FormatV1 WireFormat = iota

	// FormatV2 is the current symmetric format (AES-256-GCM).
	FormatV2

	// FormatBox is the asymmetric pay-link format (NaCl box).
	FormatBox
)

const versionTagLen = 8

var (
	versionTagV2  = []byte{0, 0, 0, 0, 0, 0, 0, 0x02}
	versionTagBox = []byte{0, 0, 0, 0, 0, 0, 0, 0x03}
)

func (f WireFormat) String() string {
	switch f {
	case FormatV2:
		return "v2"
	case FormatBox:
		return "box"
	default:
		return "v1"
	}
}

// DetectFormat classifies a blob by its 8-byte version tag. The V1 arm is
// a deliberate fallback, not an error: legacy on-chain ciphertexts were
// written before version tags existed and carry none.
func DetectFormat(blob []byte) WireFormat {
	if len(blob) >= versionTagLen {
		switch {
		case bytes.Equal(blob[:versionTagLen], versionTagV2):
			return FormatV2
		case bytes.Equal(blob[:versionTagLen], versionTagBox):
			return FormatBox
		}
	}
	return FormatV1
}

// IsBoxEncrypted reports whether blob was produced by the pay-link box path.
func IsBoxEncrypted(blob []byte) bool {
	return DetectFormat(blob) == FormatBox
}

// KeyVersionForBlob returns which UTXO private key version is required to
// decrypt blob, without doing any key-dependent work. Box blobs decrypt to
// current-version records, so they map to v2.
func KeyVersionForBlob(blob []byte) model.KeyVersion {
	if DetectFormat(blob) == FormatV1 {
		return model.KeyVersionV1
	}
	return model.KeyVersionV2
}
