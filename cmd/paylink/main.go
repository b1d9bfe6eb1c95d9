// One-off: derive shielded balance keys from a local Solana keypair file and
// print the pay link. Optionally writes the pay-link QR code to a PNG file.
// Usage: go run ./cmd/paylink <keypair.json> [qr.png]
package main

import (
	"fmt"
	"os"

	"github.com/privacymoney/shield-wallet/internal/common"
	"github.com/privacymoney/shield-wallet/internal/config"
	"github.com/privacymoney/shield-wallet/internal/crypto"
	"github.com/privacymoney/shield-wallet/internal/model"
	"github.com/privacymoney/shield-wallet/solana"

	"github.com/skip2/go-qrcode"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: paylink <keypair.json> [qr.png]")
		os.Exit(1)
	}

	if err := config.Init(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	signer, err := solana.LoadSigner(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	session := crypto.NewSession()
	if err := session.DeriveFromWalletSignMessage(signer.SignMessage); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer session.Reset()

	keyV1, _ := session.UtxoPrivateKey(model.KeyVersionV1)
	keyV2, _ := session.UtxoPrivateKey(model.KeyVersionV2)
	boxPublicKey, err := session.BoxPublicKeyHex()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	link := common.BuildPayLink(config.GetPayLinkBaseURL(), boxPublicKey)

	fmt.Println("wallet address: ", signer.Address())
	fmt.Println("utxo key v1:    ", keyV1)
	fmt.Println("utxo key v2:    ", keyV2)
	fmt.Println("box public key: ", boxPublicKey)
	fmt.Println("pay link:       ", link)

	if len(os.Args) > 2 {
		if err := qrcode.WriteFile(link, qrcode.Medium, 256, os.Args[2]); err != nil {
			fmt.Fprintln(os.Stderr, "failed to write QR code:", err)
			os.Exit(1)
		}
		fmt.Println("qr code written:", os.Args[2])
	}
}
