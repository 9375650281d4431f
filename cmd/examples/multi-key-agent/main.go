// Copyright (C) 2025 Xache Protocol
//
// This file is part of xache-go.
//
// xache-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// xache-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with xache-go.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/xache-protocol/xache-go/pkg/auth"
	"github.com/xache-protocol/xache-go/pkg/did"
	"github.com/xache-protocol/xache-go/pkg/signer"
	"github.com/xache-protocol/xache-go/pkg/verifier"
)

// browserWallet stands in for an EIP-1193 wallet such as an injected
// browser extension.
type browserWallet struct {
	signer *signer.PrivateKeySigner
}

func (w *browserWallet) RequestAccounts(ctx context.Context) ([]string, error) {
	address, err := w.signer.GetAddress(ctx)
	if err != nil {
		return nil, err
	}
	return []string{strings.ToLower(address)}, nil
}

func (w *browserWallet) PersonalSign(ctx context.Context, address string, message []byte) (string, error) {
	sig, err := w.signer.SignMessage(ctx, message)
	if err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(sig), nil
}

func (w *browserWallet) SignTypedDataV4(ctx context.Context, address string, typedData []byte) (string, error) {
	return "", fmt.Errorf("typed data not supported by this demo wallet")
}

type agent struct {
	label  string
	did    string
	signer signer.Signer
}

// This example signs the same request with every kind of signer and checks
// each signature with the verifier a server would use.
func main() {
	fmt.Println("=== Multi-Key Agent Example ===")
	fmt.Println()
	ctx := context.Background()

	// Step 1: Generate keys for both chains
	fmt.Println("Step 1: Generating keys...")
	evmKey, err := crypto.GenerateKey()
	if err != nil {
		log.Fatal(err)
	}
	evmSigner, err := signer.NewEVMSigner(crypto.FromECDSA(evmKey))
	if err != nil {
		log.Fatal(err)
	}
	defer evmSigner.Zero()
	fmt.Println("  ✓ secp256k1 key generated for EVM")

	_, solPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		log.Fatal(err)
	}
	solSigner, err := signer.NewSolanaSigner(solPriv)
	if err != nil {
		log.Fatal(err)
	}
	defer solSigner.Zero()
	fmt.Println("  ✓ ed25519 key generated for Solana")
	fmt.Println()

	// Step 2: Build DIDs and signers
	fmt.Println("Step 2: Building signers...")
	evmDID := mustDID(ctx, did.ChainEVM, evmSigner)
	solDID := mustDID(ctx, did.ChainSolana, solSigner)

	wallet, err := signer.NewWalletProviderSigner(ctx, &browserWallet{signer: evmSigner})
	if err != nil {
		log.Fatal(err)
	}

	solAddress, _ := solSigner.GetAddress(ctx)
	kms := signer.NewExternalSigner(solAddress, solSigner.SignMessage, nil)

	agents := []agent{
		{"EVM private key", evmDID, evmSigner},
		{"EVM wallet provider", evmDID, wallet},
		{"Solana private key", solDID, solSigner},
		{"Solana external (KMS)", solDID, kms},
	}
	for _, a := range agents {
		fmt.Printf("  %-22s %s\n", a.label, a.did)
	}
	fmt.Println()

	// Step 3: Sign and verify
	fmt.Println("Step 3: Signing POST /v1/memory/store with each signer...")
	body := `{"content":"hello from every key"}`
	v := verifier.NewDefaultDIDVerifier(nil, nil)

	for _, a := range agents {
		assembler, err := auth.NewAssembler(a.did, a.signer)
		if err != nil {
			log.Fatalf("%s: %v", a.label, err)
		}
		h, err := assembler.Headers(ctx, "POST", "/v1/memory/store", body)
		if err != nil {
			log.Fatalf("%s: sign: %v", a.label, err)
		}
		env := &verifier.Envelope{AgentDID: h.AgentDID, Signature: h.Signature, Timestamp: h.Timestamp}
		status := "✓"
		if err := v.Verify(ctx, env, "POST", "/v1/memory/store", body); err != nil {
			status = "✗ " + err.Error()
		}
		fmt.Printf("  %s %-22s sig=%s...\n", status, a.label, h.Signature[:16])
	}
	fmt.Println()

	// Step 4: Read-only signers
	fmt.Println("Step 4: Read-only signer...")
	ro := signer.NewReadOnlySigner(solAddress)
	if _, err := signer.SignRequestWith(ctx, ro, "GET", "/v1/memory", "", signer.NowMillis(), solDID); err != nil {
		fmt.Printf("  ✓ Refused to sign: %v\n", err)
	}

	fmt.Println("\n=== Example completed successfully! ===")
}

func mustDID(ctx context.Context, chain did.Chain, s signer.Signer) string {
	address, err := s.GetAddress(ctx)
	if err != nil {
		log.Fatal(err)
	}
	d, err := did.New(chain, address)
	if err != nil {
		log.Fatal(err)
	}
	return d.String()
}
