// Package auth validates Solana wallet addresses and wallet-signed login
// messages.
package auth

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

var (
	// ErrInvalidAddress is returned when a string is not a valid on-curve
	// Solana public key.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrBadSignature is returned when a signature does not verify against
	// the wallet's public key.
	ErrBadSignature = errors.New("signature verification failed")
)

// ValidateAddress checks that addr is a base58-encoded 32-byte ed25519 public
// key lying on the curve. PDAs and other off-curve accounts are rejected: only
// keypair-backed wallets can sign login messages.
func ValidateAddress(addr string) error {
	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidAddress, len(decoded), ed25519.PublicKeySize)
	}
	if _, err := new(edwards25519.Point).SetBytes(decoded); err != nil {
		return fmt.Errorf("%w: point not on curve", ErrInvalidAddress)
	}
	return nil
}

// VerifySignature checks that sigHex is a valid hex-encoded ed25519 signature
// of message by the wallet's key.
func VerifySignature(wallet string, message []byte, sigHex string) error {
	if err := ValidateAddress(wallet); err != nil {
		return err
	}

	pub, err := base58.Decode(wallet)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return fmt.Errorf("%w: malformed signature hex", ErrBadSignature)
	}
	if len(sig) != ed25519.SignatureSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrBadSignature, len(sig), ed25519.SignatureSize)
	}

	if !ed25519.Verify(ed25519.PublicKey(pub), message, sig) {
		return ErrBadSignature
	}
	return nil
}
