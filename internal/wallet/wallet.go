// Package wallet decodes trading-wallet secret keys and signs transactions.
package wallet

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// Errors returned by key decoding.
var (
	ErrInvalidSecretKey = errors.New("invalid secret key")
	ErrOffCurvePubkey   = errors.New("public key is not on the ed25519 curve")
)

// Wallet holds the trading keypair.
type Wallet struct {
	priv ed25519.PrivateKey
}

// FromSecret builds a wallet from a secret key given either as a JSON byte
// array or as a base58 string. The embedded public key must be a valid
// curve point.
func FromSecret(secret string) (*Wallet, error) {
	if secret == "" {
		return nil, ErrInvalidSecretKey
	}

	var keyBytes []byte

	var asArray []byte
	if err := json.Unmarshal([]byte(secret), &asArray); err == nil {
		keyBytes = asArray
	} else {
		decoded, err := base58.Decode(secret)
		if err != nil {
			return nil, fmt.Errorf("%w: not a JSON array or base58 string", ErrInvalidSecretKey)
		}
		keyBytes = decoded
	}

	if len(keyBytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSecretKey, len(keyBytes), ed25519.PrivateKeySize)
	}

	priv := ed25519.PrivateKey(keyBytes)
	pub := priv.Public().(ed25519.PublicKey)
	if !isOnCurve(pub) {
		return nil, ErrOffCurvePubkey
	}

	// The secret key embeds its public half; verify they agree.
	derived := ed25519.NewKeyFromSeed(priv.Seed())
	if !derived.Public().(ed25519.PublicKey).Equal(pub) {
		return nil, fmt.Errorf("%w: embedded public key mismatch", ErrInvalidSecretKey)
	}

	return &Wallet{priv: priv}, nil
}

// PublicKey returns the wallet address in base58.
func (w *Wallet) PublicKey() string {
	return base58.Encode(w.priv.Public().(ed25519.PublicKey))
}

// Sign signs an arbitrary message.
func (w *Wallet) Sign(msg []byte) []byte {
	return ed25519.Sign(w.priv, msg)
}

// SignTransaction signs a base64-serialized transaction as fee payer,
// splicing the signature into slot 0, and returns the signed transaction in
// base64. Wire layout: compact-u16 signature count, then 64-byte signatures,
// then the message body the signatures cover.
func (w *Wallet) SignTransaction(txBase64 string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(txBase64)
	if err != nil {
		return "", fmt.Errorf("decode transaction: %w", err)
	}

	numSigs, sigOffset, err := decodeCompactU16(raw)
	if err != nil {
		return "", fmt.Errorf("parse signature count: %w", err)
	}
	if numSigs == 0 {
		return "", errors.New("transaction reserves no signature slots")
	}

	msgOffset := sigOffset + numSigs*ed25519.SignatureSize
	if msgOffset >= len(raw) {
		return "", errors.New("transaction shorter than its signature table")
	}

	sig := ed25519.Sign(w.priv, raw[msgOffset:])
	copy(raw[sigOffset:sigOffset+ed25519.SignatureSize], sig)

	return base64.StdEncoding.EncodeToString(raw), nil
}

// decodeCompactU16 reads a compact-u16 length prefix, returning the value
// and the number of bytes consumed.
func decodeCompactU16(data []byte) (int, int, error) {
	var value, shift uint
	for i := 0; i < 3; i++ {
		if i >= len(data) {
			return 0, 0, errors.New("truncated compact-u16")
		}
		b := uint(data[i])
		value |= (b & 0x7f) << shift
		if b&0x80 == 0 {
			return int(value), i + 1, nil
		}
		shift += 7
	}
	return 0, 0, errors.New("compact-u16 too long")
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
