// Package signature implements secp256k1 ECDSA signing and verification.
//
// Public keys travel as hex-encoded compressed points and signatures as
// hex-encoded DER. The digest signed is SHA-256 of the message bytes.
package signature

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

var (
	// ErrMalformedSignature is returned when a signature is not hex DER.
	ErrMalformedSignature = errors.New("malformed signature")
	// ErrMalformedPublicKey is returned when a public key is not a hex point.
	ErrMalformedPublicKey = errors.New("malformed public key")
	// ErrMalformedPrivateKey is returned when a private key is not 32 hex bytes.
	ErrMalformedPrivateKey = errors.New("malformed private key")
	// ErrVerification is returned when a signature does not match.
	ErrVerification = errors.New("signature verification failed")
)

// KeyPair holds hex-encoded keys.
type KeyPair struct {
	PublicKey  string
	PrivateKey string
}

// Signature is a parsed signature ready for verification.
type Signature struct {
	sig *ecdsa.Signature
}

// String returns the hex DER encoding.
func (s Signature) String() string {
	if s.sig == nil {
		return ""
	}
	return hex.EncodeToString(s.sig.Serialize())
}

// GenerateKeys creates a fresh key pair.
func GenerateKeys() (KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate private key: %w", err)
	}
	return KeyPair{
		PublicKey:  hex.EncodeToString(priv.PubKey().SerializeCompressed()),
		PrivateKey: hex.EncodeToString(priv.Serialize()),
	}, nil
}

// PublicKeyFromPrivate derives the hex public key of privateKeyHex.
func PublicKeyFromPrivate(privateKeyHex string) (string, error) {
	priv, err := parsePrivateKey(privateKeyHex)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(priv.PubKey().SerializeCompressed()), nil
}

// Sign signs message with the hex-encoded private key and returns the hex
// DER signature.
func Sign(message, privateKeyHex string) (string, error) {
	priv, err := parsePrivateKey(privateKeyHex)
	if err != nil {
		return "", err
	}
	digest := sha256.Sum256([]byte(message))
	return hex.EncodeToString(ecdsa.Sign(priv, digest[:]).Serialize()), nil
}

// ParseSignature decodes a hex DER signature.
func ParseSignature(s string) (Signature, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(raw) == 0 {
		return Signature{}, ErrMalformedSignature
	}
	sig, err := ecdsa.ParseDERSignature(raw)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrMalformedSignature, err)
	}
	return Signature{sig: sig}, nil
}

// ParsePublicKey decodes a hex compressed or uncompressed public key.
func ParsePublicKey(s string) (*secp256k1.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, ErrMalformedPublicKey
	}
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPublicKey, err)
	}
	return pub, nil
}

// Verify checks sig over message against the hex public key.
func Verify(message, publicKey string, sig Signature) error {
	if sig.sig == nil {
		return ErrMalformedSignature
	}
	pub, err := ParsePublicKey(publicKey)
	if err != nil {
		return err
	}
	digest := sha256.Sum256([]byte(message))
	if !sig.sig.Verify(digest[:], pub) {
		return ErrVerification
	}
	return nil
}

func parsePrivateKey(s string) (*secp256k1.PrivateKey, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(raw) != secp256k1.PrivKeyBytesLen {
		return nil, ErrMalformedPrivateKey
	}
	return secp256k1.PrivKeyFromBytes(raw), nil
}
