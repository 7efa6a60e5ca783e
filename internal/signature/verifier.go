package signature

// Secp256k1 adapts the package functions to the verifier contract used by
// the authentication gate.
type Secp256k1 struct{}

// NewSecp256k1 creates a verifier.
func NewSecp256k1() Secp256k1 {
	return Secp256k1{}
}

// ParseSignature decodes a hex DER signature.
func (Secp256k1) ParseSignature(s string) (Signature, error) {
	return ParseSignature(s)
}

// Verify checks sig over message against publicKey.
func (Secp256k1) Verify(message, publicKey string, sig Signature) error {
	return Verify(message, publicKey, sig)
}
