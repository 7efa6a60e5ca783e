package signature

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeys(t *testing.T) {
	kp, err := GenerateKeys()
	require.NoError(t, err)

	assert.Len(t, kp.PublicKey, 66)
	assert.Len(t, kp.PrivateKey, 64)
	assert.True(t, strings.HasPrefix(kp.PublicKey, "02") || strings.HasPrefix(kp.PublicKey, "03"))

	derived, err := PublicKeyFromPrivate(kp.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, derived)

	other, err := GenerateKeys()
	require.NoError(t, err)
	assert.NotEqual(t, kp.PrivateKey, other.PrivateKey)
}

func TestSignVerify(t *testing.T) {
	kp, err := GenerateKeys()
	require.NoError(t, err)
	other, err := GenerateKeys()
	require.NoError(t, err)

	const message = "1700000000000" + "0b4c8f9e-uuid" + "h2"

	raw, err := Sign(message, kp.PrivateKey)
	require.NoError(t, err)

	sig, err := ParseSignature(raw)
	require.NoError(t, err)
	assert.Equal(t, raw, sig.String())

	tests := []struct {
		name      string
		message   string
		publicKey string
		wantErr   error
	}{
		{name: "valid", message: message, publicKey: kp.PublicKey},
		{name: "tampered message", message: message + "x", publicKey: kp.PublicKey, wantErr: ErrVerification},
		{name: "other key", message: message, publicKey: other.PublicKey, wantErr: ErrVerification},
		{name: "malformed key", message: message, publicKey: "zz", wantErr: ErrMalformedPublicKey},
		{name: "key outside field", message: message, publicKey: "02" + strings.Repeat("ff", 32), wantErr: ErrMalformedPublicKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.message, tt.publicKey, sig)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestVerify_UncompressedPublicKey(t *testing.T) {
	kp, err := GenerateKeys()
	require.NoError(t, err)

	pub, err := ParsePublicKey(kp.PublicKey)
	require.NoError(t, err)
	uncompressed := hex.EncodeToString(pub.SerializeUncompressed())

	raw, err := Sign("msg", kp.PrivateKey)
	require.NoError(t, err)
	sig, err := ParseSignature(raw)
	require.NoError(t, err)

	assert.NoError(t, Verify("msg", uncompressed, sig))
}

func TestParseSignature_Malformed(t *testing.T) {
	for _, in := range []string{"", "not-hex", "abcd", "3006020101020101ff"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseSignature(in)
			assert.ErrorIs(t, err, ErrMalformedSignature)
		})
	}
}

func TestVerify_ZeroSignature(t *testing.T) {
	kp, err := GenerateKeys()
	require.NoError(t, err)
	assert.ErrorIs(t, Verify("msg", kp.PublicKey, Signature{}), ErrMalformedSignature)
	assert.Empty(t, Signature{}.String())
}

func TestSign_MalformedPrivateKey(t *testing.T) {
	for _, in := range []string{"", "xyz", "abcd"} {
		_, err := Sign("msg", in)
		assert.ErrorIs(t, err, ErrMalformedPrivateKey)
		_, err = PublicKeyFromPrivate(in)
		assert.ErrorIs(t, err, ErrMalformedPrivateKey)
	}
}

func TestSecp256k1(t *testing.T) {
	kp, err := GenerateKeys()
	require.NoError(t, err)
	raw, err := Sign("msg", kp.PrivateKey)
	require.NoError(t, err)

	v := NewSecp256k1()
	sig, err := v.ParseSignature(raw)
	require.NoError(t, err)
	assert.NoError(t, v.Verify("msg", kp.PublicKey, sig))
	assert.Error(t, v.Verify("other", kp.PublicKey, sig))
}
