package wallet

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeypair(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return ed25519.NewKeyFromSeed(seed)
}

func TestFromSecretBase58(t *testing.T) {
	priv := testKeypair(t)

	w, err := FromSecret(base58.Encode(priv))
	require.NoError(t, err)

	assert.Equal(t, base58.Encode(priv.Public().(ed25519.PublicKey)), w.PublicKey())
}

func TestFromSecretJSONArray(t *testing.T) {
	priv := testKeypair(t)
	arr, err := json.Marshal([]byte(priv))
	require.NoError(t, err)

	w, err := FromSecret(string(arr))
	require.NoError(t, err)
	assert.Equal(t, base58.Encode(priv.Public().(ed25519.PublicKey)), w.PublicKey())
}

func TestFromSecretRejectsGarbage(t *testing.T) {
	_, err := FromSecret("")
	assert.ErrorIs(t, err, ErrInvalidSecretKey)

	_, err = FromSecret("0O0O0O") // invalid base58 alphabet
	assert.ErrorIs(t, err, ErrInvalidSecretKey)

	_, err = FromSecret(base58.Encode([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInvalidSecretKey)
}

func TestSignVerifies(t *testing.T) {
	priv := testKeypair(t)
	w, err := FromSecret(base58.Encode(priv))
	require.NoError(t, err)

	msg := []byte("message body")
	sig := w.Sign(msg)
	assert.True(t, ed25519.Verify(priv.Public().(ed25519.PublicKey), msg, sig))
}

func TestSignTransaction(t *testing.T) {
	priv := testKeypair(t)
	w, err := FromSecret(base58.Encode(priv))
	require.NoError(t, err)

	// One signature slot (zeroed) followed by a message body.
	message := []byte("serialized message bytes")
	raw := make([]byte, 0, 1+ed25519.SignatureSize+len(message))
	raw = append(raw, 1)
	raw = append(raw, make([]byte, ed25519.SignatureSize)...)
	raw = append(raw, message...)

	signed, err := w.SignTransaction(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)

	decoded, err := base64.StdEncoding.DecodeString(signed)
	require.NoError(t, err)

	sig := decoded[1 : 1+ed25519.SignatureSize]
	assert.True(t, ed25519.Verify(priv.Public().(ed25519.PublicKey), message, sig))
	assert.Equal(t, message, decoded[1+ed25519.SignatureSize:])
}

func TestSignTransactionRejectsMalformed(t *testing.T) {
	priv := testKeypair(t)
	w, err := FromSecret(base58.Encode(priv))
	require.NoError(t, err)

	_, err = w.SignTransaction("not base64!!!")
	assert.Error(t, err)

	// Claims one signature but has no message.
	short := append([]byte{1}, make([]byte, ed25519.SignatureSize)...)
	_, err = w.SignTransaction(base64.StdEncoding.EncodeToString(short))
	assert.Error(t, err)

	// Zero signature slots.
	_, err = w.SignTransaction(base64.StdEncoding.EncodeToString([]byte{0, 1, 2}))
	assert.Error(t, err)
}
