package epoint_test

import (
	"crypto/sha1"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArifBabayev05/Backlify-v2-sub001/internal/gateway/epoint"
)

const testKey = "test-private-key"

func TestSeal_RoundTrip(t *testing.T) {
	payload := map[string]string{
		"order_id": "SUB_1700000000000_alice",
		"status":   "success",
	}

	env, err := epoint.Seal(testKey, payload)
	require.NoError(t, err)
	assert.NotEmpty(t, env.Data)
	assert.NotEmpty(t, env.Signature)

	var decoded map[string]string
	require.NoError(t, epoint.Open(testKey, env, &decoded))
	assert.Equal(t, payload, decoded)
}

func TestSign_MatchesWireContract(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte(`{"a":1}`))

	h := sha1.Sum([]byte(testKey + data + testKey))
	expected := base64.StdEncoding.EncodeToString(h[:])

	assert.Equal(t, expected, epoint.Sign(testKey, data))
	assert.True(t, epoint.VerifySignature(testKey, data, expected))
}

func TestOpen_RejectsMutatedSignature(t *testing.T) {
	env, err := epoint.Seal(testKey, map[string]string{"order_id": "SUB_1_bob"})
	require.NoError(t, err)

	// Flip one byte of the signature.
	sig := []byte(env.Signature)
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	env.Signature = string(sig)

	var decoded map[string]string
	err = epoint.Open(testKey, env, &decoded)
	assert.ErrorIs(t, err, epoint.ErrInvalidSignature)
}

func TestOpen_RejectsMutatedData(t *testing.T) {
	env, err := epoint.Seal(testKey, map[string]string{"order_id": "SUB_1_bob"})
	require.NoError(t, err)

	tampered, err := epoint.EncodeData(map[string]string{"order_id": "SUB_1_mallory"})
	require.NoError(t, err)
	env.Data = tampered

	var decoded map[string]string
	assert.ErrorIs(t, epoint.Open(testKey, env, &decoded), epoint.ErrInvalidSignature)
}

func TestOpen_RejectsWrongKey(t *testing.T) {
	env, err := epoint.Seal(testKey, map[string]string{"order_id": "SUB_1_bob"})
	require.NoError(t, err)

	var decoded map[string]string
	assert.ErrorIs(t, epoint.Open("another-key", env, &decoded), epoint.ErrInvalidSignature)
}
