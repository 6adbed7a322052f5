// Package epoint implements the card gateway wire protocol. Every message in
// both directions is the same envelope: base64-encoded JSON plus a signature
// computed as base64(sha1(private_key || data || private_key)).
package epoint

import (
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Envelope is the two-field message both parties exchange.
type Envelope struct {
	Data      string `json:"data"`
	Signature string `json:"signature"`
}

// EncodeData marshals the payload and base64-encodes it.
func EncodeData(payload interface{}) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal gateway payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeData base64-decodes the data field and unmarshals it into out.
func DecodeData(data string, out interface{}) error {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return fmt.Errorf("failed to decode gateway payload: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal gateway payload: %w", err)
	}
	return nil
}

// Sign computes the signature for a data string with the shared secret.
// The gateway mandates raw sha1 over key||data||key; the construction is
// theirs, not ours, and must match byte for byte.
func Sign(privateKey, data string) string {
	h := sha1.Sum([]byte(privateKey + data + privateKey))
	return base64.StdEncoding.EncodeToString(h[:])
}

// VerifySignature recomputes the signature and compares in constant time.
func VerifySignature(privateKey, data, signature string) bool {
	expected := Sign(privateKey, data)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// Seal builds a signed envelope around the payload.
func Seal(privateKey string, payload interface{}) (*Envelope, error) {
	data, err := EncodeData(payload)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Data:      data,
		Signature: Sign(privateKey, data),
	}, nil
}

// Open verifies the envelope and unmarshals the payload into out.
func Open(privateKey string, env *Envelope, out interface{}) error {
	if !VerifySignature(privateKey, env.Data, env.Signature) {
		return ErrInvalidSignature
	}
	return DecodeData(env.Data, out)
}
