// Package signing authenticates short messages handed to the browser, such as
// login errors carried in a redirect URL or a flash cookie. It provides
// integrity only: the payload stays readable.
package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// MinKeyLength is the shortest accepted secret.
const MinKeyLength = 32

var ErrShortKey = errors.New("signing key too short")

// Codec signs and verifies payloads with HMAC-SHA-256.
type Codec struct {
	key []byte
}

func NewCodec(key []byte) (*Codec, error) {
	if len(key) < MinKeyLength {
		return nil, ErrShortKey
	}
	k := make([]byte, len(key))
	copy(k, key)
	return &Codec{key: k}, nil
}

// Sign returns the tag for payload.
func (c *Codec) Sign(payload []byte) []byte {
	m := hmac.New(sha256.New, c.key)
	m.Write(payload)
	return m.Sum(nil)
}

// Verify recomputes the tag for payload and compares it in constant time.
func (c *Codec) Verify(payload, tag []byte) bool {
	return hmac.Equal(c.Sign(payload), tag)
}

// SignString returns the hex tag for s, for use in query strings.
func (c *Codec) SignString(s string) string {
	return hex.EncodeToString(c.Sign([]byte(s)))
}

// VerifyString reports whether hexTag is the tag for s.
func (c *Codec) VerifyString(s, hexTag string) bool {
	tag, err := hex.DecodeString(hexTag)
	if err != nil {
		return false
	}
	return c.Verify([]byte(s), tag)
}

// Encode packs msg and its tag into one cookie-safe value.
func (c *Codec) Encode(msg string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(msg)) + "." + c.SignString(msg)
}

// Decode unpacks a value produced by Encode. ok is false when the value is
// malformed or the tag does not match.
func (c *Codec) Decode(v string) (msg string, ok bool) {
	enc, tag, found := strings.Cut(v, ".")
	if !found {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return "", false
	}
	if !c.VerifyString(string(raw), tag) {
		return "", false
	}
	return string(raw), true
}
