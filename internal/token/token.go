package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Payload is the signed session payload carried inside a token.
// Exp is an absolute expiry in unix milliseconds; payloads are never
// renewed in place, only reissued.
type Payload struct {
	Username string `json:"username"`
	Exp      int64  `json:"exp"`
}

// Codec signs and verifies session tokens. A token is two dot-separated
// segments: base64url(JSON payload) and base64url(HMAC-SHA256 over the
// encoded payload bytes). Verification is a pure function of the token,
// the secret and the clock; it performs no I/O and never panics.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// NewCodecAt returns a Codec with an injected clock.
func NewCodecAt(secret string, now func() time.Time) *Codec {
	return &Codec{secret: []byte(secret), now: now}
}

// Sign serializes and signs the payload. Deterministic for a fixed
// payload and secret: there is no nonce, tokens are bearer credentials.
func (c *Codec) Sign(p Payload) string {
	raw, _ := json.Marshal(p)
	encoded := base64.RawURLEncoding.EncodeToString(raw)
	return encoded + "." + c.signature(encoded)
}

// Verify checks structure, signature and expiry, in that order.
// Any failure yields (Payload{}, false); callers never learn whether the
// token was malformed, forged or merely expired.
func (c *Codec) Verify(token string) (Payload, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Payload{}, false
	}

	expected := c.signature(parts[0])
	if !hmac.Equal([]byte(parts[1]), []byte(expected)) {
		return Payload{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return Payload{}, false
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Payload{}, false
	}

	if c.now().UnixMilli() > p.Exp {
		return Payload{}, false
	}

	return p, true
}

func (c *Codec) signature(encodedPayload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
