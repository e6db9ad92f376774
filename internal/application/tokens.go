package application

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// TokenHasher derives the value stored for a bearer token.
type TokenHasher func(token string) string

// NewHMACTokenHasher returns a TokenHasher computing the hex HMAC-SHA256 of
// the token under secret.
func NewHMACTokenHasher(secret []byte) TokenHasher {
	key := append([]byte(nil), secret...)
	return func(token string) string {
		mac := hmac.New(sha256.New, key)
		mac.Write([]byte(token))
		return hex.EncodeToString(mac.Sum(nil))
	}
}

// RandomToken returns 32 random bytes hex encoded.
func RandomToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
