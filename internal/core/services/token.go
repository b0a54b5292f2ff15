package services

import (
	"crypto/rand"
	"encoding/base64"
	"math/big"
	"strings"
)

// shareCodeAlphabet omits ambiguous characters (0/O, 1/I/L) since election
// codes are read aloud and typed by hand.
const shareCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// newShareCode returns a short human-shareable token, e.g. "K7QF2M".
func newShareCode(length int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(shareCodeAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(shareCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// newSecretToken returns a URL-safe secret suitable for voter codes.
func newSecretToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
