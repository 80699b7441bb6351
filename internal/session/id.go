package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// NewID generates a cryptographically random session identifier.
// 32 bytes = 256 bits of entropy — unguessable, unlike the xid values we use
// for entity IDs, which are time-ordered and not secret.
func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session: generating id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
