package utils

import (
	"crypto/rand"
	"fmt"
	"time"
)

// complaint token suffix alphabet: uppercase letters and digits only,
// so tokens are unambiguous when read over the phone.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewComplaintToken generates the human-readable reference handed to a
// citizen when a complaint is registered.  The format is
// CMP-<unix-ms>-<6 random alnum>, e.g. CMP-1735689600000-4QX9ZK.
// The millisecond timestamp makes tokens sortable by filing time and
// the random suffix makes collisions within one millisecond practically
// impossible.
func NewComplaintToken() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return fmt.Sprintf("CMP-%d-%s", time.Now().UTC().UnixMilli(), buf), nil
}
