package auth

import "math/rand/v2"

// GenerateCode produces a fixed-width numeric challenge code. Codes are
// short-lived possession proofs, not secrets with long-term value, so the
// default PRNG matches the reference behavior.
func GenerateCode(digits int) string {
	if digits < 1 {
		digits = 4
	}
	buf := make([]byte, digits)
	for i := range buf {
		buf[i] = '0' + byte(rand.IntN(10))
	}
	return string(buf)
}
