package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	hashVersion   = "las1"
	hashRounds    = 120000
	minPassLength = 10
)

// HashPassword derives a salted, iterated digest and encodes it as
// version$rounds$salt$digest. The login table only ever sees this encoding.
func HashPassword(password string) (string, error) {
	if len(password) < minPassLength {
		return "", fmt.Errorf("password must be at least %d characters", minPassLength)
	}

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	digest := deriveDigest(password, salt, hashRounds)
	return strings.Join([]string{
		hashVersion,
		strconv.Itoa(hashRounds),
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	}, "$"), nil
}

// VerifyPassword checks a candidate password against a stored encoding in
// constant time. Any malformed encoding verifies as false.
func VerifyPassword(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != hashVersion {
		return false
	}

	rounds, err := strconv.Atoi(parts[1])
	if err != nil || rounds < 100000 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil || len(salt) == 0 {
		return false
	}

	want, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil || len(want) != sha256.Size {
		return false
	}

	got := deriveDigest(password, salt, rounds)
	return subtle.ConstantTimeCompare(got, want) == 1
}

// RandomToken returns a URL-safe random token of n bytes of entropy,
// used for session IDs, CSRF tokens, and referral codes.
func RandomToken(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("token length must be positive")
	}
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func deriveDigest(password string, salt []byte, rounds int) []byte {
	digest := sha256.Sum256(append(salt, []byte(password)...))
	buf := digest[:]
	for i := 1; i < rounds; i++ {
		next := sha256.Sum256(append(buf, salt...))
		buf = next[:]
	}
	out := make([]byte, len(buf))
	copy(out, buf)
	return out
}
