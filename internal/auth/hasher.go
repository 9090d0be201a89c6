package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Work factor for password and refresh-token hashing.
const bcryptCost = 10

// HashPassword hashes a plaintext password with bcrypt. The output embeds a
// random salt, so two calls on the same input yield different hashes.
func HashPassword(password string) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored bcrypt hash.
// A malformed hash is treated as a mismatch, never an error.
func VerifyPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashAPIKey returns the hex-encoded sha256 digest of an API key. The
// digest is deterministic because clients are looked up by it; passwords
// and refresh tokens are looked up by owner instead and use bcrypt.
func HashAPIKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// HashRefreshToken hashes a refresh token with the same adaptive hasher as
// passwords. The token is pre-digested because bcrypt caps its input at 72
// bytes and signed tokens are longer than that.
func HashRefreshToken(token string) (string, error) {
	return HashPassword(HashAPIKey(token))
}

// VerifyRefreshToken reports whether token matches the stored hash.
func VerifyRefreshToken(hash, token string) bool {
	return VerifyPassword(hash, HashAPIKey(token))
}
