package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for admin key hashes
const BcryptCost = 12

// HashKey returns the bcrypt hash stored in auth.admin_key_hash
func HashKey(key string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(key)), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckKey reports whether key matches the stored hash
func CheckKey(hashedKey, key string) bool {
	if hashedKey == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(strings.TrimSpace(key))) == nil
}
