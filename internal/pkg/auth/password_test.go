package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckKey(t *testing.T) {
	hash, err := HashKey("  s3cret-admin  ")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, BcryptCost, cost)

	assert.True(t, CheckKey(hash, "s3cret-admin"))
	assert.False(t, CheckKey(hash, "wrong"))
	assert.False(t, CheckKey(hash, ""))
	assert.False(t, CheckKey("", "s3cret-admin"))
}
