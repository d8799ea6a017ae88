package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHashService_HashAndVerify(t *testing.T) {
	svc := NewBcryptHashService()

	hash, err := svc.Hash("S3cure!pass")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$10$"), hash)

	ok, err := svc.Verify("S3cure!pass", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBcryptHashService_SaltedHashes(t *testing.T) {
	svc := NewBcryptHashService()

	h1, err := svc.Hash("same")
	require.NoError(t, err)
	h2, err := svc.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestBcryptHashService_InvalidHash(t *testing.T) {
	svc := NewBcryptHashService()

	ok, err := svc.Verify("pw", "not-a-bcrypt-hash")
	assert.Error(t, err)
	assert.False(t, ok)
}
