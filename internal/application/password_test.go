package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cheapArgon2Params = Argon2idParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

func TestPasswordHashRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := CreatePasswordHash("correct horse", cheapArgon2Params)
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$m=1024,t=1,p=1$")

	assert.NoError(t, VerifyPassword(hash, "correct horse"))
	assert.ErrorIs(t, VerifyPassword(hash, "battery staple"), ErrInvalidCredentials)

	again, err := CreatePasswordHash("correct horse", cheapArgon2Params)
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salts must differ")
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	t.Parallel()

	for _, hash := range []string{
		"",
		"plain",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=x$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA",
	} {
		assert.ErrorIs(t, VerifyPassword(hash, "secret"), ErrInvalidPasswordHash, hash)
	}
	assert.ErrorIs(t, VerifyPassword("$argon2id$v=16$m=1,t=1,p=1$c2FsdA$aGFzaA", "secret"), ErrIncompatiblePasswordVersion)
}

func TestTokens(t *testing.T) {
	t.Parallel()

	first, second := RandomToken(), RandomToken()
	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)

	hasher := NewHMACTokenHasher([]byte("k"))
	assert.Equal(t, hasher("abc"), hasher("abc"))
	assert.NotEqual(t, hasher("abc"), hasher("abd"))
	assert.NotEqual(t, hasher("abc"), NewHMACTokenHasher([]byte("other"))("abc"))
	assert.Len(t, hasher("abc"), 64)
}
