package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	j := New("test-secret")

	tok, err := j.Sign("user-1", time.Hour)
	require.NoError(t, err)

	uid, err := j.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	tok, err := New("secret-a").Sign("user-1", time.Hour)
	require.NoError(t, err)

	_, err = New("secret-b").Verify(tok)
	assert.Error(t, err)
}

func TestVerifyRejectsExpired(t *testing.T) {
	j := New("test-secret")
	tok, err := j.Sign("user-1", -time.Minute)
	require.NoError(t, err)

	_, err = j.Verify(tok)
	assert.Error(t, err)
}

func TestSignRejectsEmptyUID(t *testing.T) {
	_, err := New("test-secret").Sign("", time.Hour)
	assert.Error(t, err)
}

func TestContextPlumbing(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, UserID(ctx))

	ctx = WithUser(ctx, "user-7")
	assert.Equal(t, "user-7", UserID(ctx))
}
