package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *BcryptHasher {
	return NewBcryptHasherWithCost(bcrypt.MinCost)
}

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := newTestHasher()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid password", password: "correct horse battery"},
		{name: "empty password", password: "", wantErr: ErrEmptyPassword},
		{name: "exactly 72 bytes", password: strings.Repeat("a", MaxPasswordBytes)},
		{name: "too long", password: strings.Repeat("a", MaxPasswordBytes+1), wantErr: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := hasher.Hash(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, hasher.Verify(tt.password, hash))
		})
	}
}

func TestBcryptHasher_HashIsSalted(t *testing.T) {
	hasher := newTestHasher()

	first, err := hasher.Hash("same-password")
	require.NoError(t, err)
	second, err := hasher.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "each hash should carry its own salt")
	assert.True(t, hasher.Verify("same-password", first))
	assert.True(t, hasher.Verify("same-password", second))
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := newTestHasher()
	hash, err := hasher.Hash("testpass123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		want     bool
	}{
		{name: "matching password", password: "testpass123", hash: hash, want: true},
		{name: "wrong password", password: "testpass124", hash: hash, want: false},
		{name: "empty password", password: "", hash: hash, want: false},
		{name: "corrupt hash", password: "testpass123", hash: "not-a-bcrypt-hash", want: false},
		{name: "empty hash", password: "testpass123", hash: "", want: false},
		{name: "truncated hash", password: "testpass123", hash: hash[:20], want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasher.Verify(tt.password, tt.hash))
		})
	}
}

func TestBcryptHasher_Cost(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost + 1)
	hash, err := hasher.Hash("testpass123")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)

	assert.Equal(t, BcryptCost, NewBcryptHasherWithCost(0).cost, "out-of-range cost falls back to default")
	assert.Equal(t, BcryptCost, NewBcryptHasherWithCost(bcrypt.MaxCost+1).cost)
}
