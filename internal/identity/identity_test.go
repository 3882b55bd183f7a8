// ABOUTME: Tests for identity providers.
// ABOUTME: Covers the unauthenticated cases and memoized account IDs.
package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	id    string
	err   error
	calls int
}

func (s *stubSource) ID() (string, error) {
	s.calls++
	return s.id, s.err
}

func TestStatic(t *testing.T) {
	id, err := Static("u1").CurrentUserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", id)

	_, err = Static("").CurrentUserID(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAccountMemoizesSuccess(t *testing.T) {
	src := &stubSource{id: "charm-123"}
	a := NewAccount(src)

	for i := 0; i < 3; i++ {
		id, err := a.CurrentUserID(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "charm-123", id)
	}
	assert.Equal(t, 1, src.calls)
}

func TestAccountErrorIsUnauthenticated(t *testing.T) {
	a := NewAccount(&stubSource{err: errors.New("no keys")})
	_, err := a.CurrentUserID(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
