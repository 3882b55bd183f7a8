// ABOUTME: Identity providers that bind the current user ID to a session.
// ABOUTME: Static IDs come from config; Charm IDs come from the linked account.
package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrUnauthenticated means no user identity is bound.
var ErrUnauthenticated = errors.New("unauthenticated: no user identity bound")

// Provider returns the current user's ID or ErrUnauthenticated.
type Provider interface {
	CurrentUserID(ctx context.Context) (string, error)
}

// Static is a fixed identity. The empty string is unauthenticated.
type Static string

// CurrentUserID implements Provider.
func (s Static) CurrentUserID(context.Context) (string, error) {
	if s == "" {
		return "", ErrUnauthenticated
	}
	return string(s), nil
}

// IDSource is anything that can report an account ID, such as a Charm client.
type IDSource interface {
	ID() (string, error)
}

// Account resolves the ID from an IDSource once and remembers a success.
type Account struct {
	src IDSource
	mu  sync.Mutex
	id  string
}

// NewAccount wraps src.
func NewAccount(src IDSource) *Account {
	return &Account{src: src}
}

// CurrentUserID implements Provider.
func (a *Account) CurrentUserID(context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.id != "" {
		return a.id, nil
	}
	id, err := a.src.ID()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if id == "" {
		return "", ErrUnauthenticated
	}
	a.id = id
	return id, nil
}
