package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

//go:generate mockgen -source=$GOFILE -destination=backend_mocks_test.go -package=store_test

// Backend is a durable byte-level key/value store.
// Get returns ErrNotFound for absent keys.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
