package store

import (
	"context"
	"errors"
)

// Logical keys of the persisted layout
const (
	KeyCurrentUser = "current_user"
	KeyCart        = "cart"
	KeyOrders      = "orders"
	KeyProducts    = "products"
)

// ErrKeyNotFound is returned by Get when the key has never been set or was deleted
var ErrKeyNotFound = errors.New("key not found")

// KV is a durable string-keyed store of serialized JSON blobs.
// No expiry and no transactions; writes replace the whole value.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
