// package cache persists serialized tokens between runs
package cache

import "context"

// Store reads and writes opaque byte blobs by key. For the file store the key is a path.
//
// Stores are responsible for their own write atomicity; callers do not serialize access.
type Store interface {
	// Read returns [shared.ErrCacheMiss] (wrapped) when nothing is stored under key.
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}

// Deleter is implemented by stores that can forget an entry.
type Deleter interface {
	Delete(ctx context.Context, key string) error
}
