// Package storage provides the local persistence layer. Every state container
// persists its whole state as one blob under a namespaced key.
package storage

// Store is a namespaced key/value store on the local device.
type Store interface {
	// Get returns the blob for key. The second return reports whether the
	// key exists; a missing key is not an error.
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}
