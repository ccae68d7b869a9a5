// Package storage provides the key-value store behind the transaction
// journal.
package storage

import "errors"

// ErrNotFound is returned by Get for missing keys.
var ErrNotFound = errors.New("key not found")

// ErrStop can be returned from a ForEach callback to end iteration without
// reporting an error.
var ErrStop = errors.New("stop iteration")

// DB is the interface for key-value storage.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over keys with the given prefix in ascending order.
	// The callback receives a copy of the key; the value is only valid
	// during the call. Return a non-nil error from fn to stop early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	// ForEachReverse is ForEach in descending key order.
	ForEachReverse(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}

// stopped maps ErrStop to a clean return.
func stopped(err error) error {
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}
