package repository

import "errors"

// ErrNotFound is returned by every repository when a lookup or keyed
// mutation matches no row, regardless of the backing store.
var ErrNotFound = errors.New("record not found")
