package types

import "errors"

// Store is the lifecycle contract of a persistent inventory backend.
// Callers attach to a backend, run operations, and detach when done.
type Store interface {
	// Attach connects the store to the backend described by config.
	// Creates the DataDir if it does not exist and the tables if they are
	// missing. Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, operations return ErrStoreDetached.
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// ErrNotFound is returned when no row has the requested id.
var ErrNotFound = errors.New("row not found")

// Domain errors. ErrProductNotFound and ErrInsufficientStock are reported as
// the Reason of an unsuccessful result, never returned as an error.
var (
	ErrInvalidPrice      = errors.New("price must not be negative")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("not enough stock available")
)
