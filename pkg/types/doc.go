// Package types defines the inventory entity types, the store configuration,
// and the sentinel errors shared by the store, the domain service, and the
// web layer.
package types
