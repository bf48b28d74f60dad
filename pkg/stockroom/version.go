// Package stockroom holds build metadata for the stockroom binary.
package stockroom

// Version is the released version of stockroom.
const Version = "0.1.0"
