// Package wire owns the byte-level primitives of the Sigma protocol.
//
// Ownership boundary:
// - cursor reads over one immutable buffer
// - ASCII-decimal and packed-BCD numerics
// - tag and TLV entry layout
//
// The package reports its own sentinels; callers translate them into
// their error vocabulary at the boundary.
package wire
