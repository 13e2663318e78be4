// Package schema owns the field layout of each Sigma message kind.
//
// Ownership boundary:
// - fixed-header field tables per message kind
// - TLV limits and checksum selection
// - message validation before any bytes are produced
// - layout files for switch-supplied byte contracts
//
// The built-in tables are constructed once at init and are read-only
// for the process lifetime; defective tables panic at init rather than
// surfacing as data errors.
package schema
