// Package sigma is a message codec for the extfg Sigma switch
// protocol: it translates between typed SigmaRequest/SigmaResponse
// values and the contiguous wire buffers the switch exchanges.
//
// Ownership boundary:
// - SigmaRequest and SigmaResponse message models
// - encode/decode between messages and wire buffers
// - the recoverable error taxonomy for malformed input
//
// Transport, retries and session state belong to the caller; the codec
// performs no I/O and is safe for concurrent use.
package sigma
