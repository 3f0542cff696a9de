// Package protocol owns the OTR wire field decoder.
//
// Ownership boundary:
// - fixed-width and length-prefixed primitives (BYTE, SHORT, INT, DATA, MAC, CTR)
// - MPI decoding
// - public key, signature and DH public value reconstruction
//
// Message sequencing lives in schema; the decoder never logs.
package protocol
