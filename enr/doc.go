// Package enr implements signed, versioned node records (EIP-778).
//
// A Record advertises a node's identity and network endpoints as a sorted
// key/value list covered by exactly one signature. The identity scheme named
// by the "id" entry decides how the signature is produced and checked and how
// the node ID is derived from the public key entry:
//
//   - V4: secp256k1 ECDSA over keccak-256, node ID = keccak-256(X||Y)
//   - Ed25519: Ed25519 over the raw content, node ID = keccak-256(pubkey)
//
// Both write id "v4". A "v4" record holding an "ed25519" entry and no
// "secp256k1" entry is an Ed25519 record.
//
// Records are created by a Builder or by decoding, and changed only through
// setters that take the SigningKey. A setter either produces a fully signed
// record with the sequence number advanced, or fails and leaves the receiver
// unchanged. Internal slices are never modified in place, so a copy of a
// Record is an independent snapshot that may be shared freely.
package enr
