// Package keys manages node signing keys on the local filesystem.
//
// Stable:
//   - Pure helpers for the "scheme:hex" secret format and role-secret derivation.
//
// Experimental:
//   - The filesystem-backed KeyStore. Its on-disk layout may change in MINOR releases.
package keys
