// Package rlp implements the recursive length-prefix encoding used for node
// records.
//
// Only the canonical form is accepted when decoding: every value has exactly
// one valid byte representation, so two decoders always agree on the bytes a
// signature covers. Length prefixes are bounds-checked against the remaining
// input before any slicing takes place.
package rlp
