package rlp

import "errors"

var (
	ErrNotString     = errors.New("rlp: item is a list, want a byte string")
	ErrNotList       = errors.New("rlp: item is not a list")
	ErrIntPadding    = errors.New("rlp: integer has leading zero bytes")
	ErrNonMinimal    = errors.New("rlp: length prefix is not minimal")
	ErrTruncated     = errors.New("rlp: item runs past the end of input")
	ErrIntTooLong    = errors.New("rlp: integer wider than 64 bits")
	ErrTrailingBytes = errors.New("rlp: trailing bytes after item")
	ErrEmpty         = errors.New("rlp: no input")
)
