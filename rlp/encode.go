package rlp

// RawValue is a single, already encoded RLP item.
type RawValue []byte

const (
	stringOffset = 0x80
	listOffset   = 0xC0
	shortLimit   = 56
)

// EmptyString is the encoding of the empty byte string.
var EmptyString = RawValue{stringOffset}

// AppendString appends the encoding of b as a byte string to dst.
func AppendString(dst, b []byte) []byte {
	if len(b) == 1 && b[0] < stringOffset {
		return append(dst, b[0])
	}
	dst = appendHeader(dst, stringOffset, uint64(len(b)))
	return append(dst, b...)
}

// AppendUint appends the canonical integer encoding of v to dst.
// Zero encodes as the empty string; larger values drop leading zero bytes.
func AppendUint(dst []byte, v uint64) []byte {
	switch {
	case v == 0:
		return append(dst, stringOffset)
	case v < stringOffset:
		return append(dst, byte(v))
	}
	n := intSize(v)
	dst = append(dst, stringOffset+byte(n))
	return appendBigEndian(dst, v, n)
}

// AppendListHeader appends the header of a list whose payload is size bytes long.
func AppendListHeader(dst []byte, size int) []byte {
	return appendHeader(dst, listOffset, uint64(size))
}

// EncodeString returns the encoding of b as a byte string.
func EncodeString(b []byte) RawValue {
	return AppendString(make([]byte, 0, len(b)+headerSize(uint64(len(b)))), b)
}

// EncodeUint returns the canonical encoding of v.
func EncodeUint(v uint64) RawValue {
	return AppendUint(make([]byte, 0, 9), v)
}

// WrapList returns payload prefixed with a list header. The payload must
// already be a concatenation of encoded items.
func WrapList(payload []byte) []byte {
	out := make([]byte, 0, len(payload)+headerSize(uint64(len(payload))))
	out = AppendListHeader(out, len(payload))
	return append(out, payload...)
}

func appendHeader(dst []byte, offset byte, size uint64) []byte {
	if size < shortLimit {
		return append(dst, offset+byte(size))
	}
	n := intSize(size)
	dst = append(dst, offset+shortLimit-1+byte(n))
	return appendBigEndian(dst, size, n)
}

func headerSize(size uint64) int {
	if size < shortLimit {
		return 1
	}
	return 1 + intSize(size)
}

func intSize(v uint64) int {
	n := 0
	for ; v > 0; v >>= 8 {
		n++
	}
	return n
}

func appendBigEndian(dst []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}
	return dst
}
