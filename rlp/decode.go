package rlp

// Kind is the structural category of an encoded item.
type Kind int

const (
	Byte Kind = iota
	String
	List
)

func (k Kind) String() string {
	switch k {
	case Byte:
		return "Byte"
	case String:
		return "String"
	case List:
		return "List"
	default:
		return "Unknown"
	}
}

// Split reads the first item of b, returning its kind, its content (the
// payload without header) and the bytes that follow it.
func Split(b []byte) (k Kind, content, rest []byte, err error) {
	h, err := parseHeader(b)
	if err != nil {
		return 0, nil, b, err
	}
	end := h.end()
	return h.kind, b[h.prefix:end], b[end:], nil
}

// SplitString splits b into the content of a byte string and the remaining bytes.
func SplitString(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k == List {
		return nil, b, ErrNotString
	}
	return content, rest, nil
}

// SplitUint64 decodes an integer at the beginning of b.
func SplitUint64(b []byte) (x uint64, rest []byte, err error) {
	content, rest, err := SplitString(b)
	if err != nil {
		return 0, b, err
	}
	x, err = Uint64(content)
	if err != nil {
		return 0, b, err
	}
	return x, rest, nil
}

// SplitList splits b into the payload of a list and the remaining bytes.
func SplitList(b []byte) (content, rest []byte, err error) {
	k, content, rest, err := Split(b)
	if err != nil {
		return nil, b, err
	}
	if k != List {
		return nil, b, ErrNotList
	}
	return content, rest, nil
}

// SplitOne checks that b holds exactly one item and returns it unchanged.
func SplitOne(b []byte) (RawValue, error) {
	_, _, rest, err := Split(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrTrailingBytes
	}
	return RawValue(b), nil
}

// CountValues counts the items concatenated in b, typically a list payload.
// Every item header is validated; payloads are not descended into.
func CountValues(b []byte) (int, error) {
	n := 0
	for len(b) > 0 {
		h, err := parseHeader(b)
		if err != nil {
			return 0, err
		}
		b = b[h.end():]
		n++
	}
	return n, nil
}

// Uint64 interprets the content of a byte string as a canonical big-endian integer.
func Uint64(content []byte) (uint64, error) {
	if len(content) > 8 {
		return 0, ErrIntTooLong
	}
	if len(content) > 0 && content[0] == 0 {
		return 0, ErrIntPadding
	}
	var x uint64
	for _, c := range content {
		x = x<<8 | uint64(c)
	}
	return x, nil
}

// header is the decoded prefix of one item.
type header struct {
	kind   Kind
	prefix int    // bytes taken by the prefix itself
	length uint64 // payload bytes following the prefix
}

func (h header) end() uint64 { return uint64(h.prefix) + h.length }

// parseHeader reads the prefix at the start of b. The returned header is
// minimal and its payload lies entirely within b.
func parseHeader(b []byte) (header, error) {
	if len(b) == 0 {
		return header{}, ErrEmpty
	}
	tag := b[0]
	if tag < stringOffset {
		return header{kind: Byte, length: 1}, nil
	}

	h := header{kind: String, prefix: 1}
	base := byte(stringOffset)
	if tag >= listOffset {
		h.kind, base = List, listOffset
	}

	if short := uint64(tag - base); short < shortLimit {
		// A lone byte below 0x80 is its own encoding.
		if h.kind == String && short == 1 && len(b) > 1 && b[1] < stringOffset {
			return header{}, ErrNonMinimal
		}
		h.length = short
	} else {
		width := int(short-shortLimit) + 1
		if len(b) < 1+width {
			return header{}, ErrTruncated
		}
		field := b[1 : 1+width]
		if field[0] == 0 {
			return header{}, ErrNonMinimal
		}
		for _, c := range field {
			h.length = h.length<<8 | uint64(c)
		}
		if h.length < shortLimit {
			return header{}, ErrNonMinimal
		}
		h.prefix += width
	}

	if h.length > uint64(len(b)-h.prefix) {
		return header{}, ErrTruncated
	}
	return h, nil
}
