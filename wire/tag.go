package wire

import "errors"

// Tag kind bytes as they appear on the wire.
const (
	KindRegular     byte = 'T'
	KindISO         byte = 'I'
	KindISOSubfield byte = 'S'
)

// TagLen is the encoded size of a tag: kind byte, two BCD bytes of tag
// id, one BCD byte of subfield id (zero for non-subfield kinds).
const TagLen = 4

var ErrBadTagKind = errors.New("wire: unknown tag kind")

// Tag identifies one TLV entry.
type Tag struct {
	Kind byte
	ID   uint16
	Sub  uint8
}

func validKind(k byte) bool {
	switch k {
	case KindRegular, KindISO, KindISOSubfield:
		return true
	}
	return false
}

// EncodeTag lays t out as TagLen bytes.
func EncodeTag(t Tag) ([TagLen]byte, error) {
	var out [TagLen]byte
	if !validKind(t.Kind) {
		return out, ErrBadTagKind
	}
	id, err := EncodeBCD4(t.ID)
	if err != nil {
		return out, err
	}
	if t.Sub > 99 {
		return out, ErrRange
	}
	out[0] = t.Kind
	out[1] = id[0]
	out[2] = id[1]
	out[3] = byte(t.Sub/10)<<4 | byte(t.Sub%10)
	return out, nil
}

// DecodeTag parses TagLen bytes into a Tag.
func DecodeTag(b []byte) (Tag, error) {
	if len(b) != TagLen {
		return Tag{}, ErrShortBuffer
	}
	if !validKind(b[0]) {
		return Tag{}, ErrBadTagKind
	}
	id, err := DecodeBCD4(b[1:3])
	if err != nil {
		return Tag{}, err
	}
	hi, lo := b[3]>>4, b[3]&0x0f
	if hi > 9 || lo > 9 {
		return Tag{}, ErrBadDigit
	}
	return Tag{Kind: b[0], ID: id, Sub: hi*10 + lo}, nil
}
