package wire

import "errors"

// LengthLen is the encoded size of a TLV value length (four BCD digits).
const LengthLen = 2

// MaxValueLen is the largest value a BCD length can describe.
const MaxValueLen = 9999

var ErrValueTooLong = errors.New("wire: value exceeds tlv length range")

// AppendEntry appends one TLV entry: tag, BCD value length, value.
func AppendEntry(dst []byte, t Tag, value []byte) ([]byte, error) {
	if len(value) > MaxValueLen {
		return nil, ErrValueTooLong
	}
	tag, err := EncodeTag(t)
	if err != nil {
		return nil, err
	}
	ln, err := EncodeBCD4(uint16(len(value)))
	if err != nil {
		return nil, err
	}
	dst = append(dst, tag[:]...)
	dst = append(dst, ln[0], ln[1])
	dst = append(dst, value...)
	return dst, nil
}

// NextEntry decodes the TLV entry at the reader's cursor. The returned
// value aliases the reader's buffer.
func NextEntry(r *Reader) (Tag, []byte, error) {
	tb, err := r.Take(TagLen)
	if err != nil {
		return Tag{}, nil, err
	}
	t, err := DecodeTag(tb)
	if err != nil {
		return Tag{}, nil, err
	}
	lb, err := r.Take(LengthLen)
	if err != nil {
		return Tag{}, nil, err
	}
	n, err := DecodeBCD4(lb)
	if err != nil {
		return Tag{}, nil, err
	}
	v, err := r.Take(int(n))
	if err != nil {
		return Tag{}, nil, err
	}
	return t, v, nil
}
