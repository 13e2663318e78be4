package wire

import "errors"

var (
	ErrNonDigit = errors.New("wire: non-digit byte in numeric field")
	ErrRange    = errors.New("wire: value out of range for field width")
	ErrBadDigit = errors.New("wire: invalid packed bcd digit")
)

// maxAsciiDigits bounds ParseUintAscii input so the accumulator cannot
// overflow uint64 (max uint64 has 20 digits).
const maxAsciiDigits = 19

// AppendUintAscii appends v as exactly width ASCII decimal digits,
// zero-padded on the left.
func AppendUintAscii(dst []byte, v uint64, width int) ([]byte, error) {
	if width <= 0 || width > maxAsciiDigits {
		return nil, ErrRange
	}
	digits := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	if v != 0 {
		return nil, ErrRange
	}
	return append(dst, digits...), nil
}

// ParseUintAscii parses b as an unsigned ASCII decimal number. Every
// byte must be a digit.
func ParseUintAscii(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, ErrNonDigit
	}
	if len(b) > maxAsciiDigits {
		return 0, ErrRange
	}
	var v uint64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, ErrNonDigit
		}
		v = v*10 + uint64(c-'0')
	}
	return v, nil
}

// EncodeBCD4 packs v (0..9999) into two bytes of four BCD digits.
func EncodeBCD4(v uint16) ([2]byte, error) {
	if v > 9999 {
		return [2]byte{}, ErrRange
	}
	return [2]byte{
		byte(v/1000)<<4 | byte(v/100%10),
		byte(v/10%10)<<4 | byte(v%10),
	}, nil
}

// DecodeBCD4 unpacks two bytes of four BCD digits into 0..9999.
func DecodeBCD4(b []byte) (uint16, error) {
	if len(b) != 2 {
		return 0, ErrShortBuffer
	}
	var v uint16
	for _, c := range b {
		hi, lo := c>>4, c&0x0f
		if hi > 9 || lo > 9 {
			return 0, ErrBadDigit
		}
		v = v*100 + uint16(hi)*10 + uint16(lo)
	}
	return v, nil
}
