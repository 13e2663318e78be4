package wire

import "errors"

var ErrShortBuffer = errors.New("wire: short buffer")

// Reader is a left-to-right cursor over one immutable buffer.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Take returns the next n bytes and advances the cursor. The returned
// slice aliases the reader's buffer; callers that retain it past the
// decode call must copy it out.
func (r *Reader) Take(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.pos < n {
		return nil, ErrShortBuffer
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Remaining reports how many bytes are left to consume.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

// Empty reports whether the cursor reached the end of the buffer.
func (r *Reader) Empty() bool {
	return r.pos >= len(r.buf)
}
