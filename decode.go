package sigma

import (
	"math"
	"strings"

	"github.com/extfg/sigma/schema"
	"github.com/extfg/sigma/wire"
)

// DecodeRequest decodes buf against the built-in request schema.
func DecodeRequest(buf []byte) (*SigmaRequest, error) {
	return DecodeRequestWith(buf, schema.Describe(schema.KindRequest))
}

// DecodeRequestWith decodes buf against a caller-supplied schema. The
// returned request owns its values; it holds no reference into buf.
func DecodeRequestWith(buf []byte, s *schema.Schema) (*SigmaRequest, error) {
	body, err := openFrame(buf, s)
	if err != nil {
		return nil, err
	}
	req := &SigmaRequest{}
	if err := decodeHeader(body, req.setHeader, s); err != nil {
		return nil, err
	}
	for !body.Empty() {
		tag, value, err := wire.NextEntry(body)
		if err != nil {
			return nil, &DecodeError{Field: "tlv", Err: classifyWire(err)}
		}
		switch tag.Kind {
		case wire.KindRegular:
			req.SetTag(tag.ID, string(value))
		case wire.KindISO:
			req.SetISOField(tag.ID, string(value))
		case wire.KindISOSubfield:
			req.SetISOSubfield(tag.ID, tag.Sub, string(value))
		}
	}
	return req, nil
}

// DecodeResponse decodes buf against the built-in response schema.
func DecodeResponse(buf []byte) (*SigmaResponse, error) {
	return DecodeResponseWith(buf, schema.Describe(schema.KindResponse))
}

// DecodeResponseWith decodes buf against a caller-supplied schema.
// Unknown response tags are skipped; the switch emits fields this
// library predates.
func DecodeResponseWith(buf []byte, s *schema.Schema) (*SigmaResponse, error) {
	body, err := openFrame(buf, s)
	if err != nil {
		return nil, err
	}
	resp := &SigmaResponse{}
	if err := decodeHeader(body, resp.setHeader, s); err != nil {
		return nil, err
	}
	for !body.Empty() {
		tag, value, err := wire.NextEntry(body)
		if err != nil {
			return nil, &DecodeError{Field: "tlv", Err: classifyWire(err)}
		}
		if tag.Kind != wire.KindRegular {
			continue
		}
		switch tag.ID {
		case tagReason:
			v, err := wire.ParseUintAscii(value)
			if err != nil || v > math.MaxUint32 {
				return nil, &DecodeError{Field: regularTagName(tagReason), Err: ErrInvalidEncoding}
			}
			resp.reason = uint32(v)
		case tagFee:
			fee, err := parseFee(value)
			if err != nil {
				return nil, err
			}
			resp.fees = append(resp.fees, fee)
		case tagAData:
			resp.adata = string(value)
			resp.hasAData = true
		}
	}
	return resp, nil
}

// openFrame consumes the length prefix, bounds it by the actual buffer,
// verifies the checksum trailer when the schema declares one, and
// returns a cursor over the body. Declared lengths are never trusted
// past the buffer's real end.
func openFrame(buf []byte, s *schema.Schema) (*wire.Reader, error) {
	r := wire.NewReader(buf)
	lb, err := r.Take(frameLenDigits)
	if err != nil {
		return nil, &DecodeError{Field: "length", Err: ErrUnexpectedEnd}
	}
	n, err := wire.ParseUintAscii(lb)
	if err != nil {
		return nil, &DecodeError{Field: "length", Err: ErrInvalidEncoding}
	}
	if int(n) > s.Limits.MaxBodyLen {
		return nil, &DecodeError{Field: "length", Err: ErrLengthMismatch}
	}
	body, err := r.Take(int(n))
	if err != nil {
		return nil, &DecodeError{Field: "body", Err: ErrUnexpectedEnd}
	}
	if s.Checksum == schema.ChecksumLRC {
		cb, err := r.Take(1)
		if err != nil {
			return nil, &DecodeError{Field: "checksum", Err: ErrUnexpectedEnd}
		}
		if cb[0] != wire.LRC(body) {
			return nil, &DecodeError{Field: "checksum", Err: ErrChecksumMismatch}
		}
	}
	// Bytes past the declared frame belong to the transport.
	return wire.NewReader(body), nil
}

// decodeHeader reads the fixed header fields in schema order. Numeric
// fields tolerate the switch's space padding.
func decodeHeader(r *wire.Reader, set func(name, value string) error, s *schema.Schema) error {
	for _, spec := range s.Header {
		b, err := r.Take(spec.Width)
		if err != nil {
			return &DecodeError{Field: spec.Name, Err: ErrUnexpectedEnd}
		}
		v := string(b)
		if spec.Class == schema.ClassNumeric {
			v = strings.TrimSpace(v)
			if _, err := wire.ParseUintAscii([]byte(v)); err != nil {
				return &DecodeError{Field: spec.Name, Err: ErrInvalidEncoding}
			}
		}
		if err := set(spec.Name, v); err != nil {
			return &DecodeError{Field: spec.Name, Err: ErrInvalidEncoding}
		}
	}
	return nil
}
