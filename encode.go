package sigma

import (
	"strconv"

	"github.com/extfg/sigma/schema"
	"github.com/extfg/sigma/wire"
)

// frameLenDigits is the width of the ASCII body-length prefix.
const frameLenDigits = 5

// EncodeRequest encodes req against the built-in request schema.
func EncodeRequest(req *SigmaRequest) ([]byte, error) {
	return EncodeRequestWith(req, schema.Describe(schema.KindRequest))
}

// EncodeRequestWith encodes req against a caller-supplied schema, such
// as one loaded from a layout file. Encoding is deterministic: the same
// request always produces the same bytes, and no partial buffer is ever
// returned.
func EncodeRequestWith(req *SigmaRequest, s *schema.Schema) ([]byte, error) {
	if req == nil {
		return nil, ErrNilMessage
	}
	if err := schema.Validate(req, s); err != nil {
		return nil, err
	}
	body := make([]byte, 0, 256)
	body, err := appendHeader(body, req, s)
	if err != nil {
		return nil, err
	}
	for _, e := range req.sortedEntries() {
		body, err = wire.AppendEntry(body, e.tag, []byte(e.value))
		if err != nil {
			return nil, &EncodeError{Field: e.name, Err: classifyWire(err)}
		}
	}
	return seal(body, s)
}

// EncodeResponse encodes resp against the built-in response schema.
func EncodeResponse(resp *SigmaResponse) ([]byte, error) {
	return EncodeResponseWith(resp, schema.Describe(schema.KindResponse))
}

// EncodeResponseWith encodes resp against a caller-supplied schema.
func EncodeResponseWith(resp *SigmaResponse, s *schema.Schema) ([]byte, error) {
	if resp == nil {
		return nil, ErrNilMessage
	}
	if err := schema.Validate(resp, s); err != nil {
		return nil, err
	}
	entries, err := resp.sortedEntries()
	if err != nil {
		return nil, err
	}
	body := make([]byte, 0, 128)
	body, err = appendHeader(body, resp, s)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		body, err = wire.AppendEntry(body, e.tag, []byte(e.value))
		if err != nil {
			return nil, &EncodeError{Field: e.name, Err: classifyWire(err)}
		}
	}
	return seal(body, s)
}

// appendHeader writes the fixed header fields in schema order. Values
// passed Validate already, so text fields have their exact width and
// numeric fields are in range.
func appendHeader(body []byte, msg schema.View, s *schema.Schema) ([]byte, error) {
	for _, spec := range s.Header {
		v, _ := msg.Header(spec.Name)
		switch spec.Class {
		case schema.ClassNumeric:
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return nil, &EncodeError{Field: spec.Name, Err: ErrInvalidEncoding}
			}
			body, err = wire.AppendUintAscii(body, n, spec.Width)
			if err != nil {
				return nil, &EncodeError{Field: spec.Name, Err: classifyWire(err)}
			}
		default:
			body = append(body, v...)
		}
	}
	return body, nil
}

// seal frames the body: ASCII length prefix, body, then the checksum
// trailer when the schema selects one.
func seal(body []byte, s *schema.Schema) ([]byte, error) {
	if len(body) > s.Limits.MaxBodyLen {
		return nil, &EncodeError{Field: "body", Err: ErrLengthMismatch}
	}
	out := make([]byte, 0, frameLenDigits+len(body)+1)
	out, err := wire.AppendUintAscii(out, uint64(len(body)), frameLenDigits)
	if err != nil {
		return nil, &EncodeError{Field: "length", Err: classifyWire(err)}
	}
	out = append(out, body...)
	if s.Checksum == schema.ChecksumLRC {
		out = append(out, wire.LRC(body))
	}
	return out, nil
}
