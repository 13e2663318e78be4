package sigma

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/extfg/sigma/schema"
)

// The switch-facing JSON shape: "SAF"/"SRC"/"MTI" strings, an optional
// "Serno" (number or digit string), then field keys "Tnnnn" (regular
// tags), "innn" (ISO fields) and "snnn.ss" (ISO subfields) with string
// or unsigned integer values.

// ParseRequestJSON builds a SigmaRequest from the switch-facing JSON
// shape. A missing Serno gets a random 10-digit value.
func ParseRequestJSON(data []byte) (*SigmaRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("sigma: request json: %w", err)
	}

	req := &SigmaRequest{}
	var err error
	if req.saf, err = takeString(raw, "SAF"); err != nil {
		return nil, err
	}
	if req.source, err = takeString(raw, "SRC"); err != nil {
		return nil, err
	}
	if req.mti, err = takeString(raw, "MTI"); err != nil {
		return nil, err
	}
	serno, ok, err := takeSerno(raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		serno = randomSerno()
	}
	req.authSerno = serno

	for name, rawValue := range raw {
		value, err := fieldValue(name, rawValue)
		if err != nil {
			return nil, err
		}
		if err := req.setNamedField(name, value); err != nil {
			return nil, err
		}
	}
	return req, nil
}

func takeString(raw map[string]json.RawMessage, key string) (string, error) {
	rv, ok := raw[key]
	if !ok {
		return "", schema.ValidationError{
			Kind:   schema.KindRequest,
			Field:  key,
			Reason: schema.ReasonMissing,
		}
	}
	delete(raw, key)
	var v string
	if err := json.Unmarshal(rv, &v); err != nil {
		return "", schema.ValidationError{
			Kind:   schema.KindRequest,
			Field:  key,
			Reason: schema.ReasonInvalid,
		}
	}
	return v, nil
}

func takeSerno(raw map[string]json.RawMessage) (uint64, bool, error) {
	rv, ok := raw["Serno"]
	if !ok {
		return 0, false, nil
	}
	delete(raw, "Serno")
	invalid := schema.ValidationError{
		Kind:   schema.KindRequest,
		Field:  "Serno",
		Reason: schema.ReasonInvalid,
	}
	var s string
	if err := json.Unmarshal(rv, &s); err == nil {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return 0, false, invalid
		}
		return v, true, nil
	}
	var v uint64
	if err := json.Unmarshal(rv, &v); err != nil {
		return 0, false, invalid
	}
	return v, true, nil
}

func fieldValue(name string, raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var v uint64
	if err := json.Unmarshal(raw, &v); err == nil {
		return strconv.FormatUint(v, 10), nil
	}
	return "", schema.ValidationError{
		Kind:   schema.KindRequest,
		Field:  name,
		Reason: schema.ReasonInvalid,
	}
}

// setNamedField routes a JSON field key to the tag group it names.
func (r *SigmaRequest) setNamedField(name, value string) error {
	unknown := schema.ValidationError{
		Kind:   schema.KindRequest,
		Field:  name,
		Reason: "unknown field name",
	}
	switch {
	case len(name) == 5 && name[0] == 'T':
		id, err := parseFieldDigits(name[1:])
		if err != nil {
			return unknown
		}
		r.SetTag(id, value)
	case len(name) == 4 && name[0] == 'i':
		id, err := parseFieldDigits(name[1:])
		if err != nil {
			return unknown
		}
		r.SetISOField(id, value)
	case len(name) == 7 && name[0] == 's' && name[4] == '.':
		id, err := parseFieldDigits(name[1:4])
		if err != nil {
			return unknown
		}
		sub, err := parseFieldDigits(name[5:])
		if err != nil {
			return unknown
		}
		r.SetISOSubfield(id, uint8(sub), value)
	default:
		return unknown
	}
	return nil
}

func parseFieldDigits(s string) (uint16, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, fmt.Errorf("non-digit in field name")
		}
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// randomSerno picks a nonzero 10-digit authorization serno for requests
// that do not supply one.
func randomSerno() uint64 {
	return rand.Uint64N(9_999_999_999) + 1
}
