package schema

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Kind selects a message schema.
type Kind int

const (
	KindRequest Kind = iota + 1
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Fixed-header field names shared with the message model.
const (
	FieldSAF   = "saf"
	FieldSRC   = "source"
	FieldMTI   = "mti"
	FieldSerno = "auth_serno"
)

// Class constrains the bytes a fixed-header field may carry.
type Class int

const (
	// ClassText fields carry exactly Width bytes of free text.
	ClassText Class = iota + 1
	// ClassNumeric fields carry decimal digits, padded to Width on the
	// wire; values wider than Width are rejected.
	ClassNumeric
)

// Checksum selects the trailer appended after the body, if any.
type Checksum string

const (
	ChecksumNone Checksum = "none"
	ChecksumLRC  Checksum = "lrc"
)

// FieldSpec declares one fixed-header field.
type FieldSpec struct {
	Name     string
	Width    int
	Class    Class
	Required bool
}

// Limits bounds the TLV section of a message.
type Limits struct {
	MaxTagID    uint16
	MaxValueLen int
	MaxBodyLen  int
}

func DefaultLimits() Limits {
	return Limits{
		MaxTagID:    9999,
		MaxValueLen: 9999,
		MaxBodyLen:  99999,
	}
}

// Schema is the immutable layout of one message kind. Callers must
// treat the value returned by Describe or Load as read-only.
type Schema struct {
	Kind     Kind
	Header   []FieldSpec
	Limits   Limits
	Checksum Checksum
}

// TagValue is one TLV entry as seen by validation.
type TagValue struct {
	Name  string
	ID    uint16
	Value string
}

// View is the read surface Validate needs from a message model.
type View interface {
	// Header returns the value of a fixed-header field by spec name.
	Header(name string) (string, bool)
	// Tags returns every TLV entry the message carries.
	Tags() []TagValue
}

// ValidationError reports a caller-supplied message that violates its
// schema. It is always recoverable and produced before any encoding.
type ValidationError struct {
	Kind   Kind
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("schema: %s field %q: %s", e.Kind, e.Field, e.Reason)
}

const (
	ReasonMissing = "missing required field"
	ReasonInvalid = "invalid value"
)

var (
	requestSchema = mustBuild(Schema{
		Kind: KindRequest,
		Header: []FieldSpec{
			{Name: FieldSAF, Width: 1, Class: ClassText, Required: true},
			{Name: FieldSRC, Width: 1, Class: ClassText, Required: true},
			{Name: FieldMTI, Width: 4, Class: ClassText, Required: true},
			{Name: FieldSerno, Width: 10, Class: ClassNumeric, Required: true},
		},
		Limits:   DefaultLimits(),
		Checksum: ChecksumNone,
	})
	responseSchema = mustBuild(Schema{
		Kind: KindResponse,
		Header: []FieldSpec{
			{Name: FieldMTI, Width: 4, Class: ClassText, Required: true},
			{Name: FieldSerno, Width: 10, Class: ClassNumeric, Required: true},
		},
		Limits:   DefaultLimits(),
		Checksum: ChecksumNone,
	})
)

// Describe returns the process-wide schema for kind. The result is
// shared and never mutated after init.
func Describe(kind Kind) *Schema {
	switch kind {
	case KindRequest:
		return requestSchema
	case KindResponse:
		return responseSchema
	}
	panic(fmt.Sprintf("schema: describe unknown kind %d", int(kind)))
}

// mustBuild vets a schema table at init time. A defective table is a
// programming error, not input data, so it fails loudly here.
func mustBuild(s Schema) *Schema {
	if err := build(&s); err != nil {
		panic(fmt.Sprintf("schema: defective built-in table: %v", err))
	}
	return &s
}

func build(s *Schema) error {
	if s.Kind != KindRequest && s.Kind != KindResponse {
		return fmt.Errorf("unknown kind %d", int(s.Kind))
	}
	if len(s.Header) == 0 {
		return fmt.Errorf("empty header layout")
	}
	seen := make(map[string]struct{}, len(s.Header))
	for _, spec := range s.Header {
		if spec.Name == "" {
			return fmt.Errorf("unnamed header field")
		}
		if _, dup := seen[spec.Name]; dup {
			return fmt.Errorf("duplicate header field %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		if spec.Width <= 0 {
			return fmt.Errorf("header field %q has width %d", spec.Name, spec.Width)
		}
		if spec.Class != ClassText && spec.Class != ClassNumeric {
			return fmt.Errorf("header field %q has unknown class", spec.Name)
		}
	}
	if s.Checksum != ChecksumNone && s.Checksum != ChecksumLRC {
		return fmt.Errorf("unknown checksum %q", s.Checksum)
	}
	if s.Limits.MaxValueLen <= 0 || s.Limits.MaxBodyLen <= 0 {
		return fmt.Errorf("limits not set")
	}
	return nil
}

// Validate enforces required header fields, field constraints and TLV
// limits for msg. It never produces bytes; encode refuses to run until
// Validate passes.
func Validate(msg View, s *Schema) error {
	log.Debug().Stringer("kind", s.Kind).Msg("schema.Validate")
	for _, spec := range s.Header {
		v, ok := msg.Header(spec.Name)
		if !ok || (spec.Required && v == "") {
			log.Debug().Stringer("kind", s.Kind).Str("field", spec.Name).
				Msg("schema.Validate missing field")
			return ValidationError{Kind: s.Kind, Field: spec.Name, Reason: ReasonMissing}
		}
		if err := checkHeaderValue(v, spec); err != nil {
			log.Debug().Stringer("kind", s.Kind).Str("field", spec.Name).
				Err(err).Msg("schema.Validate invalid field")
			return ValidationError{Kind: s.Kind, Field: spec.Name, Reason: ReasonInvalid}
		}
	}
	for _, tag := range msg.Tags() {
		if tag.ID > s.Limits.MaxTagID {
			return ValidationError{Kind: s.Kind, Field: tag.Name, Reason: ReasonInvalid}
		}
		if len(tag.Value) > s.Limits.MaxValueLen {
			return ValidationError{Kind: s.Kind, Field: tag.Name, Reason: ReasonInvalid}
		}
	}
	return nil
}

func checkHeaderValue(v string, spec FieldSpec) error {
	switch spec.Class {
	case ClassText:
		if len(v) != spec.Width {
			return fmt.Errorf("want %d bytes, have %d", spec.Width, len(v))
		}
	case ClassNumeric:
		if len(v) == 0 || len(v) > spec.Width {
			return fmt.Errorf("want 1..%d digits, have %d", spec.Width, len(v))
		}
		for _, c := range []byte(v) {
			if c < '0' || c > '9' {
				return fmt.Errorf("non-digit byte %q", c)
			}
		}
	}
	return nil
}
