package sigma

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/extfg/sigma/schema"
	"github.com/extfg/sigma/wire"
)

// SubfieldID addresses one subfield within an ISO field.
type SubfieldID struct {
	Field uint16
	Sub   uint8
}

// SigmaRequest is an authorization request bound for the switch. Build
// one with NewRequest and the setters; EncodeRequest rejects it via
// schema validation if required header fields are missing.
type SigmaRequest struct {
	saf       string
	source    string
	mti       string
	authSerno uint64

	tags         map[uint16]string
	isoFields    map[uint16]string
	isoSubfields map[SubfieldID]string
}

func NewRequest(saf, source, mti string, authSerno uint64) *SigmaRequest {
	return &SigmaRequest{
		saf:       saf,
		source:    source,
		mti:       mti,
		authSerno: authSerno,
	}
}

func (r *SigmaRequest) SAF() string       { return r.saf }
func (r *SigmaRequest) Source() string    { return r.source }
func (r *SigmaRequest) MTI() string       { return r.mti }
func (r *SigmaRequest) AuthSerno() uint64 { return r.authSerno }

// SetTag sets a regular tag value.
func (r *SigmaRequest) SetTag(id uint16, value string) {
	if r.tags == nil {
		r.tags = make(map[uint16]string)
	}
	r.tags[id] = value
}

// SetISOField sets an ISO field value.
func (r *SigmaRequest) SetISOField(id uint16, value string) {
	if r.isoFields == nil {
		r.isoFields = make(map[uint16]string)
	}
	r.isoFields[id] = value
}

// SetISOSubfield sets one subfield of an ISO field.
func (r *SigmaRequest) SetISOSubfield(field uint16, sub uint8, value string) {
	if r.isoSubfields == nil {
		r.isoSubfields = make(map[SubfieldID]string)
	}
	r.isoSubfields[SubfieldID{Field: field, Sub: sub}] = value
}

// Tag returns a regular tag value; the second result reports presence.
func (r *SigmaRequest) Tag(id uint16) (string, bool) {
	v, ok := r.tags[id]
	return v, ok
}

// ISOField returns an ISO field value; the second result reports
// presence.
func (r *SigmaRequest) ISOField(id uint16) (string, bool) {
	v, ok := r.isoFields[id]
	return v, ok
}

// ISOSubfield returns an ISO subfield value; the second result reports
// presence.
func (r *SigmaRequest) ISOSubfield(field uint16, sub uint8) (string, bool) {
	v, ok := r.isoSubfields[SubfieldID{Field: field, Sub: sub}]
	return v, ok
}

// Equal reports field-for-field equality with other.
func (r *SigmaRequest) Equal(other *SigmaRequest) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.saf == other.saf &&
		r.source == other.source &&
		r.mti == other.mti &&
		r.authSerno == other.authSerno &&
		maps.Equal(r.tags, other.tags) &&
		maps.Equal(r.isoFields, other.isoFields) &&
		maps.Equal(r.isoSubfields, other.isoSubfields)
}

// Header implements schema.View.
func (r *SigmaRequest) Header(name string) (string, bool) {
	switch name {
	case schema.FieldSAF:
		return r.saf, true
	case schema.FieldSRC:
		return r.source, true
	case schema.FieldMTI:
		return r.mti, true
	case schema.FieldSerno:
		return strconv.FormatUint(r.authSerno, 10), true
	}
	return "", false
}

// Tags implements schema.View.
func (r *SigmaRequest) Tags() []schema.TagValue {
	entries := r.sortedEntries()
	out := make([]schema.TagValue, len(entries))
	for i, e := range entries {
		out[i] = schema.TagValue{Name: e.name, ID: e.tag.ID, Value: e.value}
	}
	return out
}

func (r *SigmaRequest) setHeader(name, value string) error {
	switch name {
	case schema.FieldSAF:
		r.saf = value
	case schema.FieldSRC:
		r.source = value
	case schema.FieldMTI:
		r.mti = value
	case schema.FieldSerno:
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return err
		}
		r.authSerno = v
	default:
		return fmt.Errorf("unknown header field %q", name)
	}
	return nil
}

type tagEntry struct {
	tag   wire.Tag
	name  string
	value string
}

func regularTagName(id uint16) string {
	return fmt.Sprintf("T%04d", id)
}

func isoFieldName(id uint16) string {
	return fmt.Sprintf("i%03d", id)
}

func isoSubfieldName(field uint16, sub uint8) string {
	return fmt.Sprintf("s%03d.%02d", field, sub)
}

// sortedEntries lists every TLV entry in wire order: regular tags,
// then ISO fields, then ISO subfields, each group ascending. The order
// is what makes encoding deterministic.
func (r *SigmaRequest) sortedEntries() []tagEntry {
	entries := make([]tagEntry, 0, len(r.tags)+len(r.isoFields)+len(r.isoSubfields))
	for _, id := range slices.Sorted(maps.Keys(r.tags)) {
		entries = append(entries, tagEntry{
			tag:   wire.Tag{Kind: wire.KindRegular, ID: id},
			name:  regularTagName(id),
			value: r.tags[id],
		})
	}
	for _, id := range slices.Sorted(maps.Keys(r.isoFields)) {
		entries = append(entries, tagEntry{
			tag:   wire.Tag{Kind: wire.KindISO, ID: id},
			name:  isoFieldName(id),
			value: r.isoFields[id],
		})
	}
	subIDs := slices.SortedFunc(maps.Keys(r.isoSubfields), func(a, b SubfieldID) int {
		if a.Field != b.Field {
			return int(a.Field) - int(b.Field)
		}
		return int(a.Sub) - int(b.Sub)
	})
	for _, id := range subIDs {
		entries = append(entries, tagEntry{
			tag:   wire.Tag{Kind: wire.KindISOSubfield, ID: id.Field, Sub: id.Sub},
			name:  isoSubfieldName(id.Field, id.Sub),
			value: r.isoSubfields[id],
		})
	}
	return entries
}
