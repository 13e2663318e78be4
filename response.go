package sigma

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/extfg/sigma/schema"
	"github.com/extfg/sigma/wire"
)

// Response TLV tag ids the switch is known to emit.
const (
	tagReason = 31
	tagFee    = 32
	tagAData  = 48
)

// FeeData is one fee record carried by a response.
type FeeData struct {
	Reason   uint16 `json:"reason"`
	Currency uint16 `json:"currency"`
	Amount   uint64 `json:"amount"`
}

// Fee record layout: 4 digits reason, 3 digits currency, the remaining
// digits are the amount.
const feeMinLen = 8

func parseFee(b []byte) (FeeData, error) {
	if len(b) < feeMinLen {
		return FeeData{}, &DecodeError{Field: "fee", Err: ErrLengthMismatch}
	}
	reason, err := wire.ParseUintAscii(b[0:4])
	if err != nil {
		return FeeData{}, &DecodeError{Field: "fee.reason", Err: ErrInvalidEncoding}
	}
	currency, err := wire.ParseUintAscii(b[4:7])
	if err != nil {
		return FeeData{}, &DecodeError{Field: "fee.currency", Err: ErrInvalidEncoding}
	}
	amount, err := wire.ParseUintAscii(b[7:])
	if err != nil {
		return FeeData{}, &DecodeError{Field: "fee.amount", Err: ErrInvalidEncoding}
	}
	return FeeData{Reason: uint16(reason), Currency: uint16(currency), Amount: amount}, nil
}

func (f FeeData) wireValue() (string, error) {
	if f.Reason > 9999 {
		return "", &EncodeError{Field: "fee.reason", Err: ErrValueOutOfRange}
	}
	if f.Currency > 999 {
		return "", &EncodeError{Field: "fee.currency", Err: ErrValueOutOfRange}
	}
	return fmt.Sprintf("%04d%03d%d", f.Reason, f.Currency, f.Amount), nil
}

// SigmaResponse is the switch's reply to a request. DecodeResponse
// returns a fully materialized value that holds no reference into the
// input buffer; it is read-only through the accessors.
type SigmaResponse struct {
	mti       string
	authSerno uint64
	reason    uint32
	fees      []FeeData
	adata     string
	hasAData  bool
}

// NewResponse builds a response for the encode direction.
func NewResponse(mti string, authSerno uint64, reason uint32) *SigmaResponse {
	return &SigmaResponse{mti: mti, authSerno: authSerno, reason: reason}
}

func (r *SigmaResponse) AddFee(fee FeeData) {
	r.fees = append(r.fees, fee)
}

func (r *SigmaResponse) SetAdditionalData(data string) {
	r.adata = data
	r.hasAData = true
}

func (r *SigmaResponse) MTI() string       { return r.mti }
func (r *SigmaResponse) AuthSerno() uint64 { return r.authSerno }
func (r *SigmaResponse) Reason() uint32    { return r.reason }

// Fees returns a copy of the fee records.
func (r *SigmaResponse) Fees() []FeeData {
	return slices.Clone(r.fees)
}

// AdditionalData returns the optional additional-data field. The second
// result distinguishes an absent field from an empty one.
func (r *SigmaResponse) AdditionalData() (string, bool) {
	return r.adata, r.hasAData
}

// Equal reports field-for-field equality with other.
func (r *SigmaResponse) Equal(other *SigmaResponse) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.mti == other.mti &&
		r.authSerno == other.authSerno &&
		r.reason == other.reason &&
		slices.Equal(r.fees, other.fees) &&
		r.hasAData == other.hasAData &&
		r.adata == other.adata
}

// Header implements schema.View.
func (r *SigmaResponse) Header(name string) (string, bool) {
	switch name {
	case schema.FieldMTI:
		return r.mti, true
	case schema.FieldSerno:
		return strconv.FormatUint(r.authSerno, 10), true
	}
	return "", false
}

// Tags implements schema.View.
func (r *SigmaResponse) Tags() []schema.TagValue {
	entries, err := r.sortedEntries()
	if err != nil {
		// Out-of-range fee values are caught again by EncodeResponse;
		// validation only sees the representable entries.
		return nil
	}
	out := make([]schema.TagValue, len(entries))
	for i, e := range entries {
		out[i] = schema.TagValue{Name: e.name, ID: e.tag.ID, Value: e.value}
	}
	return out
}

func (r *SigmaResponse) setHeader(name, value string) error {
	switch name {
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

func (r *SigmaResponse) sortedEntries() ([]tagEntry, error) {
	entries := make([]tagEntry, 0, 2+len(r.fees))
	entries = append(entries, tagEntry{
		tag:   wire.Tag{Kind: wire.KindRegular, ID: tagReason},
		name:  regularTagName(tagReason),
		value: strconv.FormatUint(uint64(r.reason), 10),
	})
	for _, fee := range r.fees {
		v, err := fee.wireValue()
		if err != nil {
			return nil, err
		}
		entries = append(entries, tagEntry{
			tag:   wire.Tag{Kind: wire.KindRegular, ID: tagFee},
			name:  regularTagName(tagFee),
			value: v,
		})
	}
	if r.hasAData {
		entries = append(entries, tagEntry{
			tag:   wire.Tag{Kind: wire.KindRegular, ID: tagAData},
			name:  regularTagName(tagAData),
			value: r.adata,
		})
	}
	return entries, nil
}

// MarshalJSON renders the response in the switch-facing JSON shape:
// fees and adata are omitted when absent.
func (r *SigmaResponse) MarshalJSON() ([]byte, error) {
	var out struct {
		MTI       string    `json:"mti"`
		AuthSerno uint64    `json:"auth_serno"`
		Reason    uint32    `json:"reason"`
		Fees      []FeeData `json:"fees,omitempty"`
		AData     *string   `json:"adata,omitempty"`
	}
	out.MTI = r.mti
	out.AuthSerno = r.authSerno
	out.Reason = r.reason
	out.Fees = r.fees
	if r.hasAData {
		out.AData = &r.adata
	}
	return json.Marshal(out)
}
