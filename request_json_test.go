package sigma

import (
	"bytes"
	"errors"
	"testing"

	"github.com/extfg/sigma/internal/testutil/testlog"
	"github.com/extfg/sigma/schema"
)

// Full authorization payload captured from the switch-facing gateway.
const fullRequestJSON = `{
	"SAF": "Y",
	"SRC": "M",
	"MTI": "0200",
	"Serno": 6007040979,
	"T0000": 2371492071643,
	"T0001": "C",
	"T0002": 643,
	"T0003": "000100000000",
	"T0004": 978,
	"T0005": "000300000000",
	"T0006": "OPS6",
	"T0007": 19,
	"T0008": 643,
	"T0009": 3102,
	"T0010": 3104,
	"T0011": 2,
	"T0014": "IDDQD Bank",
	"T0016": 74707182,
	"T0018": "Y",
	"T0022": "000000000010",
	"i000": "0100",
	"i002": "555544******1111",
	"i003": "500000",
	"i004": "000100000000",
	"i006": "000100000000",
	"i007": "0629151748",
	"i011": "100250",
	"i012": "181748",
	"i013": "0629",
	"i018": "0000",
	"i022": "0000",
	"i025": "02",
	"i032": "010455",
	"i037": "002595100250",
	"i041": 990,
	"i042": "DCZ1",
	"i043": "IDDQD Bank.                         GE",
	"i048": "USRDT|2595100250",
	"i049": 643,
	"i051": 643,
	"i060": 3,
	"i101": 91926242,
	"i102": 2371492071643
}`

// The same payload as the switch expects it on the wire.
const fullRequestWire = "00536YM02006007040979" +
	"T\x00\x00\x00\x00\x132371492071643" +
	"T\x00\x01\x00\x00\x01C" +
	"T\x00\x02\x00\x00\x03643" +
	"T\x00\x03\x00\x00\x12000100000000" +
	"T\x00\x04\x00\x00\x03978" +
	"T\x00\x05\x00\x00\x12000300000000" +
	"T\x00\x06\x00\x00\x04OPS6" +
	"T\x00\x07\x00\x00\x0219" +
	"T\x00\x08\x00\x00\x03643" +
	"T\x00\x09\x00\x00\x043102" +
	"T\x00\x10\x00\x00\x043104" +
	"T\x00\x11\x00\x00\x012" +
	"T\x00\x14\x00\x00\x10IDDQD Bank" +
	"T\x00\x16\x00\x00\x0874707182" +
	"T\x00\x18\x00\x00\x01Y" +
	"T\x00\x22\x00\x00\x12000000000010" +
	"I\x00\x00\x00\x00\x040100" +
	"I\x00\x02\x00\x00\x16555544******1111" +
	"I\x00\x03\x00\x00\x06500000" +
	"I\x00\x04\x00\x00\x12000100000000" +
	"I\x00\x06\x00\x00\x12000100000000" +
	"I\x00\x07\x00\x00\x100629151748" +
	"I\x00\x11\x00\x00\x06100250" +
	"I\x00\x12\x00\x00\x06181748" +
	"I\x00\x13\x00\x00\x040629" +
	"I\x00\x18\x00\x00\x040000" +
	"I\x00\x22\x00\x00\x040000" +
	"I\x00\x25\x00\x00\x0202" +
	"I\x00\x32\x00\x00\x06010455" +
	"I\x00\x37\x00\x00\x12002595100250" +
	"I\x00\x41\x00\x00\x03990" +
	"I\x00\x42\x00\x00\x04DCZ1" +
	"I\x00\x43\x00\x00\x38IDDQD Bank.                         GE" +
	"I\x00\x48\x00\x00\x16USRDT|2595100250" +
	"I\x00\x49\x00\x00\x03643" +
	"I\x00\x51\x00\x00\x03643" +
	"I\x00\x60\x00\x00\x013" +
	"I\x01\x01\x00\x00\x0891926242" +
	"I\x01\x02\x00\x00\x132371492071643"

func TestParseRequestJSON(t *testing.T) {
	testlog.Start(t)
	req, err := ParseRequestJSON([]byte(fullRequestJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.SAF() != "Y" || req.Source() != "M" || req.MTI() != "0200" {
		t.Fatalf("unexpected header: %+v", req)
	}
	if req.AuthSerno() != 6007040979 {
		t.Fatalf("unexpected serno: %d", req.AuthSerno())
	}
	for id, want := range map[uint16]string{
		0:  "2371492071643",
		1:  "C",
		7:  "19",
		14: "IDDQD Bank",
		22: "000000000010",
	} {
		got, ok := req.Tag(id)
		if !ok || got != want {
			t.Fatalf("tag %d: got %q ok=%v, want %q", id, got, ok, want)
		}
	}
	for _, id := range []uint16{12, 13, 15, 17} {
		if _, ok := req.Tag(id); ok {
			t.Fatalf("tag %d should be absent", id)
		}
	}
	for id, want := range map[uint16]string{
		0:   "0100",
		2:   "555544******1111",
		41:  "990",
		43:  "IDDQD Bank.                         GE",
		102: "2371492071643",
	} {
		got, ok := req.ISOField(id)
		if !ok || got != want {
			t.Fatalf("iso field %d: got %q ok=%v, want %q", id, got, ok, want)
		}
	}
	if _, ok := req.ISOField(1); ok {
		t.Fatalf("iso field 1 should be absent")
	}
}

func TestParseRequestJSONThenEncodeGolden(t *testing.T) {
	testlog.Start(t)
	req, err := ParseRequestJSON([]byte(fullRequestJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	buf, err := EncodeRequest(req)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(buf, []byte(fullRequestWire)) {
		t.Fatalf("golden mismatch:\n got %q\nwant %q", buf, fullRequestWire)
	}
}

func TestDecodeRequestGolden(t *testing.T) {
	testlog.Start(t)
	want, err := ParseRequestJSON([]byte(fullRequestJSON))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	got, err := DecodeRequest([]byte(fullRequestWire))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Equal(want) {
		t.Fatalf("golden decode mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestParseRequestJSONSernoAsString(t *testing.T) {
	testlog.Start(t)
	req, err := ParseRequestJSON([]byte(`{"SAF": "Y", "SRC": "M", "MTI": "0200", "Serno": "0600704097"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.AuthSerno() != 600704097 {
		t.Fatalf("unexpected serno: %d", req.AuthSerno())
	}
}

func TestParseRequestJSONGeneratesSerno(t *testing.T) {
	testlog.Start(t)
	req, err := ParseRequestJSON([]byte(`{"SAF": "Y", "SRC": "M", "MTI": "0200", "T0000": "02371492071643"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if req.AuthSerno() == 0 {
		t.Fatalf("expected generated serno")
	}
}

func TestParseRequestJSONMissingHeader(t *testing.T) {
	testlog.Start(t)
	for field, payload := range map[string]string{
		"SAF": `{"SRC": "M", "MTI": "0200"}`,
		"SRC": `{"SAF": "N", "MTI": "0200"}`,
		"MTI": `{"SAF": "N", "SRC": "O"}`,
	} {
		_, err := ParseRequestJSON([]byte(payload))
		var ve schema.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", field, err)
		}
		if ve.Field != field || ve.Reason != schema.ReasonMissing {
			t.Fatalf("%s: unexpected validation error: %+v", field, ve)
		}
	}
}

func TestParseRequestJSONInvalidHeader(t *testing.T) {
	testlog.Start(t)
	for field, payload := range map[string]string{
		"SAF":   `{"SAF": 1234, "SRC": "M", "MTI": "0200"}`,
		"SRC":   `{"SAF": "N", "SRC": 929292, "MTI": "0200"}`,
		"MTI":   `{"SAF": "N", "SRC": "O", "MTI": 1200}`,
		"Serno": `{"SAF": "N", "SRC": "O", "MTI": "0200", "Serno": "12x4"}`,
	} {
		_, err := ParseRequestJSON([]byte(payload))
		var ve schema.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("%s: expected ValidationError, got %v", field, err)
		}
		if ve.Field != field || ve.Reason != schema.ReasonInvalid {
			t.Fatalf("%s: unexpected validation error: %+v", field, ve)
		}
	}
}

func TestParseRequestJSONSubfieldKey(t *testing.T) {
	testlog.Start(t)
	req, err := ParseRequestJSON([]byte(`{"SAF": "Y", "SRC": "M", "MTI": "0200", "Serno": 1, "s048.01": "RRN"}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, ok := req.ISOSubfield(48, 1)
	if !ok || v != "RRN" {
		t.Fatalf("subfield: got %q ok=%v", v, ok)
	}
}

func TestParseRequestJSONUnknownKey(t *testing.T) {
	testlog.Start(t)
	for _, payload := range []string{
		`{"SAF": "Y", "SRC": "M", "MTI": "0200", "Serno": 1, "X001": "v"}`,
		`{"SAF": "Y", "SRC": "M", "MTI": "0200", "Serno": 1, "T00": "v"}`,
		`{"SAF": "Y", "SRC": "M", "MTI": "0200", "Serno": 1, "iabc": "v"}`,
	} {
		var ve schema.ValidationError
		if _, err := ParseRequestJSON([]byte(payload)); !errors.As(err, &ve) {
			t.Fatalf("payload %s: expected ValidationError, got %v", payload, err)
		}
	}
}

func TestParseRequestJSONRejectsNonObject(t *testing.T) {
	testlog.Start(t)
	if _, err := ParseRequestJSON([]byte(`[1, 2]`)); err == nil {
		t.Fatalf("expected error for non-object payload")
	}
}

func TestParseRequestJSONRejectsBadValue(t *testing.T) {
	testlog.Start(t)
	_, err := ParseRequestJSON([]byte(`{"SAF": "Y", "SRC": "M", "MTI": "0200", "Serno": 1, "T0001": [1]}`))
	var ve schema.ValidationError
	if !errors.As(err, &ve) || ve.Field != "T0001" {
		t.Fatalf("expected T0001 rejection, got %v", err)
	}
}
