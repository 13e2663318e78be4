package schema

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// The byte layout of a Sigma message is a contract with the switch
// vendor. A layout file lets a deployment supply that contract as
// configuration data instead of recompiling the field tables.
//
//	checksum = "lrc"
//
//	[limits]
//	max_tag_id = 9999
//	max_value_len = 9999
//	max_body_len = 99999
//
//	[[header]]
//	name = "mti"
//	width = 4
//	class = "text"
//	required = true

type layoutFile struct {
	Checksum string        `toml:"checksum"`
	Limits   layoutLimits  `toml:"limits"`
	Header   []layoutField `toml:"header"`
}

type layoutLimits struct {
	MaxTagID    uint16 `toml:"max_tag_id"`
	MaxValueLen int    `toml:"max_value_len"`
	MaxBodyLen  int    `toml:"max_body_len"`
}

type layoutField struct {
	Name     string `toml:"name"`
	Width    int    `toml:"width"`
	Class    string `toml:"class"`
	Required bool   `toml:"required"`
}

// Load reads a layout file for kind. Unset limits fall back to the
// defaults; an omitted header keeps the built-in field table.
func Load(kind Kind, path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: layout load failed (%s): %w", path, err)
	}
	var layout layoutFile
	if err := toml.Unmarshal(data, &layout); err != nil {
		return nil, fmt.Errorf("schema: layout parse failed (%s): %w", path, err)
	}
	s, err := fromLayout(kind, layout)
	if err != nil {
		return nil, fmt.Errorf("schema: layout invalid (%s): %w", path, err)
	}
	log.Info().Stringer("kind", kind).Str("path", path).
		Str("checksum", string(s.Checksum)).Msg("schema layout loaded")
	return s, nil
}

func fromLayout(kind Kind, layout layoutFile) (*Schema, error) {
	base := Describe(kind)

	s := Schema{
		Kind:     kind,
		Header:   base.Header,
		Limits:   base.Limits,
		Checksum: base.Checksum,
	}

	if layout.Checksum != "" {
		s.Checksum = Checksum(layout.Checksum)
	}
	if layout.Limits.MaxTagID != 0 {
		s.Limits.MaxTagID = layout.Limits.MaxTagID
	}
	if layout.Limits.MaxValueLen != 0 {
		s.Limits.MaxValueLen = layout.Limits.MaxValueLen
	}
	if layout.Limits.MaxBodyLen != 0 {
		s.Limits.MaxBodyLen = layout.Limits.MaxBodyLen
	}

	if len(layout.Header) > 0 {
		header := make([]FieldSpec, 0, len(layout.Header))
		for _, f := range layout.Header {
			class, err := parseClass(f.Class)
			if err != nil {
				return nil, fmt.Errorf("header field %q: %w", f.Name, err)
			}
			header = append(header, FieldSpec{
				Name:     f.Name,
				Width:    f.Width,
				Class:    class,
				Required: f.Required,
			})
		}
		s.Header = header
	}

	if err := build(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func parseClass(raw string) (Class, error) {
	switch raw {
	case "text":
		return ClassText, nil
	case "numeric":
		return ClassNumeric, nil
	default:
		return 0, fmt.Errorf("unknown class %q", raw)
	}
}
