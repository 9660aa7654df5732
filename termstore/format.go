package termstore

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"

	"github.com/njchilds90/gowick"
)

// Format selects the on-disk encoding.
type Format int

const (
	// FormatBinary stores CBOR in .bin files.
	FormatBinary Format = iota
	// FormatText stores indented JSON in .txt files.
	FormatText
)

// Extension returns the file suffix without the dot.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return "bin"
}

func (f Format) String() string { return f.Extension() }

// ParseFormat accepts "bin"/"binary" and "txt"/"text".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bin", "binary", "cbor":
		return FormatBinary, nil
	case "txt", "text", "json":
		return FormatText, nil
	}
	return 0, fmt.Errorf("unknown term file format %q", s)
}

// Marshal encodes a collector in format f.
func (f Format) Marshal(c gowick.WickTermCollector) ([]byte, error) {
	rec := toRecord(c)
	if f == FormatText {
		return json.MarshalIndent(rec, "", "  ")
	}
	return cbor.Marshal(rec)
}

// Unmarshal decodes a collector written by Marshal.
func (f Format) Unmarshal(data []byte) (gowick.WickTermCollector, error) {
	var rec collectorRecord
	var err error
	if f == FormatText {
		err = json.Unmarshal(data, &rec)
	} else {
		err = cbor.Unmarshal(data, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f, err)
	}
	return fromRecord(rec)
}
