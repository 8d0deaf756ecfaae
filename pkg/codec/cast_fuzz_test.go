//go:build fuzz
// +build fuzz

package codec

import (
	"encoding/binary"
	"testing"
)

// FuzzField_CastEncodeDecode checks that any text accepted by Cast encodes and
// decodes back to the same value.
func FuzzField_CastEncodeDecode(f *testing.F) {
	f.Add("0")
	f.Add("0xFF")
	f.Add("-1")
	f.Add("65535")
	f.Add("0x__import__")

	fields := []*Field{}
	for _, dt := range []string{"uint8", "int8", "uint16", "uint32", "uint64", "float16", "float", "double"} {
		fld, err := ParseField(Description{"name": dt, "datatype": dt})
		if err != nil {
			f.Fatalf("ParseField(%s): %v", dt, err)
		}
		fields = append(fields, fld)
	}

	f.Fuzz(func(t *testing.T, text string) {
		for _, fld := range fields {
			v, err := fld.Cast(text)
			if err != nil {
				continue
			}
			buf, err := fld.Encode(nil, binary.BigEndian, v)
			if err != nil {
				t.Fatalf("%s: Encode(%v) after successful cast of %q: %v", fld.Name, v, text, err)
			}
			back, err := fld.Decode(buf, binary.BigEndian)
			if err != nil {
				t.Fatalf("%s: Decode: %v", fld.Name, err)
			}
			if x, ok := v.(float64); ok && x != x {
				continue // NaN
			}
			if back != v {
				t.Errorf("%s: round trip of %q: got %v, want %v", fld.Name, text, back, v)
			}
		}
	})
}
