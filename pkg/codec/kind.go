package codec

import (
	"strconv"
	"strings"
)

// Kind identifies the binary representation of a field.
type Kind int

const (
	KindUint8 Kind = iota + 1
	KindInt8
	KindUint16
	KindUint32
	KindUint64
	KindFloat16
	KindFloat32
	KindFloat64
	KindText
	KindEnum8
	KindEnum16
	KindEnum32
	KindPadding24
)

var kindNames = map[Kind]string{
	KindUint8:     "uint8",
	KindInt8:      "int8",
	KindUint16:    "uint16",
	KindUint32:    "uint32",
	KindUint64:    "uint64",
	KindFloat16:   "float16",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindText:      "string",
	KindEnum8:     "enum8",
	KindEnum16:    "enum16",
	KindEnum32:    "enum32",
	KindPadding24: "raw24",
}

// kindByDataType is the dispatch table from a normalized datatype to a kind.
// charN is handled separately by ParseDataType.
var kindByDataType = map[string]Kind{
	"uint8":     KindUint8,
	"int8":      KindInt8,
	"uint16":    KindUint16,
	"uint32":    KindUint32,
	"uint64":    KindUint64,
	"float16":   KindFloat16,
	"float":     KindFloat32,
	"float32":   KindFloat32,
	"longfloat": KindFloat64,
	"double":    KindFloat64,
	"double64":  KindFloat64,
	"float64":   KindFloat64,
	"string":    KindText,
	"enum8":     KindEnum8,
	"enum16":    KindEnum16,
	"enum32":    KindEnum32,
	"uint24":    KindPadding24,
	"raw24":     KindPadding24,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseDataType maps a datatype string to its kind. For charN the returned
// length is N; otherwise it is zero and the length comes from the description.
func ParseDataType(dataType string) (Kind, int, bool) {
	name := strings.ToLower(strings.TrimSpace(dataType))
	if kind, ok := kindByDataType[name]; ok {
		return kind, 0, true
	}
	if rest, ok := strings.CutPrefix(name, "char"); ok && rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil || n <= 0 {
			return 0, 0, false
		}
		return KindText, n, true
	}
	return 0, 0, false
}

// IsUnsigned reports whether values of the kind are stored as uint64 integers.
func (k Kind) IsUnsigned() bool {
	switch k {
	case KindUint8, KindUint16, KindUint32, KindUint64:
		return true
	}
	return false
}

// IsEnum reports whether the kind carries a label map.
func (k Kind) IsEnum() bool {
	return k == KindEnum8 || k == KindEnum16 || k == KindEnum32
}

// IsFloat reports whether the kind is an IEEE 754 format.
func (k Kind) IsFloat() bool {
	return k == KindFloat16 || k == KindFloat32 || k == KindFloat64
}

// width returns the slot size of fixed-width kinds, 0 for text.
func (k Kind) width() int {
	switch k {
	case KindUint8, KindInt8, KindEnum8:
		return 1
	case KindUint16, KindFloat16, KindEnum16:
		return 2
	case KindUint32, KindFloat32, KindEnum32:
		return 4
	case KindUint64, KindFloat64:
		return 8
	case KindPadding24:
		return 3
	}
	return 0
}
