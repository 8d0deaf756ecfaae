package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/x448/float16"
)

// Value is the native form of a field value. See the package documentation for
// the concrete type used by each kind.
type Value = any

// Description is one record of a table definition file. Keys are matched
// case-insensitively.
type Description map[string]any

// Known description keys.
const (
	KeyName         = "name"
	KeyDataType     = "datatype"
	KeyDefaultValue = "defaultvalue"
	KeyDescription  = "description"
	KeyLength       = "length"
	KeyDataRange    = "datarange"
	KeyEditable     = "editable"
	KeyDisplayType  = "displaytype"
	KeyOffset       = "offset"
	KeyByteSize     = "bytesize"
)

// ErrorLabel is displayed for an enumeration value that has no label.
const ErrorLabel = "ERROR"

// Field is one named, fixed-width entry of a table schema.
type Field struct {
	Name        string
	DataType    string // datatype as written in the definition
	Kind        Kind
	Default     Value
	Description string
	Length      int // byte length of text fields
	Labels      map[string]uint64
	Editable    bool
	DisplayHint string
	// Offset is relative to the start of the payload; header fields are negative.
	Offset int
	// Attrs keeps description keys the codec does not interpret.
	Attrs map[string]any

	reverse map[uint64]string
}

// ParseField builds a field from a description record and casts its default value.
func ParseField(d Description) (*Field, error) {
	rec := make(map[string]any, len(d))
	for k, v := range d {
		rec[strings.ToLower(k)] = v
	}

	name, _ := rec[KeyName].(string)
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: field without a name", ErrSchemaLoad)
	}
	dataType, ok := rec[KeyDataType].(string)
	if !ok {
		return nil, fmt.Errorf("%w: field %q: missing datatype", ErrSchemaLoad, name)
	}
	kind, charLen, ok := ParseDataType(dataType)
	if !ok {
		return nil, fmt.Errorf("%w: field %q: unknown datatype %q", ErrSchemaLoad, name, dataType)
	}

	f := &Field{
		Name:     name,
		DataType: dataType,
		Kind:     kind,
		Length:   1,
		Editable: true,
		Attrs:    map[string]any{},
	}
	for key, raw := range rec {
		switch key {
		case KeyName, KeyDataType, KeyDefaultValue:
		case KeyDescription:
			f.Description = fmt.Sprint(raw)
		case KeyLength:
			n, ok := toInt64(raw)
			if !ok || n < 0 {
				return nil, fmt.Errorf("%w: field %q: invalid length %v", ErrSchemaLoad, name, raw)
			}
			f.Length = int(n)
		case KeyEditable:
			f.Editable = truthy(raw)
		case KeyDisplayType:
			f.DisplayHint, _ = raw.(string)
		case KeyDataRange:
			if kind.IsEnum() {
				if err := f.setLabels(raw); err != nil {
					return nil, err
				}
			} else {
				f.Attrs[key] = raw
			}
		default:
			f.Attrs[key] = raw
		}
	}
	if charLen > 0 {
		f.Length = charLen
	}
	if kind == KindText && f.Length <= 0 {
		return nil, fmt.Errorf("%w: field %q: text length must be positive", ErrSchemaLoad, name)
	}
	if kind.IsEnum() && f.Labels == nil {
		return nil, fmt.Errorf("%w: field %q: enumeration without datarange", ErrSchemaLoad, name)
	}

	def, err := f.Cast(rec[KeyDefaultValue])
	if err != nil {
		return nil, fmt.Errorf("%w: field %q: default value: %v", ErrSchemaLoad, name, err)
	}
	f.Default = def
	return f, nil
}

func (f *Field) setLabels(raw any) error {
	m, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: field %q: enumeration datarange must map labels to integers", ErrSchemaLoad, f.Name)
	}
	limit := f.maxUnsigned()
	f.Labels = make(map[string]uint64, len(m))
	f.reverse = make(map[uint64]string, len(m))
	for label, v := range m {
		n, ok := toInt64(v)
		if !ok || n < 0 || uint64(n) > limit {
			return fmt.Errorf("%w: field %q: label %q has invalid value %v", ErrSchemaLoad, f.Name, label, v)
		}
		f.Labels[label] = uint64(n)
		if prev, dup := f.reverse[uint64(n)]; !dup || label < prev {
			f.reverse[uint64(n)] = label
		}
	}
	return nil
}

// ByteSize returns the number of bytes the field occupies in a table file.
func (f *Field) ByteSize() int {
	if f.Kind == KindText {
		return f.Length
	}
	return f.Kind.width()
}

// Min returns the smallest storable value, or nil for text and padding.
func (f *Field) Min() Value {
	switch {
	case f.Kind.IsUnsigned(), f.Kind.IsEnum():
		return uint64(0)
	case f.Kind == KindInt8:
		return int64(math.MinInt8)
	case f.Kind.IsFloat():
		return -f.maxFloat()
	}
	return nil
}

// Max returns the largest storable value, or nil for text and padding.
func (f *Field) Max() Value {
	switch {
	case f.Kind.IsUnsigned(), f.Kind.IsEnum():
		return f.maxUnsigned()
	case f.Kind == KindInt8:
		return int64(math.MaxInt8)
	case f.Kind.IsFloat():
		return f.maxFloat()
	}
	return nil
}

// Range returns the [min, max] pair of numeric fields or the label map of
// enumerations.
func (f *Field) Range() any {
	if f.Kind.IsEnum() {
		labels := make(map[string]uint64, len(f.Labels))
		for k, v := range f.Labels {
			labels[k] = v
		}
		return labels
	}
	if lo, hi := f.Min(), f.Max(); lo != nil {
		return []Value{lo, hi}
	}
	return nil
}

// LabelNames returns the enumeration labels ordered by value.
func (f *Field) LabelNames() []string {
	names := make([]string, 0, len(f.Labels))
	for name := range f.Labels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		vi, vj := f.Labels[names[i]], f.Labels[names[j]]
		if vi != vj {
			return vi < vj
		}
		return names[i] < names[j]
	})
	return names
}

// RangeText renders the range for listings: "label [value]" entries for
// enumerations, "[min, max]" otherwise.
func (f *Field) RangeText() string {
	if f.Kind.IsEnum() {
		parts := make([]string, 0, len(f.Labels))
		for _, name := range f.LabelNames() {
			parts = append(parts, fmt.Sprintf("%s [%d]", name, f.Labels[name]))
		}
		return strings.Join(parts, ", ")
	}
	lo, hi := f.Min(), f.Max()
	if lo == nil {
		return ""
	}
	return fmt.Sprintf("[%s, %s]", f.Display(lo), f.Display(hi))
}

// Display renders a stored value for humans.
func (f *Field) Display(v Value) string {
	switch {
	case f.Kind.IsEnum():
		n, ok := asUint64(v)
		if !ok {
			return ErrorLabel
		}
		if label, ok := f.reverse[n]; ok {
			return label
		}
		return ErrorLabel
	case f.Kind.IsUnsigned():
		n, ok := asUint64(v)
		if !ok {
			break
		}
		if f.isHex() {
			return "0x" + strconv.FormatUint(n, 16)
		}
		return strconv.FormatUint(n, 10)
	case f.Kind == KindInt8:
		n, ok := asInt64(v)
		if !ok {
			break
		}
		if f.isHex() {
			if n < 0 {
				return "-0x" + strconv.FormatUint(uint64(-n), 16)
			}
			return "0x" + strconv.FormatUint(uint64(n), 16)
		}
		return strconv.FormatInt(n, 10)
	case f.Kind.IsFloat():
		x, ok := asFloat64(v)
		if !ok {
			break
		}
		bits := 64
		if f.Kind != KindFloat64 {
			bits = 32
		}
		return formatFloat(x, bits)
	case f.Kind == KindPadding24:
		return "0"
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// formatFloat prints the shortest text that reads back as x at the given
// precision, in the editor's copy format: a fraction is always shown, and
// exponents are used below 1e-4 and from 1e16.
func formatFloat(x float64, bits int) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	sci := strconv.FormatFloat(x, 'e', -1, bits)
	exp, _ := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if x != 0 && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(x, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Attr returns an attribute by its description key. "offset" and "bytesize" are
// derived; unknown keys are looked up in Attrs.
func (f *Field) Attr(name string) (any, bool) {
	switch key := strings.ToLower(name); key {
	case KeyName:
		return f.Name, true
	case KeyDataType:
		return f.DataType, true
	case KeyDefaultValue:
		return f.Default, true
	case KeyDescription:
		return f.Description, true
	case KeyLength:
		return f.Length, true
	case KeyDataRange:
		return f.Range(), true
	case KeyEditable:
		return f.Editable, true
	case KeyDisplayType:
		return f.DisplayHint, true
	case KeyOffset:
		return f.Offset, true
	case KeyByteSize:
		return f.ByteSize(), true
	default:
		v, ok := f.Attrs[key]
		return v, ok
	}
}

// Clone returns a deep copy of the field. Label maps are shared since they are
// never modified after parsing.
func (f *Field) Clone() *Field {
	c := *f
	c.Attrs = make(map[string]any, len(f.Attrs))
	for k, v := range f.Attrs {
		c.Attrs[k] = v
	}
	return &c
}

func (f *Field) isHex() bool {
	return strings.EqualFold(f.DisplayHint, "hex")
}

func (f *Field) maxUnsigned() uint64 {
	bits := 8 * f.Kind.width()
	if bits >= 64 {
		return math.MaxUint64
	}
	return 1<<uint(bits) - 1
}

// maxFloat returns the largest finite value of the field's format, taken from
// its bit pattern.
func (f *Field) maxFloat() float64 {
	switch f.Kind {
	case KindFloat16:
		return float64(float16.Frombits(0x7bff).Float32())
	case KindFloat32:
		return float64(math.Float32frombits(0x7f7fffff))
	default:
		return math.Float64frombits(0x7fefffffffffffff)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case json.Number:
		return truthy(t.String())
	case string:
		b, err := strconv.ParseBool(t)
		if err == nil {
			return b
		}
		n, err := strconv.ParseFloat(t, 64)
		return err == nil && n > 0
	case nil:
		return false
	}
	if n, ok := asFloat64(v); ok {
		return n > 0
	}
	return false
}

// toInt64 converts whole numbers found in description files.
func toInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n, true
		}
		x, err := t.Float64()
		if err != nil || x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case float64:
		if t != math.Trunc(t) {
			return 0, false
		}
		return int64(t), true
	case float32:
		return toInt64(float64(t))
	}
	return asInt64(v)
}
