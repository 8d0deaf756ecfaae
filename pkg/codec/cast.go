package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/x448/float16"
)

// Cast converts input into the field's native value. Text input follows the
// editing rules of the field's kind; native numbers are accepted as they are
// when they fit. A nil input yields the zero value of the kind.
func (f *Field) Cast(input any) (Value, error) {
	if n, ok := input.(json.Number); ok {
		input = f.fromNumber(n)
	}
	switch {
	case f.Kind.IsUnsigned():
		return f.castUnsigned(input)
	case f.Kind == KindInt8:
		return f.castSigned(input)
	case f.Kind.IsFloat():
		return f.castFloat(input)
	case f.Kind.IsEnum():
		return f.castEnum(input)
	case f.Kind == KindText:
		switch t := input.(type) {
		case string:
			return t, nil
		case nil:
			return "", nil
		default:
			return fmt.Sprint(t), nil
		}
	case f.Kind == KindPadding24:
		return uint64(0), nil
	}
	return nil, fmt.Errorf("%w: %s: unsupported kind %v", ErrCast, f.Name, f.Kind)
}

// fromNumber turns a decoded JSON number into a native integer for integer and
// enum kinds, so that it is not looked up as a label or parsed as text. Whole
// numbers in exponent form become integral floats. Other kinds keep the text.
func (f *Field) fromNumber(n json.Number) any {
	if f.Kind.IsFloat() || f.Kind == KindText {
		return n.String()
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return u
	}
	if x, err := n.Float64(); err == nil && x == math.Trunc(x) {
		return x
	}
	return n.String()
}

func (f *Field) castUnsigned(input any) (Value, error) {
	var (
		neg bool
		mag uint64
	)
	switch t := input.(type) {
	case nil:
		return uint64(0), nil
	case string:
		var err error
		neg, mag, err = parseInteger(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCast, f.Name, err)
		}
	default:
		n, ok := asUint64(input)
		if !ok {
			if _, signed := asInt64(input); signed {
				return nil, fmt.Errorf("%w: %s: negative value %v for unsigned field", ErrCast, f.Name, input)
			}
			return nil, fmt.Errorf("%w: %s: %v is not an integer", ErrCast, f.Name, input)
		}
		mag = n
	}
	if neg && mag != 0 {
		return nil, fmt.Errorf("%w: %s: negative value for unsigned field", ErrCast, f.Name)
	}
	if limit := f.maxUnsigned(); mag > limit {
		return nil, fmt.Errorf("%w: %s: %d exceeds maximum %d", ErrCast, f.Name, mag, limit)
	}
	return mag, nil
}

func (f *Field) castSigned(input any) (Value, error) {
	var n int64
	switch t := input.(type) {
	case nil:
		return int64(0), nil
	case string:
		neg, mag, err := parseInteger(t)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCast, f.Name, err)
		}
		if mag > math.MaxInt64 {
			return nil, fmt.Errorf("%w: %s: %q out of range", ErrCast, f.Name, t)
		}
		n = int64(mag)
		if neg {
			n = -n
		}
	default:
		v, ok := asInt64(input)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %v is not an integer", ErrCast, f.Name, input)
		}
		n = v
	}
	if n < math.MinInt8 || n > math.MaxInt8 {
		return nil, fmt.Errorf("%w: %s: %d outside [%d, %d]", ErrCast, f.Name, n, math.MinInt8, math.MaxInt8)
	}
	return n, nil
}

func (f *Field) castFloat(input any) (Value, error) {
	var x float64
	switch t := input.(type) {
	case nil:
		return 0.0, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0.0, nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %q is not a number", ErrCast, f.Name, t)
		}
		x = v
	default:
		v, ok := asFloat64(input)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %v is not a number", ErrCast, f.Name, input)
		}
		x = v
	}
	if !math.IsInf(x, 0) && !math.IsNaN(x) && math.Abs(x) > f.maxFloat() {
		return nil, fmt.Errorf("%w: %s: %g too large for %v", ErrCast, f.Name, x, f.Kind)
	}
	return f.roundFloat(x), nil
}

// roundFloat rounds x to the precision of the field's format so that the stored
// value is exactly what a later decode returns.
func (f *Field) roundFloat(x float64) float64 {
	switch f.Kind {
	case KindFloat16:
		return float64(float16.Fromfloat32(float32(x)).Float32())
	case KindFloat32:
		return float64(float32(x))
	}
	return x
}

func (f *Field) castEnum(input any) (Value, error) {
	switch t := input.(type) {
	case nil:
		return uint64(0), nil
	case string:
		n, ok := f.Labels[t]
		if !ok {
			return nil, fmt.Errorf("%w: %s: unknown label %q", ErrCast, f.Name, t)
		}
		return n, nil
	}
	n, ok := asUint64(input)
	if !ok || n > f.maxUnsigned() {
		return nil, fmt.Errorf("%w: %s: %v is not a valid enumeration value", ErrCast, f.Name, input)
	}
	return n, nil
}

// parseInteger parses decimal or 0x-prefixed hexadecimal text. Empty text is zero.
// The hexadecimal form accepts base-16 digits only after the prefix.
func parseInteger(text string) (neg bool, mag uint64, err error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return false, 0, nil
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		digits := s[2:]
		if digits == "" || !isHexDigits(digits) {
			return false, 0, fmt.Errorf("invalid hexadecimal literal %q", text)
		}
		mag, err = strconv.ParseUint(digits, 16, 64)
		if err != nil {
			return false, 0, fmt.Errorf("hexadecimal literal %q out of range", text)
		}
		return false, mag, nil
	}
	digits := s
	switch s[0] {
	case '-':
		neg = true
		digits = s[1:]
	case '+':
		digits = s[1:]
	}
	if digits == "" || !isDecimalDigits(digits) {
		return false, 0, fmt.Errorf("invalid integer %q", text)
	}
	mag, err = strconv.ParseUint(digits, 10, 64)
	if err != nil {
		return false, 0, fmt.Errorf("integer %q out of range", text)
	}
	return neg, mag, nil
}

func isHexDigits(s string) bool {
	for _, c := range s {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}

func isDecimalDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// asUint64 converts native non-negative integers, and whole floats as produced
// by generic JSON decoding.
func asUint64(v any) (uint64, bool) {
	switch t := v.(type) {
	case uint64:
		return t, true
	case uint:
		return uint64(t), true
	case uint8:
		return uint64(t), true
	case uint16:
		return uint64(t), true
	case uint32:
		return uint64(t), true
	case int, int8, int16, int32, int64:
		n, _ := asInt64(t)
		if n < 0 {
			return 0, false
		}
		return uint64(n), true
	case float64:
		if t < 0 || t != math.Trunc(t) || t >= math.MaxUint64 {
			return 0, false
		}
		return uint64(t), true
	}
	return 0, false
}

func asInt64(v any) (int64, bool) {
	switch t := v.(type) {
	case int64:
		return t, true
	case int:
		return int64(t), true
	case int8:
		return int64(t), true
	case int16:
		return int64(t), true
	case int32:
		return int64(t), true
	case uint8:
		return int64(t), true
	case uint16:
		return int64(t), true
	case uint32:
		return int64(t), true
	case uint64:
		if t > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case uint:
		if uint64(t) > math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	case float64:
		if t != math.Trunc(t) || t < math.MinInt64 || t >= math.MaxInt64 {
			return 0, false
		}
		return int64(t), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	}
	if n, ok := asInt64(v); ok {
		return float64(n), true
	}
	if n, ok := asUint64(v); ok {
		return float64(n), true
	}
	return 0, false
}
