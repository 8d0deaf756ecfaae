package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/x448/float16"
)

// Encode appends the field's binary slot for v to dst.
func (f *Field) Encode(dst []byte, order binary.ByteOrder, v Value) ([]byte, error) {
	slot := make([]byte, f.ByteSize())
	switch {
	case f.Kind.IsUnsigned(), f.Kind.IsEnum():
		n, ok := asUint64(v)
		if !ok || n > f.maxUnsigned() {
			return dst, fmt.Errorf("%w: %s: %v does not fit %v", ErrEncode, f.Name, v, f.Kind)
		}
		putUint(slot, order, n)
	case f.Kind == KindInt8:
		n, ok := asInt64(v)
		if !ok || n < math.MinInt8 || n > math.MaxInt8 {
			return dst, fmt.Errorf("%w: %s: %v does not fit int8", ErrEncode, f.Name, v)
		}
		slot[0] = byte(int8(n))
	case f.Kind.IsFloat():
		x, ok := asFloat64(v)
		if !ok {
			return dst, fmt.Errorf("%w: %s: %v is not a number", ErrEncode, f.Name, v)
		}
		if !math.IsInf(x, 0) && !math.IsNaN(x) && math.Abs(x) > f.maxFloat() {
			return dst, fmt.Errorf("%w: %s: %g too large for %v", ErrEncode, f.Name, x, f.Kind)
		}
		switch f.Kind {
		case KindFloat16:
			order.PutUint16(slot, float16.Fromfloat32(float32(x)).Bits())
		case KindFloat32:
			order.PutUint32(slot, math.Float32bits(float32(x)))
		default:
			order.PutUint64(slot, math.Float64bits(x))
		}
	case f.Kind == KindText:
		s, ok := v.(string)
		if !ok {
			return dst, fmt.Errorf("%w: %s: %v is not text", ErrEncode, f.Name, v)
		}
		if len(s) > f.Length {
			return dst, fmt.Errorf("%w: %s: text of %d bytes exceeds %d", ErrEncode, f.Name, len(s), f.Length)
		}
		copy(slot, s)
	case f.Kind == KindPadding24:
		// 1-byte + 2-byte zero group, whatever the value.
	default:
		return dst, fmt.Errorf("%w: %s: unsupported kind %v", ErrEncode, f.Name, f.Kind)
	}
	return append(dst, slot...), nil
}

// Decode reads the field's value from the first ByteSize bytes of src.
func (f *Field) Decode(src []byte, order binary.ByteOrder) (Value, error) {
	size := f.ByteSize()
	if len(src) < size {
		return nil, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrShortSlot, f.Name, size, len(src))
	}
	slot := src[:size]
	switch {
	case f.Kind.IsUnsigned(), f.Kind.IsEnum():
		return getUint(slot, order), nil
	case f.Kind == KindInt8:
		return int64(int8(slot[0])), nil
	case f.Kind == KindFloat16:
		return float64(float16.Frombits(order.Uint16(slot)).Float32()), nil
	case f.Kind == KindFloat32:
		return float64(math.Float32frombits(order.Uint32(slot))), nil
	case f.Kind == KindFloat64:
		return math.Float64frombits(order.Uint64(slot)), nil
	case f.Kind == KindText:
		return strings.TrimRight(string(slot), "\x00"), nil
	case f.Kind == KindPadding24:
		return uint64(0), nil
	}
	return nil, fmt.Errorf("codec: %s: unsupported kind %v", f.Name, f.Kind)
}

func putUint(slot []byte, order binary.ByteOrder, n uint64) {
	switch len(slot) {
	case 1:
		slot[0] = byte(n)
	case 2:
		order.PutUint16(slot, uint16(n))
	case 4:
		order.PutUint32(slot, uint32(n))
	case 8:
		order.PutUint64(slot, n)
	}
}

func getUint(slot []byte, order binary.ByteOrder) uint64 {
	switch len(slot) {
	case 1:
		return uint64(slot[0])
	case 2:
		return uint64(order.Uint16(slot))
	case 4:
		return uint64(order.Uint32(slot))
	case 8:
		return order.Uint64(slot)
	}
	return 0
}
