package schema

import (
	"fmt"

	"github.com/ssargent/tblman/pkg/codec"
)

// ReduceTo builds the schema of a file holding only the payload bytes
// [offset, offset+numBytes). Header fields are always kept. A payload field is
// kept when it starts inside the window, so a last field crossing the window end
// is kept whole. A negative numBytes selects PayloadSize.
//
// The reduced schema declares its own window: its NumBytes default is the size
// of the kept payload fields and its Offset default is offset. Kept fields keep
// their offsets. The returned indexes map each reduced field to its index in s.
func (s *Schema) ReduceTo(offset, numBytes int) (*Schema, []int, error) {
	if numBytes < 0 {
		numBytes = s.PayloadSize()
	}
	if err := s.checkWindowStart(offset); err != nil {
		return nil, nil, err
	}
	offIdx, hasOffset := s.FindIndex(OffsetField)
	if !hasOffset && offset != s.WindowOffset() {
		return nil, nil, fmt.Errorf("%s: no %s field to declare a window at %d", s.source, OffsetField, offset)
	}
	nbIdx, _ := s.FindIndex(NumBytesField)

	reduced := &Schema{source: s.source}
	var indexes []int
	payload := 0
	for i, f := range s.fields {
		if f.Offset >= 0 && (f.Offset < offset || f.Offset >= offset+numBytes) {
			continue
		}
		c := f.Clone()
		if f.Offset >= 0 {
			payload += f.ByteSize()
		}
		reduced.fields = append(reduced.fields, c)
		indexes = append(indexes, i)
	}

	for ri, oi := range indexes {
		var err error
		switch {
		case oi == nbIdx:
			err = setDefault(reduced.fields[ri], payload)
		case hasOffset && oi == offIdx:
			err = setDefault(reduced.fields[ri], offset)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrWindow, err)
		}
	}
	return reduced, indexes, nil
}

// checkWindowStart accepts offsets that start a payload field or end the payload.
func (s *Schema) checkWindowStart(offset int) error {
	if offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrWindow, offset)
	}
	start, end := s.WindowOffset(), s.WindowOffset()
	found := false
	for _, f := range s.fields {
		if f.Offset < 0 {
			continue
		}
		if !found {
			start = f.Offset
			found = true
		}
		if f.Offset == offset {
			return nil
		}
		end = f.Offset + f.ByteSize()
	}
	switch {
	case offset == end:
		return nil
	case offset < start || offset > end:
		return fmt.Errorf("%w: offset %d not in [%d, %d]", ErrWindow, offset, start, end)
	}
	return fmt.Errorf("%w: offset %d", ErrUnaligned, offset)
}

// WindowOf returns the payload window covering fields first..last inclusive.
// Header fields in the range are ignored; the window runs from the first payload
// field to the end of last.
func (s *Schema) WindowOf(first, last int) (offset, numBytes int, err error) {
	if first < 0 || last >= len(s.fields) || first > last {
		return 0, 0, fmt.Errorf("%w: field range %d..%d of %d fields", ErrWindow, first, last, len(s.fields))
	}
	var start *codec.Field
	for _, f := range s.fields[first : last+1] {
		if f.Offset < 0 {
			continue
		}
		if start == nil {
			start = f
		}
		numBytes += f.ByteSize()
	}
	if start == nil {
		return 0, 0, fmt.Errorf("%w: fields %d..%d are all header fields", ErrWindow, first, last)
	}
	return start.Offset, numBytes, nil
}
