// Package header decodes the fixed 116-byte header that starts every table file.
//
// The header does not depend on any schema, so it is used to identify a file
// (its table name) and the payload window it declares before the matching table
// definition is known.
//
// Layout, in either byte order:
//
//	offset size
//	     0   32  8 unsigned 32-bit words (opaque here)
//	    32   32  description text, NUL padded
//	    64    4  reserved unsigned 32-bit word
//	    68    4  payload offset
//	    72    4  payload byte count
//	    76   40  table name text, NUL padded
package header

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

const (
	// Size is the byte size of the fixed header.
	Size = 8*4 + DescriptionLen + 3*4 + TableNameLen

	DescriptionLen = 32
	TableNameLen   = 40
)

// ErrShortBuffer reports a buffer smaller than the data it must hold.
var ErrShortBuffer = errors.New("buffer too short")

// Header is the unpacked fixed header.
type Header struct {
	Words       [8]uint32
	Description [DescriptionLen]byte
	Reserved    uint32
	Offset      uint32
	NumBytes    uint32
	TableName   [TableNameLen]byte
}

// Read unpacks the header from the first Size bytes of buf.
func Read(buf []byte, order binary.ByteOrder) (*Header, error) {
	if len(buf) < Size {
		return nil, fmt.Errorf("%w: header needs %d bytes, have %d", ErrShortBuffer, Size, len(buf))
	}
	h := &Header{}
	for i := range h.Words {
		h.Words[i] = order.Uint32(buf[4*i:])
	}
	copy(h.Description[:], buf[32:64])
	h.Reserved = order.Uint32(buf[64:68])
	h.Offset = order.Uint32(buf[68:72])
	h.NumBytes = order.Uint32(buf[72:76])
	copy(h.TableName[:], buf[76:Size])
	return h, nil
}

// ReadTableName returns the NUL-trimmed table name of the header in buf.
func ReadTableName(buf []byte, order binary.ByteOrder) (string, error) {
	h, err := Read(buf, order)
	if err != nil {
		return "", err
	}
	return h.Name(), nil
}

// ReadOffsetAndLength returns the payload window declared by the header in buf.
func ReadOffsetAndLength(buf []byte, order binary.ByteOrder) (offset, numBytes uint32, err error) {
	h, err := Read(buf, order)
	if err != nil {
		return 0, 0, err
	}
	return h.Offset, h.NumBytes, nil
}

// Name returns the table name without NUL padding.
func (h *Header) Name() string {
	return trimText(h.TableName[:])
}

// DescriptionText returns the description without NUL padding.
func (h *Header) DescriptionText() string {
	return trimText(h.Description[:])
}

// SetName stores name, truncated to TableNameLen bytes.
func (h *Header) SetName(name string) {
	h.TableName = [TableNameLen]byte{}
	copy(h.TableName[:], name)
}

// SetDescription stores text, truncated to DescriptionLen bytes.
func (h *Header) SetDescription(text string) {
	h.Description = [DescriptionLen]byte{}
	copy(h.Description[:], text)
}

// Raw returns the 13 unpacked header values in layout order: 8 words, the
// description bytes, 3 words and the table name bytes.
func (h *Header) Raw() []any {
	raw := make([]any, 0, 13)
	for _, w := range h.Words {
		raw = append(raw, w)
	}
	raw = append(raw, h.Description[:], h.Reserved, h.Offset, h.NumBytes, h.TableName[:])
	return raw
}

// Encode packs the header into Size bytes.
func (h *Header) Encode(order binary.ByteOrder) []byte {
	buf := make([]byte, Size)
	for i, w := range h.Words {
		order.PutUint32(buf[4*i:], w)
	}
	copy(buf[32:64], h.Description[:])
	order.PutUint32(buf[64:68], h.Reserved)
	order.PutUint32(buf[68:72], h.Offset)
	order.PutUint32(buf[72:76], h.NumBytes)
	copy(buf[76:Size], h.TableName[:])
	return buf
}

func trimText(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}
