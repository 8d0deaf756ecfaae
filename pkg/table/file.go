package table

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/ssargent/tblman/pkg/checksum"
	"github.com/ssargent/tblman/pkg/codec"
	"github.com/ssargent/tblman/pkg/header"
	"github.com/ssargent/tblman/pkg/schema"
)

// FileError reports a failed file operation and the file it concerned.
type FileError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Checksum returns the CRC-16/ARC of the encoded payload, header excluded.
func (t *Table) Checksum(order binary.ByteOrder) (uint16, error) {
	buf, err := t.schema.Encode(t.values, order)
	if err != nil {
		return 0, err
	}
	if len(buf) <= header.Size {
		return checksum.ARC(nil), nil
	}
	return checksum.ARC(buf[header.Size:]), nil
}

// EncodeToFile timestamps the table and writes it to path.
//
// With offset 0 and a negative numBytes the whole table is written and the
// result is false. Otherwise only the payload window [offset, offset+numBytes)
// is written, with NumBytes and Offset declaring that window, and the result is
// true: the file is now described by a narrower schema than the table's.
//
// The new timestamp is kept only when the write succeeds.
func (t *Table) EncodeToFile(path string, offset, numBytes int, order binary.ByteOrder) (bool, error) {
	values := t.Values()
	stampTime(t.schema, values, t.now())

	layout, out := t.schema, values
	partial := offset != 0 || numBytes >= 0
	if partial {
		reduced, indexes, err := t.schema.ReduceTo(offset, numBytes)
		if err != nil {
			return false, &FileError{Op: "encode", Path: path, Err: err}
		}
		layout = reduced
		out = make([]codec.Value, len(indexes))
		for ri, oi := range indexes {
			out[ri] = values[oi]
		}
		for _, name := range []string{schema.NumBytesField, schema.OffsetField} {
			if i, ok := reduced.FindIndex(name); ok {
				out[i] = reduced.Field(i).Default
			}
		}
	}

	buf, err := layout.Encode(out, order)
	if err != nil {
		t.logger.Error("encode failed", "file", path, "err", err)
		return false, &FileError{Op: "encode", Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf, 0644); err != nil { //nolint:gosec // table files are not secrets
		return false, &FileError{Op: "write", Path: path, Err: err}
	}

	t.values = values
	t.currentFile = path
	if !partial {
		t.edited = false
	}
	t.logger.Info("table saved", "file", path, "bytes", len(buf), "offset", offset, "partial", partial)
	return partial, nil
}

// DecodeFromFile reads path, whose header declares a payload window of the
// table's schema. Both schema and values are replaced by the window's.
func (t *Table) DecodeFromFile(path string, order binary.ByteOrder) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		return &FileError{Op: "read", Path: path, Err: err}
	}
	h, err := header.Read(buf, order)
	if err != nil {
		return &FileError{Op: "decode", Path: path, Err: err}
	}
	if want := t.schema.TableName(); want != "" && h.Name() != want {
		t.logger.Warn("table name differs from definition", "file", path, "name", h.Name(), "definition", want)
	}
	reduced, _, err := t.schema.ReduceTo(int(h.Offset), int(h.NumBytes))
	if err != nil {
		return &FileError{Op: "decode", Path: path, Err: err}
	}
	values, err := reduced.Decode(buf, order)
	if err != nil {
		return &FileError{Op: "decode", Path: path, Err: err}
	}
	if extra := len(buf) - reduced.TotalByteSize(); extra > 0 {
		t.logger.Debug("ignoring trailing bytes", "file", path, "bytes", extra)
	}

	t.schema = reduced
	t.values = values
	t.currentFile = path
	t.edited = false
	t.logger.Info("table loaded", "file", path, "offset", h.Offset, "bytes", h.NumBytes)
	return nil
}

// IdentifyFile returns the table name declared in the header of path.
func IdentifyFile(path string, order binary.ByteOrder) (string, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return "", &FileError{Op: "read", Path: path, Err: err}
	}
	name, err := header.ReadTableName(buf, order)
	if err != nil {
		return "", &FileError{Op: "identify", Path: path, Err: err}
	}
	return name, nil
}

// IdentifyFile returns the table name declared in the header of path.
func (t *Table) IdentifyFile(path string, order binary.ByteOrder) (string, error) {
	return IdentifyFile(path, order)
}
