// Package schema describes the binary layout of one kind of table file.
//
// A Schema is an ordered list of codec fields loaded once from a table
// definition. Field offsets are relative to the start of the payload, so the
// fields that make up the fixed header get negative offsets. Schemas are never
// modified after Load: ReduceTo builds a new schema for a payload window and
// leaves its parent untouched, which makes a schema safe to share between any
// number of tables.
package schema

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ssargent/tblman/pkg/codec"
	"github.com/ssargent/tblman/pkg/header"
)

// Names of the fields the schema manages itself.
const (
	NumBytesField       = "NumBytes"
	OffsetField         = "Offset"
	TableNameField      = "TableName"
	TimeSecondsField    = "TimeSeconds"
	TimeSubSecondsField = "TimeSubSeconds"
)

// WholePayload selects the declared payload size in ReduceTo.
const WholePayload = -1

var (
	// ErrUnaligned reports a window offset that does not start a payload field.
	ErrUnaligned = errors.New("window offset is not on a field boundary")
	// ErrWindow reports a window outside the payload.
	ErrWindow = errors.New("window outside payload")
)

// Schema is the immutable layout of a table.
type Schema struct {
	source string
	fields []*codec.Field
}

// EncodeError reports the field that could not be encoded.
type EncodeError struct {
	Index int
	Field string
	Err   error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode field %q (#%d): %v", e.Field, e.Index, e.Err)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Load builds a schema from field descriptions. source identifies where the
// descriptions came from, usually a file path. Any invalid record aborts the load.
func Load(source string, descs []codec.Description) (*Schema, error) {
	fields := make([]*codec.Field, 0, len(descs))
	seen := make(map[string]bool, len(descs))
	for i, d := range descs {
		f, err := codec.ParseField(d)
		if err != nil {
			return nil, fmt.Errorf("%s: record %d: %w", source, i, err)
		}
		key := strings.ToLower(f.Name)
		if seen[key] {
			return nil, fmt.Errorf("%s: %w: duplicate field %q", source, codec.ErrSchemaLoad, f.Name)
		}
		seen[key] = true
		fields = append(fields, f)
	}

	s := &Schema{source: source, fields: fields}
	nb, ok := s.FindIndex(NumBytesField)
	if !ok {
		return nil, fmt.Errorf("%s: %w: no %s field", source, codec.ErrSchemaLoad, NumBytesField)
	}
	payload := s.TotalByteSize() - header.Size
	if payload < 0 {
		payload = 0
	}
	if err := setDefault(fields[nb], payload); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", source, codec.ErrSchemaLoad, err)
	}
	if off, ok := s.FindIndex(OffsetField); ok {
		if err := setDefault(fields[off], 0); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", source, codec.ErrSchemaLoad, err)
		}
	}

	pos := 0
	for _, f := range fields {
		f.Offset = pos - header.Size
		pos += f.ByteSize()
	}
	return s, nil
}

// LoadFile reads a JSON (or JSONC) table definition.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read table definition: %w", err)
	}
	descs, err := codec.ParseDescriptions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return Load(path, descs)
}

func setDefault(f *codec.Field, n int) error {
	v, err := f.Cast(uint64(n))
	if err != nil {
		return err
	}
	f.Default = v
	return nil
}

// Source returns where the schema was loaded from.
func (s *Schema) Source() string { return s.source }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the i-th field. The field must not be modified.
func (s *Schema) Field(i int) *codec.Field { return s.fields[i] }

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []*codec.Field {
	out := make([]*codec.Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Names returns the field names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

// Defaults returns a fresh slice with every field's default value.
func (s *Schema) Defaults() []codec.Value {
	values := make([]codec.Value, len(s.fields))
	for i, f := range s.fields {
		values[i] = f.Default
	}
	return values
}

// FindIndex looks a field up by name, ignoring case.
func (s *Schema) FindIndex(name string) (int, bool) {
	for i, f := range s.fields {
		if strings.EqualFold(f.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// TotalByteSize returns the size of a file holding every field, header included.
func (s *Schema) TotalByteSize() int {
	total := 0
	for _, f := range s.fields {
		total += f.ByteSize()
	}
	return total
}

// PayloadSize returns the payload byte count the schema declares.
func (s *Schema) PayloadSize() int {
	return s.defaultInt(NumBytesField)
}

// WindowOffset returns the payload offset the schema declares: 0 for a loaded
// schema, the window start for a reduced one.
func (s *Schema) WindowOffset() int {
	return s.defaultInt(OffsetField)
}

// TableName returns the default of the TableName field, the key a definition is
// registered under.
func (s *Schema) TableName() string {
	i, ok := s.FindIndex(TableNameField)
	if !ok {
		return ""
	}
	name, _ := s.fields[i].Default.(string)
	return name
}

func (s *Schema) defaultInt(name string) int {
	i, ok := s.FindIndex(name)
	if !ok {
		return 0
	}
	n, _ := s.fields[i].Default.(uint64)
	return int(n)
}

// Decode unpacks one value per field from the first TotalByteSize bytes of buf.
func (s *Schema) Decode(buf []byte, order binary.ByteOrder) ([]codec.Value, error) {
	if total := s.TotalByteSize(); len(buf) < total {
		return nil, fmt.Errorf("%w: table needs %d bytes, have %d", header.ErrShortBuffer, total, len(buf))
	}
	values := make([]codec.Value, len(s.fields))
	pos := 0
	for i, f := range s.fields {
		v, err := f.Decode(buf[pos:], order)
		if err != nil {
			return nil, fmt.Errorf("decode field %q: %w", f.Name, err)
		}
		values[i] = v
		pos += f.ByteSize()
	}
	return values, nil
}

// Encode packs values, one per field, in declaration order.
func (s *Schema) Encode(values []codec.Value, order binary.ByteOrder) ([]byte, error) {
	if len(values) != len(s.fields) {
		return nil, &EncodeError{
			Index: len(values),
			Err:   fmt.Errorf("%w: %d values for %d fields", codec.ErrEncode, len(values), len(s.fields)),
		}
	}
	buf := make([]byte, 0, s.TotalByteSize())
	for i, f := range s.fields {
		var err error
		buf, err = f.Encode(buf, order, values[i])
		if err != nil {
			return nil, &EncodeError{Index: i, Field: f.Name, Err: err}
		}
	}
	return buf, nil
}
