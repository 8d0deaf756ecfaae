// Package table holds the values of one table file being edited.
//
// A Table pairs a shared, read-only schema with its own slice of values. It is
// owned by a single editing session and does no locking. Operations that fail
// leave the values untouched.
package table

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ssargent/tblman/pkg/codec"
	"github.com/ssargent/tblman/pkg/logging"
	"github.com/ssargent/tblman/pkg/schema"
)

// AttrValue is the attribute name that selects the display form of a value in Get.
const AttrValue = "value"

// Epoch is the reference of the TimeSeconds/TimeSubSeconds header fields.
var Epoch = time.Date(2000, time.January, 1, 11, 58, 56, 816000000, time.UTC)

var (
	// ErrNoField reports an unknown field name or an index out of range.
	ErrNoField = errors.New("no such field")
	// ErrNoAttribute reports an attribute the field does not have.
	ErrNoAttribute = errors.New("no such attribute")
	// ErrReadOnly reports an edit of a field whose definition is not editable.
	ErrReadOnly = errors.New("field is read-only")
)

// Table is a schema plus the current value of each of its fields.
type Table struct {
	schema      *schema.Schema
	values      []codec.Value
	currentFile string
	edited      bool

	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Table.
type Option func(*Table)

// WithLogger sets the logger used to report edits and file operations.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithClock replaces time.Now for timestamping.
func WithClock(now func() time.Time) Option {
	return func(t *Table) {
		if now != nil {
			t.now = now
		}
	}
}

// New creates a table holding the schema's default values.
func New(s *schema.Schema, opts ...Option) *Table {
	t := &Table{
		schema: s,
		values: s.Defaults(),
		logger: logging.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Schema returns the schema currently describing the table. It changes after
// DecodeFromFile when the file holds a payload window.
func (t *Table) Schema() *schema.Schema { return t.schema }

// Len returns the number of fields.
func (t *Table) Len() int { return len(t.values) }

// Edited reports whether values were set since the table was created, read or
// fully written. A partial write leaves the flag alone.
func (t *Table) Edited() bool { return t.edited }

// CurrentFile returns the file last read or written, or "".
func (t *Table) CurrentFile() string { return t.currentFile }

// Value returns the stored value of field i.
func (t *Table) Value(i int) codec.Value { return t.values[i] }

// Values returns a copy of the stored values.
func (t *Table) Values() []codec.Value {
	out := make([]codec.Value, len(t.values))
	copy(out, t.values)
	return out
}

// Get returns the display form of field i's value for attr "value", and the
// field attribute otherwise.
func (t *Table) Get(i int, attr string) (any, error) {
	if i < 0 || i >= len(t.values) {
		return nil, fmt.Errorf("%w: index %d", ErrNoField, i)
	}
	f := t.schema.Field(i)
	if attr == AttrValue {
		return f.Display(t.values[i]), nil
	}
	v, ok := f.Attr(attr)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoAttribute, f.Name, attr)
	}
	return v, nil
}

// Set casts text into field i and stores it. On failure nothing changes and
// the cast error is returned.
func (t *Table) Set(i int, text string) error {
	if i < 0 || i >= len(t.values) {
		return fmt.Errorf("%w: index %d", ErrNoField, i)
	}
	f := t.schema.Field(i)
	v, err := f.Cast(text)
	if err != nil {
		t.logger.Debug("rejected value", "field", f.Name, "input", text, "err", err)
		return err
	}
	t.values[i] = v
	t.edited = true
	return nil
}

// SetByName is Set with the field looked up by name.
func (t *Table) SetByName(name, text string) error {
	i, ok := t.schema.FindIndex(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrNoField, name)
	}
	return t.Set(i, text)
}

// CurrentTime returns the timestamp stored in the TimeSeconds and
// TimeSubSeconds fields. It reports false when either field is missing.
func (t *Table) CurrentTime() (time.Time, bool) {
	i, ok := t.schema.FindIndex(schema.TimeSecondsField)
	if !ok {
		return time.Time{}, false
	}
	j, ok := t.schema.FindIndex(schema.TimeSubSecondsField)
	if !ok {
		return time.Time{}, false
	}
	secs, _ := t.values[i].(uint64)
	micros, _ := t.values[j].(uint64)
	return Epoch.Add(time.Duration(secs)*time.Second + time.Duration(micros)*time.Microsecond), true
}

// SetCurrentTime stores the current time in the timestamp fields.
func (t *Table) SetCurrentTime() bool {
	return t.SetTime(t.now())
}

// SetTime stores ts in the timestamp fields as seconds and microseconds since
// Epoch. It reports false when a field is missing or ts cannot be stored.
// A timestamp refresh does not mark the table edited.
func (t *Table) SetTime(ts time.Time) bool {
	return stampTime(t.schema, t.values, ts)
}

func stampTime(s *schema.Schema, values []codec.Value, ts time.Time) bool {
	i, ok := s.FindIndex(schema.TimeSecondsField)
	if !ok {
		return false
	}
	j, ok := s.FindIndex(schema.TimeSubSecondsField)
	if !ok {
		return false
	}
	d := ts.Sub(Epoch)
	if d < 0 {
		return false
	}
	secs, err := s.Field(i).Cast(uint64(d / time.Second))
	if err != nil {
		return false
	}
	micros, err := s.Field(j).Cast(uint64(d % time.Second / time.Microsecond))
	if err != nil {
		return false
	}
	values[i], values[j] = secs, micros
	return true
}
