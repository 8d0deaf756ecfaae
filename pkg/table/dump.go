package table

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

const timeLayout = "2006-01-02 15:04:05.000000"

// Info renders a summary of the table: name, definition, size, file, creation
// date and payload checksum.
func (t *Table) Info(order binary.ByteOrder) string {
	created := "n/a"
	if ts, ok := t.CurrentTime(); ok {
		created = ts.Format(timeLayout)
	}
	crc := "n/a"
	if sum, err := t.Checksum(order); err == nil {
		crc = fmt.Sprintf("0x%04x", sum)
	}
	current := t.currentFile
	if current == "" {
		current = "n/a"
	}

	rows := [][2]string{
		{"Table Name", t.schema.TableName()},
		{"Table Definition Path", t.schema.Source()},
		{"Bytes Size", fmt.Sprint(t.schema.TotalByteSize())},
		{"Current File Name", current},
		{"Creation Date", created},
		{"Current CRC", crc},
	}
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-21s:\t%s", r[0], r[1])
	}
	return b.String()
}

// String renders the values as tab-separated rows under a
// "Name Description DataType Value" heading.
func (t *Table) String() string {
	var b strings.Builder
	b.WriteString("Name\tDescription\tDataType\tValue")
	for i, f := range t.schema.Fields() {
		fmt.Fprintf(&b, "\n%s\t%s\t%s\t%s", f.Name, f.Description, f.DataType, f.Display(t.values[i]))
	}
	return b.String()
}

// Dump is Info followed by a blank line and String.
func (t *Table) Dump(order binary.ByteOrder) string {
	return t.Info(order) + "\n\n" + t.String()
}

// Apply reads "name value" lines and sets each named field. Blank lines are
// skipped; everything after the name is the value. Read-only fields fail with
// ErrReadOnly unless force is set. Lines that fail are logged and reported
// together after all lines have been tried. It returns the number of fields set.
func (t *Table) Apply(r io.Reader, force bool) (int, error) {
	var (
		count int
		errs  []error
	)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		sep := strings.IndexAny(text, " \t")
		if sep < 0 {
			errs = append(errs, fmt.Errorf("line %d: expected name and value: %q", line, text))
			continue
		}
		name, value := text[:sep], strings.TrimSpace(text[sep:])
		if i, ok := t.schema.FindIndex(name); ok && !force && !t.schema.Field(i).Editable {
			errs = append(errs, fmt.Errorf("line %d: %w: %s", line, ErrReadOnly, name))
			continue
		}
		if err := t.SetByName(name, value); err != nil {
			t.logger.Error("paste failed", "line", line, "field", name, "err", err)
			errs = append(errs, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}
	t.logger.Info("values pasted", "count", count, "failed", len(errs))
	return count, errors.Join(errs...)
}
