package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/schema"
)

func cmdFailedf(cmd *cobra.Command, format string, a ...interface{}) {
	errStr := format
	if a != nil {
		errStr = fmt.Sprintf(format, a...)
	}
	color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "ERROR: %s\n", errStr)
}

func warnf(w io.Writer, format string, a ...interface{}) {
	color.New(color.FgYellow).Fprintf(w, "WARN: "+format+"\n", a...)
}

func newTableWriter(w io.Writer, header table.Row) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(header)
	t.SetStyle(table.StyleLight)
	t.Style().Box = table.StyleBoxDefault
	t.Style().Format.Header = text.FormatDefault
	t.SetOutputMirror(w)
	return t
}

// parseAssignment splits "name=value".
func parseAssignment(s string) (name, value string, err error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("expected name=value, got %q", s)
	}
	return name, value, nil
}

// windowFromFlags returns the payload window spanning the fields named from
// and to. With neither set the whole payload is selected; with one set the
// window covers that field alone.
func windowFromFlags(s *schema.Schema, from, to string) (offset, numBytes int, err error) {
	if from == "" && to == "" {
		return 0, schema.WholePayload, nil
	}
	if from == "" {
		from = to
	}
	if to == "" {
		to = from
	}
	first, ok := s.FindIndex(from)
	if !ok {
		return 0, 0, fmt.Errorf("no field %q", from)
	}
	last, ok := s.FindIndex(to)
	if !ok {
		return 0, 0, fmt.Errorf("no field %q", to)
	}
	if first > last {
		first, last = last, first
	}
	return s.WindowOf(first, last)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}
