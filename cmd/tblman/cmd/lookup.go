package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/catalog"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup [table-name]",
	Short: "Find indexed table files by table name",
	Long: `List the table files recorded by index for a table name, or every
recorded file when no name is given.

Example:
  tblman lookup HK.Limits`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := container.OpenCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return lookupTables(cmd.OutOrStdout(), cat, name)
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func lookupTables(w io.Writer, cat *catalog.Catalog, name string) error {
	var (
		entries []catalog.Entry
		err     error
	)
	if name == "" {
		entries, err = cat.All()
	} else {
		entries, err = cat.Lookup(name)
	}
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("no indexed file for %q", name)
	}

	t := newTableWriter(w, table.Row{"Table", "File", "Offset", "Bytes", "Size", "Modified"})
	for _, e := range entries {
		t.AppendRow(table.Row{e.Name, e.Path, e.Offset, e.NumBytes, e.Size, e.ModTime.Format(time.RFC3339)})
	}
	t.Render()
	return nil
}
