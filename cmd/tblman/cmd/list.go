package cmd

import (
	"io"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/registry"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the loaded table definitions",
	Long: `List the table definitions of the definitions directory, grouped by
family (the part of the table name before the first dot).

Example:
  tblman list --definitions ./TableDefinitionDir`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := container.GetRegistry()
		if err != nil {
			return err
		}
		listDefinitions(cmd.OutOrStdout(), reg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func listDefinitions(w io.Writer, reg *registry.Registry) {
	t := newTableWriter(w, table.Row{"Family", "Table", "Fields", "Bytes", "Definition"})
	for _, family := range reg.Families() {
		for _, name := range family.Tables {
			s, err := reg.Lookup(name)
			if err != nil {
				continue
			}
			t.AppendRow(table.Row{family.Name, name, s.Len(), s.TotalByteSize(), filepath.Base(s.Source())})
		}
		t.AppendSeparator()
	}
	t.Render()

	for _, p := range reg.Problems() {
		warnf(w, "%s: %v", filepath.Base(p.Path), p.Err)
	}
}
