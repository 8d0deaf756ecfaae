package cmd

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	tbl "github.com/ssargent/tblman/pkg/table"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Display the values of a table file",
	Long: `Display the header summary and every field of a table file.

With --tsv the output is the tab separated dump accepted by spreadsheets,
which is also the format copied by the editor.

Examples:
  tblman show limits.tbl
  tblman show limits.tbl --tsv > limits.tsv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tsv, _ := cmd.Flags().GetBool("tsv")

		t, err := openTable(args[0])
		if err != nil {
			return err
		}
		showTable(cmd.OutOrStdout(), t, byteOrder(), tsv)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("tsv", false, "Print the tab separated dump")
}

func openTable(path string) (*tbl.Table, error) {
	reg, err := container.GetRegistry()
	if err != nil {
		return nil, err
	}
	return reg.Open(path, byteOrder(), tbl.WithLogger(container.GetLogger()))
}

func showTable(w io.Writer, t *tbl.Table, order binary.ByteOrder, tsv bool) {
	if tsv {
		fmt.Fprintln(w, t.Dump(order))
		return
	}
	fmt.Fprintln(w, t.Info(order))
	fmt.Fprintln(w)

	out := newTableWriter(w, table.Row{"#", "Name", "Type", "Value", "Range", "Description"})
	for i, f := range t.Schema().Fields() {
		name := f.Name
		if !f.Editable {
			name += " (ro)"
		}
		out.AppendRow(table.Row{i, name, f.DataType, f.Display(t.Value(i)), f.RangeText(), f.Description})
	}
	out.Render()
}
