package cmd

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/catalog"
)

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index <dir>",
	Short: "Record the table files under a directory in the catalog",
	Long: `Walk a directory tree and record every .tbl file in the catalog with
its table name, payload window and size. Use lookup to query the catalog.

Example:
  tblman index ./tables`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := container.OpenCatalog()
		if err != nil {
			return err
		}
		defer cat.Close()

		return indexTables(cmd.OutOrStdout(), cat, args[0], byteOrder())
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func indexTables(w io.Writer, cat *catalog.Catalog, root string, order binary.ByteOrder) error {
	report, err := cat.Scan(root, order)
	if err != nil {
		return err
	}
	for _, path := range report.Skipped {
		warnf(w, "%s: not a table file", path)
	}
	fmt.Fprintf(w, "scan %s: %d table files indexed\n", report.ID, report.Indexed)
	return nil
}
