package cmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/table"
)

// identifyCmd represents the identify command
var identifyCmd = &cobra.Command{
	Use:   "identify <file>...",
	Short: "Print the table name stored in table files",
	Long: `Print the table name stored in the header of each table file.

Example:
  tblman identify limits.tbl modes.tbl`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return identifyFiles(cmd.OutOrStdout(), args, byteOrder())
	},
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}

func identifyFiles(w io.Writer, paths []string, order binary.ByteOrder) error {
	var errs []error
	for _, path := range paths {
		name, err := table.IdentifyFile(path, order)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", path, name)
	}
	return errors.Join(errs...)
}
