package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// crcCmd represents the crc command
var crcCmd = &cobra.Command{
	Use:   "crc <file>...",
	Short: "Print the payload CRC of table files",
	Long: `Print the CRC-16/ARC of the payload of each table file. The header is
not part of the checksum.

Example:
  tblman crc limits.tbl`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, path := range args {
			t, err := openTable(path)
			if err != nil {
				return err
			}
			sum, err := t.Checksum(byteOrder())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t0x%04x\n", path, sum)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(crcCmd)
}
