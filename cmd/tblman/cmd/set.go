package cmd

import (
	"github.com/spf13/cobra"
)

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <file> <name=value>...",
	Short: "Change fields of a table file",
	Long: `Change one or more fields of a table file and save it.

The file is rewritten in place unless --output is given. The table
timestamp is refreshed on save. Read-only fields need --force.

Examples:
  tblman set limits.tbl Max=300 Min=0x10
  tblman set limits.tbl Mode=SAFE --output safe.tbl`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		t, err := openTable(args[0])
		if err != nil {
			return err
		}
		if err := applyAssignments(t, args[1:], force); err != nil {
			return err
		}
		if output == "" {
			output = t.CurrentFile()
		}
		if _, err := saveTable(t, output, from, to, byteOrder()); err != nil {
			return err
		}
		cmd.Printf("%d values set, file %s saved\n", len(args)-1, output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().StringP("output", "o", "", "Write to this file instead of the input")
	setCmd.Flags().Bool("force", false, "Allow setting read-only fields")
	setCmd.Flags().String("from", "", "First payload field to write")
	setCmd.Flags().String("to", "", "Last payload field to write")
}
