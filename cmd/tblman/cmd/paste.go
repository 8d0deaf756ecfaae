package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/schema"
)

// pasteCmd represents the paste command
var pasteCmd = &cobra.Command{
	Use:   "paste <file> [input]",
	Short: "Apply \"name value\" lines to a table file",
	Long: `Read "name value" lines from input (or stdin) and set each named field
of the table file. Lines that fail are reported; the others are applied and
the file is saved. Read-only fields are refused unless --force is given.

Examples:
  tblman paste limits.tbl changes.txt
  printf 'Max 300\nMin 2\n' | tblman paste limits.tbl`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		force, _ := cmd.Flags().GetBool("force")

		t, err := openTable(args[0])
		if err != nil {
			return err
		}
		input := ""
		if len(args) == 2 {
			input = args[1]
		}
		r, err := openInput(input)
		if err != nil {
			return err
		}
		defer r.Close()

		n, applyErr := t.Apply(r, force)
		if applyErr != nil {
			warnf(cmd.ErrOrStderr(), "%v", applyErr)
		}
		if output == "" {
			output = t.CurrentFile()
		}
		if n > 0 {
			if _, err := t.EncodeToFile(output, 0, schema.WholePayload, byteOrder()); err != nil {
				return err
			}
		}
		cmd.Printf("%d values pasted\n", n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pasteCmd)

	pasteCmd.Flags().StringP("output", "o", "", "Write to this file instead of the input")
	pasteCmd.Flags().Bool("force", false, "Allow setting read-only fields")
}
