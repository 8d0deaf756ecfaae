package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/registry"
)

// formatCmd represents the format command
var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Print the JSON Schema of table definition files",
	Long: `Print the JSON Schema describing a table definition file, for use by
editors that validate JSON.

Example:
  tblman format > tabledef.schema.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := registry.DescriptionSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
