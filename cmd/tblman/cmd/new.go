package cmd

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/tblman/pkg/registry"
	tbl "github.com/ssargent/tblman/pkg/table"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new <table-name> <output>",
	Short: "Create a table file from its definition",
	Long: `Create a table file holding the default values of a table definition,
stamped with the current time.

Values can be changed with --set. --from and --to write only the payload
fields between the two named fields; the header then declares that window.

Examples:
  tblman new HK.Limits limits.tbl
  tblman new HK.Limits limits.tbl --set Max=300 --set Mode=NOMINAL
  tblman new HK.Limits part.tbl --from Max --to Min`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")
		force, _ := cmd.Flags().GetBool("force")
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")

		reg, err := container.GetRegistry()
		if err != nil {
			return err
		}
		output := args[1]
		if !strings.HasSuffix(output, ".tbl") {
			output += ".tbl"
		}
		t, err := createTable(reg, args[0], container.GetLogger(), sets, force)
		if err != nil {
			return err
		}
		partial, err := saveTable(t, output, from, to, byteOrder())
		if err != nil {
			return err
		}
		cmd.Printf("file %s saved", output)
		if partial {
			cmd.Printf(" (partial)")
		}
		cmd.Printf("\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)

	newCmd.Flags().StringArray("set", nil, "Set a field, as name=value (repeatable)")
	newCmd.Flags().Bool("force", false, "Allow setting read-only fields")
	newCmd.Flags().String("from", "", "First payload field to write")
	newCmd.Flags().String("to", "", "Last payload field to write")
}

func createTable(reg *registry.Registry, name string, logger *slog.Logger, sets []string, force bool) (*tbl.Table, error) {
	t, err := reg.New(name, tbl.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	t.SetCurrentTime()
	if err := applyAssignments(t, sets, force); err != nil {
		return nil, err
	}
	logger.Info("created new table", "table", name)
	return t, nil
}

// applyAssignments sets each "name=value". Read-only fields are refused unless
// force is set. The first failure stops the loop.
func applyAssignments(t *tbl.Table, sets []string, force bool) error {
	for _, s := range sets {
		name, value, err := parseAssignment(s)
		if err != nil {
			return err
		}
		i, ok := t.Schema().FindIndex(name)
		if !ok {
			return fmt.Errorf("%w: %q", tbl.ErrNoField, name)
		}
		if f := t.Schema().Field(i); !f.Editable && !force {
			return fmt.Errorf("%w: %s, use --force to set it", tbl.ErrReadOnly, f.Name)
		}
		if err := t.Set(i, value); err != nil {
			return err
		}
	}
	return nil
}

func saveTable(t *tbl.Table, path, from, to string, order binary.ByteOrder) (bool, error) {
	offset, numBytes, err := windowFromFlags(t.Schema(), from, to)
	if err != nil {
		return false, err
	}
	return t.EncodeToFile(path, offset, numBytes, order)
}
