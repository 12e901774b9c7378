package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floorforge/pkg/schema"
)

// newValidateCmd creates the validate command.
// It checks a layout document file against the current schema and prints a
// field-by-field report. The process exits non-zero when the document is
// invalid so scripts can gate on it.
func newValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a layout document against the schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			result := schema.ValidateBytes(data)

			if asJSON {
				enc, err := marshalIndent(result)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(enc))
			} else {
				printValidation(cmd.OutOrStdout(), args[0], result)
			}

			if !result.Valid {
				return fmt.Errorf("%s: document is invalid", args[0])
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the result as JSON")
	return cmd
}
