package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"floorforge/pkg/schema"
)

// newMigrateCmd creates the migrate command.
// It upgrades a layout document to the current schema version. With no
// --output flag the file is rewritten in place.
func newMigrateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "migrate <file>",
		Short: "Upgrade a layout document to the current schema version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			doc, err := schema.ReadFile(args[0])
			if err != nil {
				return err
			}

			fromVersion := doc.Version
			if fromVersion == "" {
				fromVersion = "1.0.0"
			}
			schema.Migrate(doc)

			dest := output
			if dest == "" {
				dest = args[0]
			}
			if err := schema.WriteFile(doc, dest); err != nil {
				return err
			}

			if fromVersion == schema.CurrentVersion {
				logger.Info("document already current, re-stamped", "version", doc.Version)
			} else {
				logger.Info("migrated document", "from", fromVersion, "to", doc.Version)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the migrated document to this path instead of in place")
	return cmd
}
