package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"floorforge/pkg/schema"
)

// newSampleCmd creates the sample command.
// It writes the built-in sample layout, which is handy as a starting point
// for new sites and as input for the other commands.
func newSampleCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write the built-in sample layout document",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc := schema.Sample()
			if output != "" {
				if err := schema.WriteFile(doc, output); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), output)
				return nil
			}
			data, err := schema.Marshal(doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
