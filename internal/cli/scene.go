package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floorforge/pkg/pipeline"
)

// newSceneCmd creates the scene command.
// It runs the full pipeline on a layout document: validate, migrate, expand
// every equipment array, and convert the result to world-space geometry.
// The cache backend from the config file is used, so repeated runs on an
// unchanged document are served from cache.
func newSceneCmd(configPath *string) *cobra.Command {
	var output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "scene <file>",
		Short: "Compose a layout document into a world-space scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			sceneCache, err := openCache(ctx, *configPath, noCache, logger)
			if err != nil {
				return err
			}
			defer sceneCache.Close()

			runner := pipeline.NewRunner(sceneCache, nil, logger)
			result, err := runner.Execute(ctx, data)
			if err != nil {
				return err
			}

			if !result.Validation.Valid {
				printValidation(cmd.ErrOrStderr(), args[0], result.Validation)
				return fmt.Errorf("%s: document is invalid", args[0])
			}

			out, err := result.Scene.Marshal()
			if err != nil {
				return err
			}
			if output != "" {
				return os.WriteFile(output, out, 0644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the scene cache")
	return cmd
}
