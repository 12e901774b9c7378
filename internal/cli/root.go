package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"floorforge/pkg/buildinfo"
)

// Execute runs the floorforge CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// The function sets up the root command with all subcommands, configures
// logging based on the --verbose flag, and executes the command tree.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var verbose bool
	var configPath string

	root := &cobra.Command{
		Use:          "floorforge",
		Short:        "floorforge turns flat floor layouts into 3D scenes",
		Long:         `floorforge is the layout engine behind the factory-floor editor: it validates and migrates versioned layout documents, expands equipment grids into concrete placements, and converts everything into world-space geometry for the scene renderer.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newPlanCmd())
	root.AddCommand(newSceneCmd(&configPath))
	root.AddCommand(newSampleCmd())
	root.AddCommand(newServeCmd(&configPath))

	return root.ExecuteContext(ctx)
}
