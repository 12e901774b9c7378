package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"floorforge/pkg/grid"
	"floorforge/pkg/scene"
	"floorforge/pkg/schema"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	fromDoc    string // layout document to take the grid spec from
	arrayIndex int    // which equipment array of the document to expand
	specFile   string // standalone grid spec JSON file
	output     string // output file, defaults to stdout
}

// newPlanCmd creates the plan command.
// It expands a grid specification into concrete cell placements, either
// from a standalone spec file or from an equipment array of a layout
// document.
func newPlanCmd() *cobra.Command {
	var opts planOpts

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Expand a grid specification into placements",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			spec, err := loadSpec(opts)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			placements, err := grid.Plan(spec)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Planned %d placements (%dx%d grid)", len(placements), spec.Rows, spec.Cols))

			out, err := marshalIndent(map[string]any{
				"count":      len(placements),
				"placements": placements,
			})
			if err != nil {
				return err
			}
			if opts.output != "" {
				return os.WriteFile(opts.output, out, 0644)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.specFile, "spec", "", "grid spec JSON file")
	cmd.Flags().StringVar(&opts.fromDoc, "doc", "", "layout document to take the grid spec from")
	cmd.Flags().IntVar(&opts.arrayIndex, "array", 0, "equipment array index within the document")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

// loadSpec resolves the grid spec from one of the two sources.
func loadSpec(opts planOpts) (grid.Spec, error) {
	switch {
	case opts.specFile != "" && opts.fromDoc != "":
		return grid.Spec{}, fmt.Errorf("--spec and --doc are mutually exclusive")

	case opts.specFile != "":
		data, err := os.ReadFile(opts.specFile)
		if err != nil {
			return grid.Spec{}, fmt.Errorf("read %s: %w", opts.specFile, err)
		}
		var spec grid.Spec
		if err := json.Unmarshal(data, &spec); err != nil {
			return grid.Spec{}, fmt.Errorf("parse grid spec %s: %w", opts.specFile, err)
		}
		return spec, nil

	case opts.fromDoc != "":
		doc, err := schema.ReadFile(opts.fromDoc)
		if err != nil {
			return grid.Spec{}, err
		}
		schema.Migrate(doc)
		if opts.arrayIndex < 0 || opts.arrayIndex >= len(doc.EquipmentArrays) {
			return grid.Spec{}, fmt.Errorf("document has %d equipment array(s), index %d out of range",
				len(doc.EquipmentArrays), opts.arrayIndex)
		}
		cfg := scene.Config(doc)
		if err := cfg.Validate(); err != nil {
			return grid.Spec{}, err
		}
		return scene.GridSpec(doc.EquipmentArrays[opts.arrayIndex], cfg.Scale), nil

	default:
		return grid.Spec{}, fmt.Errorf("one of --spec or --doc is required")
	}
}
