package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/blobgeom/pkg/fill"
)

// fillOutput is the decoration file written by the fill command.
type fillOutput struct {
	Seed        uint64          `json:"seed"`
	Source      string          `json:"source"`
	Decorations []fill.Position `json:"decorations"`
}

// fillCommand scatters decorations inside the blobs of a scene.
func (c *CLI) fillCommand() *cobra.Command {
	var (
		output string
		flags  frameFlags
	)

	cmd := &cobra.Command{
		Use:   "fill [scene.toml]",
		Short: "Scatter decorations inside the blobs of a scene",
		Long: `Scatter decorations inside the blobs of a scene.

The fill command computes the scene's contours and writes only the sampled
decoration circles. The same seed always yields the same placement.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSceneFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := c.prepare(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			defer j.runner.Close()

			frame, hit, err := j.compute(cmd.Context())
			if err != nil {
				return err
			}

			outputPath := outputFor(args[0], output, ".fill.json")
			out := fillOutput{Seed: j.opts.Fill.Seed, Source: j.opts.FillSource, Decorations: frame.Decorations}
			if err := writeJSONFile(outputPath, out); err != nil {
				return err
			}
			if outputPath == "-" {
				return nil
			}

			printSuccess("Placed %d decorations", len(frame.Decorations))
			printFile(outputPath)
			printStats(frame.Stats, hit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.fill.json)")
	flags.register(cmd)

	return cmd
}
