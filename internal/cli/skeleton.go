package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blobgeom/pkg/errors"
	"github.com/matzehuels/blobgeom/pkg/skeleton"
)

// skeletonCommand renders the merge/gravitation graph of a scene.
func (c *CLI) skeletonCommand() *cobra.Command {
	var (
		output string
		format string
		flags  frameFlags
	)

	cmd := &cobra.Command{
		Use:   "skeleton [scene.toml]",
		Short: "Render the connection skeleton of a scene",
		Long: `Render the connection skeleton of a scene.

Shapes become nodes pinned at their centers and are grouped by cluster.
Merged pairs are drawn solid, gravitating pairs dashed, each labelled with
its distance ratio. DOT output needs no external tools; SVG is rendered
with an embedded Graphviz.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSceneFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateFormat(format, skeleton.Formats...); err != nil {
				return err
			}
			format = strings.ToLower(format)

			j, err := c.prepare(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			defer j.runner.Close()

			frame, _, err := j.compute(cmd.Context())
			if err != nil {
				return err
			}
			data, hit, err := j.runner.SkeletonWithCacheInfo(cmd.Context(), frame, j.shapes, format)
			if err != nil {
				return err
			}

			outputPath := outputFor(args[0], output, ".skeleton."+format)
			err = writeOutput(outputPath, func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			})
			if err != nil {
				return err
			}
			if outputPath == "-" {
				return nil
			}

			printSuccess("Skeleton rendered")
			printFile(outputPath)
			printStats(frame.Stats, hit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.skeleton.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", skeleton.FormatDOT, "output format: dot (default), svg")
	flags.register(cmd)

	return cmd
}
