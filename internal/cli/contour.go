package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blobgeom/pkg/pipeline"
	"github.com/matzehuels/blobgeom/pkg/scene"
	"github.com/matzehuels/blobgeom/pkg/shape"
)

// contourCommand computes a full frame for a scene file.
func (c *CLI) contourCommand() *cobra.Command {
	var (
		output string
		flags  frameFlags
	)

	cmd := &cobra.Command{
		Use:   "contour [scene.toml]",
		Short: "Compute blob contours for a scene",
		Long: `Compute blob contours for a scene.

The contour command reads a scene file (TOML or JSON), runs the full pipeline
and writes the resulting frame as JSON: contours, skeleton, clusters,
decorations and statistics. Use "-o -" to write to stdout.

Results are cached locally for faster subsequent runs.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSceneFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runContour(cmd, args[0], output, &flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.frame.json)")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runContour(cmd *cobra.Command, input, output string, flags *frameFlags) error {
	j, err := c.prepare(cmd, input, flags)
	if err != nil {
		return err
	}
	defer j.runner.Close()

	frame, hit, err := j.compute(cmd.Context())
	if err != nil {
		return err
	}

	outputPath := outputFor(input, output, ".frame.json")
	if err := writeOutput(outputPath, func(w io.Writer) error { return scene.WriteFrame(w, frame) }); err != nil {
		return err
	}
	if outputPath == "-" {
		return nil
	}

	printSuccess("Contours complete")
	printFile(outputPath)
	printStats(frame.Stats, hit)
	printNewline()
	printNextStep("Inspect the skeleton", appName+" skeleton "+input)
	return nil
}

// job is a scene prepared for computation.
type job struct {
	shapes []shape.Shape
	opts   pipeline.Options
	runner *pipeline.Runner
}

// prepare loads a scene, applies flag overrides and opens the runner. The
// caller closes the runner.
func (c *CLI) prepare(cmd *cobra.Command, input string, flags *frameFlags) (*job, error) {
	sc, err := loadScene(input)
	if err != nil {
		return nil, err
	}
	arena, err := sc.Arena()
	if err != nil {
		return nil, err
	}
	runner, err := c.newRunner(cmd.Context(), flags.noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	return &job{
		shapes: arena.Snapshot(),
		opts:   flags.options(cmd, sc),
		runner: runner,
	}, nil
}

// compute runs the pipeline through the cached runner behind a spinner.
func (j *job) compute(ctx context.Context) (*pipeline.Frame, bool, error) {
	spinner := newSpinner(ctx, fmt.Sprintf("Computing %d shapes...", len(j.shapes)))
	spinner.Start()

	frame, hit, err := j.runner.ComputeWithCacheInfo(ctx, j.shapes, j.opts)
	if err != nil {
		spinner.StopWithError("Pipeline failed")
		return nil, false, fmt.Errorf("compute frame: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	return frame, hit, nil
}

// outputFor returns the explicit output path, or the input path with its
// extension replaced by suffix.
func outputFor(input, output, suffix string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}

// writeOutput creates path and passes it to write. A path of "-" writes to
// stdout.
func writeOutput(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return f.Close()
}

func writeJSONFile(path string, v any) error {
	return writeOutput(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	})
}
