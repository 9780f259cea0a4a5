package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/blobgeom/pkg/scene"
)

// initCommand writes an example scene file.
func (c *CLI) initCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write an example scene file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "scene.toml"
			if len(args) == 1 {
				path = args[0]
			}
			format, err := scene.FormatFor(path)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			err = writeOutput(path, func(w io.Writer) error {
				return scene.Encode(w, scene.Example(), format)
			})
			if err != nil {
				return err
			}

			printSuccess("Scene created")
			printFile(path)
			printNewline()
			printNextStep("Compute contours", appName+" contour "+path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}
