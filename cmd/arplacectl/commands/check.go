package commands

import (
	"fmt"
	"strings"

	"github.com/danmuck/arplace/internal/spatial"
	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the scenario and its scene metadata",
		RunE: func(cmd *cobra.Command, args []string) error {
			placeable, err := loadPlaceable(scenario.Asset)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			source := scenarioPath
			if source == "" {
				source = "built-in"
			}
			fmt.Fprintf(out, "scenario:         %s\n", source)
			fmt.Fprintf(out, "required:         %s\n", scenario.Session.Required)
			fmt.Fprintf(out, "optional:         %s\n", scenario.Session.Optional)
			fmt.Fprintf(out, "reference spaces: %s\n", joinSpaces(scenario.Session.SpaceOrder))
			fmt.Fprintf(out, "placement lift:   %g\n", scenario.Session.PlacementLift)
			s := placeable.InitialScale
			fmt.Fprintf(out, "object:           %s scale=(%g, %g, %g)\n", placeable.Name, s.X, s.Y, s.Z)
			fmt.Fprintf(out, "platform:         supported=%t features=%s spaces=%s\n",
				scenario.Platform.Supported, scenario.Platform.Features, joinSpaces(scenario.Platform.Spaces))
			fmt.Fprintf(out, "frames:           %d every %s\n", len(scenario.Steps()), scenario.FrameInterval)
			return nil
		},
	}
}

func joinSpaces(kinds []spatial.ReferenceSpaceKind) string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ",")
}
