package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/danmuck/arplace/internal/config"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write scenario.toml and scene.meta.json templates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
			for _, t := range []struct{ file, kind string }{
				{"scenario.toml", "scenario"},
				{"scene.meta.json", "meta"},
			} {
				path := filepath.Join(dir, t.file)
				if err := config.WriteTemplate(path, t.kind, force); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files")
	return cmd
}
