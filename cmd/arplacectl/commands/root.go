package commands

import (
	"context"

	"github.com/danmuck/arplace/internal/config"
	"github.com/danmuck/arplace/internal/observability"
	"github.com/spf13/cobra"
)

const appName = "arplacectl"

var (
	scenarioPath string
	scenario     config.Config
)

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Surface tracking and object placement simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.InitLogger(appName)
			if cmd.Name() == "init" {
				return nil
			}
			cfg, err := config.Load(scenarioPath)
			if err != nil {
				return err
			}
			scenario = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&scenarioPath, "config", "c", "", "scenario TOML (default: built-in scenario)")

	root.AddCommand(initCmd(), checkCmd(), simulateCmd())
	return root
}
