package cmd

import (
	"github.com/ostafen/raidplan/internal/env"
	"github.com/spf13/cobra"
)

func Execute() error {
	rootCmd := &cobra.Command{
		Use:   env.AppName,
		Short: env.AppName + " - RAID4/RAID5 stripe request planner",
	}

	rootCmd.PersistentFlags().String("log-level", "INFO", "minimum level of the session log (DEBUG, INFO, WARN, ERROR)")

	rootCmd.AddCommand(
		DefinePlanCommand(),
		DefineRunCommand(),
		DefineSourcesCommand(),
		DefineMountCommand(),
	)

	return rootCmd.Execute()
}
