// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vras",
	Short: "VRAS is the vehicle revenue administration portal",
	Long: `VRAS is the vehicle revenue administration portal for state and
local government revenue services. It manages vehicles, owners, LGA records,
fee settings and transaction reporting behind a role-scoped JSON API.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
