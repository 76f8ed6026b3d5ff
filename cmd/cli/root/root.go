package root

import (
	"github.com/spf13/cobra"
)

// RootCmd is the top-level highlow command.
var RootCmd = &cobra.Command{
	Use:           "highlow",
	Short:         "High-low game CLI",
	Long:          "Command line interface for the high-low game API: accounts, login and player profiles.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func GetRoot() *cobra.Command {
	return RootCmd
}
