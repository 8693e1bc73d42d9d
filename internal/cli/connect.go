package cli

import (
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Verify connectivity to OBS",
	Long:  "Connects to the configured OBS instance and reports its version. Useful to verify host, port, and password before running other commands.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("connection", "version", nil)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show OBS connection status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("connection", "status", nil)
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(statusCmd)
}
