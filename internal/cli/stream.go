package cli

import (
	"github.com/spf13/cobra"
)

var streamCmd = &cobra.Command{
	Use:   "stream",
	Short: "Control the stream output",
}

var streamStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start streaming",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("streaming", "start", nil)
	},
}

var streamStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop streaming",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("streaming", "stop", nil)
	},
}

var streamToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the stream output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("streaming", "toggle", nil)
	},
}

var streamStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show stream output status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("streaming", "status", nil)
	},
}

func init() {
	streamCmd.AddCommand(streamStartCmd)
	streamCmd.AddCommand(streamStopCmd)
	streamCmd.AddCommand(streamToggleCmd)
	streamCmd.AddCommand(streamStatusCmd)
	rootCmd.AddCommand(streamCmd)
}
