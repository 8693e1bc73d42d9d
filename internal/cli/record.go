package cli

import (
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Control the record output",
}

var recordStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start recording",
	Long:  "Starts the record output. By default every special audio input (desktop audio, microphones) is muted first so a recording never begins with live audio the operator forgot about; disable with --mute-audio=false.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		directory, _ := cmd.Flags().GetString("directory")
		format, _ := cmd.Flags().GetString("format")
		muteAudio, _ := cmd.Flags().GetBool("mute-audio")

		params := map[string]any{"mute_audio": muteAudio}
		if directory != "" {
			params["directory"] = directory
		}
		if format != "" {
			params["format"] = format
		}
		return runAction("recording", "start", params)
	},
}

var recordStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop recording and print the output file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("recording", "stop", nil)
	},
}

var recordPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause recording",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("recording", "pause", nil)
	},
}

var recordResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume a paused recording",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("recording", "resume", nil)
	},
}

var recordToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle the record output",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("recording", "toggle", nil)
	},
}

var recordStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show record output status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("recording", "status", nil)
	},
}

var recordDirCmd = &cobra.Command{
	Use:   "directory [path]",
	Short: "Show or set the record output directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return runAction("recording", "get-directory", nil)
		}
		return runAction("recording", "set-directory", map[string]any{
			"directory": args[0],
		})
	},
}

func init() {
	recordStartCmd.Flags().String("directory", "", "Record output directory to set before starting")
	recordStartCmd.Flags().String("format", "", "Container format (mp4, mkv, flv, mov, ts)")
	recordStartCmd.Flags().Bool("mute-audio", true, "Mute special audio inputs before starting")

	recordCmd.AddCommand(recordStartCmd)
	recordCmd.AddCommand(recordStopCmd)
	recordCmd.AddCommand(recordPauseCmd)
	recordCmd.AddCommand(recordResumeCmd)
	recordCmd.AddCommand(recordToggleCmd)
	recordCmd.AddCommand(recordStatusCmd)
	recordCmd.AddCommand(recordDirCmd)
	rootCmd.AddCommand(recordCmd)
}
