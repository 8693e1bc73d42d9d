package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Control audio inputs",
}

var audioSpecialCmd = &cobra.Command{
	Use:   "special",
	Short: "List the special audio inputs (desktop audio, microphones)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("audio", "list-special", nil)
	},
}

var audioMuteCmd = &cobra.Command{
	Use:   "mute <input>",
	Short: "Mute an audio input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("audio", "mute", map[string]any{"input": args[0]})
	},
}

var audioUnmuteCmd = &cobra.Command{
	Use:   "unmute <input>",
	Short: "Unmute an audio input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("audio", "unmute", map[string]any{"input": args[0]})
	},
}

var audioToggleCmd = &cobra.Command{
	Use:   "toggle <input>",
	Short: "Toggle an audio input's mute state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("audio", "toggle-mute", map[string]any{"input": args[0]})
	},
}

var audioVolumeCmd = &cobra.Command{
	Use:   "volume <input> [level]",
	Short: "Show or set an input's volume",
	Long:  "With one argument, prints the input's volume as a linear multiplier plus a dB reading. With a level in [0.0, 1.0], sets the volume.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runAction("audio", "get-volume", map[string]any{"input": args[0]})
		}
		level, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return outputError("level must be a number between 0.0 and 1.0, got " + args[1])
		}
		return runAction("audio", "set-volume", map[string]any{
			"input":  args[0],
			"volume": level,
		})
	},
}

var audioMuteAllCmd = &cobra.Command{
	Use:   "mute-all",
	Short: "Mute every special audio input",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("audio", "mute-all-special", nil)
	},
}

func init() {
	audioCmd.AddCommand(audioSpecialCmd)
	audioCmd.AddCommand(audioMuteCmd)
	audioCmd.AddCommand(audioUnmuteCmd)
	audioCmd.AddCommand(audioToggleCmd)
	audioCmd.AddCommand(audioVolumeCmd)
	audioCmd.AddCommand(audioMuteAllCmd)
	rootCmd.AddCommand(audioCmd)
}
