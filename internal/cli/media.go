package cli

import (
	"github.com/spf13/cobra"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot <source> <path>",
	Short: "Capture a source to an image file",
	Long:  "Captures the named source (or scene) to an image file on the machine running OBS. The destination directory must already exist.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		width, _ := cmd.Flags().GetInt("width")
		height, _ := cmd.Flags().GetInt("height")

		params := map[string]any{
			"source": args[0],
			"path":   args[1],
			"format": format,
		}
		if width > 0 {
			params["width"] = width
		}
		if height > 0 {
			params["height"] = height
		}
		return runAction("media", "screenshot", params)
	},
}

var virtualcamCmd = &cobra.Command{
	Use:   "virtualcam <start|stop|status>",
	Short: "Control the virtual camera",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "start":
			return runAction("media", "virtualcam-start", nil)
		case "stop":
			return runAction("media", "virtualcam-stop", nil)
		case "status":
			return runAction("media", "virtualcam-status", nil)
		default:
			return outputError("virtualcam action must be start, stop, or status")
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show OBS performance statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("media", "stats", nil)
	},
}

func init() {
	screenshotCmd.Flags().String("format", "png", "Image format (png, jpg, jpeg, bmp)")
	screenshotCmd.Flags().Int("width", 0, "Scale to width in pixels (0 keeps source width)")
	screenshotCmd.Flags().Int("height", 0, "Scale to height in pixels (0 keeps source height)")

	rootCmd.AddCommand(screenshotCmd)
	rootCmd.AddCommand(virtualcamCmd)
	rootCmd.AddCommand(statsCmd)
}
