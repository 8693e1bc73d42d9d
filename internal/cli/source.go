package cli

import (
	"encoding/json"
	"strconv"

	"github.com/spf13/cobra"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Manage inputs and scene items",
}

var sourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List inputs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		params := map[string]any{}
		if kind != "" {
			params["kind"] = kind
		}
		return runAction("source", "list", params)
	},
}

var sourceKindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List available input kinds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("source", "list-kinds", nil)
	},
}

var sourceWindowsCmd = &cobra.Command{
	Use:   "windows <source>",
	Short: "List capturable windows for a capture input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		property, _ := cmd.Flags().GetString("property")
		return runAction("source", "list-windows", map[string]any{
			"source":   args[0],
			"property": property,
		})
	},
}

var sourceCreateWindowCmd = &cobra.Command{
	Use:   "create-window-capture <scene> <name>",
	Short: "Create a window capture input in a scene",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		window, _ := cmd.Flags().GetString("window")
		params := map[string]any{
			"scene": args[0],
			"name":  args[1],
		}
		if window != "" {
			params["window"] = window
		}
		return runAction("source", "create-window-capture", params)
	},
}

var sourceRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove an input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("source", "remove", map[string]any{"name": args[0]})
	},
}

var sourceSettingsCmd = &cobra.Command{
	Use:   "settings <name> [json]",
	Short: "Show or update an input's settings",
	Long:  "With one argument, prints the input's settings as JSON. With a second JSON-object argument, merges it over the existing settings.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			return runAction("source", "get-settings", map[string]any{"name": args[0]})
		}
		var settings map[string]any
		if err := json.Unmarshal([]byte(args[1]), &settings); err != nil {
			return outputError("settings must be a JSON object: " + err.Error())
		}
		return runAction("source", "set-settings", map[string]any{
			"name":     args[0],
			"settings": settings,
		})
	},
}

var sourceItemsCmd = &cobra.Command{
	Use:   "items <scene>",
	Short: "List a scene's items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("source", "list-items", map[string]any{"scene": args[0]})
	},
}

var sourceShowCmd = &cobra.Command{
	Use:   "show <scene> <item-id>",
	Short: "Make a scene item visible",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetEnabled(args[0], args[1], true)
	},
}

var sourceHideCmd = &cobra.Command{
	Use:   "hide <scene> <item-id>",
	Short: "Hide a scene item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetEnabled(args[0], args[1], false)
	},
}

func runSetEnabled(scene, itemArg string, enabled bool) error {
	itemID, err := strconv.Atoi(itemArg)
	if err != nil {
		return outputError("item-id must be an integer, got " + itemArg)
	}
	return runAction("source", "set-enabled", map[string]any{
		"scene":   scene,
		"item":    itemID,
		"enabled": enabled,
	})
}

func init() {
	sourceListCmd.Flags().String("kind", "", "Filter by input kind")
	sourceWindowsCmd.Flags().String("property", "window", "List property to enumerate")
	sourceCreateWindowCmd.Flags().String("window", "", "Window identifier to capture")

	sourceCmd.AddCommand(sourceListCmd)
	sourceCmd.AddCommand(sourceKindsCmd)
	sourceCmd.AddCommand(sourceWindowsCmd)
	sourceCmd.AddCommand(sourceCreateWindowCmd)
	sourceCmd.AddCommand(sourceRemoveCmd)
	sourceCmd.AddCommand(sourceSettingsCmd)
	sourceCmd.AddCommand(sourceItemsCmd)
	sourceCmd.AddCommand(sourceShowCmd)
	sourceCmd.AddCommand(sourceHideCmd)
	rootCmd.AddCommand(sourceCmd)
}
