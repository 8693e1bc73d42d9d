package cli

import (
	"github.com/spf13/cobra"
)

var sceneCmd = &cobra.Command{
	Use:   "scene",
	Short: "Manage scenes",
}

var sceneListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scenes (active scene marked with *)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("scene", "list", nil)
	},
}

var sceneCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active program scene",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("scene", "current", nil)
	},
}

var sceneSwitchCmd = &cobra.Command{
	Use:   "switch <scene>",
	Short: "Switch the program output to a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("scene", "switch", map[string]any{"scene": args[0]})
	},
}

var sceneCreateCmd = &cobra.Command{
	Use:   "create <scene>",
	Short: "Create a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("scene", "create", map[string]any{"scene": args[0]})
	},
}

var sceneRemoveCmd = &cobra.Command{
	Use:   "remove <scene>",
	Short: "Remove a scene",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAction("scene", "remove", map[string]any{"scene": args[0]})
	},
}

func init() {
	sceneCmd.AddCommand(sceneListCmd)
	sceneCmd.AddCommand(sceneCurrentCmd)
	sceneCmd.AddCommand(sceneSwitchCmd)
	sceneCmd.AddCommand(sceneCreateCmd)
	sceneCmd.AddCommand(sceneRemoveCmd)
	rootCmd.AddCommand(sceneCmd)
}
