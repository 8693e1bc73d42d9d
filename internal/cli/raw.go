package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/obsctl/obsctl/internal/bridge"
)

// rawCmd forwards an arbitrary obs-websocket request by name. Escape
// hatch for capabilities without a dedicated command.
var rawCmd = &cobra.Command{
	Use:   "raw <request-type> [json]",
	Short: "Send a raw obs-websocket request",
	Long:  "Sends the named obs-websocket request with an optional JSON-object payload and prints the raw responseData. Intended for capabilities without a dedicated obsctl command.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var payload any
		if len(args) == 2 {
			if err := json.Unmarshal([]byte(args[1]), &payload); err != nil {
				return outputError("payload must be valid JSON: " + err.Error())
			}
		}

		s, teardown, err := openSession()
		if err != nil {
			return outputError(err.Error())
		}
		defer teardown()

		b := bridge.NewBridge(s.manager)
		data, err := b.Call(context.Background(), args[0], payload)
		if err != nil {
			return outputError(err.Error())
		}
		if len(data) == 0 {
			fmt.Fprintln(os.Stdout, "OK")
			return nil
		}
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rawCmd)
}
