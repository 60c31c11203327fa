package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zinc-sig/fluttertools/cmd/helpers"
	"github.com/zinc-sig/fluttertools/internal/device"
)

func newSelectDeviceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select-device [index|device-id]",
		Short: "Resolve a device index to a flutter device id",
		Long: `Print the flutter device id to pass to 'flutter run -d'.

No argument prints nothing so flutter picks a device itself. A non-negative
number selects that entry (0-based) of 'flutter devices --machine'. Anything
else is taken as a device id and printed unchanged.`,
		Args: helpers.UsageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			id, err := device.NewSelector(newCommander()).Select(cmd.Context(), query)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), id)
			return err
		},
	}
}
