package cli

import (
	"github.com/spf13/cobra"
)

// call dispatches a raw operation through the command facade, the same
// boundary the desktop front-end uses. Handy for scripting and debugging.
func newCallCommand(deps *commandDeps) *cobra.Command {
	var payload string

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Invoke a facade operation with a JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := deps.openRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			result, err := rt.dispatcher.Dispatch(cmd.Context(), args[0], []byte(payload))
			if err != nil {
				return err
			}
			if result == nil {
				return nil
			}
			return printJSON(deps.out, result)
		},
	}

	cmd.Flags().StringVar(&payload, "payload", "{}", "JSON object of operation arguments")
	return cmd
}
