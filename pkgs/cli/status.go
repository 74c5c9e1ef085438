package cli

import (
	"github.com/dededodu/loco-controller/pkgs/app"
	"github.com/spf13/cobra"
)

func NewStatusCommand(app *app.LocoApp) *cobra.Command {
	type StatusArgs struct {
		LocoId uint8
	}

	cmdArgs := StatusArgs{}
	command := &cobra.Command{
		Use:   "status",
		Short: "Print a locomotive's status",
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}
			return app.StatusAction(cmdArgs.LocoId)
		},
	}

	command.Flags().Uint8VarP(&cmdArgs.LocoId, "loco", "l", 1, "Locomotive id")

	return command
}
