package cli

import (
	"errors"

	"github.com/dededodu/loco-controller/pkgs/app"
	"github.com/spf13/cobra"
)

func NewRootCommand(app *app.LocoApp) *cobra.Command {
	command := &cobra.Command{
		Use:   "loco",
		Short: "Model railway central controller",
		RunE: func(command *cobra.Command, args []string) error {
			return errors.New("please select a command")
		},
	}

	command.PersistentFlags().BoolVarP(&app.Debug, "debug", "v", false, "Increase verbosity to the debug level")

	command.AddCommand(NewServeCommand(app))
	command.AddCommand(NewStatusCommand(app))
	command.AddCommand(NewIntentCommand(app))
	command.AddCommand(NewControlCommand(app))
	command.AddCommand(NewSwitchCommand(app))
	command.AddCommand(NewOracleCommand(app))

	return command
}
