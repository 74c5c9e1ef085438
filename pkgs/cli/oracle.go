package cli

import (
	"fmt"

	"github.com/dededodu/loco-controller/pkgs/app"
	"github.com/spf13/cobra"
)

func NewOracleCommand(app *app.LocoApp) *cobra.Command {
	type OracleArgs struct {
		Mode string
	}

	cmdArgs := OracleArgs{}
	command := &cobra.Command{
		Use:   "oracle",
		Short: "Toggle the Oracle's automatic conflict-avoidance mode",
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}
			if cmdArgs.Mode != "off" && cmdArgs.Mode != "auto" {
				return fmt.Errorf("--mode must be \"off\" or \"auto\", got %q", cmdArgs.Mode)
			}
			return app.OracleModeAction(cmdArgs.Mode)
		},
	}

	command.Flags().StringVarP(&cmdArgs.Mode, "mode", "m", "auto", "Oracle mode: \"off\" or \"auto\"")

	return command
}
