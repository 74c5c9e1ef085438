package cli

import (
	"github.com/dededodu/loco-controller/pkgs/app"
	"github.com/spf13/cobra"
)

func NewControlCommand(app *app.LocoApp) *cobra.Command {
	type ControlArgs struct {
		LocoId    uint8
		Direction uint8
		Speed     uint8
	}

	cmdArgs := ControlArgs{}
	command := &cobra.Command{
		Use:   "control",
		Short: "Immediately set a locomotive's direction and speed (rejected while the Oracle is enabled)",
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}
			return app.ControlAction(cmdArgs.LocoId, cmdArgs.Direction, cmdArgs.Speed)
		},
	}

	command.Flags().Uint8VarP(&cmdArgs.LocoId, "loco", "l", 1, "Locomotive id")
	command.Flags().Uint8VarP(&cmdArgs.Direction, "direction", "d", 1, "Direction: 1=Forward, 2=Backward")
	command.Flags().Uint8VarP(&cmdArgs.Speed, "speed", "s", 0, "Speed: 0=Stop, 1=Slow, 2=Normal, 3=Fast, or 100-199 for a PWM duty cycle")

	return command
}
