package cli

import (
	"fmt"

	"github.com/dededodu/loco-controller/pkgs/app"
	"github.com/spf13/cobra"
)

func NewIntentCommand(app *app.LocoApp) *cobra.Command {
	type IntentArgs struct {
		LocoId     uint8
		Direction  uint8
		Kind       string
		Track      uint8
		Checkpoint uint8
	}

	cmdArgs := IntentArgs{}
	command := &cobra.Command{
		Use:   "intent",
		Short: "Set a locomotive's drive-until-track or stop-at-checkpoint intent",
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}

			switch cmdArgs.Kind {
			case "drive":
				return app.IntentAction(cmdArgs.LocoId, cmdArgs.Direction, &cmdArgs.Track, nil)
			case "stop":
				return app.IntentAction(cmdArgs.LocoId, cmdArgs.Direction, nil, &cmdArgs.Checkpoint)
			default:
				return fmt.Errorf("--kind must be \"drive\" or \"stop\", got %q", cmdArgs.Kind)
			}
		},
	}

	command.Flags().Uint8VarP(&cmdArgs.LocoId, "loco", "l", 1, "Locomotive id")
	command.Flags().Uint8VarP(&cmdArgs.Direction, "direction", "d", 1, "Direction: 1=Forward, 2=Backward")
	command.Flags().StringVarP(&cmdArgs.Kind, "kind", "k", "drive", "Intent kind: \"drive\" or \"stop\"")
	command.Flags().Uint8VarP(&cmdArgs.Track, "track", "t", 0, "Target track id (for --kind=drive)")
	command.Flags().Uint8VarP(&cmdArgs.Checkpoint, "checkpoint", "c", 0, "Target checkpoint id (for --kind=stop)")

	return command
}
