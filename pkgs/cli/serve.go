package cli

import (
	"github.com/dededodu/loco-controller/pkgs/app"
	"github.com/spf13/cobra"
)

func NewServeCommand(app *app.LocoApp) *cobra.Command {
	type ServeArgs struct {
		LocosPort     uint16
		SensorsPort   uint16
		ActuatorsPort uint16
		HttpPort      uint16
	}

	cmdArgs := ServeArgs{}
	command := &cobra.Command{
		Use:   "serve",
		Short: "Start the listeners, Oracle and operator API",
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}

			flags := command.Flags()
			if flags.Changed("locos-port") {
				app.Config.Server.LocosPort = cmdArgs.LocosPort
			}
			if flags.Changed("sensors-port") {
				app.Config.Server.SensorsPort = cmdArgs.SensorsPort
			}
			if flags.Changed("actuators-port") {
				app.Config.Server.ActuatorsPort = cmdArgs.ActuatorsPort
			}
			if flags.Changed("http-port") {
				app.Config.Server.HttpPort = cmdArgs.HttpPort
			}

			return app.ServeAction()
		},
	}

	command.Flags().Uint16VarP(&cmdArgs.LocosPort, "locos-port", "l", 0, "Locomotive listener port (default: config)")
	command.Flags().Uint16VarP(&cmdArgs.SensorsPort, "sensors-port", "s", 0, "Sensor listener port (default: config)")
	command.Flags().Uint16VarP(&cmdArgs.ActuatorsPort, "actuators-port", "a", 0, "Actuator bank listener port (default: config)")
	command.Flags().Uint16VarP(&cmdArgs.HttpPort, "http-port", "p", 0, "Operator HTTP API port (default: config)")

	return command
}
