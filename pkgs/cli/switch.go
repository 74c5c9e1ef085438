package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dededodu/loco-controller/pkgs/app"
	"github.com/spf13/cobra"
)

func NewSwitchCommand(app *app.LocoApp) *cobra.Command {
	command := &cobra.Command{
		Use:   "switch [actuator=state ...]",
		Short: "Drive a batch of turnouts (rejected while the Oracle is enabled)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, args []string) error {
			if err := app.Initialize(); err != nil {
				return err
			}

			batch, err := parseArgsAsBatch(args)
			if err != nil {
				return err
			}
			return app.SwitchAction(batch)
		},
	}

	return command
}

// parseArgsAsBatch joins positional arguments into the comma-separated
// batch string syntax.ParseIDValueList expects, reading additional entries
// from stdin when the final argument is "-".
func parseArgsAsBatch(args []string) (string, error) {
	stdinString := ""
	if len(args) >= 1 && args[len(args)-1] == "-" {
		args = args[:len(args)-1]

		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		stdinString = strings.Trim(strings.ReplaceAll(string(data), "\n", ", "), ", ")
	}

	if len(args) == 0 && stdinString == "" {
		return "", fmt.Errorf("no actuator=state argument provided")
	}

	batch := strings.Join(args, ", ")
	if stdinString != "" {
		if batch != "" {
			batch += ", "
		}
		batch += stdinString
	}
	return batch, nil
}
