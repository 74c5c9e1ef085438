package main

import (
	"os"

	"github.com/dededodu/loco-controller/pkgs/app"
	"github.com/dededodu/loco-controller/pkgs/cli"
	"github.com/dededodu/loco-controller/pkgs/output"
)

func main() {
	app := app.LocoApp{P: output.ConsolePrinter{}}
	cmd := cli.NewRootCommand(&app)
	args := os.Args
	if args != nil {
		args = args[1:]
		cmd.SetArgs(args)
	}
	err := cmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
