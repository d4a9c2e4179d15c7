package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/mitchellh/cli"

	"github.com/FashtimeDotCom/feedwalk/cmd/feedwalk/command"
)

func main() {
	args := os.Args[1:]

	commands := map[string]cli.CommandFactory{
		"walk": func() (cli.Command, error) {
			return &command.WalkCommand{
				ShutDownCh: makeShutdownCh(),
			}, nil
		},
		"serve": func() (cli.Command, error) {
			return &command.ServeCommand{
				ShutDownCh: makeShutdownCh(),
			}, nil
		},
	}

	feedwalkCLI := &cli.CLI{
		Args:     args,
		Commands: commands,
		HelpFunc: cli.BasicHelpFunc("feedwalk"),
	}

	exitCode, err := feedwalkCLI.Run()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}

	os.Exit(exitCode)
}

func makeShutdownCh() <-chan struct{} {
	shutdownCh := make(chan struct{})
	signalCh := make(chan os.Signal, 1)

	signal.Notify(signalCh, os.Interrupt)

	go func() {
		defer close(shutdownCh)
		<-signalCh
	}()

	return shutdownCh
}
