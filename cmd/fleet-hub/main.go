package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/fleetrack-io/fleetrack/cmd/fleet-hub/app"
)

func main() {
	if err := app.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
