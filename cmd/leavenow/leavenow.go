package main

import (
	"os"
	"time"

	"github.com/leavenow/leavenow/pkg/api"
	"github.com/leavenow/leavenow/pkg/notify"
	"github.com/leavenow/leavenow/pkg/planner"
	"github.com/leavenow/leavenow/pkg/routines"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("LEAVENOW_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("LEAVENOW_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "leavenow",
		Description: "Single binary of truth for LeaveNow - runs all the services",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			routines.RegisterCLI(),
			notify.RegisterCLI(),
			planner.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
