package routines

import (
	"context"
	"time"

	"github.com/leavenow/leavenow/pkg/database"
	"github.com/leavenow/leavenow/pkg/planner"
	"github.com/leavenow/leavenow/pkg/prefs"
	"github.com/leavenow/leavenow/pkg/redis_client"
	"github.com/leavenow/leavenow/pkg/resultcache"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	intervalFlag := &cli.StringFlag{
		Name:  "interval",
		Value: "PT3M",
		Usage: "re-plan cadence as an ISO8601 duration",
	}

	setup := func(c *cli.Context) (*Replanner, error) {
		if err := database.Connect(); err != nil {
			return nil, err
		}
		database.CreateIndexes()

		if err := redis_client.Connect(); err != nil {
			return nil, err
		}

		notifier, err := NewQueueNotifier()
		if err != nil {
			return nil, err
		}

		interval, err := ParseISODuration(c.String("interval"), time.Now())
		if err != nil {
			return nil, err
		}

		resultCache := resultcache.New(redis_client.Client)
		orchestrator := planner.NewPlanner(resultCache, prefs.DatabaseLookup{})

		replanner := NewReplanner(orchestrator, DatabaseStore{}, notifier)
		replanner.Interval = interval

		return replanner, nil
	}

	return &cli.Command{
		Name:  "replanner",
		Usage: "Background re-planning of saved routines",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run the re-planner on its cadence",
				Flags: []cli.Flag{intervalFlag},
				Action: func(c *cli.Context) error {
					replanner, err := setup(c)
					if err != nil {
						return err
					}

					replanner.Run()

					return nil
				},
			},
			{
				Name:  "tick",
				Usage: "run a single re-plan pass and exit",
				Flags: []cli.Flag{intervalFlag},
				Action: func(c *cli.Context) error {
					replanner, err := setup(c)
					if err != nil {
						return err
					}

					replanner.RunTick(context.Background())

					return nil
				},
			},
		},
	}
}
