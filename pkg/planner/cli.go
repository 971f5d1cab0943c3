package planner

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kr/pretty"
	"github.com/leavenow/leavenow/pkg/travel"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "planner",
		Usage: "Plan orchestration engine",
		Subcommands: []*cli.Command{
			{
				Name:  "plan",
				Usage: "build a single plan using the stub estimators",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "origin",
						Usage:    "origin as lat,lon",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "destination",
						Usage:    "destination as lat,lon",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "arriveby",
						Usage: "arrival deadline as RFC3339, defaults to 45 minutes from now",
					},
				},
				Action: func(c *cli.Context) error {
					origin, err := parseCoordinate(c.String("origin"))
					if err != nil {
						return err
					}

					destination, err := parseCoordinate(c.String("destination"))
					if err != nil {
						return err
					}

					arriveBy := time.Now().Add(45 * time.Minute)
					if c.String("arriveby") != "" {
						arriveBy, err = time.Parse(time.RFC3339, c.String("arriveby"))
						if err != nil {
							return err
						}
					}

					stubPlanner := NewStubPlanner(nil, nil)

					plan, err := stubPlanner.BuildPlan(context.Background(), origin, destination, arriveBy, "", "")
					if err != nil {
						return err
					}

					pretty.Println(plan)

					return nil
				},
			},
		},
	}
}

func parseCoordinate(value string) (travel.Coordinate, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return travel.Coordinate{}, fmt.Errorf("%w: coordinate must be lat,lon", travel.ErrInvalidInput)
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return travel.Coordinate{}, fmt.Errorf("%w: %s", travel.ErrInvalidInput, err)
	}

	longitude, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return travel.Coordinate{}, fmt.Errorf("%w: %s", travel.ErrInvalidInput, err)
	}

	coordinate := travel.Coordinate{Latitude: latitude, Longitude: longitude}
	if !coordinate.Valid() {
		return travel.Coordinate{}, fmt.Errorf("%w: coordinates out of range", travel.ErrInvalidInput)
	}

	return coordinate, nil
}
