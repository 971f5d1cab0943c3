package routes

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/leavenow/leavenow/pkg/planner"
	"github.com/leavenow/leavenow/pkg/travel"
	"github.com/liip/sheriff"
)

func PlannerRouter(router fiber.Router, orchestrator *planner.Planner) {
	router.Get("/plan", getPlan(orchestrator))
}

func getPlan(orchestrator *planner.Planner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		origin, err := parseCoordinateQuery(c.Query("origin"))
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter origin should be lat,lon",
			})
		}

		destination, err := parseCoordinateQuery(c.Query("destination"))
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter destination should be lat,lon",
			})
		}

		arriveBy, err := time.Parse(time.RFC3339, c.Query("arriveby"))
		if err != nil {
			c.SendStatus(fiber.StatusBadRequest)
			return c.JSON(fiber.Map{
				"error": "Parameter arriveby should be an RFC3339/ISO8601 datetime",
			})
		}

		plan, err := orchestrator.BuildPlan(c.Context(), origin, destination, arriveBy,
			c.Query("preferences"), c.Query("venue"))

		if err != nil {
			if errors.Is(err, travel.ErrInvalidInput) {
				c.SendStatus(fiber.StatusBadRequest)
			} else {
				c.SendStatus(fiber.StatusInternalServerError)
			}

			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		planReduced, err := sheriff.Marshal(&sheriff.Options{
			Groups: []string{"basic"},
		}, plan)

		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": "Sherrif could not reduce Plan",
			})
		}

		return c.JSON(planReduced)
	}
}

func parseCoordinateQuery(value string) (travel.Coordinate, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return travel.Coordinate{}, errors.New("coordinate must be lat,lon")
	}

	latitude, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return travel.Coordinate{}, err
	}

	longitude, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return travel.Coordinate{}, err
	}

	return travel.Coordinate{Latitude: latitude, Longitude: longitude}, nil
}
