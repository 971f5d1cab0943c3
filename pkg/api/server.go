package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/leavenow/leavenow/pkg/api/routes"
	"github.com/leavenow/leavenow/pkg/planner"
)

func SetupServer(listen string, orchestrator *planner.Planner) error {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.PlannerRouter(group.Group("/planner"), orchestrator)

	return webApp.Listen(listen)
}
