package stubapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/ANIKETSHETTY47/smart-energy-dashboard/internal/domain"
)

// NewApp builds the fiber app serving the REST API under /api.
func NewApp(st *Store) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })
	Register(app, st)
	return app
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, errInjected):
		status = fiber.StatusOK
	case errors.Is(err, ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalid):
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(fiber.Map{"success": false, "error": err.Error()})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
}

func respond[T any](c *fiber.Ctx, v T, err error) error {
	if err != nil {
		return fail(c, err)
	}
	return ok(c, v)
}

func Register(app *fiber.App, st *Store) {
	g := app.Group("/api")

	g.Get("/appliances", func(c *fiber.Ctx) error {
		items, err := st.Appliances()
		return respond(c, items, err)
	})
	g.Get("/appliances/:id", func(c *fiber.Ctx) error {
		a, err := st.Appliance(c.Params("id"))
		return respond(c, a, err)
	})
	g.Put("/appliances/:id/toggle", func(c *fiber.Ctx) error {
		a, err := st.ToggleAppliance(c.Params("id"))
		return respond(c, a, err)
	})
	g.Put("/appliances/:id", func(c *fiber.Ctx) error {
		var in domain.Appliance
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, err)
		}
		a, err := st.UpdateAppliance(c.Params("id"), in)
		return respond(c, a, err)
	})

	g.Get("/energy/realtime", func(c *fiber.Ctx) error {
		snap, err := st.Realtime()
		return respond(c, snap, err)
	})
	g.Get("/energy/breakdown", func(c *fiber.Ctx) error {
		period, err := domain.ParseBreakdownPeriod(c.Query("period", string(domain.PeriodDay)))
		if err != nil {
			return badRequest(c, err)
		}
		items, err := st.Breakdown(period)
		return respond(c, items, err)
	})
	g.Get("/energy/historical", func(c *fiber.Ctx) error {
		interval, err := domain.ParseHistoryInterval(c.Query("interval", string(domain.IntervalDaily)))
		if err != nil {
			return badRequest(c, err)
		}
		items, err := st.Historical(domain.HistoryQuery{
			Interval:  interval,
			StartDate: c.Query("startDate"),
			EndDate:   c.Query("endDate"),
		})
		if err != nil && !errors.Is(err, errInjected) {
			return badRequest(c, err)
		}
		return respond(c, items, err)
	})

	g.Get("/recommendations", func(c *fiber.Ctx) error {
		items, err := st.Recommendations()
		return respond(c, items, err)
	})
	g.Put("/recommendations/:id/status", func(c *fiber.Ctx) error {
		var in struct {
			Implemented bool `json:"implemented"`
		}
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, err)
		}
		r, err := st.SetImplemented(c.Params("id"), in.Implemented)
		return respond(c, r, err)
	})
	g.Post("/recommendations/generate", func(c *fiber.Ctx) error {
		added, err := st.GenerateRecommendations()
		return respond(c, added, err)
	})

	g.Get("/settings", func(c *fiber.Ctx) error {
		s, err := st.Settings()
		return respond(c, s, err)
	})
	g.Put("/settings", func(c *fiber.Ctx) error {
		var in domain.UserSettings
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, err)
		}
		s, err := st.UpdateSettings(in)
		return respond(c, s, err)
	})
	g.Post("/settings/automation", func(c *fiber.Ctx) error {
		var in domain.AutomationRule
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, err)
		}
		s, err := st.AddRule(in)
		return respond(c, s, err)
	})
	g.Put("/settings/automation/:id", func(c *fiber.Ctx) error {
		var in domain.AutomationRule
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, err)
		}
		s, err := st.UpdateRule(c.Params("id"), in)
		return respond(c, s, err)
	})
	g.Delete("/settings/automation/:id", func(c *fiber.Ctx) error {
		s, err := st.DeleteRule(c.Params("id"))
		return respond(c, s, err)
	})
}
