package httpapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/odsmeteo/meteo-toulouse/internal/meteo"
	"github.com/odsmeteo/meteo-toulouse/internal/repository"
)

var validate = validator.New()

// RegisterRoutes wires the read-only HTTP handlers into the Fiber app.
// Every route serves straight out of the in-memory repository; nothing here
// triggers a fetch.
func RegisterRoutes(app *fiber.App, repo *repository.CachedRepository) {
	v1 := app.Group("/api/v1")

	v1.Get("/stations", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"stations": repo.Stations(),
		})
	})

	v1.Get("/stations/:id", func(c *fiber.Ctx) error {
		st, ok := repo.Station(c.Params("id"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown station")
		}
		return c.JSON(st)
	})

	v1.Get("/stations/:id/records", func(c *fiber.Ctx) error {
		var q recordsQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		id := c.Params("id")
		if _, ok := repo.Station(id); !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown station")
		}

		records := repo.LatestRecords(id, q.N)
		if records == nil {
			records = []meteo.Record{}
		}
		return c.JSON(fiber.Map{
			"stationId": id,
			"records":   records,
		})
	})

	v1.Get("/stations/:id/forecast", func(c *fiber.Ctx) error {
		var q recordsQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		id := c.Params("id")
		if _, ok := repo.Station(id); !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown station")
		}

		temp, ok := meteo.ForecastTemperature(repo.LatestRecords(id, q.N))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no temperature data for station")
		}
		return c.JSON(fiber.Map{
			"stationId":    id,
			"temperatureC": temp,
			"basedOn":      q.N,
		})
	})

	v1.Get("/stations/:id/cache", func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, ok := repo.Station(id); !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown station")
		}
		return c.JSON(repo.CacheInfo(id))
	})
}

// recordsQuery holds the `n` query parameter shared by the records and
// forecast endpoints.
type recordsQuery struct {
	N int `validate:"min=1,max=100"`
}

func (q *recordsQuery) bind(c *fiber.Ctx) error {
	q.N = c.QueryInt("n", 5)
	return validate.Struct(q)
}
