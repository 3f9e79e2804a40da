package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/staticimport/swa/internal/fares"
	"github.com/staticimport/swa/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *fares.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/trips", func(c *fiber.Ctx) error {
		trips := service.Trips()
		views := make([]tripView, 0, len(trips))
		for _, t := range trips {
			views = append(views, newTripView(t))
		}
		return c.JSON(fiber.Map{"trips": views})
	})

	v1.Get("/trips/:key", func(c *fiber.Ctx) error {
		t, ok := service.Trip(c.Params("key"))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown trip")
		}
		return c.JSON(newTripView(t))
	})

	v1.Get("/alerts", func(c *fiber.Ctx) error {
		var req alertsQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if req.Trip != "" {
			if _, ok := service.Trip(req.Trip); !ok {
				return fiber.NewError(fiber.StatusNotFound, "unknown trip")
			}
		}

		alerts, err := service.ListAlerts(req.Trip, req.Limit)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list alerts")
		}
		if alerts == nil {
			alerts = []fares.Alert{}
		}

		return c.JSON(fiber.Map{
			"trip":   req.Trip,
			"alerts": alerts,
		})
	})
}

// tripView is the JSON shape of a tracked trip.
type tripView struct {
	Key       string            `json:"key"`
	Name      string            `json:"name"`
	Warm      bool              `json:"warm"`
	UpdatedAt *time.Time        `json:"updatedAt,omitempty"`
	Outbound  map[string]string `json:"outbound"`
	Inbound   map[string]string `json:"inbound"`
	Summary   string            `json:"summary"`
}

func newTripView(t *fares.Trip) tripView {
	going, ret := t.Prices()
	v := tripView{
		Key:      t.Itinerary().Key(),
		Name:     t.Name(),
		Warm:     t.Warm(),
		Outbound: pricesView(going),
		Inbound:  pricesView(ret),
		Summary:  t.CurrentPricesText(),
	}
	if ts := t.UpdatedAt(); !ts.IsZero() {
		v.UpdatedAt = &ts
	}
	return v
}

// pricesView keeps only known buckets, formatted to cents.
func pricesView(p fares.LegPrices) map[string]string {
	out := make(map[string]string)
	for _, b := range fares.Buckets {
		if price := p.Price(b); price.Valid {
			out[b.String()] = price.Decimal.StringFixed(2)
		}
	}
	return out
}

// alertsQuery holds query parameters for the alerts endpoint.
type alertsQuery struct {
	Trip  string
	Limit int `validate:"min=1,max=500"`
}

func (q *alertsQuery) bind(c *fiber.Ctx) error {
	q.Trip = c.Query("trip")
	q.Limit = 50
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errors.New("limit must be an integer")
		}
		q.Limit = n
	}
	return nil
}
