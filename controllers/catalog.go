package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/models"
	"github.com/meinhoongagan/feastbook/repository"
)

// Catalog serves the public service listing.
type Catalog struct {
	*Deps
}

// ParseCategoryFilter treats "" and "all" in any case as no filter.
func ParseCategoryFilter(raw string) (models.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return "", nil
	}
	category, err := models.ParseCategory(raw)
	if err != nil {
		return "", apperr.Wrap(apperr.KindValidation, "Unknown category.", err)
	}
	return category, nil
}

// ListServices returns every service newest first, optionally narrowed to a
// category. Results are served from the catalog cache when possible.
// @Router /services [get]
func (h *Catalog) ListServices(c *fiber.Ctx) error {
	category, err := ParseCategoryFilter(c.Query("category"))
	if err != nil {
		return h.Fail(c, err)
	}
	ctx := c.UserContext()

	key := "services:all"
	if category != "" {
		key = "services:" + string(category)
	}

	var services []models.CateringService
	hit, err := h.Cache.Get(ctx, key, &services)
	if err != nil {
		h.Log.Warn("catalog cache read failed", zap.String("key", key), zap.Error(err))
	}
	if !hit {
		services, err = h.Store.ListServices(ctx, repository.ServiceFilter{Category: category})
		if err != nil {
			return h.Fail(c, apperr.Backend("Could not load services.", err))
		}
		if err := h.Cache.Set(ctx, key, services); err != nil {
			h.Log.Warn("catalog cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	if services == nil {
		services = []models.CateringService{}
	}
	return c.JSON(services)
}

// Categories lists the values accepted by the category filter.
func (h *Catalog) Categories(c *fiber.Ctx) error {
	return c.JSON(models.Categories)
}

// @Router /services/{id} [get]
func (h *Catalog) GetService(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return h.Fail(c, err)
	}
	service, err := h.Store.FindService(c.UserContext(), id)
	if err != nil {
		return h.Fail(c, StoreError(err, MsgServiceNotFound, "Could not load service."))
	}
	return c.JSON(service)
}

// ListReviews returns the reviews left on a service's bookings, newest first.
// @Router /services/{id}/reviews [get]
func (h *Catalog) ListReviews(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return h.Fail(c, err)
	}
	ctx := c.UserContext()

	if _, err := h.Store.FindService(ctx, id); err != nil {
		return h.Fail(c, StoreError(err, MsgServiceNotFound, "Could not load service."))
	}
	reviews, err := h.Store.ListServiceReviews(ctx, id)
	if err != nil {
		return h.Fail(c, apperr.Backend("Could not load reviews.", err))
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return c.JSON(reviews)
}
