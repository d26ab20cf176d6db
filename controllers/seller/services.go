package seller

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/controllers"
	"github.com/meinhoongagan/feastbook/models"
	"github.com/meinhoongagan/feastbook/repository"
)

const (
	MsgFillAllFields   = "Please fill all fields."
	MsgInvalidPrice    = "Please enter a valid price."
	MsgInvalidCategory = "Please choose a valid category."
	MsgServiceInUse    = "This service has bookings and cannot be deleted."
)

// Handler serves the seller's services and incoming bookings.
type Handler struct {
	*controllers.Deps
}

func New(deps *controllers.Deps) *Handler {
	return &Handler{Deps: deps}
}

type serviceInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       json.RawMessage `json:"price"`
	Category    string          `json:"category"`
}

// validate checks that every field is present, the price is a non-negative
// number and the category is known.
func (in *serviceInput) validate() (repository.ServiceUpdate, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	rawPrice := strings.Trim(strings.TrimSpace(string(in.Price)), `"`)
	rawCategory := strings.TrimSpace(in.Category)
	if title == "" || description == "" || rawPrice == "" || rawPrice == "null" || rawCategory == "" {
		return repository.ServiceUpdate{}, apperr.Validation(MsgFillAllFields)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(rawPrice), 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return repository.ServiceUpdate{}, apperr.Validation(MsgInvalidPrice)
	}
	category, err := models.ParseCategory(rawCategory)
	if err != nil {
		return repository.ServiceUpdate{}, apperr.Wrap(apperr.KindValidation, MsgInvalidCategory, err)
	}

	return repository.ServiceUpdate{
		Title:       title,
		Description: description,
		Price:       price,
		Category:    category,
	}, nil
}

// ListServices returns the seller's own services, newest first.
// @Router /seller/services [get]
func (h *Handler) ListServices(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	services, err := h.Store.ListServices(c.UserContext(), repository.ServiceFilter{SellerID: actor.ID})
	if err != nil {
		return h.Fail(c, apperr.Backend("Could not load services.", err))
	}
	if services == nil {
		services = []models.CateringService{}
	}
	return c.JSON(services)
}

// @Router /seller/services [post]
func (h *Handler) CreateService(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	input := new(serviceInput)
	if err := c.BodyParser(input); err != nil {
		return h.Fail(c, apperr.Validation(controllers.MsgInvalidJSON))
	}
	fields, err := input.validate()
	if err != nil {
		return h.Fail(c, err)
	}

	ctx := c.UserContext()
	if _, err := h.ResolveSeller(ctx, actor.ID); err != nil {
		return h.Fail(c, err)
	}

	service := &models.CateringService{
		SellerID:    actor.ID,
		Title:       fields.Title,
		Description: fields.Description,
		Price:       fields.Price,
		Category:    fields.Category,
	}
	if err := h.Store.CreateService(ctx, service); err != nil {
		return h.Fail(c, apperr.Backend("Could not save service.", err))
	}
	h.InvalidateCatalog(ctx)

	h.Log.Info("service created", zap.String("service_id", service.ID.String()), zap.String("seller_id", actor.ID.String()))
	return c.Status(fiber.StatusCreated).JSON(service)
}

// @Router /seller/services/{id} [put]
func (h *Handler) UpdateService(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		return h.Fail(c, err)
	}
	input := new(serviceInput)
	if err := c.BodyParser(input); err != nil {
		return h.Fail(c, apperr.Validation(controllers.MsgInvalidJSON))
	}
	fields, err := input.validate()
	if err != nil {
		return h.Fail(c, err)
	}

	ctx := c.UserContext()
	service, err := h.Store.UpdateService(ctx, actor.ID, id, fields)
	if err != nil {
		return h.Fail(c, controllers.StoreError(err, controllers.MsgServiceNotFound, "Could not save service."))
	}
	h.InvalidateCatalog(ctx)
	return c.JSON(service)
}

// DeleteService removes a service that no booking references. Favorites
// pointing at it go with it.
// @Router /seller/services/{id} [delete]
func (h *Handler) DeleteService(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		return h.Fail(c, err)
	}

	ctx := c.UserContext()
	if err := h.Store.DeleteService(ctx, actor.ID, id); err != nil {
		if errors.Is(err, repository.ErrInUse) {
			return h.Fail(c, apperr.Wrap(apperr.KindConflict, MsgServiceInUse, err))
		}
		return h.Fail(c, controllers.StoreError(err, controllers.MsgServiceNotFound, "Could not delete service."))
	}
	h.InvalidateCatalog(ctx)
	return c.SendStatus(fiber.StatusNoContent)
}
