package customer

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/controllers"
	"github.com/meinhoongagan/feastbook/models"
)

// ListFavorites returns the customer's saved services, newest first, with
// each service's seller expanded.
// @Router /customer/favorites [get]
func (h *Handler) ListFavorites(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	favorites, err := h.Store.ListFavorites(c.UserContext(), actor.ID)
	if err != nil {
		return h.Fail(c, apperr.Backend("Could not load favorites.", err))
	}
	if favorites == nil {
		favorites = []models.Favorite{}
	}
	return c.JSON(favorites)
}

// FavoriteIDs lists only the service ids, for marking hearts in the catalog.
// @Router /customer/favorites/ids [get]
func (h *Handler) FavoriteIDs(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	favorites, err := h.Store.ListFavorites(c.UserContext(), actor.ID)
	if err != nil {
		return h.Fail(c, apperr.Backend("Could not load favorites.", err))
	}
	ids := make([]uuid.UUID, 0, len(favorites))
	for _, f := range favorites {
		ids = append(ids, f.ServiceID)
	}
	return c.JSON(ids)
}

// ToggleFavorite flips the membership of a service in the customer's
// favorites and reports the state afterwards.
// @Router /customer/favorites/{serviceID}/toggle [post]
func (h *Handler) ToggleFavorite(c *fiber.Ctx) error {
	actor, err := controllers.Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	serviceID, err := controllers.ParamID(c, "serviceID")
	if err != nil {
		return h.Fail(c, err)
	}
	ctx := c.UserContext()

	if _, err := h.ResolveCustomer(ctx, actor.ID); err != nil {
		return h.Fail(c, err)
	}
	favorited, err := h.Store.ToggleFavorite(ctx, actor.ID, serviceID)
	if err != nil {
		return h.Fail(c, controllers.StoreError(err, controllers.MsgServiceNotFound, "Could not update favorites."))
	}
	return c.JSON(fiber.Map{
		"service_id": serviceID,
		"favorited":  favorited,
	})
}
