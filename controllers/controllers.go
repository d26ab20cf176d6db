// Package controllers holds the HTTP handlers shared by every role together
// with the helpers the role-specific subpackages build on.
package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/middleware"
	"github.com/meinhoongagan/feastbook/models"
	"github.com/meinhoongagan/feastbook/policy"
	"github.com/meinhoongagan/feastbook/redis"
	"github.com/meinhoongagan/feastbook/repository"
	"github.com/meinhoongagan/feastbook/utils"
)

const (
	MsgInvalidJSON            = "Cannot parse JSON"
	MsgInvalidID              = "Invalid id."
	MsgServiceNotFound        = "Service not found."
	MsgCustomerProfileMissing = "Customer profile not found."
	MsgSellerProfileMissing   = "Seller profile not found."
)

// Deps is everything a handler needs. It is built once in main and shared.
type Deps struct {
	Store    repository.Store
	Policy   *policy.Policy
	Cache    redis.CatalogCache
	Denylist redis.TokenDenylist
	Tokens   *utils.TokenIssuer
	Log      *zap.Logger
	// Now is the clock used for every lifecycle decision.
	Now func() time.Time
}

func (d *Deps) Clock() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindAuthentication:
		return fiber.StatusUnauthorized
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindUnavailable, apperr.KindConflict:
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

// Fail writes err as an ErrorResponse. Backend errors are logged with their
// cause and reach the client only as their generic message.
func (d *Deps) Fail(c *fiber.Ctx, err error) error {
	e, ok := apperr.As(err)
	if !ok {
		e = apperr.Backend("Something went wrong.", err)
	}
	if e.Kind == apperr.KindBackend {
		d.Log.Error(e.Message,
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(e.Err),
		)
	}
	return c.Status(StatusFor(e.Kind)).JSON(utils.ErrorResponse{
		Message: e.Message,
		Error:   string(e.Kind),
	})
}

// StoreError translates repository sentinels into application errors.
// notFound is the message for ErrNotFound, backend the generic message for
// anything unexpected. Application errors raised inside store callbacks pass
// through unchanged.
func StoreError(err error, notFound, backend string) error {
	if _, ok := apperr.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, repository.ErrDuplicate):
		return apperr.Wrap(apperr.KindConflict, "Record already exists.", err)
	}
	return apperr.Backend(backend, err)
}

// Actor returns the authenticated principal.
func Actor(c *fiber.Ctx) (policy.Actor, error) {
	id, role, ok := middleware.Principal(c)
	if !ok {
		return policy.Actor{}, apperr.Authentication("No authentication token")
	}
	return policy.Actor{ID: id, Role: role}, nil
}

// ParamID parses a uuid path parameter.
func ParamID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.Wrap(apperr.KindValidation, MsgInvalidID, err)
	}
	return id, nil
}

// ResolveCustomer maps a principal to its customer profile.
func (d *Deps) ResolveCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := d.Store.FindCustomer(ctx, id)
	if err != nil {
		return nil, StoreError(err, MsgCustomerProfileMissing, "Could not load profile.")
	}
	return customer, nil
}

// ResolveSeller maps a principal to its seller profile.
func (d *Deps) ResolveSeller(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	seller, err := d.Store.FindSeller(ctx, id)
	if err != nil {
		return nil, StoreError(err, MsgSellerProfileMissing, "Could not load profile.")
	}
	return seller, nil
}

// InvalidateCatalog drops cached catalog pages. A cache failure is logged and
// otherwise ignored; entries expire on their own.
func (d *Deps) InvalidateCatalog(ctx context.Context) {
	if err := d.Cache.Invalidate(ctx); err != nil {
		d.Log.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
