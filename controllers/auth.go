package controllers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/meinhoongagan/feastbook/apperr"
	"github.com/meinhoongagan/feastbook/middleware"
	"github.com/meinhoongagan/feastbook/models"
	"github.com/meinhoongagan/feastbook/repository"
	"github.com/meinhoongagan/feastbook/utils"
)

const MsgInvalidCredentials = "Invalid credentials"

// Auth serves registration, login and session endpoints.
type Auth struct {
	*Deps
}

type registerInput struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	Role          string `json:"role"`
	ContactNumber string `json:"contact_number"`
	FullName      string `json:"full_name"`
	Address       string `json:"address"`
	BusinessName  string `json:"business_name"`
	Location      string `json:"location"`
	Bio           string `json:"bio"`
}

// Register creates a user and the profile that matches its role.
// @Router /auth/register [post]
func (h *Auth) Register(c *fiber.Ctx) error {
	input := new(registerInput)
	if err := c.BodyParser(input); err != nil {
		return h.Fail(c, apperr.Validation(MsgInvalidJSON))
	}

	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" || input.Password == "" {
		return h.Fail(c, apperr.Validation("Email and password are required."))
	}
	role, err := models.ParseRole(input.Role)
	if err != nil {
		return h.Fail(c, apperr.Wrap(apperr.KindValidation, "Unknown role.", err))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return h.Fail(c, apperr.Backend("Failed to hash password", err))
	}

	user := &models.User{Email: input.Email, Password: string(hashedPassword), Role: role}
	var (
		customer *models.Customer
		seller   *models.Seller
		profile  interface{}
	)
	switch role {
	case models.RoleCustomer:
		customer = &models.Customer{
			FullName:      input.FullName,
			Address:       input.Address,
			ContactNumber: input.ContactNumber,
		}
		profile = customer
	case models.RoleSeller:
		seller = &models.Seller{
			BusinessName:  input.BusinessName,
			Location:      input.Location,
			Bio:           input.Bio,
			ContactNumber: input.ContactNumber,
		}
		profile = seller
	}

	if err := h.Store.CreateUser(c.UserContext(), user, customer, seller); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return h.Fail(c, apperr.Conflict("User with this email already exists"))
		}
		return h.Fail(c, apperr.Backend("Failed to create user", err))
	}

	h.Log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", role.String()))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    user,
		"profile": profile,
	})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Login checks credentials against the selected role and issues a token pair.
// @Router /auth/login [post]
func (h *Auth) Login(c *fiber.Ctx) error {
	input := new(loginInput)
	if err := c.BodyParser(input); err != nil {
		return h.Fail(c, apperr.Validation(MsgInvalidJSON))
	}
	selected, err := models.ParseRole(input.Role)
	if err != nil {
		return h.Fail(c, apperr.Wrap(apperr.KindValidation, "Unknown role.", err))
	}

	user, err := h.Store.FindUserByEmail(c.UserContext(), strings.TrimSpace(input.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return h.Fail(c, apperr.Authentication(MsgInvalidCredentials))
	}
	if err != nil {
		return h.Fail(c, apperr.Backend("Could not log in.", err))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return h.Fail(c, apperr.Authentication(MsgInvalidCredentials))
	}

	if user.Role != selected {
		return h.Fail(c, apperr.Authentication(fmt.Sprintf(
			"This account is registered as a %s. Please switch role to continue.", user.Role)))
	}

	token, err := h.Tokens.Issue(user.ID, user.Role, utils.TokenAccess)
	if err != nil {
		return h.Fail(c, apperr.Backend("Failed to generate token", err))
	}
	refreshToken, err := h.Tokens.Issue(user.ID, user.Role, utils.TokenRefresh)
	if err != nil {
		return h.Fail(c, apperr.Backend("Failed to generate refresh token", err))
	}

	return c.JSON(fiber.Map{
		"token":        token,
		"refreshToken": refreshToken,
		"user":         user,
	})
}

// Me resolves the principal to its user record and role profile.
// @Router /auth/me [get]
func (h *Auth) Me(c *fiber.Ctx) error {
	actor, err := Actor(c)
	if err != nil {
		return h.Fail(c, err)
	}
	ctx := c.UserContext()

	user, err := h.Store.FindUser(ctx, actor.ID)
	if err != nil {
		return h.Fail(c, StoreError(err, "User not found.", "Could not load profile."))
	}

	var profile interface{}
	switch user.Role {
	case models.RoleCustomer:
		profile, err = h.ResolveCustomer(ctx, user.ID)
	case models.RoleSeller:
		profile, err = h.ResolveSeller(ctx, user.ID)
	}
	if err != nil {
		return h.Fail(c, err)
	}

	return c.JSON(fiber.Map{
		"user":    user,
		"role":    user.Role,
		"profile": profile,
	})
}

type refreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the access token that authenticated the request and, when
// given, the refresh token too.
// @Router /auth/logout [post]
func (h *Auth) Logout(c *fiber.Ctx) error {
	claims, ok := middleware.TokenClaims(c)
	if !ok {
		return h.Fail(c, apperr.Authentication("No authentication token"))
	}
	ctx := c.UserContext()

	if err := h.Denylist.Revoke(ctx, claims.ID, claims.ExpiresAt); err != nil {
		return h.Fail(c, apperr.Backend("Could not log out.", err))
	}

	input := new(refreshInput)
	if err := c.BodyParser(input); err == nil && input.RefreshToken != "" {
		if refresh, err := h.Tokens.Parse(input.RefreshToken); err == nil && refresh.UserID == claims.UserID {
			if err := h.Denylist.Revoke(ctx, refresh.ID, refresh.ExpiresAt); err != nil {
				return h.Fail(c, apperr.Backend("Could not log out.", err))
			}
		}
	}

	return c.JSON(fiber.Map{
		"message": "Successfully logged out",
	})
}

// RefreshToken exchanges a valid refresh token for a new access token.
// @Router /auth/refresh [post]
func (h *Auth) RefreshToken(c *fiber.Ctx) error {
	input := new(refreshInput)
	if err := c.BodyParser(input); err != nil {
		return h.Fail(c, apperr.Validation(MsgInvalidJSON))
	}

	claims, err := h.Tokens.Parse(input.RefreshToken)
	if err != nil || claims.Type != utils.TokenRefresh {
		return h.Fail(c, apperr.Authentication("Invalid refresh token"))
	}
	ctx := c.UserContext()

	revoked, err := h.Denylist.Revoked(ctx, claims.ID)
	if err != nil {
		return h.Fail(c, apperr.Backend("Could not refresh session.", err))
	}
	if revoked {
		return h.Fail(c, apperr.Authentication("Invalid refresh token"))
	}

	user, err := h.Store.FindUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return h.Fail(c, apperr.Authentication("Invalid refresh token"))
		}
		return h.Fail(c, apperr.Backend("Could not refresh session.", err))
	}

	token, err := h.Tokens.Issue(user.ID, user.Role, utils.TokenAccess)
	if err != nil {
		return h.Fail(c, apperr.Backend("Failed to generate token", err))
	}
	return c.JSON(fiber.Map{
		"token": token,
	})
}
