package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-portal/internal/api/dto"
	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/service"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// AuthHandler exposes registration, login, profile and password reset.
type AuthHandler struct {
	identity *service.IdentityService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// Register handles POST /api/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}

	if _, err := h.identity.Register(c.Context(), req.Username, req.Email, req.Password); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	token, _, err := h.identity.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"token": token})
}

// GetProfile handles GET /api/user.
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	user, err := h.identity.GetProfile(c.Context(), identity.Email)
	if err != nil {
		return err
	}

	return c.JSON(dto.ProfileResponse{
		Username: user.Username,
		Email:    user.Email,
	})
}

// ResetPassword handles POST /api/forget.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("email and newpassword required", nil)
	}

	if err := h.identity.ResetPassword(c.Context(), req.Email, req.NewPassword); err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "new Password updated",
	})
}

// RequestPasswordReset handles POST /api/forget/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.ResetRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" {
		return apperrors.NewValidationError("email required", nil)
	}

	token, err := h.identity.RequestPasswordReset(c.Context(), req.Email)
	if err != nil {
		return err
	}

	// Delivery would normally go out of band; the token is echoed here
	// because no mail transport exists yet.
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":     "password reset token issued",
		"reset_token": token.Token,
	})
}

// ConfirmPasswordReset handles POST /api/forget/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.ResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("token and newpassword required", nil)
	}

	if err := h.identity.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "new Password updated"})
}
