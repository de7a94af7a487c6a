package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/complaint-portal/internal/api/dto"
	"github.com/spec-kit/complaint-portal/internal/auth"
	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/service"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// ComplaintsHandler manages complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs the handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// Create handles POST /api/create.
func (h *ComplaintsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	var req dto.CreateComplaintRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.Create(c.Context(), identity.Email, req.Text)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":   "Complaint created successfully",
		"complaint": complaint,
	})
}

// List handles GET /api/complaints.
func (h *ComplaintsHandler) List(c *fiber.Ctx) error {
	if _, ok := auth.IdentityFromContext(c); !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	complaints, err := h.service.List(c.Context())
	if err != nil {
		return err
	}
	if complaints == nil {
		complaints = []domain.Complaint{}
	}

	return c.JSON(fiber.Map{"complaints": complaints})
}

// UpdateStatus handles PUT /api/update-status.
func (h *ComplaintsHandler) UpdateStatus(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("unauthorized")
	}

	var req dto.UpdateComplaintStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	complaint, err := h.service.UpdateStatus(c.Context(), identity.Email, req.ID, req.ProcessStatus)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Complaint status updated successfully",
		"complaint": complaint,
	})
}
