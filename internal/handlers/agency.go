package handlers

import (
	"errors"
	"strconv"

	"tavara/internal/models"
	"tavara/internal/services/agency"
	"tavara/internal/services/verification"
	"tavara/internal/utils/pagination"
	"tavara/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type AgencyHandler struct {
	agencyService       *agency.Service
	verificationService *verification.Service
}

func NewAgencyHandler(agencyService *agency.Service, verificationService *verification.Service) *AgencyHandler {
	return &AgencyHandler{
		agencyService:       agencyService,
		verificationService: verificationService,
	}
}

// CreateProfile creates the agency profile for the authenticated account.
// One profile per account; the new agency starts unverified.
func (h *AgencyHandler) CreateProfile(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	var input agency.CreateAgencyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	created, err := h.agencyService.CreateProfile(c.Context(), claims.UserID, input)
	if err != nil {
		if errors.Is(err, agency.ErrProfileExists) {
			return response.Conflict(c, err.Error())
		}
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, "Agency profile created", created)
}

// GetOwnProfile returns the caller's agency profile.
func (h *AgencyHandler) GetOwnProfile(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	a, err := h.agencyService.GetByUserID(c.Context(), claims.UserID)
	if err != nil {
		return response.NotFound(c, "Agency profile not found")
	}

	return response.Success(c, "Agency profile", a)
}

// UpdateProfile updates descriptive fields of the caller's agency profile.
// Trust record fields are not writable here.
func (h *AgencyHandler) UpdateProfile(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	var input agency.UpdateAgencyInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	updated, err := h.agencyService.UpdateProfile(c.Context(), claims.UserID, input)
	if err != nil {
		if errors.Is(err, agency.ErrProfileNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.BadRequest(c, err.Error())
	}

	return response.Success(c, "Agency profile updated", updated)
}

// Directory lists verified agencies for travelers. Public endpoint.
func (h *AgencyHandler) Directory(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	agencies, total, err := h.agencyService.Directory(c.Context(), p.Offset, p.Limit)
	if err != nil {
		return response.ServerError(c, "Failed to load directory")
	}

	p.Total = total
	return c.JSON(pagination.Response(p, agencies))
}

// PublicStatus exposes an agency's verification badge and license health to
// travelers. Public endpoint, served from cache when warm.
func (h *AgencyHandler) PublicStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid agency ID")
	}

	view, err := h.verificationService.GetCurrentStatus(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	// Travelers only see the public slice of the projection.
	return response.Success(c, "Agency status", fiber.Map{
		"agency_id":           view.AgencyID,
		"agency_name":         view.AgencyName,
		"is_verified":         view.IsVerified,
		"verification_status": view.VerificationStatus,
		"license_status":      view.LicenseStatus,
		"license_expiry":      view.LicenseExpiry,
	})
}
