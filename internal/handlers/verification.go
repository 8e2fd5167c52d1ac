package handlers

import (
	"tavara/internal/models"
	"tavara/internal/services/agency"
	"tavara/internal/services/verification"
	"tavara/internal/storage"
	"tavara/internal/utils/pagination"
	"tavara/internal/utils/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type VerificationHandler struct {
	service       *verification.Service
	agencyService *agency.Service
	documents     storage.DocumentStore
}

func NewVerificationHandler(service *verification.Service, agencyService *agency.Service, documents storage.DocumentStore) *VerificationHandler {
	return &VerificationHandler{
		service:       service,
		agencyService: agencyService,
		documents:     documents,
	}
}

// resolveAgencyID maps the authenticated account to its agency profile.
func (h *VerificationHandler) resolveAgencyID(c *fiber.Ctx) (uint, error) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return 0, response.Unauthorized(c)
	}
	if claims.AgencyID != nil {
		return *claims.AgencyID, nil
	}
	// Tokens issued before the profile existed don't carry the agency id.
	a, err := h.agencyService.GetByUserID(c.Context(), claims.UserID)
	if err != nil {
		return 0, response.NotFound(c, "Create an agency profile before submitting verification")
	}
	return a.ID, nil
}

// Submit accepts an initial verification submission for review.
func (h *VerificationHandler) Submit(c *fiber.Ctx) error {
	return h.submit(c, models.SubmissionInitial)
}

// SubmitRenewal accepts a renewal submission. Blank fields are prefilled
// from the agency's most recent request.
func (h *VerificationHandler) SubmitRenewal(c *fiber.Ctx) error {
	return h.submit(c, models.SubmissionRenewal)
}

func (h *VerificationHandler) submit(c *fiber.Ctx, mode string) error {
	agencyID, err := h.resolveAgencyID(c)
	if err != nil {
		return err
	}

	var sub models.VerificationSubmission
	if err := c.BodyParser(&sub); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req, err := h.service.Submit(c.Context(), agencyID, &sub, mode)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Created(c, "Verification submitted", fiber.Map{
		"id":           req.ID,
		"reference":    req.Reference,
		"mode":         req.Mode,
		"status":       req.Status,
		"submitted_at": req.SubmittedAt,
	})
}

// MyStatus returns the caller's verification status projection.
func (h *VerificationHandler) MyStatus(c *fiber.Ctx) error {
	agencyID, err := h.resolveAgencyID(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetCurrentStatus(c.Context(), agencyID)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Verification status", view)
}

// MyHistory lists the caller's submissions, newest first.
func (h *VerificationHandler) MyHistory(c *fiber.Ctx) error {
	agencyID, err := h.resolveAgencyID(c)
	if err != nil {
		return err
	}

	p := pagination.ParseFromRequest(c)
	requests, total, err := h.service.History(c.Context(), agencyID, p.Offset, p.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	p.Total = total
	return c.JSON(pagination.Response(p, requests))
}

// UploadDocument stores a credential document and returns its URL. The URL
// is then referenced from a submission payload.
func (h *VerificationHandler) UploadDocument(c *fiber.Ctx) error {
	// No store is wired when S3_BUCKET is unset.
	if h.documents == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Document uploads are not configured")
	}

	agencyID, err := h.resolveAgencyID(c)
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		return response.BadRequest(c, "A document file is required")
	}
	if fileHeader.Size > 10*1024*1024 {
		return response.BadRequest(c, "Document exceeds the 10MB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.ServerError(c, "Failed to read document")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := storage.DocumentKey(agencyID, uuid.NewString(), fileHeader.Filename)

	url, err := h.documents.Upload(c.Context(), key, file, contentType)
	if err != nil {
		return response.ServerError(c, "Failed to store document")
	}

	return response.Created(c, "Document uploaded", fiber.Map{
		"url": url,
	})
}
