package handlers

import (
	"strconv"

	"tavara/internal/models"
	"tavara/internal/services/verification"
	"tavara/internal/utils/pagination"
	"tavara/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the review side of the verification workflow plus
// the trust-record maintenance endpoints.
type AdminHandler struct {
	service *verification.Service
}

func NewAdminHandler(service *verification.Service) *AdminHandler {
	return &AdminHandler{service: service}
}

func reviewerID(c *fiber.Ctx) (uint, bool) {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// PendingQueue lists requests awaiting review, oldest submission first.
func (h *AdminHandler) PendingQueue(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)

	requests, total, err := h.service.PendingQueue(c.Context(), p.Offset, p.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	p.Total = total
	return c.JSON(pagination.Response(p, requests))
}

// GetRequest returns the full detail of one verification request.
func (h *AdminHandler) GetRequest(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	req, err := h.service.GetRequest(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Verification request", req)
}

// Approve approves a pending request. Losing a concurrent race for the same
// request returns a conflict.
func (h *AdminHandler) Approve(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	reviewer, ok := reviewerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	// Body is optional on approval.
	var input struct {
		AdminNotes string `json:"admin_notes"`
	}
	_ = c.BodyParser(&input)

	req, err := h.service.Approve(c.Context(), uint(id), reviewer, input.AdminNotes)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Verification approved", req)
}

// Reject rejects a pending request. A reason is mandatory.
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid request ID")
	}

	reviewer, ok := reviewerID(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var input struct {
		Reason     string `json:"reason"`
		AdminNotes string `json:"admin_notes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	req, err := h.service.Reject(c.Context(), uint(id), reviewer, input.Reason, input.AdminNotes)
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Verification rejected", req)
}

// AgencyStatus returns the full status projection for any agency.
func (h *AdminHandler) AgencyStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid agency ID")
	}

	view, err := h.service.GetCurrentStatus(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Agency status", view)
}

// AgencyHistory lists every submission an agency has ever made.
func (h *AdminHandler) AgencyHistory(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid agency ID")
	}

	p := pagination.ParseFromRequest(c)
	requests, total, err := h.service.History(c.Context(), uint(id), p.Offset, p.Limit)
	if err != nil {
		return response.DomainError(c, err)
	}

	p.Total = total
	return c.JSON(pagination.Response(p, requests))
}

// Reconcile re-derives an agency's trust record from its request history.
// Safe to call repeatedly; reports whether anything changed.
func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid agency ID")
	}

	changed, err := h.service.Reconcile(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Reconciliation complete", fiber.Map{
		"agency_id": uint(id),
		"changed":   changed,
	})
}

// CheckConsistency reports whether an agency's trust record matches its
// request history without repairing anything.
func (h *AdminHandler) CheckConsistency(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid agency ID")
	}

	if err := h.service.CheckConsistency(c.Context(), uint(id)); err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "Trust record consistent", fiber.Map{
		"agency_id": uint(id),
	})
}

// Reclassify recomputes one agency's stored license status against today.
func (h *AdminHandler) Reclassify(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid agency ID")
	}

	status, err := h.service.Reclassify(c.Context(), uint(id))
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "License status reclassified", fiber.Map{
		"agency_id":      uint(id),
		"license_status": status,
	})
}

// ReclassifyAll runs the full license-status sweep on demand, the same work
// the nightly job does.
func (h *AdminHandler) ReclassifyAll(c *fiber.Ctx) error {
	changed, err := h.service.ReclassifyAll(c.Context())
	if err != nil {
		return response.DomainError(c, err)
	}

	return response.Success(c, "License sweep complete", fiber.Map{
		"reclassified": changed,
	})
}
