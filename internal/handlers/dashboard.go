package handlers

import (
	"tavara/internal/services/dashboard"
	"tavara/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service dashboard.Service
}

func NewDashboardHandler(service dashboard.Service) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// ReviewDashboard summarizes the verification workload: queue counts, the
// oldest waiting submission and licenses approaching expiry.
func (h *DashboardHandler) ReviewDashboard(c *fiber.Ctx) error {
	board, err := h.service.GetReviewDashboard(c.Context())
	if err != nil {
		return response.ServerError(c, "Failed to load dashboard")
	}

	return response.Success(c, "Review dashboard", board)
}
