package handlers

import (
	"strconv"

	"tavara/internal/models"
	"tavara/internal/services/user"
	"tavara/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// Register creates a new account. Accounts default to the traveler role;
// agency staff pick the agency role and then create their agency profile.
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input models.CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	created, err := h.userService.Create(&input)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, "Account created", fiber.Map{
		"id":    created.ID,
		"email": created.Email,
		"role":  created.Role,
	})
}

// GetProfile returns the authenticated user's own record.
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.UserClaims)
	if !ok {
		return response.Unauthorized(c)
	}

	u, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "Profile", fiber.Map{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"phone":     u.Phone,
		"role":      u.Role,
		"agency_id": u.AgencyID,
	})
}

// GetUser returns a user by id (admin only).
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	u, err := h.userService.GetByID(uint(id))
	if err != nil {
		return response.NotFound(c, "User not found")
	}

	return response.Success(c, "User", u)
}
