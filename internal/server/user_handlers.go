package server

import (
	"net/url"

	"github.com/LgendSourabie/blango/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/v1/users/
func (s *Server) GetUsers(c *fiber.Ctx) error {
	page := parsePagination(c, 100)

	users, err := s.userService.WithBaseURL(c.BaseURL()).ListUsers(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(fiber.Map{"results": users})
}

// GetUserByEmail handles GET /api/v1/users/:email/
// @Summary Get a user
// @Description Get a user by email, the same address their resource URL carries
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} service.UserPayload
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{email}/ [get]
func (s *Server) GetUserByEmail(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || email == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid email"))
	}

	user, svcErr := s.userService.WithBaseURL(c.BaseURL()).GetUserByEmail(c.Context(), email)
	if svcErr != nil {
		return respondAppError(c, svcErr)
	}

	return c.JSON(user)
}
