package server

import (
	"github.com/LgendSourabie/blango/internal/models"
	"github.com/LgendSourabie/blango/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/v1/posts/
// @Summary List posts
// @Description List all posts in insertion order, wrapped in a paginated envelope
// @Tags posts
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} service.PostList
// @Router /posts/ [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page := parsePagination(c, 100)

	list, err := s.postService.WithBaseURL(c.BaseURL()).ListPosts(c.Context(), service.ListPostsInput{
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(list)
}

// GetPost handles GET /api/v1/posts/:id/
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.PostPayload
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/ [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.WithBaseURL(c.BaseURL()).GetPost(c.Context(), id)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.JSON(post)
}

// CreatePost handles POST /api/v1/posts/
// @Summary Create a post
// @Description Create a post; the author field is a user resource URL that must resolve to a stored user
// @Tags posts
// @Accept json
// @Produce json
// @Param request body service.CreatePostInput true "Post payload"
// @Success 201 {object} service.PostPayload
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security TokenAuth
// @Router /posts/ [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.WithBaseURL(c.BaseURL()).CreatePost(c.Context(), req)
	if err != nil {
		return respondAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}
