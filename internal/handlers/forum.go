package handlers

import (
	"errors"
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/data"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ForumHandler handles forum routes
type ForumHandler struct {
	DB *gorm.DB
}

type forumIDRequest struct {
	Name string `json:"forumName" form:"forumName"`
}

// Favorites handles GET /forum/favorites
// @Summary Get the favorite forums
// @Tags Forum
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /forum/favorites [get]
func (h *ForumHandler) Favorites(c *fiber.Ctx) error {
	return c.JSON(data.ForumFavorites())
}

// Forum handles GET /forum/forum/:id
// @Summary Get a forum with its threads
// @Tags Forum
// @Produce json
// @Param id path string true "Forum id"
// @Success 200 {object} services.ForumPage
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forum/forum/{id} [get]
func (h *ForumHandler) Forum(c *fiber.Ctx) error {
	page, err := services.FindForumPage(h.DB, c.Params("id"))
	if err != nil {
		return storeError(c, err, "Forum not found", "forum")
	}
	return c.JSON(page)
}

// Thread handles GET /forum/thread/:id
// @Summary Get a thread with its comments
// @Tags Forum
// @Produce json
// @Param id path string true "Thread id"
// @Success 200 {object} services.ThreadPage
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forum/thread/{id} [get]
func (h *ForumHandler) Thread(c *fiber.Ctx) error {
	page, err := services.FindThreadPage(h.DB, c.Params("id"))
	if err != nil {
		return storeError(c, err, "Thread not found", "thread")
	}
	return c.JSON(page)
}

// ForumID handles POST /forum/forumid
// @Summary Look up a forum id by name
// @Description Unknown names resolve to the Boardtown forum
// @Tags Forum
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param forumName formData string false "Forum name"
// @Success 200 {object} map[string]interface{}
// @Router /forum/forumid [post]
func (h *ForumHandler) ForumID(c *fiber.Ctx) error {
	var req forumIDRequest
	if err := parseBody(c, &req); err != nil {
		slog.Warn("unreadable forum id body", "error", err)
	}

	id := services.BoardtownForumID
	if req.Name != "" {
		found, err := services.FindForumIDByName(h.DB, req.Name)
		switch {
		case err == nil:
			id = found
		case !errors.Is(err, services.ErrNotFound):
			slog.Error("forum lookup failed", "name", req.Name, "error", err)
		}
	}
	return c.JSON(fiber.Map{"ok": true, "forumId": id})
}
