package handlers

import (
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminHandler handles administrative deletes and listings
type AdminHandler struct {
	DB *gorm.DB
}

// deleteResult answers an admin delete, mapping zero affected rows to 404
func deleteResult(c *fiber.Ctx, affected int64, err error, what string) error {
	if err != nil {
		return storeError(c, err, what+" not found", "admin")
	}
	if affected == 0 {
		return utils.NotFoundResponse(c, what+" not found")
	}
	slog.Info("admin delete", "what", what, "url", c.OriginalURL(), "affectedRows", affected)
	return utils.DeleteSuccessResponse(c, affected)
}

// DeleteArea handles DELETE /admin/area/:id
// @Summary Delete an area
// @Description Removes an area with its info, load payload, sub-areas and placements
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Area id"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/area/{id} [delete]
func (h *AdminHandler) DeleteArea(c *fiber.Ctx) error {
	affected, err := services.DeleteArea(h.DB, c.Params("id"))
	return deleteResult(c, affected, err, "Area")
}

// DeletePerson handles DELETE /admin/person/:id
// @Summary Delete a person
// @Description Removes a person with gifts, areas, top-by and friend rows
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Person id"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/person/{id} [delete]
func (h *AdminHandler) DeletePerson(c *fiber.Ctx) error {
	affected, err := services.DeletePerson(h.DB, c.Params("id"))
	return deleteResult(c, affected, err, "Person")
}

// DeleteUser handles DELETE /admin/user/:id
// @Summary Delete a user account
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param id path string true "User id"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/user/{id} [delete]
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	affected, err := services.DeleteUser(h.DB, c.Params("id"))
	return deleteResult(c, affected, err, "User")
}

// DeleteThing handles DELETE /admin/thing/:id
// @Summary Delete a thing
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Thing id"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/thing/{id} [delete]
func (h *AdminHandler) DeleteThing(c *fiber.Ctx) error {
	affected, err := services.DeleteThing(h.DB, c.Params("id"))
	return deleteResult(c, affected, err, "Thing")
}

// DeletePlacement handles DELETE /admin/placement/:areaId/:placementId
// @Summary Delete a placement
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param areaId path string true "Area id"
// @Param placementId path string true "Placement id"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/placement/{areaId}/{placementId} [delete]
func (h *AdminHandler) DeletePlacement(c *fiber.Ctx) error {
	affected, err := services.DeletePlacement(h.DB, c.Params("areaId"), c.Params("placementId"))
	return deleteResult(c, affected, err, "Placement")
}

// DeleteForum handles DELETE /admin/forum/:id
// @Summary Delete a forum with its threads
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Forum id"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/forum/{id} [delete]
func (h *AdminHandler) DeleteForum(c *fiber.Ctx) error {
	affected, err := services.DeleteForum(h.DB, c.Params("id"))
	return deleteResult(c, affected, err, "Forum")
}

// DeleteThread handles DELETE /admin/thread/:id
// @Summary Delete a thread with its comments
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param id path string true "Thread id"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /admin/thread/{id} [delete]
func (h *AdminHandler) DeleteThread(c *fiber.Ctx) error {
	affected, err := services.DeleteThread(h.DB, c.Params("id"))
	return deleteResult(c, affected, err, "Thread")
}

// AreaPlacements handles GET /admin/placements/:areaId
// @Summary List the placements of an area
// @Tags Admin
// @Produce json
// @Security AdminToken
// @Param areaId path string true "Area id"
// @Success 200 {array} services.AdminPlacementView
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /admin/placements/{areaId} [get]
func (h *AdminHandler) AreaPlacements(c *fiber.Ctx) error {
	placements, err := services.FindAreaPlacements(h.DB, c.Params("areaId"))
	if err != nil {
		slog.Error("placement listing failed", "areaId", c.Params("areaId"), "error", err)
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "admin")
	}
	return c.JSON(placements)
}
