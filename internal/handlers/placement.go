package handlers

import (
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PlacementHandler handles placement routes
type PlacementHandler struct {
	DB *gorm.DB
}

type placementRequest struct {
	AreaID      string `json:"areaId" form:"areaId"`
	PlacementID string `json:"placementId" form:"placementId"`
}

// Info handles POST /placement/info
// @Summary Get placement info
// @Tags Placement
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param areaId formData string true "Area id"
// @Param placementId formData string true "Placement id"
// @Success 200 {object} services.PlacementInfoView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /placement/info [post]
func (h *PlacementHandler) Info(c *fiber.Ctx) error {
	var req placementRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "placementInfo")
	}

	p, err := services.FindPlacement(h.DB, req.AreaID, req.PlacementID)
	if err != nil {
		return storeError(c, err, "Placement not found", "placementInfo")
	}
	return c.JSON(services.NewPlacementInfoView(p))
}
