package handlers

import (
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GiftHandler handles gift routes
type GiftHandler struct {
	DB *gorm.DB
}

// GetReceived handles POST /gift/getreceived
// @Summary List gifts received by a person
// @Tags Gift
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param userId formData string true "Person id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /gift/getreceived [post]
func (h *GiftHandler) GetReceived(c *fiber.Ctx) error {
	var req personRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "gifts")
	}

	if _, err := services.FindPerson(h.DB, req.UserID); err != nil {
		return storeError(c, err, "Person not found", "gifts")
	}
	gifts, err := services.FindPersonGifts(h.DB, req.UserID)
	if err != nil {
		return storeError(c, err, "Person not found", "gifts")
	}

	views := make([]services.GiftView, 0, len(gifts))
	for i := range gifts {
		views = append(views, services.NewGiftView(&gifts[i]))
	}
	return c.JSON(fiber.Map{"gifts": views})
}
