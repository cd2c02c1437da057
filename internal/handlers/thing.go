package handlers

import (
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TopByLimit is the number of thing ids returned by thing/topby
const TopByLimit = 4

// ThingHandler handles thing routes
type ThingHandler struct {
	DB            *gorm.DB
	Unimplemented *UnimplementedHandler
}

type thingRequest struct {
	ID      string `json:"id" form:"id"`
	ThingID string `json:"thingId" form:"thingId"`
	Term    string `json:"term" form:"term"`
}

// Create handles POST /thing
// @Summary Create a thing
// @Description Thing creation is not supported. The request is recorded.
// @Tags Thing
// @Produce plain
// @Failure 500 {string} string "Not implemented"
// @Router /thing [post]
func (h *ThingHandler) Create(c *fiber.Ctx) error {
	h.Unimplemented.Record(c)
	return utils.PlainErrorResponse(c, "Not implemented", fiber.StatusInternalServerError)
}

// TopBy handles POST /thing/topby
// @Summary Top things by a person
// @Tags Thing
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id formData string true "Person id"
// @Success 200 {object} map[string][]string
// @Router /thing/topby [post]
func (h *ThingHandler) TopBy(c *fiber.Ctx) error {
	var req thingRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "topBy")
	}

	ids, err := services.FindTopByIDs(h.DB, req.ID, TopByLimit)
	if err != nil {
		slog.Error("top by lookup failed", "personId", req.ID, "error", err)
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "topBy")
	}
	return c.JSON(fiber.Map{"ids": ids})
}

// Search handles POST /thing/search
// @Summary Search things
// @Tags Thing
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param term formData string true "Search term"
// @Success 200 {object} map[string][]string
// @Router /thing/search [post]
func (h *ThingHandler) Search(c *fiber.Ctx) error {
	var req thingRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "thingSearch")
	}

	ids, err := services.SearchThingIDs(h.DB, req.Term, services.ThingSearchLimit)
	if err != nil {
		slog.Error("thing search failed", "term", req.Term, "error", err)
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "thingSearch")
	}
	return c.JSON(fiber.Map{"thingIds": ids})
}

// Info handles GET /thing/info/:thingId
// @Summary Get thing info
// @Tags Thing
// @Produce json
// @Param thingId path string true "Thing id"
// @Success 200 {object} services.ThingInfoView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /thing/info/{thingId} [get]
func (h *ThingHandler) Info(c *fiber.Ctx) error {
	info, err := services.FindThingInfo(h.DB, c.Params("thingId"))
	if err != nil {
		return storeError(c, err, "Thing not found", "thingInfo")
	}
	return c.JSON(services.NewThingInfoView(info))
}

// Def handles GET /thing/sl/tdef/:thingId
// @Summary Get a thing definition
// @Tags Thing
// @Produce json
// @Param thingId path string true "Thing id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /thing/sl/tdef/{thingId} [get]
func (h *ThingHandler) Def(c *fiber.Ctx) error {
	def, err := services.FindThingDef(h.DB, c.Params("thingId"))
	if err != nil {
		return storeError(c, err, "Thing definition not found", "thingDef")
	}
	return c.JSON(def.Raw)
}

// Tags handles POST /thing/gettags
// @Summary Get the tags of a thing
// @Tags Thing
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param thingId formData string true "Thing id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /thing/gettags [post]
func (h *ThingHandler) Tags(c *fiber.Ctx) error {
	var req thingRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "thingTags")
	}

	tag, err := services.FindThingTag(h.DB, req.ThingID)
	if err != nil {
		return storeError(c, err, "Thing tags not found", "thingTags")
	}
	return c.JSON(tag.Tags)
}

// GetFlag handles POST /thing/getflag
// @Summary Get the flag state of a thing
// @Tags Thing
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /thing/getflag [post]
func (h *ThingHandler) GetFlag(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"isFlagged": false})
}
