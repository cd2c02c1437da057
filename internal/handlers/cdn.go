package handlers

import (
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/internal/blobstore"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"lukechampine.com/blake3"
)

// CDNHandler serves the content servers: area bundles, thing definitions and
// user generated images
type CDNHandler struct {
	DB          *gorm.DB
	AreaBundles blobstore.Store
	Images      blobstore.Store
}

// blobETag is a strong ETag over the blob content
func blobETag(body []byte) string {
	sum := blake3.Sum256(body)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

// AreaBundle handles GET /:areaId/:areaKey on the area bundle server
// @Summary Get an area bundle
// @Tags CDN
// @Produce json
// @Param areaId path string true "Area id"
// @Param areaKey path string true "Area key"
// @Success 200 {object} map[string]interface{}
// @Success 304
// @Failure 404 {string} string "Area bundle not found"
// @Failure 500 {string} string "Error reading area bundle"
// @Router /{areaId}/{areaKey} [get]
func (h *CDNHandler) AreaBundle(c *fiber.Ctx) error {
	areaID, areaKey := c.Params("areaId"), c.Params("areaKey")
	body, err := h.AreaBundles.Get(c.UserContext(), "area/bundle/"+areaID+"/"+areaKey+".json")
	if err != nil {
		if errors.Is(err, blobstore.ErrBlobNotFound) || errors.Is(err, blobstore.ErrInvalidKey) {
			return utils.PlainErrorResponse(c, "Area bundle not found", fiber.StatusNotFound)
		}
		slog.Error("failed to read area bundle", "store", h.AreaBundles.Name(), "areaId", areaID, "areaKey", areaKey, "error", err)
		return utils.PlainErrorResponse(c, "Error reading area bundle", fiber.StatusInternalServerError)
	}

	etag := blobETag(body)
	c.Set(fiber.HeaderETag, etag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// ThingDef handles GET /:thingId on the thing definition server
// @Summary Get a thing definition
// @Description Missing definitions are answered with an empty string
// @Tags CDN
// @Produce json
// @Param thingId path string true "Thing id"
// @Success 200 {object} map[string]interface{}
// @Router /{thingId} [get]
func (h *CDNHandler) ThingDef(c *fiber.Ctx) error {
	thingID := c.Params("thingId")
	def, err := services.FindThingDef(h.DB, thingID)
	if err != nil || def.Raw.IsEmpty() {
		if err != nil && !errors.Is(err, services.ErrNotFound) {
			slog.Error("thing def lookup failed", "thingId", thingID, "error", err)
		}
		return c.SendString("")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(def.Raw.RawMessage())
}

// Image handles GET /ugc/:part1/:part2/ on the image server
// @Summary Get a user generated image
// @Tags CDN
// @Produce png
// @Param part1 path string true "First id part"
// @Param part2 path string true "Second id part"
// @Success 200 {file} binary
// @Failure 404 {string} string "Not Found"
// @Router /ugc/{part1}/{part2}/ [get]
func (h *CDNHandler) Image(c *fiber.Ctx) error {
	key := c.Params("part1") + "_" + c.Params("part2") + ".png"
	body, err := h.Images.Get(c.UserContext(), key)
	if err != nil {
		if !errors.Is(err, blobstore.ErrBlobNotFound) && !errors.Is(err, blobstore.ErrInvalidKey) {
			slog.Error("failed to read image", "store", h.Images.Name(), "key", key, "error", err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Status(fiber.StatusNotFound).SendString(utils.NotFoundHTML)
	}

	c.Set(fiber.HeaderETag, blobETag(body))
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(body)
}
