package handlers

import (
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/internal/reqlog"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// Server names used to group recorded requests
const (
	ServerAPI         = "api"
	ServerThingDefs   = "thingdefs"
	ServerAreaBundles = "areabundles"
	ServerUGCImages   = "ugcimages"
)

// UnimplementedHandler records requests no route answers, so they can be
// implemented later
type UnimplementedHandler struct {
	Log    *reqlog.Logger
	Server string
}

// Record writes the request behind c to the request log. Failures are logged
// and otherwise ignored.
func (h *UnimplementedHandler) Record(c *fiber.Ctx) {
	if h == nil || h.Log == nil {
		return
	}
	entry := reqlog.FromFiber(c, h.Server)
	path, err := h.Log.Log(entry)
	if err != nil {
		slog.Error("failed to record unimplemented request", "server", h.Server, "url", entry.URL, "error", err)
		return
	}
	slog.Info("unimplemented request", "server", h.Server, "method", entry.Method, "url", entry.URL, "file", path)
}

// NotFound is the catch-all route
// @Summary Unimplemented route
// @Description Records the request and answers 404
// @Tags Ops
// @Produce json
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /{path} [get]
func (h *UnimplementedHandler) NotFound(c *fiber.Ctx) error {
	h.Record(c)
	return utils.NotFoundResponse(c, "Not found")
}

// NotFoundHTML is the catch-all for the image CDN
func (h *UnimplementedHandler) NotFoundHTML(c *fiber.Ctx) error {
	h.Record(c)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusNotFound).SendString(utils.NotFoundHTML)
}
