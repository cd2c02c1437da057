// common.go
//
// A compatibility server for the Anyland game client
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of libreland-server.
// libreland-server is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// libreland-server is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with libreland-server.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// parseBody decodes a request body sent either as JSON or as a form.
// An empty body leaves out untouched.
func parseBody(c *fiber.Ctx, out interface{}) error {
	body := bytes.TrimSpace(c.Body())
	if len(body) == 0 {
		return nil
	}

	contentType := strings.ToLower(string(c.Request().Header.ContentType()))
	if contentType == "" {
		if body[0] == '{' {
			return json.Unmarshal(body, out)
		}
		c.Request().Header.SetContentType(fiber.MIMEApplicationForm)
	}
	return c.BodyParser(out)
}

// badRequest answers a body that could not be decoded
func badRequest(c *fiber.Ctx, err error, errorType string) error {
	slog.Warn("unreadable request body", "url", c.OriginalURL(), "error", err)
	return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, errorType)
}

// storeError maps a store error onto a 404 or a 500
func storeError(c *fiber.Ctx, err error, notFound, errorType string) error {
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, notFound)
	}
	slog.Error("store lookup failed", "type", errorType, "url", c.OriginalURL(), "error", err)
	return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, errorType)
}
