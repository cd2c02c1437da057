package handlers

import (
	"errors"
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles session start and the protocol probe
type AuthHandler struct {
	DB         *gorm.DB
	CookieName string
}

type authRequest struct {
	AST string `json:"ast" form:"ast"`
}

// Start handles POST /auth/start
// @Summary Start a session
// @Description Log in with "username|password", creating the account on first use. Sets the session cookie.
// @Tags Auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param ast formData string true "username|password"
// @Success 200 {object} services.AuthProfile
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /auth/start [post]
func (h *AuthHandler) Start(c *fiber.Ctx) error {
	var req authRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "auth")
	}

	username, password, err := services.SplitAuthToken(req.AST)
	if err != nil {
		return utils.ErrorResponse(c, "Invalid auth token", fiber.StatusBadRequest, "auth")
	}

	user, token, err := services.StartSession(h.DB, username, password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			slog.Warn("password mismatch", "username", username)
		} else {
			slog.Error("failed to start session", "username", username, "error", err)
		}
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "auth")
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
	})
	return c.JSON(services.NewAuthProfile(user))
}

// Probe handles POST /p
// @Summary Protocol version probe
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]int
// @Router /p [post]
func (h *AuthHandler) Probe(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"vMaj": services.ProtocolMajor, "vMinSrv": services.ProtocolMinorServer})
}
