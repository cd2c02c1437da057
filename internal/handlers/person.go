package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/internal/cache"
	"github.com/LibrelandCommunity/libreland-server/internal/middleware"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PersonHandler handles person routes
type PersonHandler struct {
	DB    *gorm.DB
	Holds *cache.HoldGeometry
}

type personRequest struct {
	AreaID string `json:"areaId" form:"areaId"`
	UserID string `json:"userId" form:"userId"`
}

type friendRequest struct {
	ID string `json:"id" form:"id"`
}

type holdRequest struct {
	ThingID  string          `json:"thingId" form:"thingId"`
	Geometry json.RawMessage `json:"geometry" form:"-"`
}

// personInfoView is a known person together with the relationship flags
type personInfoView struct {
	ID             string  `json:"id"`
	ScreenName     string  `json:"screenName"`
	Age            *int    `json:"age"`
	StatusText     *string `json:"statusText"`
	IsFindable     *bool   `json:"isFindable"`
	IsBanned       *bool   `json:"isBanned"`
	LastActivityOn *string `json:"lastActivityOn"`
	services.PersonFlags
}

// Info handles POST /person/info
// @Summary Get person info
// @Description A known person with relationship flags for the area, or the flags alone
// @Tags Person
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param areaId formData string false "Area the requester is in"
// @Param userId formData string true "Person id"
// @Success 200 {object} services.PersonFlags
// @Router /person/info [post]
func (h *PersonHandler) Info(c *fiber.Ctx) error {
	var req personRequest
	if err := parseBody(c, &req); err != nil {
		slog.Warn("unreadable person info body", "error", err)
	}

	flags := services.DerivePersonFlags(h.DB, middleware.SessionToken(c), req.AreaID, req.UserID)

	person, err := services.FindPerson(h.DB, req.UserID)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			slog.Error("person lookup failed", "userId", req.UserID, "error", err)
		}
		return c.JSON(flags)
	}

	if !person.Raw.IsEmpty() {
		doc, err := withPersonFlags(person.Raw.RawMessage(), flags)
		if err == nil {
			return c.JSON(doc)
		}
		slog.Warn("stored person info unreadable, rebuilding", "userId", person.ID, "error", err)
	}

	return c.JSON(personInfoView{
		ID:             person.ID,
		ScreenName:     person.ScreenName,
		Age:            person.Age,
		StatusText:     person.StatusText,
		IsFindable:     person.IsFindable,
		IsBanned:       person.IsBanned,
		LastActivityOn: person.LastActivityOn,
		PersonFlags:    flags,
	})
}

// withPersonFlags overlays the derived flags on an archived person document,
// keeping every other key as stored
func withPersonFlags(raw json.RawMessage, flags services.PersonFlags) (map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(flags)
	if err != nil {
		return nil, err
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &overlay); err != nil {
		return nil, err
	}
	for key, value := range overlay {
		doc[key] = value
	}
	return doc, nil
}

// InfoBasic handles POST /person/infobasic
// @Summary Get basic person info
// @Tags Person
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param areaId formData string true "Area id"
// @Param userId formData string true "Person id"
// @Success 200 {object} map[string]bool
// @Router /person/infobasic [post]
func (h *PersonHandler) InfoBasic(c *fiber.Ctx) error {
	var req personRequest
	if err := parseBody(c, &req); err != nil {
		slog.Warn("unreadable person infobasic body", "error", err)
	}

	isEditor, _ := services.EditorStatus(h.DB, req.AreaID, req.UserID)
	return c.JSON(fiber.Map{"isEditorHere": isEditor})
}

// FriendsByStrength handles GET /person/friendsbystr
// @Summary List friends by strength
// @Description Friends of the session holder, strongest first
// @Tags Person
// @Produce json
// @Success 200 {object} services.FriendsByStrength
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /person/friendsbystr [get]
func (h *PersonHandler) FriendsByStrength(c *fiber.Ctx) error {
	friends, err := services.ListFriendsByStrength(h.DB, middleware.SessionToken(c))
	if err != nil {
		return h.friendError(c, err, "friendsByStrength")
	}
	return c.JSON(friends)
}

// AddFriend handles POST /person/addfriend
// @Summary Add a friend
// @Tags Person
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id formData string true "Person id of the friend"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /person/addfriend [post]
func (h *PersonHandler) AddFriend(c *fiber.Ctx) error {
	return h.changeFriend(c, true)
}

// RemoveFriend handles POST /person/removefriend
// @Summary Remove a friend
// @Tags Person
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param id formData string true "Person id of the friend"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /person/removefriend [post]
func (h *PersonHandler) RemoveFriend(c *fiber.Ctx) error {
	return h.changeFriend(c, false)
}

func (h *PersonHandler) changeFriend(c *fiber.Ctx, add bool) error {
	var req friendRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "friend")
	}
	if req.ID == "" {
		return utils.ErrorResponse(c, "Friend id is required", fiber.StatusBadRequest, "friend")
	}

	if err := services.ChangeFriend(h.DB, middleware.SessionToken(c), req.ID, add); err != nil {
		return h.friendError(c, err, "friend")
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *PersonHandler) friendError(c *fiber.Ctx, err error, errorType string) error {
	switch {
	case errors.Is(err, services.ErrNoSession):
		return utils.ErrorResponse(c, "Invalid session", fiber.StatusUnauthorized, errorType)
	case errors.Is(err, services.ErrNoLinkedPerson):
		return utils.NotFoundResponse(c, "No person linked to this account")
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, "Person not found")
	}
	slog.Error("friend operation failed", "type", errorType, "error", err)
	return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, errorType)
}

// GetHoldGeometry handles POST /person/getholdgeometry
// @Summary Get the hold geometry of a thing
// @Tags Person
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param thingId formData string true "Thing id"
// @Success 200 {object} map[string]interface{}
// @Router /person/getholdgeometry [post]
func (h *PersonHandler) GetHoldGeometry(c *fiber.Ctx) error {
	var req holdRequest
	if err := parseBody(c, &req); err != nil {
		slog.Warn("unreadable hold geometry body", "error", err)
	}

	if geometry, ok := h.Holds.Get(req.ThingID); ok {
		return c.JSON(geometry)
	}
	return c.JSON(fiber.Map{})
}

// RegisterHold handles POST /person/registerhold
// @Summary Register the hold geometry of a thing
// @Tags Person
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param thingId formData string true "Thing id"
// @Param geometry formData string true "Hold geometry document"
// @Success 200 {object} map[string]bool
// @Router /person/registerhold [post]
func (h *PersonHandler) RegisterHold(c *fiber.Ctx) error {
	var req holdRequest
	if err := parseBody(c, &req); err != nil {
		slog.Warn("unreadable register hold body", "error", err)
	}
	if len(req.Geometry) == 0 {
		req.Geometry = formGeometry(c.FormValue("geometry"))
	}

	if req.ThingID != "" && len(req.Geometry) > 0 && string(req.Geometry) != "null" {
		h.Holds.Put(req.ThingID, req.Geometry)
	}
	return c.JSON(fiber.Map{"ok": true})
}

// formGeometry reads a form encoded geometry, keeping it as a string when it is not JSON
func formGeometry(value string) json.RawMessage {
	if value == "" {
		return nil
	}
	if json.Valid([]byte(value)) {
		return json.RawMessage(value)
	}
	quoted, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return quoted
}

// GetFlag handles POST /person/getflag
// @Summary Get the flag state of a person
// @Tags Person
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /person/getflag [post]
func (h *PersonHandler) GetFlag(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"isFlagged": false})
}

// RegisterUsageMode handles GET /person/registerusagemode
// @Summary Register the client usage mode
// @Tags Person
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /person/registerusagemode [get]
func (h *PersonHandler) RegisterUsageMode(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

// Inventory handles GET /inventory/:page
// @Summary Get an inventory page
// @Tags Person
// @Produce json
// @Param page path string true "Page"
// @Success 200 {object} map[string]interface{}
// @Router /inventory/{page} [get]
func (h *PersonHandler) Inventory(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"inventoryItems": nil})
}
