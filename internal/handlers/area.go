package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/data"
	"github.com/LibrelandCommunity/libreland-server/internal/metrics"
	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/types"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Default list sizes for area/lists
const (
	DefaultAreaSubsetSize = 30
	DefaultAreaSetSize    = 300
)

// AreaHandler handles area routes
type AreaHandler struct {
	DB *gorm.DB
}

type areaRequest struct {
	AreaID      string `json:"areaId" form:"areaId"`
	AreaURLName string `json:"areaUrlName" form:"areaUrlName"`
}

type areaListsRequest struct {
	SubsetSize types.FlexInt `json:"subsetsize" form:"subsetsize"`
	SetSize    types.FlexInt `json:"setsize" form:"setsize"`
}

type areaSearchRequest struct {
	Term        string `json:"term" form:"term"`
	ByCreatorID string `json:"byCreatorId" form:"byCreatorId"`
}

// areaInfoView is rebuilt from stored columns when no archive document was kept
type areaInfoView struct {
	Editors         []models.Editor `json:"editors"`
	ListEditors     []models.Editor `json:"listEditors"`
	CopiedFromAreas json.RawMessage `json:"copiedFromAreas"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	CreationDate    *string         `json:"creationDate,omitempty"`
	TotalVisitors   int             `json:"totalVisitors"`
	IsZeroGravity   bool            `json:"isZeroGravity"`
	HasFloatingDust bool            `json:"hasFloatingDust"`
	IsCopyable      bool            `json:"isCopyable"`
	IsExcluded      bool            `json:"isExcluded"`
	RenameCount     int             `json:"renameCount"`
	CopiedCount     int             `json:"copiedCount"`
	IsFavorited     bool            `json:"isFavorited"`
}

// Load handles POST /area/load
// @Summary Load an area
// @Description Resolve an area by id or typed name and return its full state, or the uniform denial
// @Tags Area
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param areaId formData string false "Area id"
// @Param areaUrlName formData string false "Typed area name"
// @Success 200 {object} services.AreaLoadResponse
// @Router /area/load [post]
func (h *AreaHandler) Load(c *fiber.Ctx) error {
	var req areaRequest
	if err := parseBody(c, &req); err != nil {
		slog.Warn("unreadable area load body", "error", err)
	}

	result, outcome := services.ResolveArea(h.DB, req.AreaID, req.AreaURLName)
	metrics.AreaResolved(outcome)
	if outcome != services.OutcomeResolved {
		slog.Debug("area load denied", "areaId", req.AreaID, "areaUrlName", req.AreaURLName, "outcome", outcome)
	}
	return c.JSON(result)
}

// Info handles POST /area/info
// @Summary Get area info
// @Tags Area
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param areaId formData string true "Area id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /area/info [post]
func (h *AreaHandler) Info(c *fiber.Ctx) error {
	var req areaRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "areaInfo")
	}

	info, err := services.FindAreaInfo(h.DB, req.AreaID)
	if err != nil {
		return storeError(c, err, "Area info not found", "areaInfo")
	}
	if !info.Raw.IsEmpty() {
		return c.JSON(info.Raw.RawMessage())
	}

	view := areaInfoView{
		Editors:         append([]models.Editor{}, info.Editors...),
		ListEditors:     append([]models.Editor{}, info.ListEditors...),
		CopiedFromAreas: json.RawMessage("[]"),
		Name:            info.Name,
		Description:     info.Description,
		CreationDate:    info.CreationDate,
		TotalVisitors:   info.TotalVisitors,
		IsZeroGravity:   info.IsZeroGravity != nil && *info.IsZeroGravity,
		HasFloatingDust: info.HasFloatingDust != nil && *info.HasFloatingDust,
		IsCopyable:      info.IsCopyable != nil && *info.IsCopyable,
		IsExcluded:      info.IsExcluded != nil && *info.IsExcluded,
		RenameCount:     info.RenameCount,
		CopiedCount:     info.CopiedCount,
		IsFavorited:     info.IsFavorited,
	}
	if !info.CopiedFromAreas.IsEmpty() {
		view.CopiedFromAreas = info.CopiedFromAreas.RawMessage()
	}
	return c.JSON(view)
}

// GetSubareas handles POST /area/getsubareas
// @Summary Get the sub-areas of an area
// @Tags Area
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param areaId formData string true "Area id"
// @Success 200 {object} map[string]interface{}
// @Router /area/getsubareas [post]
func (h *AreaHandler) GetSubareas(c *fiber.Ctx) error {
	var req areaRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "getSubareas")
	}

	sub, err := services.FindAreaSubareas(h.DB, req.AreaID)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			slog.Error("subarea lookup failed", "areaId", req.AreaID, "error", err)
		}
		return c.JSON(fiber.Map{"subAreas": []interface{}{}})
	}
	return c.JSON(sub.Raw.RawMessage())
}

// Lists handles POST /area/lists
// @Summary Get the area lists
// @Description Canned area lists, with visited cut to subsetsize and popular cut to setsize
// @Tags Area
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param subsetsize formData int false "Visited list size" default(30)
// @Param setsize formData int false "Popular list size" default(300)
// @Success 200 {object} map[string]interface{}
// @Router /area/lists [post]
func (h *AreaHandler) Lists(c *fiber.Ctx) error {
	var req areaListsRequest
	if err := parseBody(c, &req); err != nil {
		slog.Warn("unreadable area lists body", "error", err)
	}

	lists, err := data.AreaLists(req.SubsetSize.IntOr(DefaultAreaSubsetSize), req.SetSize.IntOr(DefaultAreaSetSize))
	if err != nil {
		slog.Error("failed to build area lists", "error", err)
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "areaLists")
	}
	return c.JSON(lists)
}

// Search handles POST /area/search
// @Summary Search areas
// @Description Search public areas by name, or list the areas of a creator
// @Tags Area
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param term formData string false "Search term"
// @Param byCreatorId formData string false "User or person id of the creator"
// @Success 200 {object} services.AreaSearchResult
// @Router /area/search [post]
func (h *AreaHandler) Search(c *fiber.Ctx) error {
	var req areaSearchRequest
	if err := parseBody(c, &req); err != nil {
		return badRequest(c, err, "areaSearch")
	}

	var (
		result services.AreaSearchResult
		err    error
	)
	if req.ByCreatorID != "" {
		result, err = services.SearchAreasByCreator(h.DB, req.ByCreatorID)
	} else {
		result, err = services.SearchAreas(h.DB, req.Term, services.AreaSearchLimit)
	}
	if err != nil {
		slog.Error("area search failed", "term", req.Term, "byCreatorId", req.ByCreatorID, "error", err)
		return utils.ErrorResponse(c, "Internal server error", fiber.StatusInternalServerError, "areaSearch")
	}
	return c.JSON(result)
}
