package services

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"gorm.io/gorm"
)

const (
	// ServeTime is the constant latency placeholder carried by area responses
	ServeTime = 13
	// ReasonPrivate is the only reason ever given for a denied area
	ReasonPrivate = "Private"
	// DefaultEnvironmentChangers is sent when no source names environment changers
	DefaultEnvironmentChangers = `{"environmentChangers":[]}`
)

// Resolution outcomes, used as metric labels
const (
	OutcomeResolved   = "resolved"
	OutcomeUnresolved = "unresolved"
	OutcomeNoPayload  = "no_payload"
	OutcomeStored     = "stored_denial"
	OutcomeIncomplete = "incomplete"
)

// AreaDenial is returned for every area that cannot be served
type AreaDenial struct {
	OK           bool   `json:"ok"`
	ReasonDenied string `json:"_reasonDenied"`
	ServeTime    int    `json:"serveTime"`
}

// NewAreaDenial builds the uniform denial
func NewAreaDenial() AreaDenial {
	return AreaDenial{OK: false, ReasonDenied: ReasonPrivate, ServeTime: ServeTime}
}

// AreaLoadResponse is a successfully projected area. Field order is the wire order.
type AreaLoadResponse struct {
	OK                      bool            `json:"ok"`
	AreaID                  string          `json:"areaId"`
	AreaName                string          `json:"areaName"`
	AreaKey                 string          `json:"areaKey"`
	AreaCreatorID           string          `json:"areaCreatorId"`
	IsPrivate               bool            `json:"isPrivate"`
	IsZeroGravity           bool            `json:"isZeroGravity"`
	HasFloatingDust         bool            `json:"hasFloatingDust"`
	IsCopyable              bool            `json:"isCopyable"`
	OnlyOwnerSetsLocks      bool            `json:"onlyOwnerSetsLocks"`
	IsExcluded              bool            `json:"isExcluded"`
	EnvironmentChangersJSON string          `json:"environmentChangersJSON"`
	RequestorIsEditor       bool            `json:"requestorIsEditor"`
	RequestorIsListEditor   bool            `json:"requestorIsListEditor"`
	RequestorIsOwner        bool            `json:"requestorIsOwner"`
	Placements              json.RawMessage `json:"placements"`
	ServeTime               int             `json:"serveTime"`
}

// areaLoadPayload lists the keys of an archived load payload the projection reads.
// Everything else stays in the raw bytes.
type areaLoadPayload struct {
	OK                      *bool           `json:"ok"`
	AreaKey                 *string         `json:"areaKey"`
	AreaName                *string         `json:"areaName"`
	AreaCreatorID           *string         `json:"areaCreatorId"`
	IsPrivate               *bool           `json:"isPrivate"`
	IsZeroGravity           *bool           `json:"isZeroGravity"`
	HasFloatingDust         *bool           `json:"hasFloatingDust"`
	IsCopyable              *bool           `json:"isCopyable"`
	IsExcluded              *bool           `json:"isExcluded"`
	OnlyOwnerSetsLocks      *bool           `json:"onlyOwnerSetsLocks"`
	EnvironmentChangersJSON *string         `json:"environmentChangersJSON"`
	Placements              json.RawMessage `json:"placements"`
}

// areaFields is one precedence tier. A nil field means the tier has no opinion.
type areaFields struct {
	Name                    *string
	CreatorID               *string
	IsPrivate               *bool
	IsZeroGravity           *bool
	HasFloatingDust         *bool
	IsCopyable              *bool
	IsExcluded              *bool
	OnlyOwnerSetsLocks      *bool
	EnvironmentChangersJSON *string
}

// AreaSources are the optional records feeding one projection
type AreaSources struct {
	Info *models.AreaInfoMetadata
	Meta *models.AreaMetadata
	Load *models.AreaLoadData
}

// areaTiers returns the precedence tiers, strongest first:
// AreaInfoMetadata, AreaMetadata, the raw payload, then defaults.
func areaTiers(src AreaSources, payload *areaLoadPayload) []areaFields {
	tiers := make([]areaFields, 0, 4)

	if info := src.Info; info != nil {
		tiers = append(tiers, areaFields{
			Name:            nonEmpty(info.Name),
			CreatorID:       nonEmptyPtr(info.CreatorID),
			IsZeroGravity:   info.IsZeroGravity,
			HasFloatingDust: info.HasFloatingDust,
			IsCopyable:      info.IsCopyable,
			IsExcluded:      info.IsExcluded,
		})
	}

	if meta := src.Meta; meta != nil {
		isPrivate := meta.IsPrivate
		tiers = append(tiers, areaFields{
			Name:      nonEmpty(meta.Name),
			CreatorID: nonEmptyPtr(meta.CreatorID),
			IsPrivate: &isPrivate,
		})
	}

	if payload != nil {
		tiers = append(tiers, areaFields{
			Name:                    payload.AreaName,
			CreatorID:               payload.AreaCreatorID,
			IsPrivate:               payload.IsPrivate,
			IsZeroGravity:           payload.IsZeroGravity,
			HasFloatingDust:         payload.HasFloatingDust,
			IsCopyable:              payload.IsCopyable,
			IsExcluded:              payload.IsExcluded,
			OnlyOwnerSetsLocks:      payload.OnlyOwnerSetsLocks,
			EnvironmentChangersJSON: nonEmptyPtr(payload.EnvironmentChangersJSON),
		})
	}

	no, empty, changers := false, "", DefaultEnvironmentChangers
	return append(tiers, areaFields{
		Name:                    &empty,
		CreatorID:               &empty,
		IsPrivate:               &no,
		IsZeroGravity:           &no,
		HasFloatingDust:         &no,
		IsCopyable:              &no,
		IsExcluded:              &no,
		OnlyOwnerSetsLocks:      &no,
		EnvironmentChangersJSON: &changers,
	})
}

// mergeAreaFields takes each field from the first tier that sets it
func mergeAreaFields(tiers []areaFields) areaFields {
	var out areaFields
	for _, t := range tiers {
		fill(&out.Name, t.Name)
		fill(&out.CreatorID, t.CreatorID)
		fill(&out.IsPrivate, t.IsPrivate)
		fill(&out.IsZeroGravity, t.IsZeroGravity)
		fill(&out.HasFloatingDust, t.HasFloatingDust)
		fill(&out.IsCopyable, t.IsCopyable)
		fill(&out.IsExcluded, t.IsExcluded)
		fill(&out.OnlyOwnerSetsLocks, t.OnlyOwnerSetsLocks)
		fill(&out.EnvironmentChangersJSON, t.EnvironmentChangersJSON)
	}
	return out
}

// ProjectArea builds the client response for areaID from its source records.
// The result is an AreaLoadResponse, an AreaDenial, or the stored denial bytes.
func ProjectArea(areaID string, src AreaSources) (interface{}, string) {
	if src.Load == nil || src.Load.Raw.IsEmpty() {
		return NewAreaDenial(), OutcomeNoPayload
	}

	var payload areaLoadPayload
	if err := json.Unmarshal(src.Load.Raw.JSON, &payload); err != nil {
		slog.Warn("unreadable area load payload", "areaId", areaID, "error", err)
		return NewAreaDenial(), OutcomeIncomplete
	}
	if payload.OK != nil && !*payload.OK {
		return src.Load.Raw.RawMessage(), OutcomeStored
	}
	if payload.AreaKey == nil || *payload.AreaKey == "" {
		return NewAreaDenial(), OutcomeIncomplete
	}

	f := mergeAreaFields(areaTiers(src, &payload))

	placements := payload.Placements
	if len(placements) == 0 || string(placements) == "null" {
		placements = json.RawMessage("[]")
	}

	return AreaLoadResponse{
		OK:                      true,
		AreaID:                  areaID,
		AreaName:                *f.Name,
		AreaKey:                 *payload.AreaKey,
		AreaCreatorID:           *f.CreatorID,
		IsPrivate:               *f.IsPrivate,
		IsZeroGravity:           *f.IsZeroGravity,
		HasFloatingDust:         *f.HasFloatingDust,
		IsCopyable:              *f.IsCopyable,
		OnlyOwnerSetsLocks:      *f.OnlyOwnerSetsLocks,
		IsExcluded:              *f.IsExcluded,
		EnvironmentChangersJSON: *f.EnvironmentChangersJSON,
		Placements:              placements,
		ServeTime:               ServeTime,
	}, OutcomeResolved
}

// ResolveArea answers an area load request given an id or a typed area name.
// Every failure collapses into the same denial.
func ResolveArea(db *gorm.DB, areaID, areaURLName string) (interface{}, string) {
	if areaID == "" {
		if areaURLName == "" {
			return NewAreaDenial(), OutcomeUnresolved
		}
		id, err := FindAreaIDBySlug(db, areaURLName)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				slog.Error("area slug lookup failed", "areaUrlName", areaURLName, "error", err)
			}
			return NewAreaDenial(), OutcomeUnresolved
		}
		areaID = id
	}

	var src AreaSources
	var err error
	if src.Load, err = FindAreaLoad(db, areaID); err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("area load lookup failed", "areaId", areaID, "error", err)
		}
		return NewAreaDenial(), OutcomeNoPayload
	}
	if src.Info, err = FindAreaInfo(db, areaID); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Error("area info lookup failed", "areaId", areaID, "error", err)
	}
	if src.Meta, err = FindAreaMetadata(db, areaID); err != nil && !errors.Is(err, ErrNotFound) {
		slog.Error("area metadata lookup failed", "areaId", areaID, "error", err)
	}

	return ProjectArea(areaID, src)
}

func fill[T any](dst **T, src *T) {
	if *dst == nil {
		*dst = src
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonEmptyPtr(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
