package services

import (
	"fmt"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ThingSearchLimit caps the number of things returned by a name search
const ThingSearchLimit = 50

// ThingInfoView is the thing info wire shape
type ThingInfoView struct {
	Name                      string  `json:"name"`
	CreatorID                 string  `json:"creatorId"`
	CreatorName               *string `json:"creatorName"`
	CreatedDaysAgo            int     `json:"createdDaysAgo"`
	CollectedCount            int     `json:"collectedCount"`
	PlacedCount               int     `json:"placedCount"`
	ClonedFromID              *string `json:"clonedFromId,omitempty"`
	AllCreatorsThingsClonable bool    `json:"allCreatorsThingsClonable"`
	IsUnlisted                bool    `json:"isUnlisted"`
}

// NewThingInfoView maps a stored thing info onto its wire shape
func NewThingInfoView(info *models.ThingInfo) ThingInfoView {
	return ThingInfoView{
		Name:                      info.Name,
		CreatorID:                 info.CreatorID,
		CreatorName:               info.CreatorName,
		CreatedDaysAgo:            info.CreatedDaysAgo,
		CollectedCount:            info.CollectedCount,
		PlacedCount:               info.PlacedCount,
		ClonedFromID:              info.ClonedFromID,
		AllCreatorsThingsClonable: info.AllCreatorsThingsClonable,
		IsUnlisted:                info.IsUnlisted,
	}
}

// SaveThingDef upserts a thing definition
func SaveThingDef(db *gorm.DB, def *models.ThingDef) error {
	if err := upsert(db, def); err != nil {
		return fmt.Errorf("failed to save thing def %s: %w", def.ID, err)
	}
	return nil
}

// SaveThingInfo upserts a thing catalogue entry
func SaveThingInfo(db *gorm.DB, info *models.ThingInfo) error {
	if err := upsert(db, info); err != nil {
		return fmt.Errorf("failed to save thing info %s: %w", info.ID, err)
	}
	return nil
}

// SaveThingTag upserts a thing's tag document
func SaveThingTag(db *gorm.DB, tag *models.ThingTag) error {
	if err := upsert(db, tag); err != nil {
		return fmt.Errorf("failed to save thing tags %s: %w", tag.ID, err)
	}
	return nil
}

// FindThingDef loads a thing definition by id
func FindThingDef(db *gorm.DB, id string) (*models.ThingDef, error) {
	return findOne[models.ThingDef](db, "id = ?", id)
}

// FindThingInfo loads a thing catalogue entry by id
func FindThingInfo(db *gorm.DB, id string) (*models.ThingInfo, error) {
	return findOne[models.ThingInfo](db, "id = ?", id)
}

// FindThingTag loads a thing's tag document by id
func FindThingTag(db *gorm.DB, id string) (*models.ThingTag, error) {
	return findOne[models.ThingTag](db, "id = ?", id)
}

// SearchThingIDs finds listed things whose name contains term, most collected first
func SearchThingIDs(db *gorm.DB, term string, limit int) ([]string, error) {
	ids := []string{}
	err := quiet(db).Model(&models.ThingInfo{}).
		Clauses(hints.Comment("select", "thing_search")).
		Where("name LIKE ?", "%"+term+"%").
		Where("is_unlisted = ? OR is_unlisted IS NULL", false).
		Order("collected_count DESC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// DeleteThing removes the definition, info and tags of a thing
func DeleteThing(db *gorm.DB, id string) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.ThingDef{}, &models.ThingInfo{}, &models.ThingTag{}} {
			res := tx.Where("id = ?", id).Delete(model)
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete thing %s: %w", id, err)
	}
	if affected == 0 {
		return 0, ErrNotFound
	}
	return affected, nil
}
