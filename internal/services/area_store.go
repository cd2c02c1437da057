package services

import (
	"fmt"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// AreaSearchLimit caps the number of areas returned by a name search
const AreaSearchLimit = 50

// AreaIndexEntry is one row of an area search result
type AreaIndexEntry struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PlayerCount int    `json:"playerCount"`
}

// AreaSearchResult is the response of an area search
type AreaSearchResult struct {
	Areas           []AreaIndexEntry `json:"areas"`
	OwnPrivateAreas []AreaIndexEntry `json:"ownPrivateAreas"`
}

// SaveAreaMetadata upserts an area summary, assigning it a unique url name
func SaveAreaMetadata(db *gorm.DB, meta *models.AreaMetadata) error {
	slug, err := assignSlug(db, areaMetaSlugs, meta.ID, meta.Name)
	if err != nil {
		return err
	}
	meta.URLName = slug
	meta.PlayerCount = 0
	if err := upsert(db, meta); err != nil {
		return fmt.Errorf("failed to save area metadata %s: %w", meta.ID, err)
	}
	return nil
}

// SaveAreaInfo upserts an area info record, assigning it a unique slug
func SaveAreaInfo(db *gorm.DB, info *models.AreaInfoMetadata) error {
	slug, err := assignSlug(db, areaInfoSlugs, info.ID, info.Name)
	if err != nil {
		return err
	}
	info.Slug = slug
	if err := upsert(db, info); err != nil {
		return fmt.Errorf("failed to save area info %s: %w", info.ID, err)
	}
	return nil
}

// SaveAreaLoad upserts an archived load payload
func SaveAreaLoad(db *gorm.DB, load *models.AreaLoadData) error {
	if err := upsert(db, load); err != nil {
		return fmt.Errorf("failed to save area load %s: %w", load.ID, err)
	}
	return nil
}

// SaveAreaSubareas upserts an archived sub-area list
func SaveAreaSubareas(db *gorm.DB, sub *models.AreaSubareas) error {
	if err := upsert(db, sub); err != nil {
		return fmt.Errorf("failed to save subareas %s: %w", sub.AreaID, err)
	}
	return nil
}

// FindAreaMetadata loads an area summary by id
func FindAreaMetadata(db *gorm.DB, id string) (*models.AreaMetadata, error) {
	return findOne[models.AreaMetadata](db, "id = ?", id)
}

// FindAreaInfo loads an area info record by id
func FindAreaInfo(db *gorm.DB, id string) (*models.AreaInfoMetadata, error) {
	return findOne[models.AreaInfoMetadata](db, "id = ?", id)
}

// FindAreaLoad loads an archived load payload by area id
func FindAreaLoad(db *gorm.DB, id string) (*models.AreaLoadData, error) {
	return findOne[models.AreaLoadData](db, "id = ?", id)
}

// FindAreaSubareas loads an archived sub-area list by area id
func FindAreaSubareas(db *gorm.DB, id string) (*models.AreaSubareas, error) {
	return findOne[models.AreaSubareas](db, "area_id = ?", id)
}

// SearchAreas finds public areas whose name contains term, busiest first
func SearchAreas(db *gorm.DB, term string, limit int) (AreaSearchResult, error) {
	var rows []models.AreaMetadata
	err := quiet(db).Clauses(hints.Comment("select", "area_search")).
		Where("name LIKE ?", "%"+term+"%").
		Where("is_private = ? OR is_private IS NULL", false).
		Order("player_count DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return AreaSearchResult{}, err
	}

	result := AreaSearchResult{
		Areas:           make([]AreaIndexEntry, 0, len(rows)),
		OwnPrivateAreas: []AreaIndexEntry{},
	}
	for _, row := range rows {
		result.Areas = append(result.Areas, AreaIndexEntry{
			ID:          row.ID,
			Name:        row.Name,
			Description: row.Description,
			PlayerCount: row.PlayerCount,
		})
	}
	return result, nil
}

// SearchAreasByCreator lists the areas of a creator, split into public and private.
// creatorID may be a user account id (resolved to its person) or a person id.
// An unknown creator yields two empty lists.
func SearchAreasByCreator(db *gorm.DB, creatorID string) (AreaSearchResult, error) {
	result := AreaSearchResult{
		Areas:           []AreaIndexEntry{},
		OwnPrivateAreas: []AreaIndexEntry{},
	}

	searchID := ""
	if user, err := FindUserByID(db, creatorID); err == nil && user.PersonID != nil {
		searchID = *user.PersonID
	} else if _, err := FindPerson(db, creatorID); err == nil {
		searchID = creatorID
	}
	if searchID == "" {
		return result, nil
	}

	rows, err := FindPersonAreas(db, searchID)
	if err != nil {
		return result, err
	}
	for _, row := range rows {
		entry := AreaIndexEntry{ID: row.AreaID, Name: row.AreaName, PlayerCount: row.PlayerCount}
		if row.IsPrivate {
			result.OwnPrivateAreas = append(result.OwnPrivateAreas, entry)
		} else {
			result.Areas = append(result.Areas, entry)
		}
	}
	return result, nil
}

// DeleteArea removes every record held for an area
func DeleteArea(db *gorm.DB, id string) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, del := range []struct {
			model  interface{}
			column string
		}{
			{&models.AreaMetadata{}, "id"},
			{&models.AreaInfoMetadata{}, "id"},
			{&models.AreaLoadData{}, "id"},
			{&models.AreaSubareas{}, "area_id"},
			{&models.PlacementMetadata{}, "area_id"},
			{&models.PersonArea{}, "area_id"},
		} {
			res := tx.Where(del.column+" = ?", id).Delete(del.model)
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete area %s: %w", id, err)
	}
	if affected == 0 {
		return 0, ErrNotFound
	}
	return affected, nil
}
