package services

import (
	"fmt"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"gorm.io/gorm"
)

// PlacementInfoView is the placement info wire shape
type PlacementInfoView struct {
	PlacerID      string  `json:"placerId"`
	PlacerName    *string `json:"placerName"`
	PlacedDaysAgo int     `json:"placedDaysAgo"`
	CopiedVia     *string `json:"copiedVia,omitempty"`
}

// AdminPlacementView is a placement listed for administration
type AdminPlacementView struct {
	PlacementID string `json:"placementId"`
	PlacementInfoView
}

// NewPlacementInfoView maps a stored placement onto its wire shape
func NewPlacementInfoView(p *models.PlacementMetadata) PlacementInfoView {
	return PlacementInfoView{
		PlacerID:      p.PlacerID,
		PlacerName:    p.PlacerName,
		PlacedDaysAgo: p.PlacedDaysAgo,
		CopiedVia:     p.CopiedVia,
	}
}

// SavePlacement upserts placement metadata
func SavePlacement(db *gorm.DB, p *models.PlacementMetadata) error {
	if err := upsert(db, p); err != nil {
		return fmt.Errorf("failed to save placement %s/%s: %w", p.AreaID, p.PlacementID, err)
	}
	return nil
}

// FindPlacement loads one placement of an area
func FindPlacement(db *gorm.DB, areaID, placementID string) (*models.PlacementMetadata, error) {
	return findOne[models.PlacementMetadata](db, "area_id = ? AND placement_id = ?", areaID, placementID)
}

// FindAreaPlacements lists the placements of an area
func FindAreaPlacements(db *gorm.DB, areaID string) ([]AdminPlacementView, error) {
	var rows []models.PlacementMetadata
	if err := quiet(db).Where("area_id = ?", areaID).Order("placement_id").Find(&rows).Error; err != nil {
		return nil, err
	}
	views := make([]AdminPlacementView, 0, len(rows))
	for i := range rows {
		views = append(views, AdminPlacementView{
			PlacementID:       rows[i].PlacementID,
			PlacementInfoView: NewPlacementInfoView(&rows[i]),
		})
	}
	return views, nil
}

// DeletePlacement removes one placement of an area
func DeletePlacement(db *gorm.DB, areaID, placementID string) (int64, error) {
	res := db.Where("area_id = ? AND placement_id = ?", areaID, placementID).Delete(&models.PlacementMetadata{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete placement %s/%s: %w", areaID, placementID, res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, ErrNotFound
	}
	return res.RowsAffected, nil
}
