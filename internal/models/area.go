package models

import (
	"time"

	"gorm.io/datatypes"
)

// Editor is one entry of an area's editor list
type Editor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsOwner bool   `json:"isOwner"`
}

// AreaMetadata is the searchable, slug-indexed summary of an area
type AreaMetadata struct {
	ID          string  `gorm:"primaryKey;size:64"`
	Name        string  `gorm:"size:255;not null;index"`
	Description string  `gorm:"type:text"`
	URLName     string  `gorm:"column:url_name;size:255;uniqueIndex"`
	CreatorID   *string `gorm:"size:64;index"`
	IsPrivate   bool    `gorm:"not null;default:false"`
	PlayerCount int     `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AreaInfoMetadata is the richer per-area record imported from area/info archives.
// Environment flags are nullable so an archive that omits them does not mask
// the value carried by the load payload.
type AreaInfoMetadata struct {
	ID              string                      `gorm:"primaryKey;size:64"`
	Name            string                      `gorm:"size:255;not null"`
	Description     string                      `gorm:"type:text"`
	Slug            string                      `gorm:"size:255;uniqueIndex"`
	CreatorID       *string                     `gorm:"size:64;index"`
	Editors         datatypes.JSONSlice[Editor] `gorm:"type:json"`
	ListEditors     datatypes.JSONSlice[Editor] `gorm:"type:json"`
	CopiedFromAreas JSON
	CreationDate    *string `gorm:"size:64"`
	TotalVisitors   int     `gorm:"not null;default:0"`
	IsZeroGravity   *bool
	HasFloatingDust *bool
	IsCopyable      *bool
	IsExcluded      *bool
	RenameCount     int  `gorm:"not null;default:0"`
	CopiedCount     int  `gorm:"not null;default:0"`
	IsFavorited     bool `gorm:"not null;default:false"`
	Raw             JSON
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AreaLoadData holds the archived "full area state" response for an area
type AreaLoadData struct {
	ID        string `gorm:"primaryKey;size:64"`
	AreaKey   string `gorm:"size:255"`
	Raw       JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AreaSubareas holds the archived sub-area list for an area
type AreaSubareas struct {
	AreaID    string `gorm:"primaryKey;size:64"`
	Raw       JSON
	UpdatedAt time.Time
}

// TableName overrides the table name for AreaMetadata
func (AreaMetadata) TableName() string {
	return "area_metadata"
}

// TableName overrides the table name for AreaInfoMetadata
func (AreaInfoMetadata) TableName() string {
	return "area_info_metadata"
}

// TableName overrides the table name for AreaLoadData
func (AreaLoadData) TableName() string {
	return "area_load_data"
}

// TableName overrides the table name for AreaSubareas
func (AreaSubareas) TableName() string {
	return "area_subareas"
}
