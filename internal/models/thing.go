package models

// ThingDef is an opaque thing definition. Name and version are lifted from the
// document when present and are advisory only.
type ThingDef struct {
	ID      string  `gorm:"primaryKey;size:64"`
	Name    *string `gorm:"size:255;index"`
	Version *int
	Raw     JSON
}

// ThingInfo is the catalogue entry for a thing
type ThingInfo struct {
	ID                        string  `gorm:"primaryKey;size:64"`
	Name                      string  `gorm:"size:255;not null;index"`
	CreatorID                 string  `gorm:"size:64;not null;index"`
	CreatorName               *string `gorm:"size:255"`
	CreatedDaysAgo            int     `gorm:"not null"`
	CollectedCount            int     `gorm:"not null;default:0"`
	PlacedCount               int     `gorm:"not null;default:0"`
	ClonedFromID              *string `gorm:"size:64"`
	AllCreatorsThingsClonable bool    `gorm:"not null;default:false"`
	IsUnlisted                bool    `gorm:"not null;default:false"`
}

// ThingTag holds the raw tag document of a thing
type ThingTag struct {
	ID   string `gorm:"primaryKey;size:64"`
	Tags JSON
}

// TableName overrides the table name for ThingDef
func (ThingDef) TableName() string {
	return "thing_def"
}

// TableName overrides the table name for ThingInfo
func (ThingInfo) TableName() string {
	return "thing_info"
}

// TableName overrides the table name for ThingTag
func (ThingTag) TableName() string {
	return "thing_tag"
}
