package models

// PlacementMetadata describes who placed a thing in an area
type PlacementMetadata struct {
	AreaID        string  `gorm:"primaryKey;size:64;index"`
	PlacementID   string  `gorm:"primaryKey;size:64"`
	PlacerID      string  `gorm:"size:64;not null;index"`
	PlacerName    *string `gorm:"size:255"`
	PlacedDaysAgo int     `gorm:"not null"`
	CopiedVia     *string `gorm:"size:64"`
}

// TableName overrides the table name for PlacementMetadata
func (PlacementMetadata) TableName() string {
	return "placement_metadata"
}

// All returns every model managed by the store, in migration order
func All() []interface{} {
	return []interface{}{
		&AreaMetadata{},
		&AreaInfoMetadata{},
		&AreaLoadData{},
		&AreaSubareas{},
		&PersonMetadata{},
		&PersonGift{},
		&PersonArea{},
		&PersonTopBy{},
		&PersonFriend{},
		&UserAccount{},
		&Session{},
		&Forum{},
		&ForumThread{},
		&ForumComment{},
		&ForumCommentLike{},
		&ThingDef{},
		&ThingInfo{},
		&ThingTag{},
		&PlacementMetadata{},
	}
}
