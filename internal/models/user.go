package models

import (
	"time"

	"gorm.io/datatypes"
)

// UserAccount is a login account created on first authentication.
// The preference bundle mirrors the profile the client expects after auth.
type UserAccount struct {
	ID                         string                   `gorm:"primaryKey;size:24"`
	Username                   string                   `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash               string                   `gorm:"size:255;not null"`
	PersonID                   *string                  `gorm:"size:64;index"`
	StatusText                 string                   `gorm:"type:text"`
	IsFindable                 bool                     `gorm:"not null"`
	Age                        int                      `gorm:"not null;default:2226"`
	AgeSecs                    int64                    `gorm:"not null;default:192371963"`
	IsSoftBanned               bool                     `gorm:"not null;default:false"`
	ShowFlagWarning            bool                     `gorm:"not null;default:false"`
	AreaCount                  int                      `gorm:"not null;default:1"`
	ThingTagCount              int                      `gorm:"not null;default:1"`
	AllThingsClonable          bool                     `gorm:"not null"`
	HasEditTools               bool                     `gorm:"not null"`
	HasEditToolsPermanently    bool                     `gorm:"not null"`
	EditToolsExpiryDate        string                   `gorm:"size:64;not null"`
	IsInEditToolsTrial         bool                     `gorm:"not null;default:false"`
	WasEditToolsTrialActivated bool                     `gorm:"not null;default:false"`
	CustomSearchWords          string                   `gorm:"type:text"`
	Attachments                string                   `gorm:"type:text"`
	Achievements               datatypes.JSONSlice[int] `gorm:"type:json"`
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// Session is an opaque session token bound to a user account
type Session struct {
	Token     string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"size:24;not null;index"`
	CreatedAt time.Time
}

// TableName overrides the table name for UserAccount
func (UserAccount) TableName() string {
	return "user_metadata"
}

// TableName overrides the table name for Session
func (Session) TableName() string {
	return "user_sessions"
}
