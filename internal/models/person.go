package models

import "time"

// PersonMetadata is the social identity archived for a person
type PersonMetadata struct {
	ID             string  `gorm:"primaryKey;size:64"`
	ScreenName     string  `gorm:"size:255;not null;uniqueIndex"`
	Age            *int
	StatusText     *string `gorm:"type:text"`
	IsFindable     *bool
	IsBanned       *bool
	LastActivityOn *string `gorm:"size:64"`
	Raw            JSON
}

// PersonGift is a thing received as a gift, positioned in the receiver's home
type PersonGift struct {
	ID                string  `gorm:"primaryKey;size:64"`
	PersonID          string  `gorm:"size:64;not null;index"`
	ThingID           string  `gorm:"size:64;not null"`
	RotationX         float64 `gorm:"not null"`
	RotationY         float64 `gorm:"not null"`
	RotationZ         float64 `gorm:"not null"`
	PositionX         float64 `gorm:"not null"`
	PositionY         float64 `gorm:"not null"`
	PositionZ         float64 `gorm:"not null"`
	DateSent          string  `gorm:"size:64;not null"`
	SenderID          string  `gorm:"size:64;not null"`
	SenderName        string  `gorm:"size:255;not null"`
	WasSeenByReceiver bool    `gorm:"not null"`
	IsPrivate         bool    `gorm:"not null"`
}

// PersonArea joins a person to an area they created
type PersonArea struct {
	PersonID    string `gorm:"primaryKey;size:64;index"`
	AreaID      string `gorm:"primaryKey;size:64"`
	AreaName    string `gorm:"size:255;not null"`
	PlayerCount int    `gorm:"not null;default:0"`
	IsPrivate   bool   `gorm:"not null;default:false"`
}

// PersonTopBy ranks a thing among a person's top creations
type PersonTopBy struct {
	PersonID string `gorm:"primaryKey;size:64;index"`
	ThingID  string `gorm:"primaryKey;size:64"`
	Rank     int    `gorm:"column:rank_index;not null"`
}

// PersonFriend is a directed friend row: PersonID lists FriendID as a friend
type PersonFriend struct {
	PersonID  string `gorm:"primaryKey;size:64;index"`
	FriendID  string `gorm:"primaryKey;size:64"`
	Strength  *int
	CreatedAt time.Time
}

// TableName overrides the table name for PersonMetadata
func (PersonMetadata) TableName() string {
	return "person_metadata"
}

// TableName overrides the table name for PersonGift
func (PersonGift) TableName() string {
	return "person_gifts"
}

// TableName overrides the table name for PersonArea
func (PersonArea) TableName() string {
	return "person_areas"
}

// TableName overrides the table name for PersonTopBy
func (PersonTopBy) TableName() string {
	return "person_topby"
}

// TableName overrides the table name for PersonFriend
func (PersonFriend) TableName() string {
	return "person_friends"
}
