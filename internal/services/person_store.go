package services

import (
	"fmt"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SavePerson upserts a person identity
func SavePerson(db *gorm.DB, person *models.PersonMetadata) error {
	if err := upsert(db, person); err != nil {
		return fmt.Errorf("failed to save person %s: %w", person.ID, err)
	}
	return nil
}

// FindPerson loads a person by id
func FindPerson(db *gorm.DB, id string) (*models.PersonMetadata, error) {
	return findOne[models.PersonMetadata](db, "id = ?", id)
}

// FindPersonByScreenName loads a person by exact screen name
func FindPersonByScreenName(db *gorm.DB, screenName string) (*models.PersonMetadata, error) {
	return findOne[models.PersonMetadata](db, "screen_name = ?", screenName)
}

// SavePersonAreas upserts the created-area rows of a person
func SavePersonAreas(db *gorm.DB, rows []models.PersonArea) error {
	if len(rows) == 0 {
		return nil
	}
	return upsert(db, &rows)
}

// FindPersonAreas lists the areas a person created
func FindPersonAreas(db *gorm.DB, personID string) ([]models.PersonArea, error) {
	var rows []models.PersonArea
	err := quiet(db).Where("person_id = ?", personID).Order("area_name").Find(&rows).Error
	return rows, err
}

// SavePersonTopBy upserts the ranked top creations of a person
func SavePersonTopBy(db *gorm.DB, rows []models.PersonTopBy) error {
	if len(rows) == 0 {
		return nil
	}
	return upsert(db, &rows)
}

// FindTopByIDs returns up to limit thing ids in rank order
func FindTopByIDs(db *gorm.DB, personID string, limit int) ([]string, error) {
	ids := []string{}
	err := quiet(db).Model(&models.PersonTopBy{}).
		Where("person_id = ?", personID).
		Order("rank_index").
		Limit(limit).
		Pluck("thing_id", &ids).Error
	return ids, err
}

// GiftView is a received gift as the client reads it
type GiftView struct {
	ID                string  `json:"id"`
	ThingID           string  `json:"thingId"`
	RotationX         float64 `json:"rotationX"`
	RotationY         float64 `json:"rotationY"`
	RotationZ         float64 `json:"rotationZ"`
	PositionX         float64 `json:"positionX"`
	PositionY         float64 `json:"positionY"`
	PositionZ         float64 `json:"positionZ"`
	DateSent          string  `json:"dateSent"`
	SenderID          string  `json:"senderId"`
	SenderName        string  `json:"senderName"`
	WasSeenByReceiver bool    `json:"wasSeenByReceiver"`
	IsPrivate         bool    `json:"isPrivate"`
}

// NewGiftView maps a stored gift to its wire shape
func NewGiftView(g *models.PersonGift) GiftView {
	return GiftView{
		ID:                g.ID,
		ThingID:           g.ThingID,
		RotationX:         g.RotationX,
		RotationY:         g.RotationY,
		RotationZ:         g.RotationZ,
		PositionX:         g.PositionX,
		PositionY:         g.PositionY,
		PositionZ:         g.PositionZ,
		DateSent:          g.DateSent,
		SenderID:          g.SenderID,
		SenderName:        g.SenderName,
		WasSeenByReceiver: g.WasSeenByReceiver,
		IsPrivate:         g.IsPrivate,
	}
}

// SavePersonGifts upserts received gifts
func SavePersonGifts(db *gorm.DB, rows []models.PersonGift) error {
	if len(rows) == 0 {
		return nil
	}
	return upsert(db, &rows)
}

// FindPersonGifts lists gifts received by a person, oldest first
func FindPersonGifts(db *gorm.DB, personID string) ([]models.PersonGift, error) {
	var rows []models.PersonGift
	err := quiet(db).Where("person_id = ?", personID).Order("date_sent").Find(&rows).Error
	return rows, err
}

// AddFriend records that personID lists friendID as a friend. The reverse
// direction is not touched. An existing row is kept as is.
func AddFriend(db *gorm.DB, personID, friendID string, strength *int) error {
	row := models.PersonFriend{PersonID: personID, FriendID: friendID, Strength: strength}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// RemoveFriend deletes the personID -> friendID row only
func RemoveFriend(db *gorm.DB, personID, friendID string) (int64, error) {
	res := db.Where("person_id = ? AND friend_id = ?", personID, friendID).Delete(&models.PersonFriend{})
	return res.RowsAffected, res.Error
}

// IsFriend reports whether personID lists friendID
func IsFriend(db *gorm.DB, personID, friendID string) (bool, error) {
	var count int64
	err := quiet(db).Model(&models.PersonFriend{}).
		Where("person_id = ? AND friend_id = ?", personID, friendID).
		Count(&count).Error
	return count > 0, err
}

// FriendRow is a friend joined to its person identity
type FriendRow struct {
	ID             string
	ScreenName     string
	StatusText     *string
	LastActivityOn *string
	Strength       *int
}

// FindFriendsByStrength lists the friends of personID, strongest first with
// unknown strength last
func FindFriendsByStrength(db *gorm.DB, personID string) ([]FriendRow, error) {
	var rows []FriendRow
	err := quiet(db).Table("person_friends AS f").
		Select("p.id AS id, p.screen_name AS screen_name, p.status_text AS status_text, p.last_activity_on AS last_activity_on, f.strength AS strength").
		Joins("JOIN person_metadata AS p ON p.id = f.friend_id").
		Where("f.person_id = ?", personID).
		Order("CASE WHEN f.strength IS NULL THEN 1 ELSE 0 END, f.strength DESC, p.screen_name").
		Scan(&rows).Error
	return rows, err
}

// DeletePerson removes a person and every row hanging off it
func DeletePerson(db *gorm.DB, id string) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, del := range []struct {
			model interface{}
			where string
			args  []interface{}
		}{
			{&models.PersonGift{}, "person_id = ?", []interface{}{id}},
			{&models.PersonArea{}, "person_id = ?", []interface{}{id}},
			{&models.PersonTopBy{}, "person_id = ?", []interface{}{id}},
			{&models.PersonFriend{}, "person_id = ? OR friend_id = ?", []interface{}{id, id}},
			{&models.PersonMetadata{}, "id = ?", []interface{}{id}},
		} {
			res := tx.Where(del.where, del.args...).Delete(del.model)
			if res.Error != nil {
				return res.Error
			}
			affected += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete person %s: %w", id, err)
	}
	if affected == 0 {
		return 0, ErrNotFound
	}
	return affected, nil
}
