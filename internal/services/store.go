package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrNoSession is returned when a request carries no valid session
	ErrNoSession = errors.New("no valid session")
	// ErrNoLinkedPerson is returned when a user account has no person identity
	ErrNoLinkedPerson = errors.New("no linked person")
	// ErrBadCredentials is returned when a password does not match
	ErrBadCredentials = errors.New("bad credentials")
)

// quiet returns a session that does not log missing records
func quiet(db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{Logger: db.Logger.LogMode(logger.Silent)})
}

// upsert inserts value or overwrites every column of the row sharing its primary key
func upsert(db *gorm.DB, value interface{}) error {
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
}

// findOne loads the first row matching the condition, mapping a miss to ErrNotFound
func findOne[T any](db *gorm.DB, query string, args ...interface{}) (*T, error) {
	var rec T
	err := quiet(db).Where(query, args...).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
