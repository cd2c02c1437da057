package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Profile constants sent on every successful auth
const (
	ProtocolMajor       = 188
	ProtocolMinorServer = 1
	HomeAreaID          = "5773cf9fbdee942c18292f08"
	DefaultAge          = 2226
	DefaultAgeSecs      = 192371963
	EditToolsExpiryDate = "9999-12-31T23:59:59.999Z"
	DefaultStatusText   = "exploring around"
	DefaultAttachments  = `{"0":{"Tid":"58a983128ca4690c104b6404","P":{"x":0,"y":0,"z":-1.4901161193847656e-7},"R":{"x":0,"y":0,"z":0}},"2":{"Tid":"58965e04569548a0132feb5e","P":{"x":-0.07462535798549652,"y":0.17594149708747864,"z":0.13412480056285858},"R":{"x":87.7847671508789,"y":73.62593841552734,"z":99.06474304199219}},"6":{"Tid":"58a25965b5fa68ae13841fb7","P":{"x":-0.03214322030544281,"y":-0.028440749272704124,"z":-0.3240281939506531},"R":{"x":306.4596862792969,"y":87.87753295898438,"z":94.79550170898438}},"7":{"Tid":"58965dfd9e2733c413d68d05","P":{"x":0.0267937108874321,"y":-0.03752899169921875,"z":-0.14691570401191711},"R":{"x":337.77911376953125,"y":263.3216857910156,"z":78.18708038330078}}}`
	authTokenSeparator  = "|"
)

// DefaultAchievements are granted to every new account
var DefaultAchievements = []int{30, 7, 19, 4, 20, 11, 10, 5, 9, 17, 13, 12, 16, 37, 34, 35, 44, 31, 15, 27, 28}

// AuthProfile is the auth/start response. Field order is the wire order.
type AuthProfile struct {
	VMaj                           int      `json:"vMaj"`
	VMinSrv                        int      `json:"vMinSrv"`
	PersonID                       string   `json:"personId"`
	HomeAreaID                     string   `json:"homeAreaId"`
	ScreenName                     string   `json:"screenName"`
	StatusText                     string   `json:"statusText"`
	IsFindable                     bool     `json:"isFindable"`
	Age                            int      `json:"age"`
	AgeSecs                        int64    `json:"ageSecs"`
	Attachments                    string   `json:"attachments"`
	IsSoftBanned                   bool     `json:"isSoftBanned"`
	ShowFlagWarning                bool     `json:"showFlagWarning"`
	FlagTags                       []string `json:"flagTags"`
	AreaCount                      int      `json:"areaCount"`
	ThingTagCount                  int      `json:"thingTagCount"`
	AllThingsClonable              bool     `json:"allThingsClonable"`
	Achievements                   []int    `json:"achievements"`
	HasEditTools                   bool     `json:"hasEditTools"`
	HasEditToolsPermanently        bool     `json:"hasEditToolsPermanently"`
	EditToolsExpiryDate            string   `json:"editToolsExpiryDate"`
	IsInEditToolsTrial             bool     `json:"isInEditToolsTrial"`
	WasEditToolsTrialEverActivated bool     `json:"wasEditToolsTrialEverActivated"`
	CustomSearchWords              string   `json:"customSearchWords"`
}

// SplitAuthToken splits the client's "username|password" auth string
func SplitAuthToken(ast string) (username, password string, err error) {
	username, password, found := strings.Cut(ast, authTokenSeparator)
	if !found || username == "" {
		return "", "", fmt.Errorf("malformed auth token")
	}
	return username, password, nil
}

// FindUserByID loads a user account by id
func FindUserByID(db *gorm.DB, id string) (*models.UserAccount, error) {
	return findOne[models.UserAccount](db, "id = ?", id)
}

// FindUserByUsername loads a user account by username
func FindUserByUsername(db *gorm.DB, username string) (*models.UserAccount, error) {
	return findOne[models.UserAccount](db, "username = ?", username)
}

// FindUserBySession loads the user account owning a session token
func FindUserBySession(db *gorm.DB, token string) (*models.UserAccount, error) {
	session, err := findOne[models.Session](db, "token = ?", token)
	if err != nil {
		return nil, err
	}
	return FindUserByID(db, session.UserID)
}

// newUserAccount builds a fresh account, seeded from a person of the same
// screen name when one was archived
func newUserAccount(db *gorm.DB, username, password string) (*models.UserAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.UserAccount{
		ID:                         utils.NewObjectID(),
		Username:                   username,
		PasswordHash:               string(hash),
		StatusText:                 DefaultStatusText,
		IsFindable:                 true,
		Age:                        DefaultAge,
		AgeSecs:                    DefaultAgeSecs,
		AreaCount:                  1,
		ThingTagCount:              1,
		AllThingsClonable:          true,
		HasEditTools:               true,
		HasEditToolsPermanently:    true,
		EditToolsExpiryDate:        EditToolsExpiryDate,
		IsInEditToolsTrial:         true,
		WasEditToolsTrialActivated: true,
		Attachments:                DefaultAttachments,
		Achievements:               DefaultAchievements,
	}

	person, err := FindPersonByScreenName(db, username)
	switch {
	case err == nil:
		user.PersonID = &person.ID
		if person.IsFindable != nil {
			user.IsFindable = *person.IsFindable
		}
		if person.Age != nil {
			user.Age = *person.Age
		}
		if person.IsBanned != nil {
			user.IsSoftBanned = *person.IsBanned
		}
		if person.StatusText != nil {
			user.StatusText = *person.StatusText
		}
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	if err := db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user %s: %w", username, err)
	}
	slog.Info("created user account", "username", username, "userId", user.ID, "linkedPerson", user.PersonID != nil)
	return user, nil
}

// StartSession logs in (creating the account on first use) and issues a
// session token
func StartSession(db *gorm.DB, username, password string) (*models.UserAccount, string, error) {
	user, err := FindUserByUsername(db, username)
	switch {
	case errors.Is(err, ErrNotFound):
		if user, err = newUserAccount(db, username, password); err != nil {
			return nil, "", err
		}
	case err != nil:
		return nil, "", err
	default:
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
			return nil, "", ErrBadCredentials
		}
	}

	session := models.Session{Token: uuid.NewString(), UserID: user.ID}
	if err := db.Create(&session).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}
	return user, session.Token, nil
}

// NewAuthProfile builds the auth/start response for a user
func NewAuthProfile(user *models.UserAccount) AuthProfile {
	achievements := []int(user.Achievements)
	if achievements == nil {
		achievements = []int{}
	}
	return AuthProfile{
		VMaj:                           ProtocolMajor,
		VMinSrv:                        ProtocolMinorServer,
		PersonID:                       user.ID,
		HomeAreaID:                     HomeAreaID,
		ScreenName:                     user.Username,
		StatusText:                     user.StatusText,
		IsFindable:                     user.IsFindable,
		Age:                            user.Age,
		AgeSecs:                        user.AgeSecs,
		Attachments:                    user.Attachments,
		IsSoftBanned:                   user.IsSoftBanned,
		ShowFlagWarning:                user.ShowFlagWarning,
		FlagTags:                       []string{},
		AreaCount:                      user.AreaCount,
		ThingTagCount:                  user.ThingTagCount,
		AllThingsClonable:              user.AllThingsClonable,
		Achievements:                   achievements,
		HasEditTools:                   user.HasEditTools,
		HasEditToolsPermanently:        user.HasEditToolsPermanently,
		EditToolsExpiryDate:            user.EditToolsExpiryDate,
		IsInEditToolsTrial:             user.IsInEditToolsTrial,
		WasEditToolsTrialEverActivated: user.WasEditToolsTrialActivated,
		CustomSearchWords:              user.CustomSearchWords,
	}
}

// DeleteUser removes an account and its sessions
func DeleteUser(db *gorm.DB, id string) (int64, error) {
	var affected int64
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ?", id).Delete(&models.Session{})
		if res.Error != nil {
			return res.Error
		}
		affected += res.RowsAffected
		res = tx.Where("id = ?", id).Delete(&models.UserAccount{})
		if res.Error != nil {
			return res.Error
		}
		affected += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete user %s: %w", id, err)
	}
	if affected == 0 {
		return 0, ErrNotFound
	}
	return affected, nil
}
