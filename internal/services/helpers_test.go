package services_test

import (
	"testing"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/testutil"
	"gorm.io/gorm"
)

const (
	buildtownID  = "57f67019817496af5268f719"
	buildtownKey = "rr57f67019817496af5268f71958ae8d4f0b1b4"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

// seedPerson stores a person identity
func seedPerson(t *testing.T, db *gorm.DB, id, screenName string) {
	t.Helper()
	testutil.Must(t, services.SavePerson(db, &models.PersonMetadata{ID: id, ScreenName: screenName}))
}

// seedSession creates an account linked to personID and returns its session token
func seedSession(t *testing.T, db *gorm.DB, username, personID string) string {
	t.Helper()
	if personID != "" {
		seedPerson(t, db, personID, username)
	}
	_, token, err := services.StartSession(db, username, "secret")
	testutil.Must(t, err)
	return token
}

// seedAreaLoad stores a load payload for an area
func seedAreaLoad(t *testing.T, db *gorm.DB, id, raw string) {
	t.Helper()
	testutil.Must(t, services.SaveAreaLoad(db, &models.AreaLoadData{ID: id, Raw: models.NewJSON([]byte(raw))}))
}
