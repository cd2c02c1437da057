package services_test

import (
	"testing"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAuthToken(t *testing.T) {
	user, pass, err := services.SplitAuthToken("alice|pa|ss")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "pa|ss", pass)

	_, _, err = services.SplitAuthToken("no-separator")
	assert.Error(t, err)

	_, _, err = services.SplitAuthToken("|password")
	assert.Error(t, err)
}

func TestStartSessionCreatesThenLoads(t *testing.T) {
	db := testutil.NewTestDB(t)

	created, token1, err := services.StartSession(db, "newcomer", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token1)
	assert.Len(t, created.ID, 24)
	assert.Nil(t, created.PersonID)

	loaded, token2, err := services.StartSession(db, "newcomer", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, loaded.ID)
	assert.NotEqual(t, token1, token2)

	for _, token := range []string{token1, token2} {
		user, err := services.FindUserBySession(db, token)
		require.NoError(t, err)
		assert.Equal(t, created.ID, user.ID)
	}

	var count int64
	require.NoError(t, db.Model(&models.UserAccount{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStartSessionRejectsWrongPassword(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, _, err := services.StartSession(db, "guarded", "right")
	require.NoError(t, err)

	_, token, err := services.StartSession(db, "guarded", "wrong")
	assert.ErrorIs(t, err, services.ErrBadCredentials)
	assert.Empty(t, token)
}

func TestStartSessionSeedsFromArchivedPerson(t *testing.T) {
	db := testutil.NewTestDB(t)
	age := 1500
	require.NoError(t, services.SavePerson(db, &models.PersonMetadata{
		ID:         "58a25965b5fa68ae13841fb7",
		ScreenName: "Philipp",
		Age:        &age,
		StatusText: strPtr("building things"),
		IsFindable: boolPtr(false),
		IsBanned:   boolPtr(true),
	}))

	user, _, err := services.StartSession(db, "Philipp", "pw")
	require.NoError(t, err)
	require.NotNil(t, user.PersonID)
	assert.Equal(t, "58a25965b5fa68ae13841fb7", *user.PersonID)

	profile := services.NewAuthProfile(user)
	assert.Equal(t, services.ProtocolMajor, profile.VMaj)
	assert.Equal(t, services.ProtocolMinorServer, profile.VMinSrv)
	assert.Equal(t, user.ID, profile.PersonID)
	assert.Equal(t, services.HomeAreaID, profile.HomeAreaID)
	assert.Equal(t, "Philipp", profile.ScreenName)
	assert.Equal(t, "building things", profile.StatusText)
	assert.False(t, profile.IsFindable)
	assert.True(t, profile.IsSoftBanned)
	assert.Equal(t, 1500, profile.Age)
	assert.Equal(t, services.DefaultAttachments, profile.Attachments)
	assert.Equal(t, services.DefaultAchievements, profile.Achievements)
	assert.Equal(t, []string{}, profile.FlagTags)
	assert.Equal(t, services.EditToolsExpiryDate, profile.EditToolsExpiryDate)
}

func TestDeleteUserRemovesSessions(t *testing.T) {
	db := testutil.NewTestDB(t)
	user, token, err := services.StartSession(db, "leaving", "pw")
	require.NoError(t, err)

	n, err := services.DeleteUser(db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = services.FindUserBySession(db, token)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = services.DeleteUser(db, user.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
