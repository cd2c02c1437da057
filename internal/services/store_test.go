package services_test

import (
	"testing"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchAreasSkipsPrivate(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "a1", Name: "Sky Garden", Description: "green"}))
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "a2", Name: "Secret Garden", IsPrivate: true}))
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "a3", Name: "Desert"}))

	result, err := services.SearchAreas(db, "Garden", services.AreaSearchLimit)
	require.NoError(t, err)
	require.Len(t, result.Areas, 1)
	assert.Equal(t, services.AreaIndexEntry{ID: "a1", Name: "Sky Garden", Description: "green"}, result.Areas[0])
	assert.NotNil(t, result.OwnPrivateAreas)
	assert.Empty(t, result.OwnPrivateAreas)
}

func TestSearchAreasByCreator(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedPerson(t, db, "creator-person", "Maker")
	require.NoError(t, services.SavePersonAreas(db, []models.PersonArea{
		{PersonID: "creator-person", AreaID: "pub", AreaName: "Public Place", PlayerCount: 3},
		{PersonID: "creator-person", AreaID: "priv", AreaName: "Hideout", IsPrivate: true},
	}))
	user, _, err := services.StartSession(db, "Maker", "pw")
	require.NoError(t, err)

	for _, id := range []string{"creator-person", user.ID} {
		result, err := services.SearchAreasByCreator(db, id)
		require.NoError(t, err)
		require.Len(t, result.Areas, 1)
		require.Len(t, result.OwnPrivateAreas, 1)
		assert.Equal(t, "pub", result.Areas[0].ID)
		assert.Equal(t, 3, result.Areas[0].PlayerCount)
		assert.Equal(t, "priv", result.OwnPrivateAreas[0].ID)
	}

	result, err := services.SearchAreasByCreator(db, "nobody-at-all")
	require.NoError(t, err)
	assert.Equal(t, services.AreaSearchResult{Areas: []services.AreaIndexEntry{}, OwnPrivateAreas: []services.AreaIndexEntry{}}, result)
}

func TestSearchThingIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	for _, info := range []models.ThingInfo{
		{ID: "t1", Name: "Red Chair", CreatorID: "c", CollectedCount: 5},
		{ID: "t2", Name: "Blue Chair", CreatorID: "c", CollectedCount: 50},
		{ID: "t3", Name: "Hidden Chair", CreatorID: "c", CollectedCount: 500, IsUnlisted: true},
		{ID: "t4", Name: "Table", CreatorID: "c"},
	} {
		info := info
		require.NoError(t, services.SaveThingInfo(db, &info))
	}

	ids, err := services.SearchThingIDs(db, "chair", services.ThingSearchLimit)
	require.NoError(t, err)
	assert.Equal(t, []string{"t2", "t1"}, ids)

	ids, err = services.SearchThingIDs(db, "sofa", services.ThingSearchLimit)
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
}

func TestDeleteArea(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "gone", Name: "Gone"}))
	seedAreaLoad(t, db, "gone", `{"areaKey":"k"}`)
	require.NoError(t, services.SavePlacement(db, &models.PlacementMetadata{AreaID: "gone", PlacementID: "p", PlacerID: "x"}))

	n, err := services.DeleteArea(db, "gone")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	v, _ := services.ResolveArea(db, "gone", "")
	assert.Equal(t, services.NewAreaDenial(), v)

	_, err = services.DeleteArea(db, "gone")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeleteThingAndPlacement(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, services.SaveThingInfo(db, &models.ThingInfo{ID: "t1", Name: "Lamp", CreatorID: "c"}))
	require.NoError(t, services.SaveThingDef(db, &models.ThingDef{ID: "t1", Raw: models.NewJSON([]byte(`{"p":[]}`))}))
	require.NoError(t, services.SavePlacement(db, &models.PlacementMetadata{AreaID: "a", PlacementID: "p", PlacerID: "x"}))

	n, err := services.DeleteThing(db, "t1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	_, err = services.FindThingInfo(db, "t1")
	assert.ErrorIs(t, err, services.ErrNotFound)

	placements, err := services.FindAreaPlacements(db, "a")
	require.NoError(t, err)
	require.Len(t, placements, 1)
	assert.Equal(t, "p", placements[0].PlacementID)

	_, err = services.DeletePlacement(db, "a", "p")
	require.NoError(t, err)
	_, err = services.DeletePlacement(db, "a", "p")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeleteForumCascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, services.SaveForum(db, &models.Forum{ID: "f", Name: "general", CreationDate: "2017-01-01T00:00:00.000Z"}))
	require.NoError(t, services.SaveThread(db, &models.ForumThread{ID: "th", ForumID: "f", Title: "hi", CreationDate: "2017-01-01T00:00:00.000Z"}))
	comment := &models.ForumComment{ID: services.CommentID("th", 0), ThreadID: "th", Date: "2017-01-01T00:00:00.000Z", Text: "hello"}
	require.NoError(t, services.SaveComment(db, comment, []models.ForumCommentLike{{CommentID: comment.ID, UserID: "u", UserName: "U"}}))

	assert.Equal(t, "th-0000", comment.ID)

	n, err := services.DeleteForum(db, "f")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, int64(0), countRows(t, db, &models.ForumCommentLike{}))

	_, err = services.FindForumPage(db, "f")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestDeletePersonRemovesBothFriendDirections(t *testing.T) {
	db := testutil.NewTestDB(t)
	seedPerson(t, db, "a", "A")
	seedPerson(t, db, "b", "B")
	require.NoError(t, services.AddFriend(db, "a", "b", nil))
	require.NoError(t, services.AddFriend(db, "b", "a", nil))

	n, err := services.DeletePerson(db, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, int64(0), countRows(t, db, &models.PersonFriend{}))
}
