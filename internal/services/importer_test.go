package services_test

import (
	"context"
	"testing"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sampleArchive(t *testing.T) string {
	t.Helper()
	return testutil.WriteArchive(t, map[string]string{
		"area/info/" + buildtownID + ".json": `{
			"editors":[{"id":"56f4a5c3fd0e4c9e5e29e27a","name":"Philipp","isOwner":true}],
			"listEditors":[],
			"copiedFromAreas":[],
			"name":"Buildtown",
			"description":"a place to build",
			"creationDate":"2016-10-06T17:18:02.000Z",
			"totalVisitors":1234,
			"isZeroGravity":false,
			"hasFloatingDust":true,
			"isCopyable":false,
			"isExcluded":false,
			"renameCount":0,
			"copiedCount":3,
			"isFavorited":false
		}`,
		"area/info/5a0000000000000000000002.json": `{"name":"buildtown","editors":[]}`,
		"area/info/broken.json":                   `{"name":`,
		"area/load/" + buildtownID + ".json":      buildtownPayload,
		"area/load/5a0000000000000000000003.json": `{"ok":true,"areaKey":"k3","areaName":"Only Loaded","areaCreatorId":"c3","isPrivate":true,"placements":[]}`,
		"area/subareas/" + buildtownID + ".json":  `{"subAreas":[{"name":"Basement","id":"5a0000000000000000000009"}]}`,
		"person/info/56f4a5c3fd0e4c9e5e29e27a.json": `{"id":"56f4a5c3fd0e4c9e5e29e27a","screenName":"Philipp","age":2900,
			"statusText":"building","isFindable":true,"isBanned":false,"lastActivityOn":"2022-01-01T00:00:00.000Z"}`,
		"person/info/nameless.json":                       `{"age":3}`,
		"person/areasearch/56f4a5c3fd0e4c9e5e29e27a.json": `{"areas":[{"id":"` + buildtownID + `","name":"Buildtown","playerCount":2}],"ownPrivateAreas":[{"id":"5a0000000000000000000003","name":"Only Loaded","playerCount":0}]}`,
		"person/topby/56f4a5c3fd0e4c9e5e29e27a.json":      `{"ids":["t1","t2","t3","t4","t5"]}`,
		"person/gift/56f4a5c3fd0e4c9e5e29e27a.json": `{"gifts":[{"id":"g1","thingId":"t1","rotationX":0,"rotationY":90,"rotationZ":0,
			"positionX":1,"positionY":2,"positionZ":3,"dateSent":"2020-05-01T00:00:00.000Z","senderId":"s1","senderName":"Sender",
			"wasSeenByReceiver":true,"isPrivate":false}]}`,
		"thing/def/t1.json":   `{"n":"Chair","v":9,"p":[{"b":1,"s":[{"p":[0,0,0],"r":[0,0,0],"s":[1,1,1],"c":[1,0,0]}]}],"u":"unknown"}`,
		"thing/def/t2.json":   ``,
		"thing/info/t1.json":  `{"name":"Chair","creatorId":"56f4a5c3fd0e4c9e5e29e27a","creatorName":"Philipp","createdDaysAgo":2000,"collectedCount":50,"placedCount":10,"allCreatorsThingsClonable":true,"isUnlisted":false}`,
		"thing/info/t2.json":  `null`,
		"thing/tags/t1.json":  `{"tags":[{"tag":"furniture","userIds":["56f4a5c3fd0e4c9e5e29e27a"]}]}`,
		"placement/info/" + buildtownID + "/p1.json": `{"placerId":"56f4a5c3fd0e4c9e5e29e27a","placerName":"Philipp","placedDaysAgo":100}`,
		"placement/info/" + buildtownID + "/p2.json": `{"placerName":"Nobody"}`,
		"placement/info/stray.json":                  `{"placerId":"x"}`,
		"forum/forum/f1.json": `{"ok":true,"forum":{"name":"help","description":"ask here","creatorId":"c","creatorName":"C",
			"threadCount":2,"latestCommentDate":"2021-01-02T00:00:00.000Z","protectionLevel":0,"creationDate":"2017-01-01T00:00:00.000Z",
			"user_isModerator":false,"user_hasFavorited":false},
			"threads":[{"forumId":"f1","title":"How do I glue?","creatorId":"c","creatorName":"C","latestCommentDate":"2021-01-02T00:00:00.000Z",
				"commentCount":2,"isLocked":false,"isSticky":false,"creationDate":"2021-01-01T00:00:00.000Z","latestCommentText":"thanks",
				"latestCommentUserId":"u2","latestCommentUserName":"U2","id":"th1"}],
			"stickies":[{"forumId":"f1","title":"Rules","creatorId":"c","creatorName":"C","latestCommentDate":"2017-01-01T00:00:00.000Z",
				"commentCount":1,"isLocked":true,"isSticky":true,"creationDate":"2017-01-01T00:00:00.000Z","latestCommentText":"be nice",
				"latestCommentUserId":"c","latestCommentUserName":"C","id":"th0"}]}`,
		"forum/thread/th1.json": `{"ok":true,"forum":{"id":"f1","name":"help"},"thread":{"forumId":"f1","title":"How do I glue?",
			"creatorId":"c","creatorName":"C","latestCommentDate":"2021-01-02T00:00:00.000Z","commentCount":2,"isLocked":false,
			"isSticky":false,"creationDate":"2021-01-01T00:00:00.000Z","latestCommentText":"thanks","latestCommentUserId":"u2",
			"latestCommentUserName":"U2","id":"th1","comments":[
				{"date":"2021-01-01T00:00:00.000Z","userId":"c","userName":"C","text":"How do I glue?","likes":["u2","u3"],
					"oldestLikes":[{"id":"u2","n":"U2"},{"id":"u3","n":"U3"}],"newestLikes":[],"totalLikes":2},
				{"date":"2021-01-02T00:00:00.000Z","userId":"u2","userName":"U2","text":"thanks","thingId":"t1"}]}}`,
	})
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestImportArchive(t *testing.T) {
	db := testutil.NewTestDB(t)
	root := sampleArchive(t)

	report, err := services.ImportArchive(context.Background(), db, root)
	require.NoError(t, err)

	assert.Equal(t, services.FamilyReport{Imported: 2, Failed: 1}, *report.Families[services.FamilyAreaInfo])
	assert.Equal(t, services.FamilyReport{Imported: 2}, *report.Families[services.FamilyAreaLoad])
	assert.Equal(t, services.FamilyReport{Imported: 1, Failed: 1}, *report.Families[services.FamilyPersonInfo])
	assert.Equal(t, services.FamilyReport{Imported: 1, Skipped: 1}, *report.Families[services.FamilyThingDef])
	assert.Equal(t, services.FamilyReport{Imported: 1, Skipped: 1}, *report.Families[services.FamilyThingInfo])
	assert.Equal(t, services.FamilyReport{Imported: 1, Failed: 1}, *report.Families[services.FamilyPlacementInfo])
	assert.Equal(t, 3, report.Totals().Failed)

	// slugs follow import order
	info, err := services.FindAreaInfo(db, buildtownID)
	require.NoError(t, err)
	assert.Equal(t, "buildtown", info.Slug)
	require.NotNil(t, info.CreatorID)
	assert.Equal(t, "56f4a5c3fd0e4c9e5e29e27a", *info.CreatorID)
	assert.Equal(t, 1234, info.TotalVisitors)
	require.NotNil(t, info.HasFloatingDust)
	assert.True(t, *info.HasFloatingDust)

	second, err := services.FindAreaInfo(db, "5a0000000000000000000002")
	require.NoError(t, err)
	assert.Equal(t, "buildtown-1", second.Slug)

	// a load payload without any metadata creates its summary
	loadedOnly, err := services.FindAreaMetadata(db, "5a0000000000000000000003")
	require.NoError(t, err)
	assert.Equal(t, "Only Loaded", loadedOnly.Name)
	assert.True(t, loadedOnly.IsPrivate)

	load, err := services.FindAreaLoad(db, buildtownID)
	require.NoError(t, err)
	assert.Equal(t, buildtownKey, load.AreaKey)
	assert.Contains(t, string(load.Raw.JSON), `"extra": "kept in raw"`)

	def, err := services.FindThingDef(db, "t1")
	require.NoError(t, err)
	require.NotNil(t, def.Name)
	assert.Equal(t, "Chair", *def.Name)
	require.NotNil(t, def.Version)
	assert.Equal(t, 9, *def.Version)
	assert.Contains(t, string(def.Raw.JSON), `"u":"unknown"`)

	ids, err := services.FindTopByIDs(db, "56f4a5c3fd0e4c9e5e29e27a", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids)

	areas, err := services.FindPersonAreas(db, "56f4a5c3fd0e4c9e5e29e27a")
	require.NoError(t, err)
	require.Len(t, areas, 2)

	person, err := services.FindPerson(db, "56f4a5c3fd0e4c9e5e29e27a")
	require.NoError(t, err)
	assert.Equal(t, "Philipp", person.ScreenName)
	assert.Contains(t, string(person.Raw.JSON), `"statusText":"building"`)

	placement, err := services.FindPlacement(db, buildtownID, "p1")
	require.NoError(t, err)
	assert.Equal(t, 100, placement.PlacedDaysAgo)

	assert.Equal(t, int64(1), countRows(t, db, &models.PersonGift{}))
	assert.Equal(t, int64(2), countRows(t, db, &models.ForumThread{}))
	assert.Equal(t, int64(2), countRows(t, db, &models.ForumComment{}))
	assert.Equal(t, int64(2), countRows(t, db, &models.ForumCommentLike{}))
}

func TestImportArchiveIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	root := sampleArchive(t)

	first, err := services.ImportArchive(context.Background(), db, root)
	require.NoError(t, err)

	before := make([]int64, 0, len(models.All()))
	for _, model := range models.All() {
		before = append(before, countRows(t, db, model))
	}

	second, err := services.ImportArchive(context.Background(), db, root)
	require.NoError(t, err)
	assert.Equal(t, first.Totals(), second.Totals())

	for i, model := range models.All() {
		assert.Equal(t, before[i], countRows(t, db, model), "row count changed for %T", model)
	}

	info, err := services.FindAreaInfo(db, "5a0000000000000000000002")
	require.NoError(t, err)
	assert.Equal(t, "buildtown-1", info.Slug)
}

func TestImportArchiveForumReconstruction(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := services.ImportArchive(context.Background(), db, sampleArchive(t))
	require.NoError(t, err)

	forumID, err := services.FindForumIDByName(db, "help")
	require.NoError(t, err)
	assert.Equal(t, "f1", forumID)

	page, err := services.FindForumPage(db, "f1")
	require.NoError(t, err)
	require.Len(t, page.Threads, 1)
	require.Len(t, page.Stickies, 1)
	assert.Equal(t, "th1", page.Threads[0].ID)
	assert.Equal(t, "Rules", page.Stickies[0].Title)
	assert.True(t, page.Stickies[0].IsLocked)

	thread, err := services.FindThreadPage(db, "th1")
	require.NoError(t, err)
	assert.Equal(t, "f1", thread.Forum.ID)
	assert.Equal(t, "help", thread.Forum.Name)
	require.Len(t, thread.Thread.Comments, 2)

	first := thread.Thread.Comments[0]
	assert.Equal(t, "How do I glue?", first.Text)
	assert.Equal(t, []string{"u2", "u3"}, first.Likes)
	assert.Equal(t, []services.LikeView{{ID: "u2", Name: "U2"}, {ID: "u3", Name: "U3"}}, first.OldestLikes)
	assert.Equal(t, 2, first.TotalLikes)
	assert.Empty(t, first.NewestLikes)

	last := thread.Thread.Comments[1]
	require.NotNil(t, last.ThingID)
	assert.Equal(t, "t1", *last.ThingID)
	assert.Empty(t, last.Likes)
}

func TestImportArchiveMissingRoot(t *testing.T) {
	db := testutil.NewTestDB(t)
	_, err := services.ImportArchive(context.Background(), db, t.TempDir()+"/missing")
	assert.Error(t, err)
}

func TestImportArchiveHonoursCancellation(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := services.ImportArchive(ctx, db, sampleArchive(t))
	assert.ErrorIs(t, err, context.Canceled)
}
