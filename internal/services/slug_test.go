package services_test

import (
	"fmt"
	"testing"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Buildtown", "buildtown"},
		{"My Cool  Area", "my-cool-area"},
		{"hello, world!", "hello-world-"},
		{"  Space Station 9", "-space-station-9"},
		{"Ünïcode Café", "-n-code-caf-"},
		{"already-slugged", "already-slugged"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.NormalizeSlug(tt.name))
		})
	}
}

func TestSaveAreaMetadataSuffixesCollisionsInOrder(t *testing.T) {
	db := testutil.NewTestDB(t)

	names := []string{"Hub", "hub", "HUB"}
	for i, name := range names {
		meta := &models.AreaMetadata{ID: fmt.Sprintf("area%d", i), Name: name}
		require.NoError(t, services.SaveAreaMetadata(db, meta))
	}

	want := []string{"hub", "hub-1", "hub-2"}
	seen := map[string]bool{}
	for i := range names {
		meta, err := services.FindAreaMetadata(db, fmt.Sprintf("area%d", i))
		require.NoError(t, err)
		assert.Equal(t, want[i], meta.URLName)
		assert.False(t, seen[meta.URLName], "slug %s assigned twice", meta.URLName)
		seen[meta.URLName] = true
	}
}

func TestSaveAreaMetadataKeepsSlugOnResave(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "a", Name: "Plaza"}))
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "b", Name: "Plaza"}))
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "a", Name: "Plaza"}))
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "b", Name: "Plaza"}))

	a, err := services.FindAreaMetadata(db, "a")
	require.NoError(t, err)
	b, err := services.FindAreaMetadata(db, "b")
	require.NoError(t, err)
	assert.Equal(t, "plaza", a.URLName)
	assert.Equal(t, "plaza-1", b.URLName)
}

func TestSaveAreaMetadataFallsBackToID(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "5773cf9fbdee942c18292f08", Name: "!!!"}))

	meta, err := services.FindAreaMetadata(db, "5773cf9fbdee942c18292f08")
	require.NoError(t, err)
	assert.Equal(t, "5773cf9fbdee942c18292f08", meta.URLName)
}

func TestFindAreaIDBySlugPrefersAreaInfo(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "meta-only", Name: "Plaza"}))
	require.NoError(t, services.SaveAreaInfo(db, &models.AreaInfoMetadata{ID: "with-info", Name: "Plaza"}))
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "other", Name: "Elsewhere"}))

	id, err := services.FindAreaIDBySlug(db, "PLAZA")
	require.NoError(t, err)
	assert.Equal(t, "with-info", id)

	id, err = services.FindAreaIDBySlug(db, "elsewhere")
	require.NoError(t, err)
	assert.Equal(t, "other", id)

	_, err = services.FindAreaIDBySlug(db, "nowhere")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
