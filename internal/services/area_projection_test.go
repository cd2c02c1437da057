package services_test

import (
	"encoding/json"
	"testing"

	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/services"
	"github.com/LibrelandCommunity/libreland-server/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buildtownPayload = `{
	"ok": true,
	"areaId": "57f67019817496af5268f719",
	"areaName": "buildtown (archived)",
	"areaKey": "rr57f67019817496af5268f71958ae8d4f0b1b4",
	"areaCreatorId": "56f4a5c3fd0e4c9e5e29e27a",
	"isZeroGravity": true,
	"onlyOwnerSetsLocks": true,
	"environmentChangersJSON": "{\"environmentChangers\":[{\"Name\":\"Sun\"}]}",
	"placements": [{"Id":"p1","Tid":"t1","P":{"x":1},"unknownKey":42}],
	"extra": "kept in raw"
}`

func loadResponse(t *testing.T, v interface{}) services.AreaLoadResponse {
	t.Helper()
	resp, ok := v.(services.AreaLoadResponse)
	require.True(t, ok, "expected a load response, got %T", v)
	return resp
}

func TestResolveAreaBuildtownBySlug(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: buildtownID, Name: "Buildtown"}))
	seedAreaLoad(t, db, buildtownID, buildtownPayload)

	meta, err := services.FindAreaMetadata(db, buildtownID)
	require.NoError(t, err)
	assert.Equal(t, "buildtown", meta.URLName)

	v, outcome := services.ResolveArea(db, "", "Buildtown")
	assert.Equal(t, services.OutcomeResolved, outcome)

	resp := loadResponse(t, v)
	assert.True(t, resp.OK)
	assert.Equal(t, buildtownID, resp.AreaID)
	assert.Equal(t, "Buildtown", resp.AreaName)
	assert.Equal(t, buildtownKey, resp.AreaKey)
	assert.Equal(t, "56f4a5c3fd0e4c9e5e29e27a", resp.AreaCreatorID)
	assert.True(t, resp.IsZeroGravity)
	assert.True(t, resp.OnlyOwnerSetsLocks)
	assert.False(t, resp.IsPrivate)
	assert.Equal(t, `{"environmentChangers":[{"Name":"Sun"}]}`, resp.EnvironmentChangersJSON)
	assert.JSONEq(t, `[{"Id":"p1","Tid":"t1","P":{"x":1},"unknownKey":42}]`, string(resp.Placements))
	assert.Equal(t, services.ServeTime, resp.ServeTime)
}

func TestProjectAreaNamePrecedence(t *testing.T) {
	load := &models.AreaLoadData{ID: "a1", Raw: models.NewJSON([]byte(`{"areaKey":"k","areaName":"From Payload"}`))}
	info := &models.AreaInfoMetadata{ID: "a1", Name: "From Info"}
	meta := &models.AreaMetadata{ID: "a1", Name: "From Meta"}

	tests := []struct {
		name string
		src  services.AreaSources
		want string
	}{
		{"info wins", services.AreaSources{Info: info, Meta: meta, Load: load}, "From Info"},
		{"meta without info", services.AreaSources{Meta: meta, Load: load}, "From Meta"},
		{"payload alone", services.AreaSources{Load: load}, "From Payload"},
		{"empty info name falls through", services.AreaSources{Info: &models.AreaInfoMetadata{ID: "a1"}, Meta: meta, Load: load}, "From Meta"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _ := services.ProjectArea("a1", tt.src)
			assert.Equal(t, tt.want, loadResponse(t, v).AreaName)
		})
	}
}

func TestProjectAreaFlagPrecedence(t *testing.T) {
	load := &models.AreaLoadData{ID: "a1", Raw: models.NewJSON([]byte(
		`{"areaKey":"k","isPrivate":true,"isCopyable":true,"hasFloatingDust":true}`))}
	info := &models.AreaInfoMetadata{ID: "a1", IsCopyable: boolPtr(false)}
	meta := &models.AreaMetadata{ID: "a1", IsPrivate: false}

	v, _ := services.ProjectArea("a1", services.AreaSources{Info: info, Meta: meta, Load: load})
	resp := loadResponse(t, v)

	assert.False(t, resp.IsCopyable, "info overrides payload")
	assert.False(t, resp.IsPrivate, "metadata overrides payload")
	assert.True(t, resp.HasFloatingDust, "payload used when info has no opinion")
	assert.False(t, resp.IsExcluded)
	assert.Equal(t, services.DefaultEnvironmentChangers, resp.EnvironmentChangersJSON)
	assert.JSONEq(t, `[]`, string(resp.Placements))
	assert.False(t, resp.RequestorIsEditor)
	assert.False(t, resp.RequestorIsListEditor)
	assert.False(t, resp.RequestorIsOwner)
}

func TestProjectAreaWireOrder(t *testing.T) {
	load := &models.AreaLoadData{ID: "a1", Raw: models.NewJSON([]byte(`{"areaKey":"k","placements":null}`))}
	v, _ := services.ProjectArea("a1", services.AreaSources{Load: load})

	body, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t,
		`{"ok":true,"areaId":"a1","areaName":"","areaKey":"k","areaCreatorId":"","isPrivate":false,`+
			`"isZeroGravity":false,"hasFloatingDust":false,"isCopyable":false,"onlyOwnerSetsLocks":false,`+
			`"isExcluded":false,"environmentChangersJSON":"{\"environmentChangers\":[]}",`+
			`"requestorIsEditor":false,"requestorIsListEditor":false,"requestorIsOwner":false,`+
			`"placements":[],"serveTime":13}`,
		string(body))
}

func TestResolveAreaDenialUniformity(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, services.SaveAreaMetadata(db, &models.AreaMetadata{ID: "no-payload", Name: "Empty Lot"}))
	seedAreaLoad(t, db, "denied", `{"ok":false,"_reasonDenied":"Private","serveTime":13}`)
	seedAreaLoad(t, db, "keyless", `{"ok":true,"areaName":"Keyless"}`)

	cases := map[string][2]string{
		"unknown id":       {"5773cf9fbdee942c18292f99", ""},
		"unknown slug":     {"", "no such place"},
		"no load payload":  {"no-payload", ""},
		"stored denial":    {"denied", ""},
		"missing area key": {"keyless", ""},
		"nothing given":    {"", ""},
	}

	want := `{"ok":false,"_reasonDenied":"Private","serveTime":13}`
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			v, outcome := services.ResolveArea(db, args[0], args[1])
			assert.NotEqual(t, services.OutcomeResolved, outcome)

			body, err := json.Marshal(v)
			require.NoError(t, err)
			assert.JSONEq(t, want, string(body))
		})
	}
}

func TestResolveAreaReturnsStoredDenialVerbatim(t *testing.T) {
	db := testutil.NewTestDB(t)
	stored := `{"ok":false,"_reasonDenied":"Private","serveTime":13,"note":"archived"}`
	seedAreaLoad(t, db, "denied", stored)

	v, outcome := services.ResolveArea(db, "denied", "")
	assert.Equal(t, services.OutcomeStored, outcome)

	raw, ok := v.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, stored, string(raw))
}
