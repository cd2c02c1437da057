package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIntAcceptsNumbersAndStrings(t *testing.T) {
	var body struct {
		Subset FlexInt `json:"subsetsize"`
		Set    FlexInt `json:"setsize"`
		Empty  FlexInt `json:"empty"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"subsetsize":"30","setsize":300,"empty":""}`), &body))
	assert.Equal(t, 30, int(body.Subset))
	assert.Equal(t, 300, int(body.Set))
	assert.Equal(t, 7, body.Empty.IntOr(7))
}

func TestFlexIntRejectsGarbage(t *testing.T) {
	var f FlexInt
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &f))
	assert.Error(t, json.Unmarshal([]byte(`true`), &f))
}

func TestFlexListSingleAndArray(t *testing.T) {
	var single FlexList[string]
	require.NoError(t, json.Unmarshal([]byte(`"a"`), &single))
	assert.Equal(t, []string{"a"}, single.Slice())

	var many FlexList[string]
	require.NoError(t, json.Unmarshal([]byte(`["a","b"]`), &many))
	assert.Equal(t, []string{"a", "b"}, many.Slice())

	var none FlexList[string]
	require.NoError(t, json.Unmarshal([]byte(`null`), &none))
	assert.Equal(t, []string{}, none.Slice())
}

func TestCustomErrorMessage(t *testing.T) {
	err := NewCustomError(401, "Unauthorized", "session")
	assert.Equal(t, "401: Unauthorized [type: session]", err.Error())
}
