package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBody(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        areaRequest
	}{
		{"json", fiber.MIMEApplicationJSON, `{"areaId":"a1","areaUrlName":"hub"}`, areaRequest{AreaID: "a1", AreaURLName: "hub"}},
		{"form", fiber.MIMEApplicationForm, "areaId=a1&areaUrlName=hub", areaRequest{AreaID: "a1", AreaURLName: "hub"}},
		{"untyped json", "", `{"areaId":"a2"}`, areaRequest{AreaID: "a2"}},
		{"untyped form", "", "areaUrlName=buildtown", areaRequest{AreaURLName: "buildtown"}},
		{"empty", fiber.MIMEApplicationJSON, "", areaRequest{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got areaRequest
			app := fiber.New()
			app.Post("/", func(c *fiber.Ctx) error {
				if err := parseBody(c, &got); err != nil {
					return err
				}
				return c.SendStatus(fiber.StatusNoContent)
			})

			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormGeometry(t *testing.T) {
	assert.Nil(t, formGeometry(""))
	assert.JSONEq(t, `{"a":1}`, string(formGeometry(`{"a":1}`)))
	assert.JSONEq(t, `"not json"`, string(formGeometry("not json")))
}

func TestBlobETagIsStable(t *testing.T) {
	a := blobETag([]byte("bundle"))
	assert.Equal(t, a, blobETag([]byte("bundle")))
	assert.NotEqual(t, a, blobETag([]byte("other")))
	assert.True(t, strings.HasPrefix(a, `"`) && strings.HasSuffix(a, `"`))
}
