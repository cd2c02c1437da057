package middleware_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/LibrelandCommunity/libreland-server/internal/middleware"
	"github.com/LibrelandCommunity/libreland-server/internal/models"
	"github.com/LibrelandCommunity/libreland-server/internal/testutil"
	"github.com/LibrelandCommunity/libreland-server/internal/types"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newApp renders CustomError the way the server's error handler does
func newApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var ce *types.CustomError
			if errors.As(err, &ce) {
				return c.Status(ce.Code).JSON(ce)
			}
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
	})
}

func TestRequireSessionRejectsMissingCookie(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := newApp()
	app.Get("/private", middleware.RequireSession(db, "s"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/private", nil))
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, fiber.StatusUnauthorized)
}

func TestRequireSessionRejectsUnknownToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := newApp()
	app.Get("/private", middleware.RequireSession(db, "s"), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Cookie", "s=nope")
	resp, err := app.Test(req)
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, fiber.StatusUnauthorized)
}

func TestRequireSessionAcceptsKnownToken(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, db.Create(&models.UserAccount{ID: "u1", Username: "alice", PasswordHash: "x", EditToolsExpiryDate: "x"}).Error)
	require.NoError(t, db.Create(&models.Session{Token: "tok", UserID: "u1"}).Error)

	app := newApp()
	app.Get("/private", middleware.RequireSession(db, "s"), func(c *fiber.Ctx) error {
		user := c.Locals(middleware.LocalUser).(*models.UserAccount)
		return c.SendString(user.Username + ":" + middleware.SessionToken(c))
	})

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Cookie", "s=tok")
	resp, err := app.Test(req)
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	assert.Equal(t, "alice:tok", string(testutil.ReadBody(t, resp)))
}

func TestAuthAdmin(t *testing.T) {
	app := newApp()
	app.Delete("/admin/x", middleware.AuthAdmin("secret"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/admin/x", nil))
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, fiber.StatusForbidden)

	req := httptest.NewRequest("DELETE", "/admin/x", nil)
	req.Header.Set(middleware.AdminTokenHeader, "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, fiber.StatusOK)
}

func TestAuthAdminDisabledWithoutToken(t *testing.T) {
	app := newApp()
	app.Delete("/admin/x", middleware.AuthAdmin(""), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("DELETE", "/admin/x", nil)
	req.Header.Set(middleware.AdminTokenHeader, "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	testutil.AssertStatus(t, resp, fiber.StatusForbidden)
}

func TestRateLimit(t *testing.T) {
	app := newApp()
	app.Use(middleware.RateLimit(1, 2))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}
