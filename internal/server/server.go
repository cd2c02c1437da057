// Package server assembles the API and CDN applications
package server

import (
	"errors"
	"log/slog"
	"time"

	"github.com/LibrelandCommunity/libreland-server/internal/blobstore"
	"github.com/LibrelandCommunity/libreland-server/internal/cache"
	"github.com/LibrelandCommunity/libreland-server/internal/config"
	"github.com/LibrelandCommunity/libreland-server/internal/handlers"
	"github.com/LibrelandCommunity/libreland-server/internal/middleware"
	"github.com/LibrelandCommunity/libreland-server/internal/reqlog"
	"github.com/LibrelandCommunity/libreland-server/internal/types"
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	swagger "github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Deps are the shared resources handed to every application
type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Holds       *cache.HoldGeometry
	Requests    *reqlog.Logger
	AreaBundles blobstore.Store
	Images      blobstore.Store
	// Registry receives the HTTP metrics. Nil means the default registerer.
	Registry prometheus.Registerer
	// Quiet drops the access log
	Quiet bool
}

func newApp(name string, quiet bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		ErrorHandler:          ErrorHandler,
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	if !quiet {
		app.Use(logger.New(logger.Config{
			Format:     "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
			TimeFormat: time.RFC3339,
		}))
	}
	return app
}

// NewAPIApp builds the game API server
func NewAPIApp(d Deps) *fiber.App {
	app := newApp("libreland-api", d.Quiet)
	app.Use(requestid.New())
	app.Use(compress.New())

	registry := d.Registry
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	prom := fiberprometheus.NewWithRegistry(registry, "libreland-api", "libreland", "http", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	app.Get("/swagger/*", swagger.HandlerDefault)

	health := &handlers.HealthHandler{Config: d.Config, DB: d.DB}
	app.Get("/healthz", health.Check)

	app.Use(middleware.RateLimit(d.Config.RateLimitPerSecond, d.Config.RateLimitBurst))
	app.Use(etag.New())
	app.Use(middleware.Session(d.Config.SessionCookieName))

	unimplemented := &handlers.UnimplementedHandler{Log: d.Requests, Server: handlers.ServerAPI}

	authHandler := &handlers.AuthHandler{DB: d.DB, CookieName: d.Config.SessionCookieName}
	app.Post("/auth/start", authHandler.Start)
	app.Post("/p", authHandler.Probe)

	areaHandler := &handlers.AreaHandler{DB: d.DB}
	area := app.Group("/area")
	area.Post("/load", areaHandler.Load)
	area.Post("/info", areaHandler.Info)
	area.Post("/getsubareas", areaHandler.GetSubareas)
	area.Post("/lists", areaHandler.Lists)
	area.Post("/search", areaHandler.Search)

	placementHandler := &handlers.PlacementHandler{DB: d.DB}
	app.Post("/placement/info", placementHandler.Info)

	personHandler := &handlers.PersonHandler{DB: d.DB, Holds: d.Holds}
	person := app.Group("/person")
	sessionRequired := middleware.RequireSession(d.DB, d.Config.SessionCookieName)
	person.Get("/friendsbystr", sessionRequired, personHandler.FriendsByStrength)
	person.Post("/addfriend", sessionRequired, personHandler.AddFriend)
	person.Post("/removefriend", sessionRequired, personHandler.RemoveFriend)
	person.Post("/info", personHandler.Info)
	person.Post("/infobasic", personHandler.InfoBasic)
	person.Post("/getholdgeometry", personHandler.GetHoldGeometry)
	person.Post("/registerhold", personHandler.RegisterHold)
	person.Post("/getflag", personHandler.GetFlag)
	person.Get("/registerusagemode", personHandler.RegisterUsageMode)
	app.Get("/inventory/:page", personHandler.Inventory)

	giftHandler := &handlers.GiftHandler{DB: d.DB}
	app.Post("/gift/getreceived", giftHandler.GetReceived)

	thingHandler := &handlers.ThingHandler{DB: d.DB, Unimplemented: unimplemented}
	app.Post("/thing", thingHandler.Create)
	thing := app.Group("/thing")
	thing.Post("/topby", thingHandler.TopBy)
	thing.Post("/search", thingHandler.Search)
	thing.Get("/info/:thingId", thingHandler.Info)
	thing.Get("/sl/tdef/:thingId", thingHandler.Def)
	thing.Post("/gettags", thingHandler.Tags)
	thing.Post("/getflag", thingHandler.GetFlag)

	forumHandler := &handlers.ForumHandler{DB: d.DB}
	forum := app.Group("/forum")
	forum.Get("/favorites", forumHandler.Favorites)
	forum.Get("/forum/:id", forumHandler.Forum)
	forum.Get("/thread/:id", forumHandler.Thread)
	forum.Post("/forumid", forumHandler.ForumID)

	adminHandler := &handlers.AdminHandler{DB: d.DB}
	admin := app.Group("/admin", middleware.AuthAdmin(d.Config.AdminToken))
	admin.Delete("/area/:id", adminHandler.DeleteArea)
	admin.Delete("/person/:id", adminHandler.DeletePerson)
	admin.Delete("/user/:id", adminHandler.DeleteUser)
	admin.Delete("/thing/:id", adminHandler.DeleteThing)
	admin.Delete("/placement/:areaId/:placementId", adminHandler.DeletePlacement)
	admin.Delete("/forum/:id", adminHandler.DeleteForum)
	admin.Delete("/thread/:id", adminHandler.DeleteThread)
	admin.Get("/placements/:areaId", adminHandler.AreaPlacements)

	app.Use(unimplemented.NotFound)
	return app
}

// NewThingDefsApp builds the thing definition CDN
func NewThingDefsApp(d Deps) *fiber.App {
	app := newApp("libreland-thingdefs", d.Quiet)
	app.Use(compress.New())

	cdn := &handlers.CDNHandler{DB: d.DB}
	app.Get("/:thingId", cdn.ThingDef)

	unimplemented := &handlers.UnimplementedHandler{Log: d.Requests, Server: handlers.ServerThingDefs}
	app.Use(unimplemented.NotFound)
	return app
}

// NewAreaBundlesApp builds the area bundle CDN
func NewAreaBundlesApp(d Deps) *fiber.App {
	app := newApp("libreland-areabundles", d.Quiet)
	app.Use(compress.New())

	cdn := &handlers.CDNHandler{DB: d.DB, AreaBundles: d.AreaBundles}
	app.Get("/:areaId/:areaKey", cdn.AreaBundle)

	unimplemented := &handlers.UnimplementedHandler{Log: d.Requests, Server: handlers.ServerAreaBundles}
	app.Use(unimplemented.NotFound)
	return app
}

// NewImagesApp builds the user generated image CDN
func NewImagesApp(d Deps) *fiber.App {
	app := newApp("libreland-ugcimages", d.Quiet)

	cdn := &handlers.CDNHandler{DB: d.DB, Images: d.Images}
	app.Get("/ugc/:part1/:part2", cdn.Image)

	unimplemented := &handlers.UnimplementedHandler{Log: d.Requests, Server: handlers.ServerUGCImages}
	app.Use(unimplemented.NotFoundHTML)
	return app
}

// ErrorHandler renders errors returned by handlers and middleware
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	errorType := "unknown"

	var fiberErr *fiber.Error
	var customErr *types.CustomError
	switch {
	case errors.As(err, &customErr):
		code = customErr.Code
		message = customErr.Message
		errorType = customErr.Type
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	default:
		slog.Error("unhandled request error", "method", c.Method(), "url", c.OriginalURL(), "error", err)
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
