package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/storage"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Members   *handlers.MemberHandler
	Stores    *handlers.StoreHandler
	Menus     *handlers.MenuHandler
	Boards    *handlers.BoardHandler
	Orders    *handlers.OrderHandler
	Gate      *auth.Gate
	Metrics   *observability.Metrics
	UploadDir string
}

// RegisterRoutes wires HTTP routes. Routes registered on api are public;
// routes on protected require a resolved member.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}
	if cfg.UploadDir != "" {
		app.Static("/"+storage.PublicPrefix, cfg.UploadDir)
	}

	api := app.Group("/api", cfg.Gate.Handle)
	protected := auth.RequireMember()

	member := api.Group("/member")
	member.Post("/register", cfg.Members.Register)
	member.Post("/login", cfg.Members.Login)
	member.Post("/logout", protected, cfg.Members.Logout)
	member.Get("/info", protected, cfg.Members.Profile)
	member.Post("/info", protected, cfg.Members.UpdateProfile)
	member.Post("/point/add", protected, cfg.Members.ChargePoint)
	member.Get("/point/info", protected, cfg.Members.Point)
	member.Post("/point/info", protected, cfg.Members.SetPoint)

	store := api.Group("/store")
	store.Get("/all", cfg.Stores.List)
	store.Get("/info/:id", cfg.Stores.Get)
	store.Get("/search", cfg.Stores.Search)
	store.Post("/create", protected, cfg.Stores.Create)
	store.Post("/info", protected, cfg.Stores.Update)
	store.Get("/delete/:id", protected, cfg.Stores.Delete)

	menu := api.Group("/menu")
	menu.Get("/info/:id", cfg.Menus.Get)
	menu.Get("/store/:storeId", cfg.Menus.ListByStore)
	menu.Post("/create", protected, cfg.Menus.Create)
	menu.Post("/info/:id", protected, cfg.Menus.Update)
	menu.Get("/delete/:id", protected, cfg.Menus.Delete)

	board := api.Group("/board", protected)
	board.Get("", cfg.Boards.List)
	board.Post("", cfg.Boards.Create)
	board.Get("/delete/:id", cfg.Boards.Delete)
	board.Post("/update/:id", cfg.Boards.Update)
	board.Get("/:id", cfg.Boards.Get)

	order := api.Group("/order", protected)
	order.Post("/create", cfg.Orders.Create)
	order.Get("/list", cfg.Orders.ListAll)
	order.Get("/member", cfg.Orders.ListMine)
	order.Get("/store/:id", cfg.Orders.ListByStore)
	order.Post("/day", cfg.Orders.ListByDay)
	order.Post("/update", cfg.Orders.Update)
	order.Get("/delete/:id", cfg.Orders.Delete)
	order.Post("/sales", cfg.Orders.Sales)
	order.Get("/:id", cfg.Orders.Get)
}
