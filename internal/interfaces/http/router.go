package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/crm-api/internal/application/analytics"
	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/inventory"
	"github.com/jhoicas/crm-api/internal/application/recruitment"
	"github.com/jhoicas/crm-api/internal/application/sales"
	"github.com/jhoicas/crm-api/internal/application/usecase"
	"github.com/jhoicas/crm-api/internal/domain/access"
	"github.com/jhoicas/crm-api/pkg/logger"
)

// AppConfig opciones del servidor Fiber.
type AppConfig struct {
	Name        string
	BodyLimitMB int
}

// NewApp crea la aplicación Fiber con el manejador de errores y los middlewares base.
func NewApp(cfg AppConfig, log *logger.Logger) *fiber.App {
	bodyLimit := cfg.BodyLimitMB << 20
	if bodyLimit <= 0 {
		bodyLimit = fiber.DefaultBodyLimit
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    bodyLimit,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(log))
	return app
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	ClientUC      *usecase.ClientUseCase
	SupplierUC    *usecase.SupplierUseCase
	SalespersonUC *usecase.SalespersonUseCase
	UserUC        *usecase.UserUseCase
	InventoryUC   *inventory.UseCase
	SalesUC       *sales.UseCase
	AuthUC        *auth.AuthUseCase
	RecruitmentUC *recruitment.UseCase
	DashboardUC   *analytics.DashboardUseCase
	Gate          *access.Gate
	JWTSecret     string
	LoginRate     string // formato ulule/limiter; vacío = sin límite
}

// Router registra las rutas de la API. Toda mutación exige un rol privilegiado;
// las lecturas requieren solo un token válido, salvo las vacantes públicas.
func Router(app *fiber.App, deps RouterDeps) error {
	api := app.Group("/api")
	priv := RequirePrivileged(deps.Gate)

	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	recruitmentHandler := NewRecruitmentHandler(deps.RecruitmentUC)

	// Auth (público, con límite de intentos)
	authGroup := api.Group("/auth")
	if deps.LoginRate != "" {
		limit, err := LoginRateLimiter(deps.LoginRate)
		if err != nil {
			return err
		}
		authGroup.Post("/login", limit, authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Vacantes (público)
	jobs := api.Group("/jobs")
	jobs.Get("/", recruitmentHandler.ListOpenJobs)
	jobs.Get("/:id", recruitmentHandler.GetJob)
	jobs.Post("/:id/apply", recruitmentHandler.Apply)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users
	users := protected.Group("/users", priv)
	users.Post("/", authHandler.CreateUser)
	users.Get("/", authHandler.ListUsers)
	users.Get("/:id", authHandler.GetUser)
	users.Patch("/:id", authHandler.UpdateUser)

	// Products + price tiers + vistas de inventario por producto
	productHandler := NewProductHandler(deps.ProductUC, deps.Gate)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.Gate)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", priv, productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", priv, productHandler.Update)
	products.Delete("/:id", priv, productHandler.Delete)
	products.Post("/:id/archive", priv, productHandler.Archive)
	products.Post("/:id/unarchive", priv, productHandler.Unarchive)
	products.Get("/:id/price-tiers", productHandler.ListPriceTiers)
	products.Put("/:id/price-tiers", priv, productHandler.UpsertPriceTier)
	products.Delete("/:id/price-tiers", priv, productHandler.DeletePriceTier)
	products.Get("/:id/quote", productHandler.Quote)
	products.Get("/:id/batches", inventoryHandler.ListBatches)
	products.Get("/:id/movements", inventoryHandler.ListMovements)
	products.Get("/:id/stock", inventoryHandler.StockSummary)

	// Inventory (lotes y ajustes)
	inv := protected.Group("/inventory")
	inv.Post("/batches", priv, inventoryHandler.ReceiveBatch)
	inv.Get("/batches/:id", inventoryHandler.GetBatch)
	inv.Post("/batches/:id/void", priv, inventoryHandler.VoidBatch)
	inv.Post("/adjustments", priv, inventoryHandler.RegisterAdjustment)

	// Sales
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", priv, saleHandler.Create)
	salesGroup.Get("/export", saleHandler.Export)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)
	salesGroup.Delete("/:id", priv, saleHandler.Void)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Gate)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Clients
	clientHandler := NewClientHandler(deps.ClientUC)
	clients := protected.Group("/clients")
	clients.Get("/", clientHandler.List)
	clients.Post("/", priv, clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", priv, clientHandler.Update)
	clients.Delete("/:id", priv, clientHandler.Delete)

	// Suppliers
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", priv, supplierHandler.Create)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", priv, supplierHandler.Update)
	suppliers.Delete("/:id", priv, supplierHandler.Delete)

	// Salespersons
	salespersonHandler := NewSalespersonHandler(deps.SalespersonUC)
	salespersons := protected.Group("/salespersons")
	salespersons.Get("/", salespersonHandler.List)
	salespersons.Post("/", priv, salespersonHandler.Create)
	salespersons.Get("/:id", salespersonHandler.GetByID)
	salespersons.Put("/:id", priv, salespersonHandler.Update)
	salespersons.Delete("/:id", priv, salespersonHandler.Delete)

	// Recruitment (gestión interna)
	rec := protected.Group("/recruitment", priv)
	rec.Get("/jobs", recruitmentHandler.ListAllJobs)
	rec.Post("/jobs", recruitmentHandler.CreateJob)
	rec.Put("/jobs/:id", recruitmentHandler.UpdateJob)
	rec.Post("/jobs/:id/close", recruitmentHandler.CloseJob)
	rec.Get("/jobs/:id/applications", recruitmentHandler.ListApplications)
	rec.Patch("/applications/:id", recruitmentHandler.UpdateApplicationStatus)

	return nil
}
