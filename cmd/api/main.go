package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/crm-api/internal/application/analytics"
	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/inventory"
	"github.com/jhoicas/crm-api/internal/application/recruitment"
	"github.com/jhoicas/crm-api/internal/application/sales"
	"github.com/jhoicas/crm-api/internal/application/usecase"
	"github.com/jhoicas/crm-api/internal/domain/access"
	domaininv "github.com/jhoicas/crm-api/internal/domain/inventory"
	infragoogle "github.com/jhoicas/crm-api/internal/infrastructure/google"
	infrapdf "github.com/jhoicas/crm-api/internal/infrastructure/pdf"
	"github.com/jhoicas/crm-api/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/crm-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/crm-api/internal/interfaces/http"
	"github.com/jhoicas/crm-api/pkg/config"
	"github.com/jhoicas/crm-api/pkg/logger"
	"github.com/jhoicas/crm-api/pkg/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		version, err := postgres.Migrate(cfg.DB.ConnectionString())
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Uint("version", version).Msg("migraciones aplicadas")
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	datePolicy, err := domaininv.ParseDatePolicy(cfg.Inventory.BatchDatePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de inventario")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	movementRepo := postgres.NewInventoryMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	tierRepo := postgres.NewPriceTierRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	salespersonRepo := postgres.NewSalespersonRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	applicationRepo := postgres.NewJobApplicationRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	v := validation.New("CO")
	gate := access.NewGate(cfg.Access.PrivilegedRoles, cfg.Access.PurchasePriceRoles)

	productUC := usecase.NewProductUseCase(productRepo, movementRepo, saleRepo, tierRepo, v)
	clientUC := usecase.NewClientUseCase(clientRepo, saleRepo, v)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo, batchRepo, v)
	salespersonUC := usecase.NewSalespersonUseCase(salespersonRepo, saleRepo, v)
	userUC := usecase.NewUserUseCase(userRepo, v)
	inventoryUC := inventory.NewUseCase(txRunner, productRepo, batchRepo, movementRepo, supplierRepo, v, datePolicy)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)

	// Comprobante PDF y exportación a Excel de ventas
	receipts := infrapdf.NewMarotoReceiptGenerator(infrapdf.Issuer{
		Name:    cfg.Issuer.Name,
		TaxID:   cfg.Issuer.TaxID,
		Address: cfg.Issuer.Address,
		Phone:   cfg.Issuer.Phone,
	})
	salesUC := sales.NewUseCase(txRunner, saleRepo, clientRepo, productRepo, salespersonRepo, v, receipts, infraxlsx.NewSalesExporter())

	authUC := auth.NewAuthUseCase(userRepo, gate, v, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Selección: hoja de vida a Drive o Cloud Storage, fila opcional en Sheets.
	googleOpts := infragoogle.ClientOptions(cfg.Google)
	var files recruitment.FileSink
	switch cfg.Recruitment.FileSink {
	case "gcs":
		gcs, err := infragoogle.NewGCSSink(ctx, cfg.Google.GCSBucket, googleOpts...)
		if err != nil {
			log.Fatal().Err(err).Msg("Cloud Storage")
		}
		defer gcs.Close()
		files = gcs
	default:
		drive, err := infragoogle.NewDriveSink(ctx, cfg.Google.DriveFolderID, googleOpts...)
		if err != nil {
			log.Fatal().Err(err).Msg("Google Drive")
		}
		files = drive
	}
	var rows recruitment.RowSink
	if cfg.Recruitment.SheetEnabled && cfg.Google.SpreadsheetID != "" {
		sheet, err := infragoogle.NewSheetsSink(ctx, cfg.Google.SpreadsheetID, cfg.Google.SheetRange, googleOpts...)
		if err != nil {
			log.Warn().Err(err).Msg("Google Sheets no disponible, se omite el registro secundario")
		} else {
			rows = sheet
		}
	}
	recruitmentUC := recruitment.NewUseCase(
		jobRepo, applicationRepo, files, rows, v,
		log, int64(cfg.Recruitment.MaxUploadMB)<<20,
	)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:        cfg.App.Name,
		BodyLimitMB: cfg.HTTP.BodyLimitMB,
	}, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "CRM API",
			}))
		} else {
			log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger no encontrado, UI deshabilitada")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	if err := httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		ClientUC:      clientUC,
		SupplierUC:    supplierUC,
		SalespersonUC: salespersonUC,
		UserUC:        userUC,
		InventoryUC:   inventoryUC,
		SalesUC:       salesUC,
		AuthUC:        authUC,
		RecruitmentUC: recruitmentUC,
		DashboardUC:   dashboardUC,
		Gate:          gate,
		JWTSecret:     cfg.JWT.Secret,
		LoginRate:     cfg.RateLimit.Login,
	}); err != nil {
		log.Fatal().Err(err).Msg("registro de rutas")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
