package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/renewal-tracking-api/docs"
	"github.com/jhoicas/renewal-tracking-api/internal/application/auth"
	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/application/usecase"
	"github.com/jhoicas/renewal-tracking-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/renewal-tracking-api/internal/infrastructure/pdf"
	"github.com/jhoicas/renewal-tracking-api/internal/infrastructure/postgres"
	"github.com/jhoicas/renewal-tracking-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/renewal-tracking-api/internal/interfaces/http"
	"github.com/jhoicas/renewal-tracking-api/pkg/config"
	"github.com/jhoicas/renewal-tracking-api/pkg/jwt"
	"github.com/jhoicas/renewal-tracking-api/pkg/logger"
)

// @title                       Renewal Tracking API
// @version                     1.0
// @description                 Seguimiento de renovaciones de licencias: valoración multimoneda y días restantes.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	loc, err := time.LoadLocation(cfg.Renewal.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Renewal.Timezone).Msg("zona horaria inválida")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	// Redis es opcional: sin REDIS_ADDR (o si no responde) no hay caché ni bloqueos.
	var (
		rateCache renewal.RateCache
		locker    renewal.DocumentLocker
	)
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis no disponible; se continúa sin caché ni bloqueos")
		} else {
			defer rdb.Close()
			rateCache = cache.NewRateCache(rdb, time.Duration(cfg.Redis.CacheTTL)*time.Second, log)
			locker = cache.NewLocker(rdb)
		}
	}

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	fxRepo := postgres.NewCurrencyExchangeRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := renewal.NewCurrencyResolver(companyRepo, fxRepo, rateCache, log)
	renewalUC := renewal.NewRenewalUseCase(renewal.Deps{
		TxRunner:      txRunner,
		RenewalRepo:   postgres.NewRenewalRepository(pool),
		QuotationRepo: postgres.NewQuotationRepository(pool),
		CompanyRepo:   companyRepo,
		Resolver:      resolver,
		Locker:        locker,
		PDF:           infrapdf.NewMarotoPDFGenerator(),
		Codecs:        []renewal.TableCodec{spreadsheet.CSVCodec{}, spreadsheet.XLSXCodec{}},
		Config: renewal.Config{
			MaxImportRows: cfg.Renewal.MaxImportRows,
			Location:      loc,
		},
		Log: log,
	})

	var (
		companyCache usecase.CompanyCurrencyCache
		rateWriter   usecase.RateWriter
	)
	if rateCache != nil {
		companyCache = rateCache
		rateWriter = rateCache
	}
	companyUC := usecase.NewCompanyUseCase(companyRepo, companyCache)
	currencyUC := usecase.NewCurrencyExchangeUseCase(fxRepo, resolver, rateWriter)
	userUC := usecase.NewUserUseCase(userRepo)
	tokens, err := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("JWT_SECRET es obligatorio")
	}
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, tokens)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    (cfg.Renewal.MaxUploadMB + 1) << 20,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Renewal Tracking API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   companyUC,
		UserUC:      userUC,
		CurrencyUC:  currencyUC,
		RenewalUC:   renewalUC,
		Calculator:  renewal.NewCalculator(loc),
		Tokens:      tokens,
		MaxUploadMB: cfg.Renewal.MaxUploadMB,
	})

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
