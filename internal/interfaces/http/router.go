package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/renewal-tracking-api/internal/application/auth"
	"github.com/jhoicas/renewal-tracking-api/internal/application/renewal"
	"github.com/jhoicas/renewal-tracking-api/internal/application/usecase"
	"github.com/jhoicas/renewal-tracking-api/internal/domain/entity"
	"github.com/jhoicas/renewal-tracking-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	UserUC      *usecase.UserUseCase
	CurrencyUC  *usecase.CurrencyExchangeUseCase
	RenewalUC   *renewal.RenewalUseCase
	Calculator  *renewal.Calculator
	Tokens      *jwt.Signer
	MaxUploadMB int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	authn := AuthMiddleware(deps.Tokens)

	anyRole := RequireRole()
	sales := RequireRole(entity.RoleAdmin, entity.RoleVentas)
	purchasing := RequireRole(entity.RoleAdmin, entity.RoleCompras)
	admin := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: alta y consulta públicas; la edición solo para el admin de la propia empresa.
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", authn, admin, companyHandler.Update)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", authn, anyRole)

	users := protected.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	users.Get("/", admin, userHandler.List)
	users.Put("/:id/role", admin, userHandler.UpdateRole)

	// Currency Exchange
	fx := protected.Group("/currency-exchanges")
	fxHandler := NewCurrencyExchangeHandler(deps.CurrencyUC)
	fx.Get("/", fxHandler.List)
	fx.Get("/resolve", fxHandler.Resolve)
	fx.Post("/", admin, fxHandler.Create)

	// Calculadores puros (vista previa)
	calc := protected.Group("/calculator")
	calcHandler := NewCalculatorHandler(deps.Calculator)
	calc.Post("/line", calcHandler.Line)
	calc.Post("/totals", calcHandler.Totals)
	calc.Post("/renewal-status", calcHandler.RenewalStatus)

	// Renewal Tracking
	renewals := protected.Group("/renewals")
	h := NewRenewalHandler(deps.RenewalUC, deps.MaxUploadMB)
	renewals.Get("/", h.List)
	renewals.Post("/", sales, h.Create)
	renewals.Get("/:id", h.GetByID)
	renewals.Put("/:id", sales, h.Update)
	renewals.Delete("/:id", sales, h.Delete)
	renewals.Post("/:id/recalculate", sales, h.Recalculate)
	renewals.Post("/:id/submit", sales, h.Submit)
	renewals.Post("/:id/cancel", sales, h.Cancel)
	renewals.Get("/:id/items/export", h.ExportItems)
	renewals.Post("/:id/items/import", sales, h.ImportItems)
	renewals.Get("/:id/pdf", h.PDF)
	renewals.Get("/:id/quotations", h.ListQuotations)
	renewals.Post("/:id/request-for-quotation", purchasing, h.MakeQuotation("request-for-quotation"))
	renewals.Post("/:id/supplier-quotation", purchasing, h.MakeQuotation("supplier-quotation"))
	renewals.Post("/:id/quotation", sales, h.MakeQuotation("quotation"))
}
