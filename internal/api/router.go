package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ledgerly/finance-api/internal/api/handler"
	"github.com/ledgerly/finance-api/internal/api/metrics"
	"github.com/ledgerly/finance-api/internal/api/middleware"
	"github.com/ledgerly/finance-api/internal/core/access"
	"github.com/ledgerly/finance-api/internal/core/ports"

	_ "github.com/ledgerly/finance-api/docs"
)

const bodyLimit = "10M"

// Services groups the domain services the router exposes.
type Services struct {
	Auth         ports.AuthService
	Transactions ports.TransactionService
	Budgets      ports.BudgetService
	Clients      ports.ClientService
	Invoices     ports.InvoiceService
	Dashboard    ports.DashboardService
	Audit        ports.AuditService
	Export       ports.ExportService
}

// Deps is everything NewRouter needs. Limiter may be nil to disable rate
// limiting on the auth routes. A nil Registry uses the default Prometheus
// registry.
type Deps struct {
	Services
	Authorizer  *access.Authorizer
	Files       ports.FileStore
	UploadDir   string
	Limiter     middleware.Limiter
	Health      *handler.HealthHandler
	CORSOrigins []string
	Registry    *prometheus.Registry
	Logger      zerolog.Logger
}

// guard hands out Authorize middleware and remembers every permission key a
// route was registered with.
type guard struct {
	authz *access.Authorizer
	keys  []access.Key
}

func (g *guard) allow(res access.Resource, act access.Action) echo.MiddlewareFunc {
	g.keys = append(g.keys, access.Key{Resource: res, Action: act})
	return middleware.Authorize(g.authz, res, act)
}

// NewRouter builds the Echo instance with all routes registered. It fails
// when a registered route has no permission table entry.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	var registerer prometheus.Registerer = prometheus.DefaultRegisterer
	var gatherer prometheus.Gatherer = prometheus.DefaultGatherer
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "finance",
		Registerer: registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/health", d.Health.Liveness)
	e.GET("/health/ready", d.Health.Readiness)
	e.Static(handler.UploadsPrefix, d.UploadDir)

	api := e.Group("/api")
	api.GET("/health", d.Health.API)
	api.GET("/categories", handler.Categories)
	api.GET("/accounts", handler.Accounts)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(d.Auth)
	auth := api.Group("/auth")
	if d.Limiter != nil {
		auth.Use(middleware.RateLimit(d.Limiter, "auth", d.Logger, func(scope string) {
			metrics.RateLimitedTotal.WithLabelValues(scope).Inc()
		}))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	authn := middleware.Auth(d.Auth)
	auth.GET("/me", authHandler.Me, authn)

	// --- Protected routes: Auth, then Authorize, then the handler ---
	g := &guard{authz: d.Authorizer}
	private := api.Group("", authn)

	dashboard := handler.NewDashboardHandler(d.Dashboard)
	private.GET("/dashboard", dashboard.Snapshot, g.allow(access.ResourceDashboard, access.ActionView))

	tx := handler.NewTransactionHandler(d.Transactions, d.Files)
	private.GET("/transactions", tx.List, g.allow(access.ResourceTransactions, access.ActionView))
	private.POST("/transactions", tx.Create, g.allow(access.ResourceTransactions, access.ActionCreate))
	private.GET("/transactions/export.csv", tx.ExportCSV, g.allow(access.ResourceTransactions, access.ActionExport))
	private.POST("/transactions/import.csv", tx.ImportCSV, g.allow(access.ResourceTransactions, access.ActionImport))
	private.PUT("/transactions/:id", tx.Update, g.allow(access.ResourceTransactions, access.ActionUpdate))
	private.DELETE("/transactions/:id", tx.Delete, g.allow(access.ResourceTransactions, access.ActionDelete))

	budgets := handler.NewBudgetHandler(d.Budgets)
	private.GET("/budgets", budgets.List, g.allow(access.ResourceBudgets, access.ActionView))
	private.POST("/budgets", budgets.Create, g.allow(access.ResourceBudgets, access.ActionCreate))
	private.PUT("/budgets/:id", budgets.Update, g.allow(access.ResourceBudgets, access.ActionUpdate))
	private.DELETE("/budgets/:id", budgets.Delete, g.allow(access.ResourceBudgets, access.ActionDelete))

	clients := handler.NewClientHandler(d.Clients)
	private.GET("/clients", clients.List, g.allow(access.ResourceClients, access.ActionView))
	private.GET("/clients/:id", clients.Get, g.allow(access.ResourceClients, access.ActionDetail))
	private.POST("/clients", clients.Create, g.allow(access.ResourceClients, access.ActionCreate))
	private.PUT("/clients/:id", clients.Update, g.allow(access.ResourceClients, access.ActionUpdate))
	private.DELETE("/clients/:id", clients.Delete, g.allow(access.ResourceClients, access.ActionDelete))

	invoices := handler.NewInvoiceHandler(d.Invoices)
	private.GET("/invoices", invoices.List, g.allow(access.ResourceInvoices, access.ActionView))
	private.GET("/invoices/:id", invoices.Get, g.allow(access.ResourceInvoices, access.ActionDetail))
	private.POST("/invoices", invoices.Create, g.allow(access.ResourceInvoices, access.ActionCreate))
	private.PUT("/invoices/:id", invoices.Update, g.allow(access.ResourceInvoices, access.ActionUpdate))
	private.DELETE("/invoices/:id", invoices.Delete, g.allow(access.ResourceInvoices, access.ActionDelete))

	audit := handler.NewAuditHandler(d.Audit)
	private.GET("/audit", audit.Recent, g.allow(access.ResourceAudit, access.ActionView))

	// Export authorizes inside the handler once the body names the resource.
	export := handler.NewExportHandler(d.Export, d.Authorizer)
	private.POST("/export", export.Export)
	for _, res := range handler.ExportResources {
		g.keys = append(g.keys, access.Key{Resource: res, Action: access.ActionExport})
	}

	if err := d.Authorizer.Table().Require(g.keys...); err != nil {
		return nil, err
	}
	return e, nil
}
