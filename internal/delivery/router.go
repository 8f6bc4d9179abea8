package delivery

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"

	"contacts-service/internal/service"
	"contacts-service/internal/store"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"go.uber.org/zap"
)

//go:embed views
var viewsFS embed.FS

// DefaultBodyLimit - предел тела запроса: форма контакта и вход занимают единицы килобайт
const DefaultBodyLimit = 64 * 1024

// Options - зависимости HTTP приложения
type Options struct {
	Logger     *zap.Logger
	Verifier   service.CredentialVerifier
	Sessions   *service.SessionCodec
	Workspaces *service.WorkspaceStore
	Metrics    *metrics.Set

	// ProtectedPaths - шаблоны путей под Auth Gate, пусто = DefaultProtectedPaths
	ProtectedPaths []string
	// Store - эталонное хранилище для /api/contacts, nil = маршруты не монтируются
	Store store.ContactsStore
	// Ready - проверка готовности для /readiness, nil = всегда готов
	Ready func() error

	// BodyLimit - максимальный размер тела запроса, 0 = DefaultBodyLimit
	BodyLimit int

	SecureCookies bool
	AllowOrigins  string
	// AccessLog - куда писать access log, nil = stdout
	AccessLog io.Writer
}

// NewApp собирает fiber приложение со всеми маршрутами
func NewApp(opts Options) (*fiber.App, error) {
	if opts.Verifier == nil {
		return nil, errors.New("credential verifier is required")
	}
	if opts.Sessions == nil || opts.Workspaces == nil {
		return nil, errors.New("session codec and workspace store are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewSet()
	}
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = DefaultBodyLimit
	}

	views, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, fmt.Errorf("failed to open views: %w", err)
	}

	app := fiber.New(fiber.Config{
		Views:                 html.NewFileSystem(http.FS(views), ".html"),
		BodyLimit:             opts.BodyLimit,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				opts.Logger.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{Output: opts.AccessLog}))
	if opts.AllowOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowOrigins,
			AllowCredentials: true,
		}))
	}
	app.Use(MeterRequests(opts.Metrics))
	app.Use(healthcheck.New(healthcheck.Config{
		LivenessEndpoint:  "/liveness",
		ReadinessEndpoint: "/readiness",
		ReadinessProbe: func(*fiber.Ctx) bool {
			return opts.Ready == nil || opts.Ready() == nil
		},
	}))
	app.Get("/metrics", MetricsHandler(opts.Metrics))

	gate := NewAuthGate(opts.Sessions, opts.ProtectedPaths, opts.Logger)
	app.Use(gate.Handle)

	// Вход и выход
	login := NewLoginHandler(opts.Verifier, opts.Sessions, opts.Workspaces, opts.SecureCookies, opts.Logger)
	app.Get("/login", login.Form)
	app.Post("/login", login.Submit)
	app.Post("/logout", login.Logout)
	app.Get("/session", SessionStatus)

	// Экран контактов
	contacts := NewContactsHandler(opts.Workspaces, opts.Logger)
	app.Get("/", contacts.Page)
	dashboard := app.Group("/dashboard/contacts")
	dashboard.Get("/", contacts.View)
	dashboard.Post("/new", contacts.New)
	dashboard.Post("/form", contacts.Form)
	dashboard.Post("/cancel", contacts.Cancel)
	dashboard.Post("/:id/edit", contacts.Edit)
	dashboard.Post("/:id/delete", contacts.Delete)

	// Эталонное хранилище
	if opts.Store != nil {
		NewStoreHandler(opts.Store, opts.Logger).Register(app.Group("/api/contacts"))
	}

	return app, nil
}
