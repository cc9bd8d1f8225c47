package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/saturnino-fabrica-de-software/lookout/internal/api/docs"
	"github.com/saturnino-fabrica-de-software/lookout/internal/api/handler"
	"github.com/saturnino-fabrica-de-software/lookout/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/lookout/internal/detector"
	"github.com/saturnino-fabrica-de-software/lookout/internal/repository"
	"github.com/saturnino-fabrica-de-software/lookout/internal/service"
	"github.com/saturnino-fabrica-de-software/lookout/internal/store"
	"github.com/saturnino-fabrica-de-software/lookout/internal/ws"
)

type Dependencies struct {
	EventRepo repository.EventRepositoryInterface
	Frames    store.FrameStore
	Detector  detector.Detector
	DB        *pgxpool.Pool
}

type Router struct {
	app       *fiber.App
	logger    *slog.Logger
	deps      *Dependencies
	wsHub     *ws.Hub
	cancelHub context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Lookout API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	var pinger handler.Pinger
	if r.deps != nil && r.deps.DB != nil {
		pinger = r.deps.DB
	}
	healthHandler := handler.NewHealthHandler(pinger)
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	// Only configure the pipeline routes if dependencies were provided
	if r.deps != nil {
		// WebSocket hub
		r.wsHub = ws.NewHub(r.logger)
		hubCtx, hubCancel := context.WithCancel(context.Background())
		r.cancelHub = hubCancel
		go r.wsHub.Run(hubCtx)

		// Ingestion service
		ingestService := service.NewIngestService(
			r.deps.Frames,
			r.deps.Detector,
			r.deps.EventRepo,
			r.wsHub,
			r.logger,
		)

		// Event routes
		eventsHandler := handler.NewEventsHandler(ingestService, r.deps.EventRepo, r.logger)
		r.app.Post("/events", eventsHandler.Create)
		r.app.Get("/events", eventsHandler.List)
		r.app.Get("/events/latest", eventsHandler.ListLatest)
		r.app.Get("/events/strangers", eventsHandler.ListStrangers)

		// Detection routes. Engine scan modes are only available when the
		// configured backend exposes them.
		engine, _ := r.deps.Detector.(handler.EngineController)
		detectionHandler := handler.NewDetectionHandler(ingestService, r.wsHub, engine, r.logger)
		r.app.Post("/process-image", detectionHandler.ProcessImage)
		r.app.Post("/detect-faces", detectionHandler.ScanFaces)
		r.app.Post("/monitor-parcel", detectionHandler.WatchParcel)
		r.app.Post("/camera/trigger", detectionHandler.TriggerCamera)
		r.app.Post("/live-detections", detectionHandler.PublishLiveDetections)

		// Stored frames
		framesHandler := handler.NewFramesHandler(r.deps.Frames)
		r.app.Get("/uploads/:handle", framesHandler.Serve)

		// WebSocket endpoint
		r.app.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.wsHub))
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Hub() *ws.Hub {
	return r.wsHub
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	// Stop WebSocket hub
	if r.cancelHub != nil {
		r.cancelHub()
	}

	return r.app.Shutdown()
}
