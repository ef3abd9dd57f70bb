package server

import (
	"time"

	"docchat/app/api"
	"docchat/app/engine"
	"docchat/app/middleware"
	"docchat/config"
	"docchat/loader"
	"docchat/logger"
	"docchat/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app *fiber.App
	cfg *config.Config
	log *logger.Logger
}

func New(cfg *config.Config, log *logger.Logger, eng *engine.Engine, indexer *loader.Indexer, sessions store.SessionStorer) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: api.NewErrorHandler(log),
		BodyLimit:    cfg.App.BodyLimitMB * 1024 * 1024,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.App.CorsAllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))
	app.Use(middleware.RequestLogger(log))

	registerRoutes(app, cfg, log, eng, indexer, sessions)

	return &Server{
		app: app,
		cfg: cfg,
		log: log,
	}
}

func registerRoutes(app *fiber.App, cfg *config.Config, log *logger.Logger, eng *engine.Engine, indexer *loader.Indexer, sessions store.SessionStorer) {
	var (
		checkHandler   = api.NewCheckHandler()
		fileHandler    = api.NewFileHandler(indexer, sessions, log)
		queryHandler   = api.NewQueryHandler(eng)
		sessionHandler = api.NewSessionHandler(sessions, log)
		configHandler  = api.NewConfigHandler(cfg)
		check          = app.Group("/check")
	)

	app.Get("/", checkHandler.HandleRoot)
	check.Get("/healthy", checkHandler.HandleHealthy)

	app.Post("/upload", fileHandler.HandleUpload)
	app.Post("/query", queryHandler.HandleQuery)
	app.Get("/history/:session_id", sessionHandler.HandleHistory)
	app.Delete("/session/:session_id", sessionHandler.HandleDelete)
	app.Get("/sessions", sessionHandler.HandleList)
	app.Get("/config", configHandler.HandleGetConfig)
}

// App exposes the router so tests can drive it with app.Test.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	s.log.Info("server", "listening", map[string]interface{}{
		"addr": s.cfg.App.ListenAddr,
	})
	return s.app.Listen(s.cfg.App.ListenAddr)
}

func (s *Server) Shutdown() error {
	s.log.Info("server", "shutting down", map[string]interface{}{})
	return s.app.ShutdownWithTimeout(5 * time.Second)
}
