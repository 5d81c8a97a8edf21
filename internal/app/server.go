package app

import (
	"fmt"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"arguz-casino/internal/audit"
	"arguz-casino/internal/casino"
	"arguz-casino/internal/config"
	"arguz-casino/internal/db"
	"arguz-casino/internal/event"
	"arguz-casino/internal/fairness"
	"arguz-casino/internal/logger"
	"arguz-casino/internal/monitoring"
	"arguz-casino/internal/security"
	"arguz-casino/internal/wallet"
	"arguz-casino/internal/ws"
)

type Server struct {
	app *fiber.App
	cfg *config.Config
	log *zap.Logger
}

func NewServer() (*Server, error) {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	monitoring.Init()

	defaults, err := config.LoadGameDefaults(cfg.GamesPath)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus()
	locks := db.NewKeyedMutex()
	hub := ws.NewHub()
	auditor := audit.New(conn, log)

	seeds := fairness.NewStore(conn)
	configs := casino.NewConfigStore(conn)
	if err := configs.SeedDefaults(defaults); err != nil {
		return nil, err
	}

	board := casino.NewLeaderboard()
	monitor := casino.NewRTPMonitor()
	casinoService := casino.NewService(conn, seeds, configs, locks, bus, log)
	walletService := wallet.New(conn, locks, bus, auditor, log)

	casino.RegisterConsumers(bus, auditor, board, monitor, hub)

	app := fiber.New(fiber.Config{
		AppName:               "arguz-casino",
		DisableStartupMessage: cfg.Env == "prod",
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/ws/feed", websocket.New(hub.Handler))

	api := app.Group("/api", security.UserGuard(cfg.APIKey))
	casino.RegisterRoutes(api, casino.NewHandler(casinoService, board, log))
	fairness.RegisterRoutes(api, fairness.NewHandler(seeds, bus, log))
	wallet.RegisterRoutes(api, walletService)

	admin := app.Group("/admin", security.AdminGuard(cfg.AdminToken))
	casino.RegisterAdminRoutes(admin, casino.NewAdminHandler(configs, log))
	wallet.RegisterAdminRoutes(admin, walletService)

	return &Server{app: app, cfg: cfg, log: log}, nil
}

func (s *Server) Start() error {
	s.log.Info("server starting", zap.String("port", s.cfg.Port))
	return s.app.Listen(fmt.Sprintf(":%s", s.cfg.Port))
}
