// Package server exposes the read-only query API over the distribution
// store. All mutation happens through the batch scraper, never here.
package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/static"

	"dividendwatch/services/dividends"
	"dividendwatch/services/dividends/model"
)

type Config struct {
	Addr string `json:"addr"`
	// directory holding the presentation page, served at /
	StaticDir string `json:"static_dir"`
}

type Server struct {
	App     *fiber.App
	store   dividends.Store
	catalog model.Catalog
	cfg     Config
}

func New(store dividends.Store, catalog model.Catalog, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":5000"
	}

	app := fiber.New(fiber.Config{
		AppName: "dividendwatch",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal server error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	// the presentation page may be opened straight from disk
	app.Use(cors.New())

	s := &Server{
		App:     app,
		store:   store,
		catalog: catalog,
		cfg:     cfg,
	}

	app.Get("/distributions", s.listDistributions)
	app.Get("/distributions/:symbol", s.listFundDistributions)
	app.Get("/distributions/:symbol/stats", s.fundStats)
	app.Get("/funds", s.listFunds)
	app.Get("/status", s.status)

	if cfg.StaticDir != "" {
		app.Get("/*", static.New(cfg.StaticDir))
	}

	return s
}

func (s *Server) Listen() error {
	return s.App.Listen(s.cfg.Addr)
}

func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
