package server

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"dividendwatch/services/dividends"
	"dividendwatch/services/dividends/model"
)

func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// parseFilter reads the optional from/to query params.
func parseFilter(c fiber.Ctx) (dividends.Filter, error) {
	var f dividends.Filter
	if from := c.Query("from"); from != "" {
		parsed, err := time.Parse(model.DateFormat, from)
		if err != nil {
			return f, err
		}
		f.From = parsed
	}
	if to := c.Query("to"); to != "" {
		parsed, err := time.Parse(model.DateFormat, to)
		if err != nil {
			return f, err
		}
		f.To = parsed
	}
	return f, nil
}

func (s *Server) listDistributions(c fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "from/to must be YYYY-MM-DD dates")
	}

	records, err := s.store.Query(c.Context(), filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read distribution history")
	}
	return c.JSON(records)
}

func (s *Server) listFundDistributions(c fiber.Ctx) error {
	fund, ok := s.catalog.Lookup(c.Params("symbol"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown fund symbol")
	}

	filter, err := parseFilter(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "from/to must be YYYY-MM-DD dates")
	}
	filter.Symbol = fund.Symbol

	records, err := s.store.Query(c.Context(), filter)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read distribution history")
	}
	return c.JSON(records)
}

func (s *Server) fundStats(c fiber.Ctx) error {
	fund, ok := s.catalog.Lookup(c.Params("symbol"))
	if !ok {
		return jsonError(c, fiber.StatusNotFound, "unknown fund symbol")
	}

	stats, err := s.store.Stats(c.Context(), fund.Symbol)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read distribution history")
	}
	return c.JSON(stats)
}

func (s *Server) listFunds(c fiber.Ctx) error {
	return c.JSON(s.catalog.Funds())
}

func (s *Server) status(c fiber.Ctx) error {
	status, err := s.store.Status(c.Context())
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "failed to read distribution history")
	}

	if status.Records == 0 {
		return c.JSON(fiber.Map{
			"status":  "no_data",
			"message": "no data available, run the scraper first",
		})
	}
	return c.JSON(fiber.Map{
		"status":       "ok",
		"records":      status.Records,
		"last_scraped": status.LastScraped.UTC().Format(time.RFC3339),
		"funds":        s.catalog.Symbols(),
	})
}
