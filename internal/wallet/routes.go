package wallet

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"arguz-casino/internal/errs"
	"arguz-casino/internal/ledger"
	"arguz-casino/internal/security"
)

// RegisterRoutes exposes the caller's own balance and movements.
func RegisterRoutes(r fiber.Router, s *Service) {
	r.Get("/wallet", func(c *fiber.Ctx) error {
		bal, err := s.Balance(security.UserID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{
			"available": bal.Available,
			"held":      bal.Held,
			"total":     bal.Available.Add(bal.Held),
		})
	})

	r.Get("/wallet/movements", func(c *fiber.Ctx) error {
		moves, err := s.Movements(security.UserID(c), c.QueryInt("limit", 50))
		if err != nil {
			return fail(c, err)
		}
		if moves == nil {
			moves = []ledger.Movement{}
		}
		return c.JSON(fiber.Map{"items": moves, "count": len(moves)})
	})
}

type adminMoveRequest struct {
	UserID      int64   `json:"user_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

// RegisterAdminRoutes exposes manual funding under the admin guard.
func RegisterAdminRoutes(r fiber.Router, s *Service) {
	r.Post("/wallet/credit", func(c *fiber.Ctx) error {
		var req adminMoveRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		snap, err := s.Credit(c.Context(), req.UserID, decimal.NewFromFloat(req.Amount), req.Description)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "credited", "balance": snap.After})
	})

	r.Post("/wallet/debit", func(c *fiber.Ctx) error {
		var req adminMoveRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		snap, err := s.Debit(c.Context(), req.UserID, decimal.NewFromFloat(req.Amount), req.Description)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"status": "debited", "balance": snap.After})
	})
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(errs.HTTPStatus(err)).JSON(fiber.Map{"error": errs.Message(err)})
}
