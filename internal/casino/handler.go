package casino

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"arguz-casino/internal/errs"
	"arguz-casino/internal/security"
)

type Handler struct {
	service     *Service
	leaderboard *Leaderboard
	validate    *validator.Validate
	log         *zap.Logger
}

func NewHandler(service *Service, leaderboard *Leaderboard, log *zap.Logger) *Handler {
	return &Handler{
		service:     service,
		leaderboard: leaderboard,
		validate:    validator.New(),
		log:         log,
	}
}

func RegisterRoutes(r fiber.Router, h *Handler) {
	r.Post("/casino/:game/play", h.play)
	r.Get("/casino/:game/my-rounds", h.myRounds)
	r.Get("/casino/leaderboard", h.topPlayers)
}

func (h *Handler) play(c *fiber.Ctx) error {
	uid := security.UserID(c)
	game := c.Params("game")

	var in PlayInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stake must be a positive number"})
	}

	receipt, err := h.service.Play(c.Context(), uid, game, in)
	if err != nil {
		return h.fail(c, err, "round failed")
	}

	return c.Status(fiber.StatusCreated).JSON(receipt)
}

func (h *Handler) myRounds(c *fiber.Ctx) error {
	uid := security.UserID(c)
	game := c.Params("game")

	rounds, err := h.service.ListMyRounds(uid, game)
	if err != nil {
		return h.fail(c, err, "round listing failed")
	}
	if rounds == nil {
		rounds = []Round{}
	}
	return c.JSON(fiber.Map{"items": rounds, "count": len(rounds)})
}

func (h *Handler) topPlayers(c *fiber.Ctx) error {
	n := c.QueryInt("limit", 10)
	if n < 1 || n > 100 {
		n = 10
	}
	return c.JSON(h.leaderboard.Top(n))
}

func (h *Handler) fail(c *fiber.Ctx, err error, msg string) error {
	if errs.KindOf(err) == errs.KindInternal {
		h.log.Error(msg, zap.Error(err))
	}
	return c.Status(errs.HTTPStatus(err)).JSON(fiber.Map{"error": errs.Message(err)})
}
