package casino

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"arguz-casino/internal/errs"
	"arguz-casino/internal/rtp"
)

// AdminHandler manages game configuration. It lives behind the admin guard;
// rounds only ever read what it writes.
type AdminHandler struct {
	configs *ConfigStore
	log     *zap.Logger
}

func NewAdminHandler(configs *ConfigStore, log *zap.Logger) *AdminHandler {
	return &AdminHandler{configs: configs, log: log}
}

func RegisterAdminRoutes(r fiber.Router, h *AdminHandler) {
	r.Get("/games", h.list)
	r.Get("/games/:slug", h.get)
	r.Put("/games/:slug", h.upsert)
	r.Patch("/games/:slug", h.upsert)
	r.Delete("/games/:slug", h.deactivate)
}

type configPayload struct {
	Active    *bool       `json:"active"`
	RTPTarget float64     `json:"rtp_target"`
	MinStake  float64     `json:"min_stake"`
	MaxStake  float64     `json:"max_stake"`
	Mult      float64     `json:"mult,omitempty"`
	Paytable  []rtp.Entry `json:"paytable,omitempty"`
}

func (h *AdminHandler) list(c *fiber.Ctx) error {
	items, err := h.configs.List()
	if err != nil {
		return h.fail(c, err)
	}
	if items == nil {
		items = []GameConfig{}
	}
	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

func (h *AdminHandler) get(c *fiber.Ctx) error {
	cfg, err := h.configs.Get(c.Params("slug"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cfg)
}

func (h *AdminHandler) upsert(c *fiber.Ctx) error {
	var body configPayload
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	payout := FlatPayout(body.Mult)
	if len(body.Paytable) > 0 {
		payout = TablePayout(body.Paytable)
	}

	active := true
	if body.Active != nil {
		active = *body.Active
	}

	cfg := GameConfig{
		GameSlug:  c.Params("slug"),
		Active:    active,
		RTPTarget: body.RTPTarget,
		MinStake:  decimal.NewFromFloat(body.MinStake),
		MaxStake:  decimal.NewFromFloat(body.MaxStake),
		Payout:    payout,
	}

	saved, err := h.configs.Upsert(cfg)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(saved)
}

func (h *AdminHandler) deactivate(c *fiber.Ctx) error {
	cfg, err := h.configs.Deactivate(c.Params("slug"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(cfg)
}

func (h *AdminHandler) fail(c *fiber.Ctx, err error) error {
	if errs.KindOf(err) == errs.KindInternal {
		h.log.Error("game config operation failed", zap.Error(err))
	}
	return c.Status(errs.HTTPStatus(err)).JSON(fiber.Map{"error": errs.Message(err)})
}
