package fairness

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"arguz-casino/internal/errs"
	"arguz-casino/internal/event"
	"arguz-casino/internal/security"
)

type Handler struct {
	store *Store
	bus   *event.Bus
	log   *zap.Logger
}

func NewHandler(store *Store, bus *event.Bus, log *zap.Logger) *Handler {
	return &Handler{store: store, bus: bus, log: log}
}

func RegisterRoutes(r fiber.Router, h *Handler) {
	r.Get("/pf-seeds/:game/me", h.mySeed)
	r.Post("/pf-seeds/:game/rotate", h.rotate)
	r.Patch("/pf-seeds/:game/client", h.setClientValue)
	r.Post("/pf-seeds/verify", h.verify)
}

func (h *Handler) mySeed(c *fiber.Ctx) error {
	uid := security.UserID(c)
	game := c.Params("game")

	pub, err := h.store.ActiveSeed(c.Context(), uid, game)
	if err != nil {
		return h.fail(c, err, "seed lookup failed")
	}
	return c.JSON(pub)
}

func (h *Handler) rotate(c *fiber.Ctx) error {
	uid := security.UserID(c)
	game := c.Params("game")

	rev, pub, err := h.store.Rotate(c.Context(), uid, game)
	if err != nil {
		return h.fail(c, err, "seed rotation failed")
	}

	h.bus.Publish(event.EventSeedRotated, pub)

	return c.JSON(fiber.Map{
		"rotated":         true,
		"reveal_previous": rev,
		"new_seed":        pub,
	})
}

func (h *Handler) setClientValue(c *fiber.Ctx) error {
	uid := security.UserID(c)
	game := c.Params("game")

	var body struct {
		ClientValue string `json:"client_value"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	pub, err := h.store.SetClientValue(c.Context(), uid, game, body.ClientValue)
	if err != nil {
		return h.fail(c, err, "client value update failed")
	}
	return c.JSON(pub)
}

// verify recomputes the commitment and the per-round fraction from a revealed
// triple, so a player can audit any past round offline.
func (h *Handler) verify(c *fiber.Ctx) error {
	var body struct {
		ServerSecret   string `json:"server_secret"`
		ServerSeedHash string `json:"server_seed_hash"`
		ClientValue    string `json:"client_value"`
		Counter        int64  `json:"counter"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if body.ServerSecret == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "server_secret is required"})
	}

	fraction, digest := Derive(body.ServerSecret, body.ClientValue, body.Counter)

	res := fiber.Map{
		"server_seed_hash": HashSecret(body.ServerSecret),
		"fraction":         fraction,
		"hmac":             digest,
	}
	if body.ServerSeedHash != "" {
		res["hash_matches"] = Verify(body.ServerSecret, body.ServerSeedHash)
	}
	return c.JSON(res)
}

func (h *Handler) fail(c *fiber.Ctx, err error, msg string) error {
	if errs.KindOf(err) == errs.KindInternal {
		h.log.Error(msg, zap.Error(err))
	}
	return c.Status(errs.HTTPStatus(err)).JSON(fiber.Map{"error": errs.Message(err)})
}
