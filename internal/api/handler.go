// ABOUTME: REST read surface over the product and NAV query facades.
// ABOUTME: Absent rows are success envelopes with null data; store faults become 500s.
package api

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/trans/sfm-mcp/internal/models"
	"github.com/trans/sfm-mcp/internal/storage"
	"go.uber.org/zap"
)

// Handler serves /api/v1.
type Handler struct {
	Logger   *zap.Logger
	Products storage.ProductRepository
	Daily    storage.DailyRepository
}

// NewHandler creates a Handler over the given facades.
func NewHandler(logger *zap.Logger, products storage.ProductRepository, daily storage.DailyRepository) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Logger: logger, Products: products, Daily: daily}
}

// ListProducts handles GET /api/v1/products.
func (h *Handler) ListProducts(c *fiber.Ctx) error {
	products, err := h.Products.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(Success(fmt.Sprintf("%d products", len(products)), products))
}

// GetProduct handles GET /api/v1/products/:code.
func (h *Handler) GetProduct(c *fiber.Ctx) error {
	code, err := pathParam(c, "code")
	if err != nil {
		return err
	}

	p, err := h.Products.FindByCode(c.UserContext(), code)
	if err != nil {
		return err
	}
	if p == nil {
		h.Logger.Debug("api.not_found", zap.String("prd_code", code))
		return c.JSON(Success(fmt.Sprintf("product %s not found", code), nil))
	}
	return c.JSON(Success("product "+code, p))
}

// SearchProducts handles GET /api/v1/products/search?name=.
func (h *Handler) SearchProducts(c *fiber.Ctx) error {
	name := c.Query("name")

	products, err := h.Products.SearchByName(c.UserContext(), name)
	if err != nil {
		return err
	}
	return c.JSON(Success(fmt.Sprintf("%d products matching %q", len(products), name), products))
}

// ListNav handles GET /api/v1/nav?prd_code=&iss_date=&ta_code=.
func (h *Handler) ListNav(c *fiber.Ctx) error {
	f := storage.NavFilter{
		PrdCode: c.Query("prd_code"),
		TaCode:  c.Query("ta_code"),
	}
	if raw := c.Query("iss_date"); raw != "" {
		d, err := models.ParseDate(raw)
		if err != nil {
			return err
		}
		f.IssDate = d
	}

	snapshots, err := storage.QueryNav(c.UserContext(), h.Daily, f)
	if err != nil {
		return err
	}
	return c.JSON(Success(fmt.Sprintf("%d snapshots", len(snapshots)), snapshots))
}

// GetNav handles GET /api/v1/nav/:code/:date.
func (h *Handler) GetNav(c *fiber.Ctx) error {
	code, err := pathParam(c, "code")
	if err != nil {
		return err
	}
	date, err := models.ParseDate(c.Params("date"))
	if err != nil {
		return err
	}

	s, err := h.Daily.FindByCodeAndDate(c.UserContext(), code, date)
	if err != nil {
		return err
	}
	if s == nil {
		h.Logger.Debug("api.not_found", zap.String("prd_code", code), zap.Stringer("iss_date", date))
		return c.JSON(Success(fmt.Sprintf("no nav for %s on %s", code, date), nil))
	}
	return c.JSON(Success(fmt.Sprintf("nav %s on %s", code, date), s))
}

// pathParam returns a route parameter with percent-escapes decoded.
// Fiber hands parameters over as they appeared in the raw path.
func pathParam(c *fiber.Ctx, name string) (string, error) {
	v, err := url.PathUnescape(c.Params(name))
	if err != nil {
		return "", fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
