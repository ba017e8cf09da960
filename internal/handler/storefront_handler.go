package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ivens03/microservices-padoca/internal/cart"
	"github.com/ivens03/microservices-padoca/internal/catalog"
	mid "github.com/ivens03/microservices-padoca/internal/middleware"
	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/internal/orders"
	"github.com/ivens03/microservices-padoca/pkg/logger"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// FeedbackBackend accepts customer ratings
type FeedbackBackend interface {
	SubmitFeedback(ctx context.Context, auth padoca.Auth, req model.FeedbackRequest) (*model.Feedback, error)
}

// StorefrontHandler serves the customer menu, cart and checkout
type StorefrontHandler struct {
	catalog  *catalog.Cache
	carts    *cart.Store
	orders   *orders.Lifecycle
	feedback FeedbackBackend
}

// NewStorefrontHandler creates the storefront handler
func NewStorefrontHandler(cat *catalog.Cache, carts *cart.Store, lifecycle *orders.Lifecycle, feedback FeedbackBackend) *StorefrontHandler {
	return &StorefrontHandler{catalog: cat, carts: carts, orders: lifecycle, feedback: feedback}
}

type menuResponse struct {
	Categories []model.Category `json:"categorias"`
	Products   []model.Product  `json:"produtos"`
}

// Menu lists active products, optionally for one category.
// A failed reload serves the previous catalog.
func (h *StorefrontHandler) Menu(c echo.Context) error {
	log := logger.FromContext(c)

	var categoryID uint
	if raw := c.QueryParam("categoria"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			log.Warn("Invalid categoria parameter", zap.String("value", raw))
			return badRequest(c, "categoria must be a number")
		}
		categoryID = uint(id)
	}

	if !h.catalog.Loaded() || c.QueryParam("refresh") == "true" {
		if err := h.catalog.Load(c.Request().Context()); err != nil {
			log.Warn("Serving stale menu", zap.Error(err))
		}
	}

	products := h.catalog.Menu(categoryID)
	log.Info("Menu retrieved", zap.Int("count", len(products)), zap.Uint("category_id", categoryID))
	return c.JSON(http.StatusOK, menuResponse{Categories: h.catalog.Categories(), Products: products})
}

// Cart returns the lines, badge count and total of the caller's cart
func (h *StorefrontHandler) Cart(c echo.Context) error {
	return c.JSON(http.StatusOK, h.carts.Get(mid.SessionID(c)).Summary())
}

type addItemRequest struct {
	ProductID uint `json:"produtoId"`
}

// AddItem puts one unit of a product in the cart. Sold-out products are refused.
func (h *StorefrontHandler) AddItem(c echo.Context) error {
	log := logger.FromContext(c)

	var req addItemRequest
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return badRequest(c, "produtoId is required")
	}

	if !h.catalog.Loaded() {
		if err := h.catalog.Load(c.Request().Context()); err != nil {
			log.Warn("Catalog unavailable for cart", zap.Error(err))
		}
	}

	product, ok := h.catalog.Product(req.ProductID)
	if !ok || !product.Active {
		log.Warn("Product not on the menu", zap.Uint("product_id", req.ProductID))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
	}
	if !product.InStock() {
		log.Info("Refused sold-out product", zap.Uint("product_id", product.ID))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Produto esgotado"})
	}

	shopping := h.carts.Get(mid.SessionID(c))
	shopping.Add(product)
	return c.JSON(http.StatusOK, shopping.Summary())
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

// ChangeQuantity adjusts a cart line; lines reaching zero disappear
func (h *StorefrontHandler) ChangeQuantity(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "change quantity", err)
	}

	var req changeQuantityRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "delta must be a number")
	}

	shopping := h.carts.Get(mid.SessionID(c))
	shopping.ChangeQuantity(id, req.Delta)
	return c.JSON(http.StatusOK, shopping.Summary())
}

type checkoutRequest struct {
	Customer string `json:"cliente"`
}

// Checkout submits the cart as a counter order. The cart survives a failure.
func (h *StorefrontHandler) Checkout(c echo.Context) error {
	log := logger.FromContext(c)
	sess, _ := mid.CurrentSession(c)

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request data")
	}
	if req.Customer == "" {
		req.Customer = sess.User().Name
	}

	order, err := h.orders.SubmitCart(c.Request().Context(), sess, req.Customer, h.carts.Get(mid.SessionID(c)))
	if err != nil {
		return respondError(c, "checkout", err)
	}

	log.Info("Checkout completed", zap.Uint("order_id", order.ID))
	return c.JSON(http.StatusCreated, order)
}

// Feedback forwards a rating to the backend
func (h *StorefrontHandler) Feedback(c echo.Context) error {
	log := logger.FromContext(c)
	sess, _ := mid.CurrentSession(c)

	var req model.FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request data")
	}
	if req.Customer == "" {
		req.Customer = sess.User().Name
	}
	if err := req.Validate(); err != nil {
		return respondError(c, "feedback", err)
	}

	fb, err := h.feedback.SubmitFeedback(c.Request().Context(), sess, req)
	if err != nil {
		return respondError(c, "feedback", err)
	}

	log.Info("Feedback submitted", zap.Int("rating", req.Rating))
	return c.JSON(http.StatusCreated, fb)
}
