package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ivens03/microservices-padoca/internal/catalog"
	mid "github.com/ivens03/microservices-padoca/internal/middleware"
	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/internal/orders"
	"github.com/ivens03/microservices-padoca/pkg/logger"
	"github.com/ivens03/microservices-padoca/pkg/padoca"
	"github.com/ivens03/microservices-padoca/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ConsoleBackend is the management surface of the backend
type ConsoleBackend interface {
	DashboardStats(ctx context.Context, auth padoca.Auth) (*model.DashboardStats, error)
	CreateCategory(ctx context.Context, auth padoca.Auth, req model.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, auth padoca.Auth, id uint, req model.CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, auth padoca.Auth, id uint) error
	GetProduct(ctx context.Context, auth padoca.Auth, id uint) (*model.Product, error)
	CreateProduct(ctx context.Context, auth padoca.Auth, req model.ProductRequest, image *padoca.Upload) (*model.Product, error)
	UpdateProduct(ctx context.Context, auth padoca.Auth, id uint, req model.ProductRequest, image *padoca.Upload) (*model.Product, error)
	DeleteProduct(ctx context.Context, auth padoca.Auth, id uint) error
	ListUsers(ctx context.Context, auth padoca.Auth) ([]model.User, error)
	CreateUser(ctx context.Context, auth padoca.Auth, req model.UserRequest) (*model.User, error)
	ListFeedback(ctx context.Context, auth padoca.Auth) ([]model.Feedback, error)
}

// ConsoleHandler serves the manager console
type ConsoleHandler struct {
	backend ConsoleBackend
	catalog *catalog.Cache
	orders  *orders.Lifecycle
}

// NewConsoleHandler creates the console handler
func NewConsoleHandler(backend ConsoleBackend, cat *catalog.Cache, lifecycle *orders.Lifecycle) *ConsoleHandler {
	return &ConsoleHandler{backend: backend, catalog: cat, orders: lifecycle}
}

type dashboardResponse struct {
	Stats    *model.DashboardStats `json:"stats"`
	Critical []model.Product       `json:"criticos"`
}

// Dashboard loads the KPIs and the catalog side by side
func (h *ConsoleHandler) Dashboard(c echo.Context) error {
	log := logger.FromContext(c)
	sess, _ := mid.CurrentSession(c)

	var stats *model.DashboardStats
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		var err error
		stats, err = h.backend.DashboardStats(ctx, sess)
		return err
	})
	g.Go(func() error {
		// Catalog failures degrade to the cached snapshot
		if err := h.catalog.Load(ctx); err != nil {
			log.Warn("Dashboard using cached catalog", zap.Error(err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return respondError(c, "dashboard", err)
	}

	return c.JSON(http.StatusOK, dashboardResponse{Stats: stats, Critical: h.critical()})
}

// Critical lists the products at or below their minimum stock
func (h *ConsoleHandler) Critical(c echo.Context) error {
	if err := h.catalog.Load(c.Request().Context()); err != nil {
		logger.FromContext(c).Warn("Critical stock from cached catalog", zap.Error(err))
	}
	return c.JSON(http.StatusOK, h.critical())
}

func (h *ConsoleHandler) critical() []model.Product {
	critical := catalog.CriticalStock(h.catalog.Products())
	prometheus.RecordCriticalProducts(len(critical))
	return critical
}

// reload refreshes the cache after a catalog mutation
func (h *ConsoleHandler) reload(c echo.Context) {
	if err := h.catalog.Load(c.Request().Context()); err != nil {
		logger.FromContext(c).Warn("Catalog reload after change failed", zap.Error(err))
	}
}

// ListCategories returns the cached categories, loading them if needed
func (h *ConsoleHandler) ListCategories(c echo.Context) error {
	if !h.catalog.Loaded() {
		h.reload(c)
	}
	return c.JSON(http.StatusOK, h.catalog.Categories())
}

// CreateCategory adds a category
func (h *ConsoleHandler) CreateCategory(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	var req model.CategoryRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "nome is required")
	}

	category, err := h.backend.CreateCategory(c.Request().Context(), sess, req)
	if err != nil {
		return respondError(c, "create category", err)
	}
	h.reload(c)

	logger.FromContext(c).Info("Category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory edits a category
func (h *ConsoleHandler) UpdateCategory(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "update category", err)
	}
	var req model.CategoryRequest
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return badRequest(c, "nome is required")
	}

	category, err := h.backend.UpdateCategory(c.Request().Context(), sess, id, req)
	if err != nil {
		return respondError(c, "update category", err)
	}
	h.reload(c)
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category
func (h *ConsoleHandler) DeleteCategory(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "delete category", err)
	}
	if err := h.backend.DeleteCategory(c.Request().Context(), sess, id); err != nil {
		return respondError(c, "delete category", err)
	}
	h.reload(c)
	return c.NoContent(http.StatusNoContent)
}

// ListProducts returns the whole cached catalog, inactive products included
func (h *ConsoleHandler) ListProducts(c echo.Context) error {
	if !h.catalog.Loaded() {
		h.reload(c)
	}
	return c.JSON(http.StatusOK, h.catalog.Products())
}

// GetProduct reads one product straight from the backend
func (h *ConsoleHandler) GetProduct(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "get product", err)
	}
	product, err := h.backend.GetProduct(c.Request().Context(), sess, id)
	if err != nil {
		return respondError(c, "get product", err)
	}
	return c.JSON(http.StatusOK, product)
}

// productInput reads a product from either a multipart form (a "produto" JSON
// field and an optional "imagem" file) or a plain JSON body. The returned
// closer releases the uploaded file.
func productInput(c echo.Context) (model.ProductRequest, *padoca.Upload, func(), error) {
	var req model.ProductRequest
	noop := func() {}

	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		if err := c.Bind(&req); err != nil {
			return req, nil, noop, model.ErrInvalid("invalid product body")
		}
		return req, nil, noop, req.Validate()
	}

	raw, err := productPart(c)
	if err != nil {
		return req, nil, noop, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, nil, noop, model.ErrInvalid("produto must be a JSON object")
	}
	if err := req.Validate(); err != nil {
		return req, nil, noop, err
	}

	header, err := c.FormFile("imagem")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil, noop, nil
	}
	if err != nil {
		return req, nil, noop, model.ErrInvalid("imagem could not be read")
	}
	file, err := header.Open()
	if err != nil {
		return req, nil, noop, model.ErrInvalid("imagem could not be read")
	}
	upload := &padoca.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Content:     file,
	}
	return req, upload, func() { file.Close() }, nil
}

// productPart reads "produto" as a form field or, when sent as a blob, as a file part
func productPart(c echo.Context) ([]byte, error) {
	if value := c.FormValue("produto"); value != "" {
		return []byte(value), nil
	}
	header, err := c.FormFile("produto")
	if err != nil {
		return nil, model.ErrInvalid("produto is required")
	}
	file, err := header.Open()
	if err != nil {
		return nil, model.ErrInvalid("produto could not be read")
	}
	defer file.Close()
	return io.ReadAll(file)
}

// CreateProduct adds a product with an optional image
func (h *ConsoleHandler) CreateProduct(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	req, image, done, err := productInput(c)
	defer done()
	if err != nil {
		return respondError(c, "create product", err)
	}

	product, err := h.backend.CreateProduct(c.Request().Context(), sess, req, image)
	if err != nil {
		return respondError(c, "create product", err)
	}
	h.reload(c)

	logger.FromContext(c).Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Bool("with_image", image != nil))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct edits a product, replacing the image when one is sent
func (h *ConsoleHandler) UpdateProduct(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "update product", err)
	}
	req, image, done, err := productInput(c)
	defer done()
	if err != nil {
		return respondError(c, "update product", err)
	}

	product, err := h.backend.UpdateProduct(c.Request().Context(), sess, id, req, image)
	if err != nil {
		return respondError(c, "update product", err)
	}
	h.reload(c)
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product
func (h *ConsoleHandler) DeleteProduct(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "delete product", err)
	}
	if err := h.backend.DeleteProduct(c.Request().Context(), sess, id); err != nil {
		return respondError(c, "delete product", err)
	}
	h.reload(c)
	return c.NoContent(http.StatusNoContent)
}

// ListStaff returns the employees among the registered users
func (h *ConsoleHandler) ListStaff(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	users, err := h.backend.ListUsers(c.Request().Context(), sess)
	if err != nil {
		return respondError(c, "list staff", err)
	}

	staff := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.IsEmployee() || u.Role != model.RoleCustomer {
			staff = append(staff, u)
		}
	}
	return c.JSON(http.StatusOK, staff)
}

// CreateStaff registers an employee
func (h *ConsoleHandler) CreateStaff(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	var req model.UserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request data")
	}
	if req.Role == "" {
		req.Role = model.RoleStaff
	}
	if err := req.Validate(); err != nil {
		return respondError(c, "create staff", err)
	}

	user, err := h.backend.CreateUser(c.Request().Context(), sess, req)
	if err != nil {
		return respondError(c, "create staff", err)
	}

	logger.FromContext(c).Info("Staff member created", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))
	return c.JSON(http.StatusCreated, user)
}

// ListFeedback returns every customer rating
func (h *ConsoleHandler) ListFeedback(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	feedback, err := h.backend.ListFeedback(c.Request().Context(), sess)
	if err != nil {
		return respondError(c, "list feedback", err)
	}
	return c.JSON(http.StatusOK, feedback)
}

type commissionRequest struct {
	Customer    string `json:"cliente"`
	ScheduledAt string `json:"dataHora"`
	Description string `json:"descricao"`
}

// CreateCommission registers a scheduled order taken by a manager
func (h *ConsoleHandler) CreateCommission(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)

	var req commissionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request data")
	}
	when, err := time.ParseInLocation(model.ScheduleLayout, req.ScheduledAt, time.Local)
	if err != nil {
		return badRequest(c, "dataHora must look like 2006-01-02T15:04")
	}

	order, err := h.orders.SubmitCommission(c.Request().Context(), sess, req.Customer, when, req.Description)
	if err != nil {
		return respondError(c, "register commission", err)
	}
	return c.JSON(http.StatusCreated, order)
}
