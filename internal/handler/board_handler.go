package handler

import (
	"net/http"
	"time"

	"github.com/ivens03/microservices-padoca/internal/board"
	mid "github.com/ivens03/microservices-padoca/internal/middleware"
	"github.com/ivens03/microservices-padoca/internal/orders"
	"github.com/ivens03/microservices-padoca/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// BoardHandler serves the staff order board
type BoardHandler struct {
	boards   *board.Registry
	orders   *orders.Lifecycle
	interval time.Duration
}

// NewBoardHandler creates the board handler
func NewBoardHandler(boards *board.Registry, lifecycle *orders.Lifecycle, interval time.Duration) *BoardHandler {
	return &BoardHandler{boards: boards, orders: lifecycle, interval: interval}
}

type boardResponse struct {
	Columns   []board.Column `json:"colunas"`
	UpdatedAt time.Time      `json:"atualizadoEm"`
	LastError string         `json:"ultimoErro,omitempty"`
	Interval  string         `json:"intervalo"`
}

func (h *BoardHandler) render(snap board.Snapshot) boardResponse {
	return boardResponse{
		Columns:   board.Columns(snap.Orders),
		UpdatedAt: snap.UpdatedAt,
		LastError: snap.LastError,
		Interval:  h.interval.String(),
	}
}

// Open starts polling for the caller (if not already) and returns the board
func (h *BoardHandler) Open(c echo.Context) error {
	sess, _ := mid.CurrentSession(c)
	p := h.boards.Open(mid.SessionID(c), sess)

	snap := p.Snapshot()
	if snap.UpdatedAt.IsZero() {
		// First view: do not wait a full interval for data
		snap, _ = p.RefreshNow(c.Request().Context())
	}
	return c.JSON(http.StatusOK, h.render(snap))
}

// Close stops polling for the caller
func (h *BoardHandler) Close(c echo.Context) error {
	h.boards.Close(mid.SessionID(c))
	return c.NoContent(http.StatusNoContent)
}

// Advance moves an order one step and returns the refreshed board
func (h *BoardHandler) Advance(c echo.Context) error {
	log := logger.FromContext(c)
	sess, _ := mid.CurrentSession(c)

	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, "advance order", err)
	}

	if err := h.orders.Advance(c.Request().Context(), sess, id); err != nil {
		return respondError(c, "advance order", err)
	}
	log.Info("Order advanced from board", zap.Uint("order_id", id))

	p, ok := h.boards.Get(mid.SessionID(c))
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	snap, _ := p.RefreshNow(c.Request().Context())
	return c.JSON(http.StatusOK, h.render(snap))
}
