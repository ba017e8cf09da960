package padoca

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ivens03/microservices-padoca/internal/model"
)

// ListQueue fetches the orders the backend considers open
func (c *Client) ListQueue(ctx context.Context, auth Auth) ([]model.Order, error) {
	var orders []model.Order
	if err := c.get(ctx, "list_orders", "/pedidos", auth, true, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder posts a new order
func (c *Client) CreateOrder(ctx context.Context, auth Auth, req model.OrderRequest) (*model.Order, error) {
	var order model.Order
	if err := c.send(ctx, "create_order", http.MethodPost, "/pedidos", auth, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AdvanceOrder asks the backend to move the order to its next status.
// The backend computes the next status; any response body is ignored.
func (c *Client) AdvanceOrder(ctx context.Context, auth Auth, id uint) error {
	return c.send(ctx, "advance_order", http.MethodPatch, fmt.Sprintf("/pedidos/%d/avancar", id), auth, nil, nil)
}

// DashboardStats fetches the manager KPIs
func (c *Client) DashboardStats(ctx context.Context, auth Auth) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.get(ctx, "dashboard_stats", "/dashboard/stats", auth, true, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
