package model

import "github.com/shopspring/decimal"

// DashboardStats are the aggregate KPIs computed by the backend
type DashboardStats struct {
	SalesToday    decimal.Decimal `json:"totalVendasHoje"`
	CriticalItems int64           `json:"itensCriticos"`
	QueueLength   int64           `json:"filaPedidos"`
	AverageMargin float64         `json:"lucroMedio"`
}
