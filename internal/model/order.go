package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the backend-owned lifecycle state of an order
type OrderStatus string

const (
	StatusReceived  OrderStatus = "RECEBIDO"
	StatusPreparing OrderStatus = "EM_PREPARO"
	StatusReady     OrderStatus = "PRONTO"
	StatusDelivered OrderStatus = "ENTREGUE"
	StatusCancelled OrderStatus = "CANCELADO"
)

// ParseStatus normalises a status coming from the backend, which may be lowercase
func ParseStatus(s string) OrderStatus {
	return OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
}

// UnmarshalText lets JSON decoding normalise the status casing
func (s *OrderStatus) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// IsTerminal reports whether no further transition exists
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Next returns the status the backend moves an order to on advance.
// The mapping is fixed; terminal and unknown statuses have no successor.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusReceived:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// NextLabel is the action label shown for an order in the given status
func NextLabel(s OrderStatus) string {
	switch s {
	case StatusReceived:
		return "Iniciar Preparo"
	case StatusPreparing:
		return "Finalizar"
	case StatusReady:
		return "Entregar"
	case StatusDelivered:
		return "Concluído"
	case StatusCancelled:
		return "Cancelado"
	default:
		return string(s)
	}
}

// OrderKind distinguishes counter sales from scheduled commissions
type OrderKind string

const (
	KindCounter    OrderKind = "BALCAO"
	KindCommission OrderKind = "ENCOMENDA"
)

// Valid reports whether the kind is one the backend accepts
func (k OrderKind) Valid() bool {
	return k == KindCounter || k == KindCommission
}

// Order is a queue entry as returned by the backend
type Order struct {
	ID           uint            `json:"id"`
	Customer     string          `json:"cliente"`
	Status       OrderStatus     `json:"status"`
	Kind         OrderKind       `json:"tipo"`
	Total        decimal.Decimal `json:"total"`
	PlacedAt     Timestamp       `json:"dataHora"`
	Descriptions []string        `json:"descricaoItens"`
}

// IsOpen reports whether the order still belongs on the board
func (o Order) IsOpen() bool {
	return !o.Status.IsTerminal()
}

// OrderLine is one requested item: either a product and quantity or free text
type OrderLine struct {
	ProductID   uint   `json:"produtoId,omitempty"`
	Quantity    int    `json:"quantidade,omitempty"`
	Description string `json:"descricao,omitempty"`
}

// OrderRequest is the body of POST /pedidos
type OrderRequest struct {
	Customer    string      `json:"cliente"`
	Kind        OrderKind   `json:"tipo"`
	ScheduledAt string      `json:"dataHora,omitempty"`
	Lines       []OrderLine `json:"itens"`
}

// ScheduleLayout is the local date-time format the backend expects for commissions
const ScheduleLayout = "2006-01-02T15:04"

// Validate checks the request before it is sent
func (r OrderRequest) Validate() error {
	if strings.TrimSpace(r.Customer) == "" {
		return ErrInvalid("cliente is required")
	}
	if !r.Kind.Valid() {
		return ErrInvalid("unknown order kind " + string(r.Kind))
	}
	if len(r.Lines) == 0 {
		return ErrInvalid("an order needs at least one item")
	}
	for _, l := range r.Lines {
		if l.Description == "" && (l.ProductID == 0 || l.Quantity < 1) {
			return ErrInvalid("each item needs a product and a positive quantity, or a description")
		}
	}
	return nil
}

// Timestamp accepts the date formats the backend has been seen to emit
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	ScheduleLayout,
}

// UnmarshalJSON parses ISO date-times and the bare "HH:mm" form, which is taken as today
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	clock, err := time.ParseInLocation("15:04", s, time.Local)
	if err != nil {
		return err
	}
	now := time.Now()
	t.Time = time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local)
	return nil
}

// MarshalJSON writes the local date-time without zone, like the backend does
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}
