package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextLabel(t *testing.T) {
	tests := []struct {
		status OrderStatus
		want   string
	}{
		{StatusReceived, "Iniciar Preparo"},
		{StatusPreparing, "Finalizar"},
		{StatusReady, "Entregar"},
		{StatusDelivered, "Concluído"},
		{StatusCancelled, "Cancelado"},
		{OrderStatus("EM_ENTREGA"), "EM_ENTREGA"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, NextLabel(tt.status))
		})
	}
}

func TestNextIsMonotonic(t *testing.T) {
	status := StatusReceived
	var path []OrderStatus
	for {
		next, ok := status.Next()
		if !ok {
			break
		}
		path = append(path, next)
		status = next
	}

	assert.Equal(t, []OrderStatus{StatusPreparing, StatusReady, StatusDelivered}, path)

	_, ok := StatusDelivered.Next()
	assert.False(t, ok)
	_, ok = StatusCancelled.Next()
	assert.False(t, ok)
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusReady.IsTerminal())
}

func TestOrderDecodesLowercaseStatus(t *testing.T) {
	body := `{"id":7,"cliente":"Mesa 01","status":"em_preparo","tipo":"BALCAO","total":28.00,
		"dataHora":"2026-10-18T09:30:00","descricaoItens":["2x Pão de Queijo"]}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(body), &o))

	assert.Equal(t, StatusPreparing, o.Status)
	assert.Equal(t, KindCounter, o.Kind)
	assert.Equal(t, "28.00", o.Total.StringFixed(2))
	assert.Equal(t, 9, o.PlacedAt.Hour())
	assert.True(t, o.IsOpen())
}

func TestTimestampClockOnly(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"14:05"`), &ts))

	now := time.Now()
	assert.Equal(t, now.Day(), ts.Day())
	assert.Equal(t, 14, ts.Hour())
	assert.Equal(t, 5, ts.Minute())

	assert.Error(t, json.Unmarshal([]byte(`"not a date"`), &ts))
}

func TestOrderRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     OrderRequest
		wantErr bool
	}{
		{
			name: "counter sale",
			req:  OrderRequest{Customer: "Cliente App", Kind: KindCounter, Lines: []OrderLine{{ProductID: 1, Quantity: 2}}},
		},
		{
			name: "commission with free text",
			req:  OrderRequest{Customer: "Maria", Kind: KindCommission, Lines: []OrderLine{{Description: "Bolo de cenoura"}}},
		},
		{
			name:    "missing customer",
			req:     OrderRequest{Kind: KindCounter, Lines: []OrderLine{{ProductID: 1, Quantity: 1}}},
			wantErr: true,
		},
		{
			name:    "no lines",
			req:     OrderRequest{Customer: "Ana", Kind: KindCounter},
			wantErr: true,
		},
		{
			name:    "zero quantity",
			req:     OrderRequest{Customer: "Ana", Kind: KindCounter, Lines: []OrderLine{{ProductID: 1}}},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			req:     OrderRequest{Customer: "Ana", Kind: "DRIVE", Lines: []OrderLine{{ProductID: 1, Quantity: 1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
