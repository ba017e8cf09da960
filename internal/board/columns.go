package board

import "github.com/ivens03/microservices-padoca/internal/model"

// Card is an order on the board with the label of its advance action.
// The total is rendered for display and replaces the raw amount in JSON.
type Card struct {
	model.Order
	DisplayTotal string `json:"total"`
	Action       string `json:"acao"`
}

// Column groups the cards in one status
type Column struct {
	Status model.OrderStatus `json:"status"`
	Title  string            `json:"titulo"`
	Empty  string            `json:"vazio"`
	Cards  []Card            `json:"pedidos"`
}

var layout = []Column{
	{Status: model.StatusReceived, Title: "Recebidos", Empty: "Nenhum pedido novo"},
	{Status: model.StatusPreparing, Title: "Em Preparo", Empty: "Cozinha livre"},
	{Status: model.StatusReady, Title: "Prontos", Empty: "Nada para entregar"},
}

// Columns splits open orders into the three board columns, keeping their
// queue order. Orders in any other status are not shown.
func Columns(orders []model.Order) []Column {
	cols := make([]Column, len(layout))
	index := make(map[model.OrderStatus]int, len(layout))
	for i, c := range layout {
		cols[i] = c
		cols[i].Cards = []Card{}
		index[c.Status] = i
	}

	for _, o := range orders {
		i, ok := index[o.Status]
		if !ok {
			continue
		}
		cols[i].Cards = append(cols[i].Cards, Card{
			Order:        o,
			DisplayTotal: model.FormatMoney(o.Total),
			Action:       model.NextLabel(o.Status),
		})
	}
	return cols
}
