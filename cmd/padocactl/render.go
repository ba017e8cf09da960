package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ivens03/microservices-padoca/internal/board"
	"github.com/ivens03/microservices-padoca/internal/model"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printProducts(w io.Writer, products []model.Product) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUTO\tPREÇO\tESTOQUE\tMÍNIMO\t")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\tR$ %s\t%d\t%d\t%s\n",
			p.ID, p.Name, model.FormatMoney(p.Price), p.Stock, p.MinimumStock, availability(p))
	}
	return tw.Flush()
}

func (a *app) renderBoard(snap board.Snapshot) error {
	columns := board.Columns(snap.Orders)
	if a.asJSON {
		return printJSON(a.out, columns)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n== Pedidos %s ==\n", snap.UpdatedAt.Local().Format("15:04:05"))
	if snap.LastError != "" {
		fmt.Fprintf(&b, "(última atualização falhou: %s)\n", snap.LastError)
	}
	for _, col := range columns {
		fmt.Fprintf(&b, "\n%s (%d)\n", col.Title, len(col.Cards))
		if len(col.Cards) == 0 {
			fmt.Fprintf(&b, "  %s\n", col.Empty)
			continue
		}
		for _, card := range col.Cards {
			fmt.Fprintf(&b, "  #%d %s  R$ %s  [%s]\n", card.ID, card.Customer, card.DisplayTotal, card.Action)
			for _, d := range card.Descriptions {
				fmt.Fprintf(&b, "      %s\n", d)
			}
		}
	}
	_, err := io.WriteString(a.out, b.String())
	return err
}
