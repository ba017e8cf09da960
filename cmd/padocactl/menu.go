package main

import (
	"fmt"

	"github.com/ivens03/microservices-padoca/internal/catalog"
	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/prometheus"
	"github.com/spf13/cobra"
)

func menuCmd(flags *globalFlags) *cobra.Command {
	var category uint

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "List the active products",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			if err := a.catalog.Load(cmd.Context()); err != nil && !a.catalog.Loaded() {
				return fmt.Errorf("load menu: %w", err)
			} else if err != nil {
				a.log.Warn("Menu is partial")
			}

			products := a.catalog.Menu(category)
			if a.asJSON {
				return printJSON(a.out, products)
			}
			return printProducts(a.out, products)
		},
	}

	cmd.Flags().UintVar(&category, "category", 0, "Only this category id")
	return cmd
}

func stockCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stock",
		Short: "Stock reports",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "critical",
		Short: "List products at or below their minimum stock",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, flags)
			if err != nil {
				return err
			}
			if err := a.catalog.Load(cmd.Context()); err != nil && len(a.catalog.Products()) == 0 {
				return fmt.Errorf("load products: %w", err)
			}

			critical := catalog.CriticalStock(a.catalog.Products())
			prometheus.RecordCriticalProducts(len(critical))
			if a.asJSON {
				return printJSON(a.out, critical)
			}
			if len(critical) == 0 {
				fmt.Fprintln(a.out, "Estoque em dia")
				return nil
			}
			return printProducts(a.out, critical)
		},
	})
	return cmd
}

func availability(p model.Product) string {
	switch {
	case !p.InStock():
		return "esgotado"
	case p.IsCritical():
		return "crítico"
	default:
		return ""
	}
}
