package model

import (
	"github.com/shopspring/decimal"
)

// Category groups products on the menu and in the console
type Category struct {
	ID          uint   `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao,omitempty"`
}

// CategoryRequest is the body used to create or edit a category
type CategoryRequest struct {
	Name        string `json:"nome"`
	Description string `json:"descricao,omitempty"`
}

// Product represents a sellable bakery or market item as returned by the backend
type Product struct {
	ID           uint            `json:"id"`
	Name         string          `json:"nome"`
	Description  string          `json:"descricao"`
	Price        decimal.Decimal `json:"preco"`
	ImageURL     string          `json:"imagemUrl"`
	Active       bool            `json:"ativo"`
	Category     *Category       `json:"categoria"`
	Stock        int             `json:"quantidadeEstoque"`
	MinimumStock int             `json:"estoqueMinimo"`
}

// IsCritical reports whether the stock is at or below the configured minimum
func (p Product) IsCritical() bool {
	return p.Stock <= p.MinimumStock
}

// InStock reports whether the product can be added to a cart
func (p Product) InStock() bool {
	return p.Stock > 0
}

// CategoryID returns the referenced category id, or 0 when the product has none
func (p Product) CategoryID() uint {
	if p.Category == nil {
		return 0
	}
	return p.Category.ID
}

// ProductRequest is the JSON part of the multipart create/update product call
type ProductRequest struct {
	Name         string          `json:"nome"`
	Description  string          `json:"descricao"`
	Price        decimal.Decimal `json:"preco"`
	Active       bool            `json:"ativo"`
	CategoryID   uint            `json:"categoriaId,omitempty"`
	Stock        int             `json:"quantidadeEstoque"`
	MinimumStock int             `json:"estoqueMinimo"`
	ImageURL     string          `json:"imagemUrl,omitempty"`
}

// Validate checks the invariants the backend also enforces
func (r ProductRequest) Validate() error {
	if r.Name == "" {
		return ErrInvalid("nome is required")
	}
	if !r.Price.IsPositive() {
		return ErrInvalid("preco must be greater than zero")
	}
	if r.Stock < 0 || r.MinimumStock < 0 {
		return ErrInvalid("stock values must not be negative")
	}
	return nil
}
