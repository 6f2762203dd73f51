package model

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidQuantity = errors.New("model: invalid quantity")

type CatalogItem struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Image       string          `json:"image" yaml:"image"`
	Category    string          `json:"category" yaml:"category"`
	Price       decimal.Decimal `json:"price" yaml:"price"`
	InStock     bool            `json:"inStock" yaml:"in_stock"`
	Rating      float64         `json:"rating" yaml:"rating"`
}

func (c CatalogItem) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("model: catalog item id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("model: catalog item name is required")
	}
	if c.Price.IsNegative() {
		return errors.New("model: catalog item price must not be negative")
	}
	return nil
}

// CartLine carries a copy of the catalog fields taken when the item was
// first added, so later catalog changes do not rewrite the cart.
type CartLine struct {
	ItemID   string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Category string          `json:"category,omitempty"`
	Quantity int             `json:"quantity"`
}

func NewCartLine(item CatalogItem, quantity int) CartLine {
	return CartLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Image:    item.Image,
		Category: item.Category,
		Quantity: quantity,
	}
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l CartLine) Validate() error {
	if strings.TrimSpace(l.ItemID) == "" {
		return errors.New("model: cart line item id is required")
	}
	if l.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}
