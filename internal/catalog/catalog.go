// Package catalog holds the read-only shop table, the per plant type care
// defaults and the demo plant collection, all embedded at build time.
package catalog

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/urbanroots/internal/model"
)

//go:embed data/*.yaml
var dataFiles embed.FS

// Resolver looks up catalog items by identifier.
type Resolver interface {
	Resolve(id string) (model.CatalogItem, bool)
}

type Catalog struct {
	items []model.CatalogItem
	byID  map[string]int
}

type rawItem struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Price       string  `yaml:"price"`
	Description string  `yaml:"description"`
	Image       string  `yaml:"image"`
	Category    string  `yaml:"category"`
	InStock     bool    `yaml:"in_stock"`
	Rating      float64 `yaml:"rating"`
}

// Default returns the embedded shop catalog and panics on malformed data.
func Default() *Catalog {
	raw, err := dataFiles.ReadFile("data/shop_items.yaml")
	if err != nil {
		panic(fmt.Sprintf("catalog: read embedded items: %v", err))
	}
	c, err := Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	return c
}

// Parse decodes a YAML item list.
func Parse(raw []byte) (*Catalog, error) {
	var rows []rawItem
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	items := make([]model.CatalogItem, 0, len(rows))
	for _, r := range rows {
		price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
		if err != nil {
			return nil, fmt.Errorf("item %s: price %q: %w", r.ID, r.Price, err)
		}
		items = append(items, model.CatalogItem{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Image:       r.Image,
			Category:    r.Category,
			Price:       price,
			InStock:     r.InStock,
			Rating:      r.Rating,
		})
	}
	return New(items)
}

func New(items []model.CatalogItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]model.CatalogItem, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate item id %q", item.ID)
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

func (c *Catalog) Resolve(id string) (model.CatalogItem, bool) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return model.CatalogItem{}, false
	}
	return c.items[idx], true
}

func (c *Catalog) All() []model.CatalogItem {
	return append([]model.CatalogItem(nil), c.items...)
}

func (c *Catalog) InStock() []model.CatalogItem {
	out := make([]model.CatalogItem, 0, len(c.items))
	for _, item := range c.items {
		if item.InStock {
			out = append(out, item)
		}
	}
	return out
}

func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, item := range c.items {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	sort.Strings(out)
	return out
}

func (c *Catalog) ByCategory(category string) []model.CatalogItem {
	out := make([]model.CatalogItem, 0)
	for _, item := range c.items {
		if strings.EqualFold(item.Category, category) {
			out = append(out, item)
		}
	}
	return out
}

func SamplePlants() ([]model.Plant, error) {
	raw, err := dataFiles.ReadFile("data/sample_plants.yaml")
	if err != nil {
		return nil, err
	}
	var plants []model.Plant
	if err := yaml.Unmarshal(raw, &plants); err != nil {
		return nil, fmt.Errorf("decode sample plants: %w", err)
	}
	return plants, nil
}
