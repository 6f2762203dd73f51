package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartLineSnapshotsCatalogFields(t *testing.T) {
	item := CatalogItem{
		ID:       "1",
		Name:     "Tulsi (Holy Basil)",
		Price:    decimal.NewFromInt(120),
		Image:    "tulsi.jpg",
		Category: "Herb",
		InStock:  true,
	}
	line := NewCartLine(item, 3)

	item.Price = decimal.NewFromInt(999)
	item.Name = "renamed"

	assert.Equal(t, "Tulsi (Holy Basil)", line.Name)
	assert.True(t, line.Price.Equal(decimal.NewFromInt(120)))
	assert.True(t, line.Subtotal().Equal(decimal.NewFromInt(360)))
	require.NoError(t, line.Validate())
}

func TestCartLineValidateQuantity(t *testing.T) {
	line := CartLine{ItemID: "1", Quantity: 0}
	require.ErrorIs(t, line.Validate(), ErrInvalidQuantity)
}

func TestCatalogItemValidate(t *testing.T) {
	require.NoError(t, CatalogItem{ID: "1", Name: "Mint", Price: decimal.NewFromInt(100)}.Validate())
	require.Error(t, CatalogItem{ID: "1", Name: "Mint", Price: decimal.NewFromInt(-1)}.Validate())
	require.Error(t, CatalogItem{Name: "Mint"}.Validate())
}

func TestPlantValidate(t *testing.T) {
	p := Plant{ID: "p1", Name: "Aloe Vera", Type: "Succulent", DateAdded: "2023-03-22"}
	require.NoError(t, p.Validate())

	p.DateAdded = "22/03/2023"
	require.Error(t, p.Validate())

	p.DateAdded = ""
	p.Type = ""
	require.Error(t, p.Validate())
}
