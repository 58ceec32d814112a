package cart

import (
	"storefront_server/structs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByStore(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	e.AddItem(testProduct(), 2, nil)
	e.AddItem(otherProduct(), 1, nil)
	c := e.AddItem(testProduct(), 1, []structs.VariantSelection{sel("size", "l")})

	groups := GroupByStore(c)

	require.Len(t, groups, 2)
	assert.Equal(t, "store-1", groups[0].StoreID)
	assert.Equal(t, []string{"+31612345678"}, groups[0].Phones)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, 3, groups[0].ItemCount)
	assert.InDelta(t, 35, groups[0].Subtotal, 1e-9)

	assert.Equal(t, "store-2", groups[1].StoreID)
	assert.Equal(t, 1, groups[1].ItemCount)
	assert.InDelta(t, 7.25, groups[1].Subtotal, 1e-9)

	assert.Empty(t, GroupByStore(Empty()))
}

func TestView_FormatsAmounts(t *testing.T) {
	hidden := otherProduct()
	hidden.HidePrice = true

	e := NewEngine(NewMemoryStore())
	e.AddItem(testProduct(), 3, []structs.VariantSelection{sel("wrap", "paper")})
	c := e.AddItem(hidden, 2, nil)

	view := View(c)

	assert.Equal(t, "37.50", view.FormattedTotal)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, "12.50", view.Lines[0].FormattedUnitPrice)
	assert.Equal(t, "37.50", view.Lines[0].FormattedTotal)
	assert.Empty(t, view.Lines[1].FormattedUnitPrice, "hidden prices are never rendered")
	assert.Empty(t, view.Lines[1].FormattedTotal)

	require.Len(t, view.Stores, 2)
	assert.Equal(t, []string{"prod-1-wrap:paper"}, view.Stores[0].ItemIDs)
	assert.Equal(t, "37.50", view.Stores[0].FormattedSubtotal)
	assert.Equal(t, "0.00", view.Stores[1].FormattedSubtotal)
}
