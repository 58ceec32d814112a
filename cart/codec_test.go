package cart

import (
	"storefront_server/structs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_MalformedPayloadsYieldEmptyCart(t *testing.T) {
	payloads := map[string]string{
		"empty":            "",
		"not json":         "{cart",
		"null":             "null",
		"number":           "42",
		"string":           `"cart"`,
		"array":            `[{"id":"a"}]`,
		"missing items":    `{"total":12}`,
		"items null":       `{"items":null}`,
		"items object":     `{"items":{"id":"a"}}`,
		"items string":     `{"items":"a,b"}`,
		"truncated object": `{"items":[{"id":"a"`,
	}

	for name, raw := range payloads {
		t.Run(name, func(t *testing.T) {
			c := Decode(raw)
			assert.Equal(t, []structs.CartItem{}, c.Items)
			assert.Equal(t, 0.0, c.Total)
			assert.Equal(t, 0, c.ItemCount)
		})
	}
}

func TestDecode_RepairsItems(t *testing.T) {
	raw := `{"items":[
		1,
		"junk",
		null,
		{"id":"a","productId":"a","basePrice":"2","quantity":"-4","totalPrice":50},
		{"productId":"b","basePrice":"abc","quantity":"3"},
		{"id":"c","productId":"c","basePrice":4,"quantity":2.9,"hidePrice":true},
		{"id":"d","productId":"d","basePrice":"1.5","quantity":"2",
		 "selectedVariants":[{"attributeId":"x","variantId":"y","priceModifier":"0.5"},{"attributeId":"z","variantId":"w","priceModifier":null}]}
	],"total":"NaN","itemCount":99}`

	c := Decode(raw)

	require.Len(t, c.Items, 4)

	a := c.Items[0]
	assert.Equal(t, 2.0, a.BasePrice)
	assert.Equal(t, 0, a.Quantity, "negative quantities clamp to zero")
	assert.Equal(t, 0.0, a.TotalPrice)

	b := c.Items[1]
	assert.Equal(t, "b", b.ID, "missing ids are rebuilt from the product")
	assert.Equal(t, 0.0, b.BasePrice)
	assert.Equal(t, 3, b.Quantity)
	assert.NotNil(t, b.SelectedVariants)

	hidden := c.Items[2]
	assert.Equal(t, 2, hidden.Quantity)
	assert.Equal(t, 0.0, hidden.TotalPrice)

	d := c.Items[3]
	require.Len(t, d.SelectedVariants, 2)
	assert.Equal(t, 0.5, d.SelectedVariants[0].PriceModifier)
	assert.Equal(t, 0.0, d.SelectedVariants[1].PriceModifier)
	assert.InDelta(t, 4, d.TotalPrice, 1e-9)

	assert.InDelta(t, 4, c.Total, 1e-9)
	assert.Equal(t, 7, c.ItemCount)
}

func TestEncode_RoundTrip(t *testing.T) {
	e := NewEngine(NewMemoryStore())
	e.AddItem(testProduct(), 2, []structs.VariantSelection{sel("size", "l")})
	original := e.AddItem(otherProduct(), 1, nil)

	raw, err := Encode(original)
	require.NoError(t, err)
	assert.Equal(t, original, Decode(raw))

	raw, err = Encode(structs.Cart{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0,"itemCount":0}`, raw)
}

func TestNormalize_RebuildsDerivedFields(t *testing.T) {
	c := structs.Cart{
		Items: []structs.CartItem{
			{ID: "a", ProductID: "a", BasePrice: 3, Quantity: -2, TotalPrice: 100},
			{ID: "b", ProductID: "b", BasePrice: 2, Quantity: 3, TotalPrice: 1, SelectedVariants: []structs.SelectedVariant{{PriceModifier: 1}}},
		},
		Total:     999,
		ItemCount: 999,
	}

	n := Normalize(c)

	assert.Equal(t, 0, n.Items[0].Quantity)
	assert.Equal(t, 0.0, n.Items[0].TotalPrice)
	assert.NotNil(t, n.Items[0].SelectedVariants)
	assert.InDelta(t, 9, n.Items[1].TotalPrice, 1e-9)
	assert.InDelta(t, 9, n.Total, 1e-9)
	assert.Equal(t, 3, n.ItemCount)

	// input untouched
	assert.Equal(t, -2, c.Items[0].Quantity)
}

func TestItemKey_IsOrderIndependent(t *testing.T) {
	a := []structs.SelectedVariant{{AttributeID: "size", VariantID: "l"}, {AttributeID: "color", VariantID: "red"}}
	b := []structs.SelectedVariant{{AttributeID: "color", VariantID: "red"}, {AttributeID: "size", VariantID: "l"}}

	assert.Equal(t, ItemKey("p", a), ItemKey("p", b))
	assert.Equal(t, "p-color:red-size:l", ItemKey("p", a))
	assert.Equal(t, "p", ItemKey("p", nil))
	assert.NotEqual(t, ItemKey("p", a[:1]), ItemKey("p", a))
}

func TestItemKey_DistinctInputsNeverCollide(t *testing.T) {
	sizeAB := []structs.SelectedVariant{{AttributeID: "a", VariantID: "b"}}

	assert.NotEqual(t, ItemKey("p", sizeAB), ItemKey("p-a:b", nil))
	assert.NotEqual(t,
		ItemKey("p", []structs.SelectedVariant{{AttributeID: "x:y", VariantID: "z"}}),
		ItemKey("p", []structs.SelectedVariant{{AttributeID: "x", VariantID: "y:z"}}),
	)
	assert.NotEqual(t,
		ItemKey("p", []structs.SelectedVariant{{AttributeID: "a", VariantID: "b-c:d"}}),
		ItemKey("p", []structs.SelectedVariant{{AttributeID: "a", VariantID: "b"}, {AttributeID: "c", VariantID: "d"}}),
	)

	// hyphenated ids stay readable
	assert.Equal(t, "3f2a-9c1e-size:l", ItemKey("3f2a-9c1e", []structs.SelectedVariant{{AttributeID: "size", VariantID: "l"}}))
	assert.Equal(t, "p%3Aq-a%2Db:c%25", ItemKey("p:q", []structs.SelectedVariant{{AttributeID: "a-b", VariantID: "c%"}}))
}
