package cart

import (
	"sort"
	"storefront_server/structs"
	"strings"
)

var (
	productKeyEscaper = strings.NewReplacer("%", "%25", ":", "%3A")
	variantKeyEscaper = strings.NewReplacer("%", "%25", ":", "%3A", "-", "%2D")
)

// ItemKey builds the identity of a cart item from the product and its selected variants.
// Selection order does not matter: pairs are sorted before joining.
// The product id never contains ':' and variant ids never contain '-' or ':'
// once escaped, so distinct inputs cannot produce the same key. Ids without
// those characters are left as they are.
func ItemKey(productID string, variants []structs.SelectedVariant) string {
	productID = productKeyEscaper.Replace(productID)
	if len(variants) == 0 {
		return productID
	}

	pairs := make([]string, 0, len(variants))
	for _, v := range variants {
		pairs = append(pairs, variantKeyEscaper.Replace(v.AttributeID)+":"+variantKeyEscaper.Replace(v.VariantID))
	}
	sort.Strings(pairs)

	return productID + "-" + strings.Join(pairs, "-")
}

// UnitPrice is the base price plus every variant modifier
func UnitPrice(item *structs.CartItem) float64 {
	unit := item.BasePrice
	for _, v := range item.SelectedVariants {
		unit += v.PriceModifier
	}
	return unit
}

// LineTotal computes an item's total from its unit price and quantity.
// Hidden prices total zero and the result is never negative.
func LineTotal(item *structs.CartItem) float64 {
	if item.HidePrice {
		return 0
	}
	total := float64(item.Quantity) * UnitPrice(item)
	if total < 0 {
		return 0
	}
	return total
}

// Recalculate returns a cart with total and itemCount rebuilt from the items
func Recalculate(items []structs.CartItem) structs.Cart {
	if items == nil {
		items = []structs.CartItem{}
	}

	c := structs.Cart{Items: items}
	for _, item := range items {
		c.Total += item.TotalPrice
		c.ItemCount += item.Quantity
	}
	return c
}

// Empty returns a cart without items
func Empty() structs.Cart {
	return Recalculate(nil)
}
