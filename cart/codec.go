package cart

import (
	"bytes"
	"math"
	"storefront_server/lib"
	"storefront_server/structs"

	json "github.com/goccy/go-json"
)

// persistedItem mirrors structs.CartItem with tolerant numeric fields.
// Older payloads may carry numbers as strings.
type persistedItem struct {
	ID               string             `json:"id"`
	ProductID        string             `json:"productId"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Category         string             `json:"category"`
	Currency         string             `json:"currency"`
	BasePrice        lib.Number         `json:"basePrice"`
	Quantity         lib.Number         `json:"quantity"`
	SelectedVariants []persistedVariant `json:"selectedVariants"`
	HidePrice        bool               `json:"hidePrice"`
	StoreID          string             `json:"storeId"`
	StoreName        string             `json:"storeName"`
	StoreLogo        string             `json:"storeLogo"`
	StoreSocials     map[string]string  `json:"storeSocials"`
	StorePhones      []string           `json:"storePhones"`
}

type persistedVariant struct {
	AttributeID   string     `json:"attributeId"`
	AttributeName string     `json:"attributeName"`
	VariantID     string     `json:"variantId"`
	VariantValue  string     `json:"variantValue"`
	PriceModifier lib.Number `json:"priceModifier"`
	VariantSKU    string     `json:"variantSku"`
	VariantImage  string     `json:"variantImage"`
}

// Encode serializes a cart for the store
func Encode(c structs.Cart) (string, error) {
	if c.Items == nil {
		c.Items = []structs.CartItem{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode reads a persisted cart and normalizes it.
// Anything that is not an object with an items array yields an empty cart.
// Item entries that are not objects are dropped.
func Decode(raw string) structs.Cart {
	if raw == "" {
		return Empty()
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil || envelope == nil {
		return Empty()
	}

	rawItems, ok := envelope["items"]
	if !ok {
		return Empty()
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(rawItems, &entries); err != nil || entries == nil {
		return Empty()
	}

	items := make([]structs.CartItem, 0, len(entries))
	for _, entry := range entries {
		entry = bytes.TrimSpace(entry)
		if len(entry) == 0 || entry[0] != '{' {
			continue
		}

		var p persistedItem
		if err := json.Unmarshal(entry, &p); err != nil {
			continue
		}
		items = append(items, p.toItem())
	}

	return Normalize(structs.Cart{Items: items})
}

// Normalize re-coerces every item of an in-memory cart and rebuilds the totals
func Normalize(c structs.Cart) structs.Cart {
	items := make([]structs.CartItem, 0, len(c.Items))
	for _, item := range c.Items {
		item = cloneItem(item)
		item.BasePrice = lib.ToNumber(item.BasePrice, 0)
		item.Quantity = max(item.Quantity, 0)
		if item.SelectedVariants == nil {
			item.SelectedVariants = []structs.SelectedVariant{}
		}
		for i := range item.SelectedVariants {
			item.SelectedVariants[i].PriceModifier = lib.ToNumber(item.SelectedVariants[i].PriceModifier, 0)
		}
		item.TotalPrice = LineTotal(&item)
		items = append(items, item)
	}
	return Recalculate(items)
}

func (p persistedItem) toItem() structs.CartItem {
	variants := make([]structs.SelectedVariant, 0, len(p.SelectedVariants))
	for _, v := range p.SelectedVariants {
		variants = append(variants, structs.SelectedVariant{
			AttributeID:   v.AttributeID,
			AttributeName: v.AttributeName,
			VariantID:     v.VariantID,
			VariantValue:  v.VariantValue,
			PriceModifier: lib.ToNumber(v.PriceModifier, 0),
			VariantSKU:    v.VariantSKU,
			VariantImage:  v.VariantImage,
		})
	}

	quantity := math.Trunc(lib.ToNumber(p.Quantity, 0))
	quantity = math.Max(0, math.Min(quantity, math.MaxInt32))

	item := structs.CartItem{
		ID:               p.ID,
		ProductID:        p.ProductID,
		Name:             p.Name,
		Image:            p.Image,
		Category:         p.Category,
		Currency:         p.Currency,
		BasePrice:        lib.ToNumber(p.BasePrice, 0),
		Quantity:         int(quantity),
		SelectedVariants: variants,
		HidePrice:        p.HidePrice,
		StoreID:          p.StoreID,
		StoreName:        p.StoreName,
		StoreLogo:        p.StoreLogo,
		StoreSocials:     p.StoreSocials,
		StorePhones:      p.StorePhones,
	}
	if item.ID == "" {
		item.ID = ItemKey(item.ProductID, variants)
	}
	return item
}
