package structs

import "storefront_server/lib"

// MaxItemQuantity caps the quantity of a single cart line
const MaxItemQuantity = 999

// VariantSelection is what a buyer picked when adding a product.
// PriceModifier overrides the modifier declared on the product when set.
type VariantSelection struct {
	AttributeID   string      `json:"attributeId" validate:"required"`
	VariantID     string      `json:"variantId" validate:"required"`
	PriceModifier *lib.Number `json:"priceModifier,omitempty"`
}

// SelectedVariant is a resolved selection stored on a cart item.
// SKU and image are captured when the item is added and never looked up again.
type SelectedVariant struct {
	AttributeID   string  `json:"attributeId"`
	AttributeName string  `json:"attributeName,omitempty"`
	VariantID     string  `json:"variantId"`
	VariantValue  string  `json:"variantValue,omitempty"`
	PriceModifier float64 `json:"priceModifier"`
	VariantSKU    string  `json:"variantSku,omitempty"`
	VariantImage  string  `json:"variantImage,omitempty"`
}

type CartItem struct {
	ID               string            `json:"id"` // composite key, see cart.ItemKey
	ProductID        string            `json:"productId"`
	Name             string            `json:"name"`
	Image            string            `json:"image,omitempty"`
	Category         string            `json:"category,omitempty"`
	Currency         string            `json:"currency"`
	BasePrice        float64           `json:"basePrice"`
	Quantity         int               `json:"quantity"`
	SelectedVariants []SelectedVariant `json:"selectedVariants"`
	TotalPrice       float64           `json:"totalPrice"` // derived
	HidePrice        bool              `json:"hidePrice"`

	// Store fields used at checkout and for contacting the seller
	StoreID      string            `json:"storeId"`
	StoreName    string            `json:"storeName"`
	StoreLogo    string            `json:"storeLogo,omitempty"`
	StoreSocials map[string]string `json:"storeSocials,omitempty"`
	StorePhones  []string          `json:"storePhones,omitempty"`
}

// Cart totals are derived from Items and recomputed on every mutation
type Cart struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// CartEvent is the payload handed to analytics on add and remove
type CartEvent struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	StoreID     string  `json:"store_id"`
	StoreName   string  `json:"store_name"`
}

// AddItemRequest is the body of POST /cart/items
type AddItemRequest struct {
	ProductID string             `json:"productId" validate:"required,max=200"`
	Quantity  int                `json:"quantity" validate:"required,gte=1,lte=999"`
	Variants  []VariantSelection `json:"variants" validate:"omitempty,max=20,dive"`
}

// UpdateQuantityRequest is the body of PATCH /cart/items/{id}.
// Zero or negative quantities remove the item.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"lte=999"`
}
