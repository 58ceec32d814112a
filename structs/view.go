package structs

// CartView is the cart as rendered to a buyer, with display-ready amounts
type CartView struct {
	Cart           Cart             `json:"cart"`
	FormattedTotal string           `json:"formatted_total"`
	Lines          []CartLineView   `json:"lines"`
	Stores         []StoreGroupView `json:"stores"`
}

type CartLineView struct {
	ItemID             string `json:"item_id"`
	FormattedUnitPrice string `json:"formatted_unit_price,omitempty"` // empty when the price is hidden
	FormattedTotal     string `json:"formatted_total,omitempty"`
}

type StoreGroupView struct {
	StoreID           string            `json:"store_id"`
	StoreName         string            `json:"store_name"`
	StoreLogo         string            `json:"store_logo,omitempty"`
	StoreSocials      map[string]string `json:"store_socials,omitempty"`
	StorePhones       []string          `json:"store_phones,omitempty"`
	ItemIDs           []string          `json:"item_ids"`
	ItemCount         int               `json:"item_count"`
	FormattedSubtotal string            `json:"formatted_subtotal"`
}

// RestoreView reports the outcome of a stale-cart check
type RestoreView struct {
	State           string `json:"state"` // unchecked, shown, dismissed
	LastItemAddedAt *int64 `json:"last_item_added_at,omitempty"`
	Cart            Cart   `json:"cart"`
}
