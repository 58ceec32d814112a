package cart

import (
	"storefront_server/lib"
	"storefront_server/structs"
)

// StoreGroup is the slice of a cart sold by one store
type StoreGroup struct {
	StoreID   string
	StoreName string
	StoreLogo string
	Socials   map[string]string
	Phones    []string
	Items     []structs.CartItem
	Subtotal  float64
	ItemCount int
}

// GroupByStore splits a cart per store, keeping the order in which stores first appear
func GroupByStore(c structs.Cart) []StoreGroup {
	groups := make([]StoreGroup, 0)
	index := make(map[string]int)

	for _, item := range c.Items {
		idx, ok := index[item.StoreID]
		if !ok {
			idx = len(groups)
			index[item.StoreID] = idx
			groups = append(groups, StoreGroup{
				StoreID:   item.StoreID,
				StoreName: item.StoreName,
				StoreLogo: item.StoreLogo,
				Socials:   item.StoreSocials,
				Phones:    item.StorePhones,
			})
		}

		groups[idx].Items = append(groups[idx].Items, item)
		groups[idx].Subtotal += item.TotalPrice
		groups[idx].ItemCount += item.Quantity
	}

	return groups
}

// View renders a cart with display-ready amounts
func View(c structs.Cart) structs.CartView {
	view := structs.CartView{
		Cart:           c,
		FormattedTotal: lib.FormatAmount(c.Total),
		Lines:          make([]structs.CartLineView, 0, len(c.Items)),
		Stores:         make([]structs.StoreGroupView, 0),
	}

	for i := range c.Items {
		item := &c.Items[i]
		line := structs.CartLineView{ItemID: item.ID}
		if !item.HidePrice {
			line.FormattedUnitPrice = lib.FormatAmount(UnitPrice(item))
			line.FormattedTotal = lib.FormatAmount(item.TotalPrice)
		}
		view.Lines = append(view.Lines, line)
	}

	for _, group := range GroupByStore(c) {
		ids := make([]string, 0, len(group.Items))
		for _, item := range group.Items {
			ids = append(ids, item.ID)
		}
		view.Stores = append(view.Stores, structs.StoreGroupView{
			StoreID:           group.StoreID,
			StoreName:         group.StoreName,
			StoreLogo:         group.StoreLogo,
			StoreSocials:      group.Socials,
			StorePhones:       group.Phones,
			ItemIDs:           ids,
			ItemCount:         group.ItemCount,
			FormattedSubtotal: lib.FormatAmount(group.Subtotal),
		})
	}

	return view
}
