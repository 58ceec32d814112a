package cart

import (
	"maps"
	"slices"
	"storefront_server/lib"
	"storefront_server/structs"
)

// Action is a cart mutation understood by Reduce
type Action interface {
	isAction()
}

type AddItem struct {
	Product    structs.Product
	Quantity   int
	Selections []structs.VariantSelection
}

type RemoveItem struct {
	ItemID string
}

type UpdateQuantity struct {
	ItemID   string
	Quantity int
}

type ClearCart struct{}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (ClearCart) isAction()      {}

// Reduce applies an action to a cart and returns the next cart.
// The input cart is never modified.
func Reduce(state structs.Cart, action Action) structs.Cart {
	switch a := action.(type) {
	case AddItem:
		return reduceAdd(state, a)
	case RemoveItem:
		return reduceRemove(state, a.ItemID)
	case UpdateQuantity:
		if a.Quantity <= 0 {
			return reduceRemove(state, a.ItemID)
		}
		return reduceUpdate(state, a)
	case ClearCart:
		return Empty()
	default:
		return Recalculate(cloneItems(state.Items))
	}
}

func reduceAdd(state structs.Cart, a AddItem) structs.Cart {
	if a.Quantity <= 0 {
		return Recalculate(cloneItems(state.Items))
	}

	item := NewItem(a.Product, a.Quantity, a.Selections)
	items := cloneItems(state.Items)

	if idx := indexOf(items, item.ID); idx >= 0 {
		existing := items[idx]
		existing.Quantity += a.Quantity
		existing.TotalPrice = LineTotal(&existing)
		items[idx] = existing
		return Recalculate(items)
	}

	return Recalculate(append(items, item))
}

func reduceRemove(state structs.Cart, itemID string) structs.Cart {
	items := make([]structs.CartItem, 0, len(state.Items))
	for _, item := range state.Items {
		if item.ID != itemID {
			items = append(items, cloneItem(item))
		}
	}
	return Recalculate(items)
}

func reduceUpdate(state structs.Cart, a UpdateQuantity) structs.Cart {
	items := cloneItems(state.Items)
	if idx := indexOf(items, a.ItemID); idx >= 0 {
		items[idx].Quantity = a.Quantity
		items[idx].TotalPrice = LineTotal(&items[idx])
	}
	return Recalculate(items)
}

// NewItem builds a cart item from a product and the buyer's selections.
// Modifiers come from the selection when given, else from the product's variant, else 0.
func NewItem(product structs.Product, quantity int, selections []structs.VariantSelection) structs.CartItem {
	variants := make([]structs.SelectedVariant, 0, len(selections))
	for _, sel := range selections {
		selected := structs.SelectedVariant{
			AttributeID: sel.AttributeID,
			VariantID:   sel.VariantID,
		}

		var declared any
		attr, variant, found := product.FindVariant(sel.AttributeID, sel.VariantID)
		if attr != nil {
			selected.AttributeName = attr.Name
		}
		if found {
			selected.VariantValue = variant.Value
			selected.VariantSKU = variant.SKU
			selected.VariantImage = variant.Image
			declared = variant.Price
		}

		if sel.PriceModifier != nil {
			selected.PriceModifier = lib.ToNumber(*sel.PriceModifier, 0)
		} else {
			selected.PriceModifier = lib.ToNumber(declared, 0)
		}

		variants = append(variants, selected)
	}

	item := structs.CartItem{
		ID:               ItemKey(product.ID, variants),
		ProductID:        product.ID,
		Name:             product.Name,
		Image:            product.FirstImage(),
		Category:         product.Category,
		Currency:         product.Currency,
		BasePrice:        lib.ToNumber(product.Price, 0),
		Quantity:         max(quantity, 0),
		SelectedVariants: variants,
		HidePrice:        product.HidePrice,
		StoreID:          product.Store.ID,
		StoreName:        product.Store.Name,
		StoreLogo:        product.Store.Logo,
		StoreSocials:     maps.Clone(product.Store.Socials),
		StorePhones:      slices.Clone(product.Store.Phones),
	}
	item.TotalPrice = LineTotal(&item)
	return item
}

func indexOf(items []structs.CartItem, id string) int {
	return slices.IndexFunc(items, func(item structs.CartItem) bool {
		return item.ID == id
	})
}

func cloneItems(items []structs.CartItem) []structs.CartItem {
	out := make([]structs.CartItem, len(items))
	for i, item := range items {
		out[i] = cloneItem(item)
	}
	return out
}

func cloneItem(item structs.CartItem) structs.CartItem {
	item.SelectedVariants = slices.Clone(item.SelectedVariants)
	item.StoreSocials = maps.Clone(item.StoreSocials)
	item.StorePhones = slices.Clone(item.StorePhones)
	return item
}
