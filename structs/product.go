package structs

import "storefront_server/lib"

// Product as supplied by the remote storefront API.
// Prices may arrive as strings, hence lib.Number.
type Product struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Images     []string           `json:"images,omitempty"`
	Price      lib.Number         `json:"price"`
	Currency   string             `json:"currency"`
	Category   string             `json:"category,omitempty"`
	Attributes []ProductAttribute `json:"attributes,omitempty"`
	HidePrice  bool               `json:"hidePrice"`
	Store      StoreInfo          `json:"store"`
}

// ProductAttribute is a selectable dimension of a product, e.g. size or color
type ProductAttribute struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Variants []AttributeVariant `json:"variants"`
}

// AttributeVariant is one option of an attribute. Price is an additive modifier.
type AttributeVariant struct {
	ID    string     `json:"id"`
	Value string     `json:"value"`
	Price lib.Number `json:"price,omitempty"`
	SKU   string     `json:"sku,omitempty"`
	Image string     `json:"image,omitempty"`
}

// StoreInfo identifies the tenant selling a product and how to reach it
type StoreInfo struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Logo    string            `json:"logo,omitempty"`
	Socials map[string]string `json:"socials,omitempty"` // platform -> handle
	Phones  []string          `json:"phones,omitempty"`  // staff phone numbers
}

// FirstImage returns the primary image or an empty string
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// FindVariant looks up a variant of the given attribute
func (p *Product) FindVariant(attributeID, variantID string) (*ProductAttribute, *AttributeVariant, bool) {
	for i := range p.Attributes {
		attr := &p.Attributes[i]
		if attr.ID != attributeID {
			continue
		}
		for j := range attr.Variants {
			if attr.Variants[j].ID == variantID {
				return attr, &attr.Variants[j], true
			}
		}
		return attr, nil, false
	}
	return nil, nil, false
}
