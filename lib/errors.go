package lib

import "errors"

// Lookup errors
var (
	ErrNotFound           = errors.New("not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Session errors
var (
	ErrInvalidSession = errors.New("invalid session")
)

// Cart errors
var (
	ErrInvalidVariant  = errors.New("invalid variant selection")
	ErrQuantityLimit   = errors.New("item quantity limit exceeded")
	ErrCartUnavailable = errors.New("cart unavailable")
)
