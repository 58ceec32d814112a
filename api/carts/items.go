package carts

import (
	"errors"
	"net/http"
	"storefront_server/api/middleware"
	"storefront_server/cart"
	"storefront_server/handling"
	"storefront_server/lib"
	"storefront_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// GetCart handles GET /cart
func (crm *CartRoutesManager) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := crm.session(w, r)
	if !ok {
		return
	}

	current, err := crm.cartService.GetCart(sessionID)
	if err != nil {
		crm.cartError(w, err, "failed to read cart")
		return
	}

	gecho.Success(w,
		gecho.WithData(cart.View(current)),
		gecho.Send(),
	)
}

// AddItem handles POST /cart/items
func (crm *CartRoutesManager) AddItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := crm.session(w, r)
	if !ok {
		return
	}

	req, err := lib.ExtractAndValidateBody[structs.AddItemRequest](r)
	if err != nil {
		crm.badBody(w, err)
		return
	}

	updated, err := crm.cartService.AddItem(r.Context(), sessionID, req)
	if err != nil {
		switch {
		case errors.Is(err, lib.ErrNotFound):
			gecho.NotFound(w,
				gecho.WithMessage("error.cart.productNotFound"),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrQuantityLimit):
			gecho.BadRequest(w,
				gecho.WithMessage("error.cart.quantityLimit"),
				gecho.WithData(err.Error()),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrInvalidVariant):
			gecho.BadRequest(w,
				gecho.WithMessage("error.cart.invalidVariant"),
				gecho.WithData(err.Error()),
				gecho.Send(),
			)
		case errors.Is(err, lib.ErrCatalogUnavailable):
			crm.logger.Warn("Catalog unavailable while adding to cart",
				gecho.Field("product_id", req.ProductID),
				gecho.Field("error", err),
			)
			gecho.ServiceUnavailable(w,
				gecho.WithMessage("error.cart.catalogUnavailable"),
				gecho.Send(),
			)
		default:
			crm.cartError(w, err, "failed to add item to cart")
		}
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cart.itemAdded"),
		gecho.WithData(cart.View(updated)),
		gecho.Send(),
	)
}

// UpdateQuantity handles PATCH /cart/items/{id}. Zero or less removes the item.
func (crm *CartRoutesManager) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := crm.session(w, r)
	if !ok {
		return
	}

	req, err := lib.ExtractAndValidateBody[structs.UpdateQuantityRequest](r)
	if err != nil {
		crm.badBody(w, err)
		return
	}

	updated, err := crm.cartService.UpdateQuantity(sessionID, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		crm.cartError(w, err, "failed to update cart item")
		return
	}

	gecho.Success(w,
		gecho.WithData(cart.View(updated)),
		gecho.Send(),
	)
}

// RemoveItem handles DELETE /cart/items/{id}
func (crm *CartRoutesManager) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := crm.session(w, r)
	if !ok {
		return
	}

	updated, err := crm.cartService.RemoveItem(sessionID, chi.URLParam(r, "id"))
	if err != nil {
		crm.cartError(w, err, "failed to remove cart item")
		return
	}

	gecho.Success(w,
		gecho.WithData(cart.View(updated)),
		gecho.Send(),
	)
}

// ClearCart handles DELETE /cart
func (crm *CartRoutesManager) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := crm.session(w, r)
	if !ok {
		return
	}

	cleared, err := crm.cartService.ClearCart(sessionID)
	if err != nil {
		crm.cartError(w, err, "failed to clear cart")
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.cart.cleared"),
		gecho.WithData(cart.View(cleared)),
		gecho.Send(),
	)
}

func (crm *CartRoutesManager) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	sessionID, err := middleware.SessionID(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.cart.invalidSession"),
			gecho.Send(),
		)
		return "", false
	}
	return sessionID, true
}

// cartError answers 503 when the session's stored cart cannot be read
func (crm *CartRoutesManager) cartError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, lib.ErrCartUnavailable) {
		crm.logger.Warn("Cart store unavailable", gecho.Field("error", err))
		gecho.ServiceUnavailable(w,
			gecho.WithMessage("error.cart.unavailable"),
			gecho.Send(),
		)
		return
	}

	_ = handling.HandleError(err, msg, crm.logger, w)
}

func (crm *CartRoutesManager) badBody(w http.ResponseWriter, err error) {
	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		gecho.BadRequest(w,
			gecho.WithMessage("error.cart.validationFailed"),
			gecho.WithData(ve.Errors),
			gecho.Send(),
		)
		return
	}

	crm.logger.Debug("Invalid cart request body", gecho.Field("error", err))
	gecho.BadRequest(w,
		gecho.WithMessage("error.cart.invalidRequestBody"),
		gecho.Send(),
	)
}
