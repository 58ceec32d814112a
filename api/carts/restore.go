package carts

import (
	"net/http"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
)

// CheckRestore handles GET /cart/restore. state is "shown" when the stored
// cart is old enough to offer clearing it.
func (crm *CartRoutesManager) CheckRestore(w http.ResponseWriter, r *http.Request) {
	crm.restore(w, r, services.RestoreCheck)
}

// ClearRestore handles POST /cart/restore/clear
func (crm *CartRoutesManager) ClearRestore(w http.ResponseWriter, r *http.Request) {
	crm.restore(w, r, services.RestoreClear)
}

// ContinueRestore handles POST /cart/restore/continue
func (crm *CartRoutesManager) ContinueRestore(w http.ResponseWriter, r *http.Request) {
	crm.restore(w, r, services.RestoreContinue)
}

func (crm *CartRoutesManager) restore(w http.ResponseWriter, r *http.Request, outcome services.RestoreOutcome) {
	sessionID, ok := crm.session(w, r)
	if !ok {
		return
	}

	view, err := crm.cartService.Restore(sessionID, outcome)
	if err != nil {
		crm.cartError(w, err, "failed to check cart staleness")
		return
	}

	gecho.Success(w,
		gecho.WithData(view),
		gecho.Send(),
	)
}
