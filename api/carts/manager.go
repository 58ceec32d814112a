package carts

import (
	"storefront_server/api/middleware"
	"storefront_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CartRoutesManager struct {
	logger      *gecho.Logger
	cartService *services.CartService
	mw          *middleware.Middleware
}

func NewCartRoutesManager(
	logger *gecho.Logger,
	cartService *services.CartService,
	mw *middleware.Middleware,
) *CartRoutesManager {
	return &CartRoutesManager{
		logger:      logger,
		cartService: cartService,
		mw:          mw,
	}
}

func (crm *CartRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(crm.mw.SessionMiddleware)
		r.Use(crm.mw.RateLimitMiddleware())
		r.Use(crm.mw.OriginGuard())

		r.Get("/", crm.GetCart)
		r.Delete("/", crm.ClearCart)

		r.Post("/items", crm.AddItem)
		r.Patch("/items/{id}", crm.UpdateQuantity)
		r.Delete("/items/{id}", crm.RemoveItem)

		r.Get("/restore", crm.CheckRestore)
		r.Post("/restore/clear", crm.ClearRestore)
		r.Post("/restore/continue", crm.ContinueRestore)
	})
}
