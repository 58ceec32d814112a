package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"storefront_server/cart"
	"storefront_server/lib"
	"storefront_server/structs"
	"sync"

	"github.com/MonkyMars/gecho"
)

const sessionLockStripes = 64

// CartService runs cart engines on behalf of HTTP sessions.
// An engine is rebuilt from the session store on every call, so requests of
// the same session are serialized through a striped lock.
type CartService struct {
	logger           *gecho.Logger
	config           *structs.Config
	cacheService     *CacheService
	catalogService   *CatalogService
	analyticsService *AnalyticsService
	locks            [sessionLockStripes]sync.Mutex
}

func NewCartService(logger *gecho.Logger, cfg *structs.Config, cacheService *CacheService, catalogService *CatalogService, analyticsService *AnalyticsService) *CartService {
	return &CartService{
		logger:           logger,
		config:           cfg,
		cacheService:     cacheService,
		catalogService:   catalogService,
		analyticsService: analyticsService,
	}
}

func (cs *CartService) GetCart(sessionID string) (structs.Cart, error) {
	unlock := cs.lock(sessionID)
	defer unlock()

	engine, err := cs.engine(sessionID)
	if err != nil {
		return structs.Cart{}, err
	}
	return engine.Cart(), nil
}

// AddItem resolves the product from the catalog and adds it to the session's cart.
// Price modifiers always come from the catalog, never from the request.
// A line may not grow past structs.MaxItemQuantity through repeated additions.
func (cs *CartService) AddItem(ctx context.Context, sessionID string, req *structs.AddItemRequest) (structs.Cart, error) {
	product, err := cs.catalogService.GetProduct(ctx, req.ProductID)
	if err != nil {
		return structs.Cart{}, err
	}

	selections := make([]structs.VariantSelection, 0, len(req.Variants))
	for _, v := range req.Variants {
		if _, _, found := product.FindVariant(v.AttributeID, v.VariantID); !found {
			return structs.Cart{}, fmt.Errorf("%w: %s/%s", lib.ErrInvalidVariant, v.AttributeID, v.VariantID)
		}
		selections = append(selections, structs.VariantSelection{
			AttributeID: v.AttributeID,
			VariantID:   v.VariantID,
		})
	}

	unlock := cs.lock(sessionID)
	defer unlock()

	engine, err := cs.engine(sessionID)
	if err != nil {
		return structs.Cart{}, err
	}

	itemID := cart.NewItem(*product, req.Quantity, selections).ID
	current := engine.Cart()
	for _, item := range current.Items {
		if item.ID == itemID && item.Quantity+req.Quantity > structs.MaxItemQuantity {
			return current, fmt.Errorf("%w: %d in cart, %d requested", lib.ErrQuantityLimit, item.Quantity, req.Quantity)
		}
	}

	return engine.AddItem(*product, req.Quantity, selections), nil
}

func (cs *CartService) UpdateQuantity(sessionID, itemID string, quantity int) (structs.Cart, error) {
	unlock := cs.lock(sessionID)
	defer unlock()

	engine, err := cs.engine(sessionID)
	if err != nil {
		return structs.Cart{}, err
	}
	return engine.UpdateQuantity(itemID, quantity), nil
}

func (cs *CartService) RemoveItem(sessionID, itemID string) (structs.Cart, error) {
	unlock := cs.lock(sessionID)
	defer unlock()

	engine, err := cs.engine(sessionID)
	if err != nil {
		return structs.Cart{}, err
	}
	return engine.RemoveItem(itemID), nil
}

func (cs *CartService) ClearCart(sessionID string) (structs.Cart, error) {
	unlock := cs.lock(sessionID)
	defer unlock()

	engine, err := cs.engine(sessionID)
	if err != nil {
		return structs.Cart{}, err
	}
	return engine.ClearCart(), nil
}

// RestoreOutcome selects how a shown stale-cart prompt is resolved
type RestoreOutcome int

const (
	RestoreCheck RestoreOutcome = iota
	RestoreClear
	RestoreContinue
)

// Restore runs a fresh staleness check for the session's cart and applies
// the outcome when the prompt would be shown. The settle delay is skipped
// because the cart is loaded synchronously.
func (cs *CartService) Restore(sessionID string, outcome RestoreOutcome) (structs.RestoreView, error) {
	unlock := cs.lock(sessionID)
	defer unlock()

	engine, err := cs.engine(sessionID)
	if err != nil {
		return structs.RestoreView{}, err
	}
	guard := cart.NewStalenessGuard(engine,
		cart.WithStaleAfter(cs.config.Cart.StaleAfter),
		cart.WithSettleDelay(0),
	)

	state := guard.Evaluate()
	if state == cart.GuardShown {
		switch outcome {
		case RestoreClear:
			state = guard.Clear()
			cs.analyticsService.TrackStalePrompt("cleared")
		case RestoreContinue:
			state = guard.Continue()
			cs.analyticsService.TrackStalePrompt("continued")
		default:
			cs.analyticsService.TrackStalePrompt("shown")
		}
	}

	view := structs.RestoreView{
		State: state.String(),
		Cart:  engine.Cart(),
	}
	if addedAt, ok := engine.LastItemAddedAt(); ok {
		millis := addedAt.UnixMilli()
		view.LastItemAddedAt = &millis
	}
	return view, nil
}

// engine loads the session's cart. A cart that could not be read is reported
// as lib.ErrCartUnavailable so the stored copy is never replaced by an empty one.
func (cs *CartService) engine(sessionID string) (*cart.Engine, error) {
	engine := cart.NewEngine(cs.cacheService.SessionStore(sessionID),
		cart.WithTracker(cs.analyticsService),
		cart.WithLogger(cs.logger),
	)
	if err := engine.LoadErr(); err != nil {
		return nil, fmt.Errorf("%w: %w", lib.ErrCartUnavailable, err)
	}
	return engine, nil
}

func (cs *CartService) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	mu := &cs.locks[h.Sum32()%sessionLockStripes]
	mu.Lock()
	return mu.Unlock
}
