package cart

import (
	"fmt"
	"storefront_server/structs"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
)

// Tracker receives cart analytics events. Calls are fire-and-forget.
type Tracker interface {
	TrackAddToCart(event structs.CartEvent)
	TrackRemoveFromCart(event structs.CartEvent)
}

// Engine owns the authoritative cart of one session.
// Every operation returns the new cart snapshot and never fails: store and
// tracker errors are logged and swallowed.
type Engine struct {
	mu      sync.Mutex
	store   KeyValueStore
	tracker Tracker
	logger  *gecho.Logger
	now     func() time.Time
	cart    structs.Cart

	// loadErr is set when the persisted cart could not be read. The engine
	// then works on an empty cart but never overwrites what is stored.
	loadErr error
}

type Option func(*Engine)

// WithTracker sets the analytics collaborator
func WithTracker(t Tracker) Option {
	return func(e *Engine) {
		e.tracker = t
	}
}

func WithLogger(logger *gecho.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock replaces time.Now, used for the last-added timestamp
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine and restores the cart persisted in store
func NewEngine(store KeyValueStore, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = gecho.NewDefaultLogger()
	}

	e.cart, e.loadErr = e.load()
	return e
}

// LoadErr reports why the persisted cart could not be read, or nil.
// A non-nil value means mutations are not persisted.
func (e *Engine) LoadErr() error {
	return e.loadErr
}

// Cart returns the current snapshot
func (e *Engine) Cart() structs.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Recalculate(cloneItems(e.cart.Items))
}

// AddItem adds quantity units of product with the given selections.
// Adding an item whose key already exists merges the quantities.
func (e *Engine) AddItem(product structs.Product, quantity int, selections []structs.VariantSelection) structs.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		e.logger.Debug("Ignoring add with non-positive quantity",
			gecho.Field("product_id", product.ID),
			gecho.Field("quantity", quantity),
		)
		return Recalculate(cloneItems(e.cart.Items))
	}

	next := Reduce(e.cart, AddItem{Product: product, Quantity: quantity, Selections: selections})
	e.commit(next)
	e.stamp()

	added := NewItem(product, quantity, selections)
	e.track(true, eventFor(&added, quantity))

	return Recalculate(cloneItems(e.cart.Items))
}

// RemoveItem drops the item with the given id. Unknown ids leave the cart unchanged.
func (e *Engine) RemoveItem(itemID string) structs.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.remove(itemID)
}

// UpdateQuantity sets an item's quantity. Zero or less removes the item.
func (e *Engine) UpdateQuantity(itemID string, quantity int) structs.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	if quantity <= 0 {
		return e.remove(itemID)
	}

	next := Reduce(e.cart, UpdateQuantity{ItemID: itemID, Quantity: quantity})
	e.commit(next)
	return Recalculate(cloneItems(e.cart.Items))
}

// ClearCart empties the cart and deletes both persisted keys
func (e *Engine) ClearCart() structs.Cart {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.cart = Reduce(e.cart, ClearCart{})
	if err := e.store.Remove(CartKey); err != nil {
		e.logger.Warn("Failed to remove persisted cart", gecho.Field("error", err))
	}
	if err := e.store.Remove(LastItemAddedAtKey); err != nil {
		e.logger.Warn("Failed to remove last added timestamp", gecho.Field("error", err))
	}
	return Empty()
}

// IsEmpty reports whether the cart holds no items
func (e *Engine) IsEmpty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cart.Items) == 0
}

// LastItemAddedAt reads the timestamp of the most recent addition.
// ok is false when the key is absent or not a number.
func (e *Engine) LastItemAddedAt() (time.Time, bool) {
	addedAt, ok, _ := e.readLastItemAddedAt()
	return addedAt, ok
}

// readLastItemAddedAt separates a failed read from an absent or unusable value
func (e *Engine) readLastItemAddedAt() (time.Time, bool, error) {
	raw, err := e.store.Get(LastItemAddedAtKey)
	if err != nil {
		e.logger.Warn("Failed to read last added timestamp", gecho.Field("error", err))
		return time.Time{}, false, err
	}
	addedAt, ok := parseMillis(raw)
	return addedAt, ok, nil
}

func (e *Engine) remove(itemID string) structs.Cart {
	var removed *structs.CartItem
	if idx := indexOf(e.cart.Items, itemID); idx >= 0 {
		item := cloneItem(e.cart.Items[idx])
		removed = &item
	}

	next := Reduce(e.cart, RemoveItem{ItemID: itemID})
	e.commit(next)

	if removed != nil {
		e.track(false, eventFor(removed, removed.Quantity))
	}
	return Recalculate(cloneItems(e.cart.Items))
}

// commit swaps in the next cart and persists it
func (e *Engine) commit(next structs.Cart) {
	e.cart = next

	if e.loadErr != nil {
		e.logger.Warn("Not persisting cart, stored cart could not be read", gecho.Field("error", e.loadErr))
		return
	}

	encoded, err := Encode(next)
	if err != nil {
		e.logger.Error("Failed to encode cart", gecho.Field("error", err))
		return
	}
	if err := e.store.Set(CartKey, encoded); err != nil {
		e.logger.Warn("Failed to persist cart", gecho.Field("error", err))
	}
}

func (e *Engine) stamp() {
	if e.loadErr != nil {
		return
	}
	millis := strconv.FormatInt(e.now().UnixMilli(), 10)
	if err := e.store.Set(LastItemAddedAtKey, millis); err != nil {
		e.logger.Warn("Failed to persist last added timestamp", gecho.Field("error", err))
	}
}

func (e *Engine) load() (structs.Cart, error) {
	raw, err := e.store.Get(CartKey)
	if err != nil {
		e.logger.Warn("Failed to read persisted cart, starting empty without persisting", gecho.Field("error", err))
		return Empty(), err
	}
	return Decode(raw), nil
}

// track hands the event to the tracker on its own goroutine
func (e *Engine) track(added bool, event structs.CartEvent) {
	if e.tracker == nil {
		return
	}

	tracker := e.tracker
	logger := e.logger
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Warn("Analytics tracker panicked", gecho.Field("panic", fmt.Sprint(r)))
			}
		}()
		if added {
			tracker.TrackAddToCart(event)
		} else {
			tracker.TrackRemoveFromCart(event)
		}
	}()
}

func eventFor(item *structs.CartItem, quantity int) structs.CartEvent {
	return structs.CartEvent{
		ProductID:   item.ProductID,
		ProductName: item.Name,
		Quantity:    quantity,
		UnitPrice:   UnitPrice(item),
		Currency:    item.Currency,
		Category:    item.Category,
		StoreID:     item.StoreID,
		StoreName:   item.StoreName,
	}
}

func parseMillis(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(millis), true
}
