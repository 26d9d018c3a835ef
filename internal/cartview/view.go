package cartview

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"byteshop-be/internal/logger"

	"go.uber.org/zap"
)

// Line is one rendered cart row. Quantity and subtotal are updated directly
// from mutation response payloads, never parsed back out of rendered text.
type Line struct {
	CartID     string  `json:"cart_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	StockLimit int     `json:"stock_limit"`
	Subtotal   float64 `json:"subtotal"`
}

// Summary is recomputed from the visible lines after every mutation. It is
// never persisted and never trusted from the server as a whole; only each
// line's subtotal and the global item count are server-sourced.
type Summary struct {
	TotalItems     int
	Subtotal       float64
	DeliveryCharge float64
	GrandTotal     float64
}

// Response is the cart store's mutation envelope.
type Response struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Subtotal  *float64 `json:"subtotal"`
	CartCount *int     `json:"cart_count"`
}

// Store is the collaborator owning the authoritative cart state.
type Store interface {
	Update(ctx context.Context, cartID string, quantity int) (*Response, error)
	Remove(ctx context.Context, cartID string) (*Response, error)
	Clear(ctx context.Context) (*Response, error)
	Fetch(ctx context.Context) ([]Line, error)
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Confirmer answers a yes/no prompt before a destructive action.
type Confirmer func(prompt string) bool

// Notifier surfaces a transient, non-blocking message.
type Notifier func(kind NoticeKind, message string)

// DefaultDeliveryCharge is the flat fee applied to any non-empty cart.
const DefaultDeliveryCharge = 50.0

// DefaultClearReloadDelay leaves time for the success notice before the view
// is rebuilt.
const DefaultClearReloadDelay = 800 * time.Millisecond

// View mirrors the customer's cart on screen. It owns no persistent state:
// every mutation round-trips to the Store, and the view either patches itself
// from the response or falls back to a full reload when it can no longer
// trust its own copy.
type View struct {
	store   Store
	confirm Confirmer
	notify  Notifier
	reload  func()

	// DeliveryCharge is the flat fee used by Summary.
	DeliveryCharge float64
	// ClearReloadDelay delays the post-clear reload.
	ClearReloadDelay time.Duration

	schedule func(d time.Duration, f func())

	mu    sync.Mutex
	lines []Line
	badge int
}

func NewView(store Store, confirm Confirmer, notify Notifier, reload func()) *View {
	return &View{
		store:            store,
		confirm:          confirm,
		notify:           notify,
		reload:           reload,
		DeliveryCharge:   DefaultDeliveryCharge,
		ClearReloadDelay: DefaultClearReloadDelay,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Load replaces the visible lines with the store's current state.
func (v *View) Load(ctx context.Context) error {
	lines, err := v.store.Fetch(ctx)
	if err != nil {
		return err
	}

	badge := 0
	for i := range lines {
		if lines[i].Subtotal == 0 {
			lines[i].Subtotal = round2(float64(lines[i].Quantity) * lines[i].UnitPrice)
		}
		badge += lines[i].Quantity
	}

	v.mu.Lock()
	v.lines = lines
	v.badge = badge
	v.mu.Unlock()
	return nil
}

// Lines returns a copy of the visible lines.
func (v *View) Lines() []Line {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]Line, len(v.lines))
	copy(out, v.lines)
	return out
}

// Badge is the header cart count, always server-sourced.
func (v *View) Badge() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.badge
}

// Summary recomputes the totals purely from the visible lines.
func (v *View) Summary() Summary {
	v.mu.Lock()
	defer v.mu.Unlock()

	var s Summary
	for _, l := range v.lines {
		s.TotalItems += l.Quantity
		s.Subtotal += l.Subtotal
	}
	s.Subtotal = round2(s.Subtotal)
	if s.Subtotal > 0 {
		s.DeliveryCharge = v.DeliveryCharge
	}
	s.GrandTotal = round2(s.Subtotal + s.DeliveryCharge)
	return s
}

// Step changes one line's quantity by delta (+1/-1 from the stepper buttons).
// Stepping below one asks for confirmation and removes the line instead;
// stepping past the stock limit is rejected locally without any request.
func (v *View) Step(ctx context.Context, cartID string, delta int) error {
	line, ok := v.lookup(cartID)
	if !ok {
		v.notify(NoticeError, ErrLineNotVisible.Error())
		return ErrLineNotVisible
	}

	newQty := line.Quantity + delta

	if newQty < 1 {
		if !v.confirm("Remove this item from your cart?") {
			return nil
		}
		return v.removeLine(ctx, cartID)
	}

	if newQty > line.StockLimit {
		err := &StockLimitError{Limit: line.StockLimit}
		v.notify(NoticeError, err.Error())
		return err
	}

	return v.sendUpdate(ctx, cartID, newQty, true)
}

// SetQuantity is the direct-entry variant. Malformed input is rejected
// locally and the whole view is reloaded rather than patched; the typed text
// may be arbitrarily broken, so no soft correction is attempted.
func (v *View) SetQuantity(ctx context.Context, cartID, raw string) error {
	qty, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || qty < 1 {
		v.notify(NoticeError, ErrInvalidQuantity.Error())
		v.reload()
		return ErrInvalidQuantity
	}

	if _, ok := v.lookup(cartID); !ok {
		v.notify(NoticeError, ErrLineNotVisible.Error())
		return ErrLineNotVisible
	}

	// Stock limits are not pre-checked here; the store is the authority for
	// direct entry and a rejection forces the reload below.
	return v.sendUpdate(ctx, cartID, qty, false)
}

// sendUpdate pushes an absolute quantity. stepped distinguishes the +/- path
// from direct entry: a success=false response leaves a stepped view alone but
// forces a reload after direct entry, where server state is unknown.
func (v *View) sendUpdate(ctx context.Context, cartID string, qty int, stepped bool) error {
	resp, err := v.store.Update(ctx, cartID, qty)
	if err != nil {
		v.notify(NoticeError, "Could not reach the cart, reloading")
		v.reload()
		return err
	}

	if !resp.Success {
		v.notify(NoticeError, resp.Message)
		if !stepped {
			v.reload()
		}
		return &StoreError{Message: resp.Message}
	}

	v.mu.Lock()
	for i := range v.lines {
		if v.lines[i].CartID == cartID {
			v.lines[i].Quantity = qty
			if resp.Subtotal != nil {
				v.lines[i].Subtotal = *resp.Subtotal
			}
			break
		}
	}
	if resp.CartCount != nil {
		v.badge = *resp.CartCount
	}
	v.mu.Unlock()

	logger.FromCtx(ctx).Debug("cart line patched",
		zap.String("cart_id", cartID),
		zap.Int("quantity", qty),
	)
	return nil
}

// Remove deletes one line after confirmation.
func (v *View) Remove(ctx context.Context, cartID string) error {
	if !v.confirm("Remove this item from your cart?") {
		return nil
	}
	return v.removeLine(ctx, cartID)
}

func (v *View) removeLine(ctx context.Context, cartID string) error {
	resp, err := v.store.Remove(ctx, cartID)
	if err != nil {
		v.notify(NoticeError, "Could not reach the cart")
		return err
	}

	if !resp.Success {
		v.notify(NoticeError, resp.Message)
		return &StoreError{Message: resp.Message}
	}

	v.mu.Lock()
	for i := range v.lines {
		if v.lines[i].CartID == cartID {
			v.lines = append(v.lines[:i], v.lines[i+1:]...)
			break
		}
	}
	if resp.CartCount != nil {
		v.badge = *resp.CartCount
	}
	empty := len(v.lines) == 0
	v.mu.Unlock()

	v.notify(NoticeSuccess, "Item removed from cart")

	// Removing the last line switches to the empty-cart presentation, which
	// only a full reload can render.
	if empty {
		v.reload()
	}
	return nil
}

// Clear empties the cart after confirmation. On success the reload is
// scheduled rather than immediate so the notice stays readable.
func (v *View) Clear(ctx context.Context) error {
	if !v.confirm("Remove all items from your cart?") {
		return nil
	}

	resp, err := v.store.Clear(ctx)
	if err != nil {
		v.notify(NoticeError, "Could not reach the cart")
		return err
	}

	if !resp.Success {
		v.notify(NoticeError, resp.Message)
		return &StoreError{Message: resp.Message}
	}

	v.notify(NoticeSuccess, "Cart cleared")
	v.schedule(v.ClearReloadDelay, v.reload)
	return nil
}

func (v *View) lookup(cartID string) (Line, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, l := range v.lines {
		if l.CartID == cartID {
			return l, true
		}
	}
	return Line{}, false
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// IsTransport reports whether err came from a request that got no response.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
