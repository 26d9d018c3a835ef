package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	"byteshop-be/internal/logger"
	"byteshop-be/internal/metrics"
	"byteshop-be/internal/middleware"
	"byteshop-be/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler exposes the cart store contract:
//
//	POST /api/cart/update  {cart_id, quantity} -> {success, subtotal, cart_count, message?}
//	POST /api/cart/remove  {cart_id}           -> {success, cart_count, message}
//	POST /api/cart/clear   {}                  -> {success, message}
//
// Business rejections answer 200 with success=false so the client can always
// read the envelope; only auth and malformed JSON change the status code.
type Handler struct {
	svc     Service
	metrics *metrics.CartMetrics
}

func NewHandler(svc Service, m *metrics.CartMetrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/update", h.Update)
	r.Post("/remove", h.Remove)
	r.Post("/clear", h.Clear)
}

type updateRequest struct {
	CartID   string `json:"cart_id"`
	Quantity int    `json:"quantity"`
}

type removeRequest struct {
	CartID string `json:"cart_id"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		transport.WriteJSONError(w, ErrUserNotAuthenticated.Error(), http.StatusUnauthorized)
		return
	}

	lines, err := h.svc.Lines(r.Context(), customerID)
	if err != nil {
		logger.FromCtx(r.Context()).Error("list cart failed", zap.Error(err))
		transport.WriteJSONError(w, ErrFailedGetLines.Error(), http.StatusInternalServerError)
		return
	}

	transport.WriteJSON(w, http.StatusOK, lines)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	timer := metrics.StartTimer()
	log := logger.FromCtx(r.Context())

	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		transport.WriteJSON(w, http.StatusUnauthorized,
			transport.Envelope{Success: false, Message: ErrUserNotAuthenticated.Error()})
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteJSON(w, http.StatusBadRequest,
			transport.Envelope{Success: false, Message: "invalid request body"})
		return
	}

	result, err := h.svc.Update(r.Context(), UpdateParams{
		CustomerID: customerID,
		CartID:     req.CartID,
		Quantity:   req.Quantity,
	})
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.metrics.Updates.Inc()
	log.Info("cart quantity updated",
		zap.String("cart_id", req.CartID),
		zap.Int("quantity", req.Quantity),
		zap.Duration("duration", timer.Duration()),
	)

	transport.WriteJSON(w, http.StatusOK, transport.Envelope{
		Success:   true,
		Subtotal:  &result.Subtotal,
		CartCount: &result.CartCount,
	})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		transport.WriteJSON(w, http.StatusUnauthorized,
			transport.Envelope{Success: false, Message: ErrUserNotAuthenticated.Error()})
		return
	}

	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		transport.WriteJSON(w, http.StatusBadRequest,
			transport.Envelope{Success: false, Message: "invalid request body"})
		return
	}

	result, err := h.svc.Remove(r.Context(), RemoveParams{
		CustomerID: customerID,
		CartID:     req.CartID,
	})
	if err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.metrics.Removes.Inc()
	log.Info("cart item removed", zap.String("cart_id", req.CartID))

	transport.WriteJSON(w, http.StatusOK, transport.Envelope{
		Success:   true,
		Message:   "Item removed from cart",
		CartCount: &result.CartCount,
	})
}

func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	customerID, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		transport.WriteJSON(w, http.StatusUnauthorized,
			transport.Envelope{Success: false, Message: ErrUserNotAuthenticated.Error()})
		return
	}

	if err := h.svc.Clear(r.Context(), customerID); err != nil {
		h.writeFailure(w, r, err)
		return
	}

	h.metrics.Clears.Inc()
	log.Info("cart cleared", zap.Uint("customer_id", customerID))

	transport.WriteJSON(w, http.StatusOK, transport.Envelope{
		Success: true,
		Message: "Cart cleared",
	})
}

func (h *Handler) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	var stockErr *StockExceededError
	switch {
	case errors.As(err, &stockErr),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidCartID),
		errors.Is(err, ErrLineNotFound):
		h.metrics.Rejected.Inc()
		transport.WriteJSON(w, http.StatusOK,
			transport.Envelope{Success: false, Message: err.Error()})
	default:
		h.metrics.Failed.Inc()
		logger.FromCtx(r.Context()).Error("cart mutation failed", zap.Error(err))
		transport.WriteJSON(w, http.StatusInternalServerError,
			transport.Envelope{Success: false, Message: "something went wrong"})
	}
}
