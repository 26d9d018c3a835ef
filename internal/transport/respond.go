package transport

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// WriteJSON writes v with the given status. Encoding failures are swallowed;
// by then the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	WriteJSON(w, code, Envelope{Success: false, Message: message})
}

// Envelope is the mutation response shape shared by the cart endpoints.
type Envelope struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message,omitempty"`
	Subtotal  *float64 `json:"subtotal,omitempty"`
	CartCount *int     `json:"cart_count,omitempty"`
}

func ToUint(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	return uint(n), err
}
