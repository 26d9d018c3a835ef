package product

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"byteshop-be/internal/image"
	"byteshop-be/internal/logger"
	"byteshop-be/internal/middleware"
	"byteshop-be/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxFormMemory bounds what ParseMultipartForm keeps in memory; bigger parts
// spill to temp files.
const maxFormMemory = 8 << 20

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{productID}", h.Get)
	r.Get("/market/{marketID}", h.ListByMarket)
	r.Post("/", h.Create)
	r.Put("/{productID}", h.Update)
	r.Delete("/{productID}", h.Delete)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	productID, err := transport.ToUint(chi.URLParam(r, "productID"))
	if err != nil {
		transport.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	p, err := h.svc.Get(r.Context(), productID)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			transport.WriteJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		transport.WriteJSONError(w, ErrFailedGetProduct.Error(), http.StatusInternalServerError)
		return
	}

	transport.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListByMarket(w http.ResponseWriter, r *http.Request) {
	marketID, err := transport.ToUint(chi.URLParam(r, "marketID"))
	if err != nil {
		transport.WriteJSONError(w, "invalid market id", http.StatusBadRequest)
		return
	}

	products, err := h.svc.ListByMarket(r.Context(), marketID)
	if err != nil {
		transport.WriteJSONError(w, ErrFailedGetProduct.Error(), http.StatusInternalServerError)
		return
	}

	transport.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerRequest(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		transport.WriteJSONError(w, "invalid form data", http.StatusBadRequest)
		return
	}

	price, _ := strconv.ParseFloat(r.FormValue("price"), 64)
	stock, _ := strconv.Atoi(r.FormValue("stock"))

	input := CreateInput{
		OwnerID:  ownerID,
		Name:     r.FormValue("name"),
		Price:    price,
		Stock:    stock,
		ImageURL: r.FormValue("image_url"),
	}
	if desc := r.FormValue("description"); desc != "" {
		input.Description = &desc
	}
	if file, header, err := r.FormFile("image"); err == nil {
		file.Close()
		input.ImageFile = header
	}

	p, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerRequest(w, r)
	if !ok {
		return
	}

	productID, err := transport.ToUint(chi.URLParam(r, "productID"))
	if err != nil {
		transport.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		transport.WriteJSONError(w, "invalid form data", http.StatusBadRequest)
		return
	}

	input := UpdateInput{
		ProductID: productID,
		OwnerID:   ownerID,
		ImageURL:  r.FormValue("image_url"),
	}
	if name := r.FormValue("name"); name != "" {
		input.Name = &name
	}
	if desc := r.FormValue("description"); desc != "" {
		input.Description = &desc
	}
	if raw := r.FormValue("price"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			input.Price = &price
		}
	}
	if raw := r.FormValue("stock"); raw != "" {
		if stock, err := strconv.Atoi(raw); err == nil {
			input.Stock = &stock
		}
	}
	if file, header, err := r.FormFile("image"); err == nil {
		file.Close()
		input.ImageFile = header
	}

	p, err := h.svc.Update(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerRequest(w, r)
	if !ok {
		return
	}

	productID, err := transport.ToUint(chi.URLParam(r, "productID"))
	if err != nil {
		transport.WriteJSONError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), ownerID, productID); err != nil {
		h.writeError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var storageErr *image.StorageError
	var reachErr *image.ReachabilityError
	switch {
	case errors.Is(err, ErrProductNotFound):
		transport.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		transport.WriteJSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrNoMarket):
		transport.WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrInvalidStock),
		errors.Is(err, image.ErrNoSource),
		errors.Is(err, image.ErrBadImageType),
		errors.Is(err, image.ErrTooLarge),
		errors.Is(err, image.ErrMalformedURL),
		errors.As(err, &reachErr):
		transport.WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &storageErr):
		logger.FromCtx(r.Context()).Error("product image storage failed", zap.Error(err))
		transport.WriteJSONError(w, "image upload failed", http.StatusInternalServerError)
	default:
		logger.FromCtx(r.Context()).Error("product request failed", zap.Error(err))
		transport.WriteJSONError(w, "something went wrong", http.StatusInternalServerError)
	}
}

// ownerRequest authenticates the request and returns the acting owner's ID.
func ownerRequest(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := middleware.CustomerIDFromContext(r.Context())
	if !ok {
		transport.WriteJSONError(w, "user not authenticated", http.StatusUnauthorized)
		return 0, false
	}
	role := strings.ToLower(middleware.RoleFromContext(r.Context()))
	if role != "owner" && role != "admin" {
		transport.WriteJSONError(w, "owner role required", http.StatusForbidden)
		return 0, false
	}
	return id, true
}
