package market

import (
	"errors"
	"net/http"
	"strings"

	"byteshop-be/internal/image"
	"byteshop-be/internal/logger"
	"byteshop-be/internal/middleware"
	"byteshop-be/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxFormMemory = 8 << 20

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/{marketID}", h.Get)
	r.Get("/mine", h.GetMine)
	r.Post("/", h.Create)
	r.Put("/{marketID}", h.Update)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	marketID, err := transport.ToUint(chi.URLParam(r, "marketID"))
	if err != nil {
		transport.WriteJSONError(w, "invalid market id", http.StatusBadRequest)
		return
	}

	m, err := h.svc.Get(r.Context(), marketID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity(w, r)
	if !ok {
		return
	}

	m, err := h.svc.GetByOwner(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		transport.WriteJSONError(w, "invalid form data", http.StatusBadRequest)
		return
	}

	input := CreateInput{
		OwnerID:  ownerID,
		Name:     r.FormValue("name"),
		ImageURL: r.FormValue("image_url"),
	}
	if desc := r.FormValue("description"); desc != "" {
		input.Description = &desc
	}
	if file, header, err := r.FormFile("image"); err == nil {
		file.Close()
		input.ImageFile = header
	}

	m, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := identity(w, r)
	if !ok {
		return
	}

	marketID, err := transport.ToUint(chi.URLParam(r, "marketID"))
	if err != nil {
		transport.WriteJSONError(w, "invalid market id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		transport.WriteJSONError(w, "invalid form data", http.StatusBadRequest)
		return
	}

	input := UpdateInput{
		MarketID: marketID,
		OwnerID:  ownerID,
		ImageURL: r.FormValue("image_url"),
	}
	if name := r.FormValue("name"); name != "" {
		input.Name = &name
	}
	if desc := r.FormValue("description"); desc != "" {
		input.Description = &desc
	}
	if file, header, err := r.FormFile("image"); err == nil {
		file.Close()
		input.ImageFile = header
	}

	m, err := h.svc.Update(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	transport.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var storageErr *image.StorageError
	var reachErr *image.ReachabilityError
	switch {
	case errors.Is(err, ErrMarketNotFound):
		transport.WriteJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrNotOwner):
		transport.WriteJSONError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, ErrAlreadyOwner):
		transport.WriteJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, image.ErrNoSource),
		errors.Is(err, image.ErrBadImageType),
		errors.Is(err, image.ErrTooLarge),
		errors.Is(err, image.ErrMalformedURL),
		errors.As(err, &reachErr):
		transport.WriteJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &storageErr):
		logger.FromCtx(r.Context()).Error("market image storage failed", zap.Error(err))
		transport.WriteJSONError(w, "image upload failed", http.StatusInternalServerError)
	default:
		logger.FromCtx(r.Context()).Error("market request failed", zap.Error(err))
		transport.WriteJSONError(w, "something went wrong", http.StatusInternalServerError)
	}
}

func identity(w http.ResponseWriter, r *http.Request) (uint, bool) {
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
