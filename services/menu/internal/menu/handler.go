package menu

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const MaxBodyBytes = 1 << 20

// Handler handles HTTP requests for the menu catalog.
type Handler struct {
	repo   MenuItemRepo
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

func NewHandler(repo MenuItemRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/menu/items", func(r chi.Router) {
		r.Post("/", h.CreateItem)
		r.Get("/", h.ListItems)
		r.Get("/{id}", h.GetItem)
		r.Put("/{id}", h.UpdateItem)
		r.Patch("/{id}/availability", h.SetAvailability)
		r.Delete("/{id}", h.DeleteItem)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

type itemRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Tags        []string        `json:"tags"`
	Allergens   []string        `json:"allergens"`
	ImageURL    string          `json:"image_url"`
}

func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req itemRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	item := NewMenuItem(req.Name, req.Description, req.Price, req.Category)
	item.Tags = req.Tags
	item.Allergens = req.Allergens
	item.ImageURL = req.ImageURL

	if err := item.Validate(); err != nil {
		apt.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Create(ctx, item); err != nil {
		log.Errorf("cannot create menu item: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create menu item")
		return
	}

	apt.Respond(w, http.StatusCreated, item, nil)
}

func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListItems")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	filter := ItemFilter{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}
	switch r.URL.Query().Get("available") {
	case "true":
		available := true
		filter.Available = &available
	case "false":
		available := false
		filter.Available = &available
	}

	items, err := h.repo.List(ctx, filter)
	if err != nil {
		log.Errorf("cannot list menu items: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list menu items")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"items": items,
	}, nil)
}

func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Menu item not found")
			return
		}
		log.Errorf("cannot get menu item: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not get menu item")
		return
	}

	apt.Respond(w, http.StatusOK, item, nil)
}

func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Menu item not found")
			return
		}
		log.Errorf("cannot get menu item: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not get menu item")
		return
	}

	var req itemRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Category = req.Category
	item.Tags = req.Tags
	item.Allergens = req.Allergens
	item.ImageURL = req.ImageURL

	if err := item.Validate(); err != nil {
		apt.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.Save(ctx, item); err != nil {
		log.Errorf("cannot update menu item: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update menu item")
		return
	}

	apt.Respond(w, http.StatusOK, item, nil)
}

func (h *Handler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetAvailability")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var payload struct {
		Available *bool `json:"available"`
	}
	if !h.decodeBody(w, r, &payload) {
		return
	}
	if payload.Available == nil {
		apt.RespondError(w, http.StatusBadRequest, "Available flag is required")
		return
	}

	item, err := h.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Menu item not found")
			return
		}
		log.Errorf("cannot get menu item: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not get menu item")
		return
	}

	item.SetAvailability(*payload.Available)
	if err := h.repo.Save(ctx, item); err != nil {
		log.Errorf("cannot update menu item availability: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update menu item")
		return
	}

	apt.Respond(w, http.StatusOK, item, nil)
}

func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteItem")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			apt.RespondError(w, http.StatusNotFound, "Menu item not found")
			return
		}
		log.Errorf("cannot delete menu item: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete menu item")
		return
	}

	apt.Respond(w, http.StatusNoContent, nil, nil)
}

func (h *Handler) itemID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid menu item ID")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}
	return true
}
