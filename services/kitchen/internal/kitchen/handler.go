package kitchen

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmndev/restaurant/pkg/enums/prepstatus"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	service *Service
	cache   *TicketStateCache
	logger  apt.Logger
	config  *apt.Config
	tlm     *telemetry.HTTP
}

// NewHandler builds the kitchen HTTP handler. The cache is optional; when nil
// the summary endpoint counts straight from the repository.
func NewHandler(service *Service, cache *TicketStateCache, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		service: service,
		cache:   cache,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tickets", func(r chi.Router) {
		r.Post("/", h.CreateTicket)
		r.Get("/", h.ListTickets)
		r.Get("/summary", h.GetSummary)
		r.Get("/{id}", h.GetTicket)
		r.Patch("/{id}/start", h.StartPreparation)
		r.Patch("/{id}/items/{productId}/prepared", h.MarkItemPrepared)
		r.Patch("/{id}/complete", h.CompletePreparation)
		r.Patch("/{id}/cancel", h.CancelTicket)
		r.Patch("/{id}/status", h.UpdateStatus)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

type createTicketRequest struct {
	OrderID      string           `json:"order_id"`
	CustomerID   string           `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	Items        []ticketItemBody `json:"items"`
	Notes        string           `json:"notes"`
	Priority     int              `json:"priority"`
}

type ticketItemBody struct {
	ProductID           string `json:"product_id"`
	ProductName         string `json:"product_name"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions"`
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTicket")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req createTicketRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	items := make([]TicketItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = TicketItem{
			ProductID:           it.ProductID,
			ProductName:         it.ProductName,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		}
	}

	ticket, err := h.service.CreateTicket(ctx, orderID, req.CustomerID, req.CustomerName, items, req.Notes, req.Priority)
	if err != nil {
		log.Errorf("cannot create ticket: %v", err)
		h.respondServiceError(w, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(ticket)
	}
	apt.Respond(w, http.StatusCreated, ticket, nil)
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTickets")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	if orderIDStr := r.URL.Query().Get("order_id"); orderIDStr != "" {
		orderID, err := uuid.Parse(orderIDStr)
		if err != nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid order ID")
			return
		}
		ticket, err := h.service.GetTicketByOrderID(ctx, orderID)
		if err != nil {
			log.Errorf("cannot find ticket by order: %v", err)
			apt.RespondError(w, http.StatusInternalServerError, "Could not find ticket")
			return
		}
		if ticket == nil {
			apt.RespondError(w, http.StatusNotFound, "Ticket not found")
			return
		}
		apt.Respond(w, http.StatusOK, ticket, nil)
		return
	}

	var (
		tickets []Ticket
		err     error
	)

	switch {
	case r.URL.Query().Get("status") != "":
		status := r.URL.Query().Get("status")
		if prepstatus.ByName(status) == nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		tickets, err = h.service.GetTicketsByStatus(ctx, status)
	case r.URL.Query().Get("chef") != "":
		tickets, err = h.service.GetTicketsByChef(ctx, r.URL.Query().Get("chef"))
	default:
		tickets, err = h.service.GetAllTickets(ctx)
	}

	if err != nil {
		log.Errorf("cannot list tickets: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list tickets")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"tickets": tickets,
	}, nil)
}

func (h *Handler) GetTicket(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTicket")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}

	ticket, err := h.service.GetTicketByID(ctx, id)
	if err != nil {
		log.Errorf("cannot find ticket: %v", err)
		h.respondServiceError(w, err)
		return
	}

	apt.Respond(w, http.StatusOK, ticket, nil)
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSummary")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	if h.cache != nil && h.cache.Count() > 0 {
		summary := h.cache.Summary()
		apt.Respond(w, http.StatusOK, summary, nil)
		return
	}

	summary, err := h.service.GetStatusSummary(ctx)
	if err != nil {
		log.Errorf("cannot build status summary: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not build summary")
		return
	}

	apt.Respond(w, http.StatusOK, summary, nil)
}

func (h *Handler) StartPreparation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StartPreparation")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}

	var payload struct {
		ChefID string `json:"chef_id"`
	}
	if !h.decodeBody(w, r, &payload) {
		return
	}
	if payload.ChefID == "" {
		apt.RespondError(w, http.StatusBadRequest, "Chef ID is required")
		return
	}

	ticket, err := h.service.StartPreparation(ctx, id, payload.ChefID)
	if err != nil {
		log.Errorf("cannot start preparation: %v", err)
		h.respondServiceError(w, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(ticket)
	}
	apt.Respond(w, http.StatusOK, ticket, nil)
}

func (h *Handler) MarkItemPrepared(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.MarkItemPrepared")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")

	ticket, err := h.service.MarkItemPrepared(ctx, id, productID)
	if err != nil {
		log.Errorf("cannot mark item prepared: %v", err)
		h.respondServiceError(w, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(ticket)
	}
	apt.Respond(w, http.StatusOK, ticket, nil)
}

func (h *Handler) CompletePreparation(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompletePreparation")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}

	ticket, err := h.service.CompletePreparation(ctx, id)
	if err != nil {
		log.Errorf("cannot complete preparation: %v", err)
		h.respondServiceError(w, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(ticket)
	}
	apt.Respond(w, http.StatusOK, ticket, nil)
}

func (h *Handler) CancelTicket(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelTicket")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}

	ticket, err := h.service.CancelTicket(ctx, id)
	if err != nil {
		log.Errorf("cannot cancel ticket: %v", err)
		h.respondServiceError(w, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(ticket)
	}
	apt.Respond(w, http.StatusOK, ticket, nil)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateStatus")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.ticketID(w, r)
	if !ok {
		return
	}

	var payload struct {
		Status string `json:"status"`
		ChefID string `json:"chef_id"`
	}
	if !h.decodeBody(w, r, &payload) {
		return
	}
	if payload.Status == "" {
		apt.RespondError(w, http.StatusBadRequest, "Status is required")
		return
	}

	ticket, err := h.service.UpdateTicketStatus(ctx, id, payload.Status, payload.ChefID)
	if err != nil {
		log.Errorf("cannot update ticket status: %v", err)
		h.respondServiceError(w, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(ticket)
	}
	apt.Respond(w, http.StatusOK, ticket, nil)
}

func (h *Handler) ticketID(w http.ResponseWriter, r *http.Request) (TicketID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid ticket ID")
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

// respondServiceError maps domain errors to HTTP status codes.
func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	var transitionErr *prepstatus.TransitionError
	switch {
	case errors.Is(err, ErrTicketNotFound):
		apt.RespondError(w, http.StatusNotFound, "Ticket not found")
	case errors.Is(err, ErrDuplicateOrder):
		apt.RespondError(w, http.StatusConflict, "Ticket already exists for order")
	case errors.Is(err, ErrTicketDelivered):
		apt.RespondError(w, http.StatusConflict, "Cannot cancel a delivered ticket")
	case errors.Is(err, ErrChefNotAssigned):
		apt.RespondError(w, http.StatusConflict, "Chef must be assigned before starting preparation")
	case errors.Is(err, ErrNotInProgress):
		apt.RespondError(w, http.StatusConflict, "Ticket is not in progress")
	case errors.As(err, &transitionErr):
		apt.RespondError(w, http.StatusConflict, transitionErr.Error())
	case errors.Is(err, ErrItemNotPreparable):
		apt.RespondError(w, http.StatusNotFound, "Item not found on ticket")
	case errors.Is(err, ErrUnknownStatus), errors.Is(err, ErrBlankProductID), errors.Is(err, ErrInvalidTicketData):
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		apt.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
