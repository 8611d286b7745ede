package order

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmndev/restaurant/pkg/enums/orderstatus"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	service *Service
	logger  apt.Logger
	config  *apt.Config
	tlm     *telemetry.HTTP
}

func NewHandler(service *Service, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		service: service,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Patch("/{id}/status", h.UpdateStatus)
		r.Patch("/{id}/cancel", h.CancelOrder)
	})
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

type createOrderRequest struct {
	CustomerID   string        `json:"customer_id"`
	CustomerName string        `json:"customer_name"`
	Items        []ItemRequest `json:"items"`
	Notes        string        `json:"notes"`
	Priority     int           `json:"priority"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var req createOrderRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	if req.CustomerID == "" {
		apt.RespondError(w, http.StatusBadRequest, "Customer ID is required")
		return
	}

	o, err := h.service.CreateOrder(ctx, req.CustomerID, req.CustomerName, req.Items, req.Notes, req.Priority)
	if err != nil {
		log.Errorf("cannot create order: %v", err)
		h.respondServiceError(w, err)
		return
	}

	apt.Respond(w, http.StatusCreated, o, nil)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	var (
		orders []Order
		err    error
	)

	switch {
	case r.URL.Query().Get("customer_id") != "":
		orders, err = h.service.GetOrdersByCustomer(ctx, r.URL.Query().Get("customer_id"))
	case r.URL.Query().Get("status") != "":
		status := r.URL.Query().Get("status")
		if orderstatus.ByName(status) == nil {
			apt.RespondError(w, http.StatusBadRequest, "Invalid status")
			return
		}
		orders, err = h.service.GetOrdersByStatus(ctx, status)
	default:
		orders, err = h.service.GetAllOrders(ctx)
	}

	if err != nil {
		log.Errorf("cannot list orders: %v", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not list orders")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"orders": orders,
	}, nil)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	o, err := h.service.GetOrderByID(ctx, id)
	if err != nil {
		log.Errorf("cannot find order: %v", err)
		h.respondServiceError(w, err)
		return
	}

	apt.Respond(w, http.StatusOK, o, nil)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateStatus")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var payload struct {
		Status string `json:"status"`
	}
	if !h.decodeBody(w, r, &payload) {
		return
	}
	if payload.Status == "" {
		apt.RespondError(w, http.StatusBadRequest, "Status is required")
		return
	}

	o, err := h.service.UpdateOrderStatus(ctx, id, payload.Status)
	if err != nil {
		log.Errorf("cannot update order status: %v", err)
		h.respondServiceError(w, err)
		return
	}

	apt.Respond(w, http.StatusOK, o, nil)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CancelOrder")
	defer finish()
	log := h.log(r)
	ctx := r.Context()

	id, ok := h.orderID(w, r)
	if !ok {
		return
	}

	o, err := h.service.CancelOrder(ctx, id)
	if err != nil {
		log.Errorf("cannot cancel order: %v", err)
		h.respondServiceError(w, err)
		return
	}

	apt.Respond(w, http.StatusOK, o, nil)
}

func (h *Handler) orderID(w http.ResponseWriter, r *http.Request) (OrderID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apt.RespondError(w, http.StatusBadRequest, "Invalid order ID")
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
	var transitionErr *orderstatus.TransitionError
	switch {
	case errors.Is(err, ErrOrderNotFound):
		apt.RespondError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrProductNotFound):
		apt.RespondError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, ErrProductUnavailable):
		apt.RespondError(w, http.StatusConflict, "Product is not available")
	case errors.As(err, &transitionErr):
		apt.RespondError(w, http.StatusConflict, transitionErr.Error())
	case errors.Is(err, ErrEmptyOrder), errors.Is(err, ErrInvalidOrderData), errors.Is(err, ErrUnknownStatus):
		apt.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		apt.RespondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
