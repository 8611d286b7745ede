package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dmndev/restaurant/pkg/enums/orderstatus"
	"github.com/dmndev/restaurant/pkg/event"
)

func newTestService() (*Service, *MockOrderRepository, *MockMenuClient, *MockPublisher) {
	repo := NewMockOrderRepository()
	menu := NewMockMenuClient()
	menu.AddProduct("prod-1", "Burger", 10.00, true)
	menu.AddProduct("prod-2", "Fries", 12.00, true)
	publisher := NewMockPublisher()
	service := NewService(repo, menu, publisher, nil)
	return service, repo, menu, publisher
}

func eventTypes(t *testing.T, publisher *MockPublisher) []string {
	t.Helper()
	types := make([]string, 0, len(publisher.PublishedEvents))
	for _, pe := range publisher.PublishedEvents {
		var envelope struct {
			EventType string `json:"event_type"`
		}
		if err := json.Unmarshal(pe.Data, &envelope); err != nil {
			t.Fatalf("cannot decode published event: %v", err)
		}
		types = append(types, envelope.EventType)
	}
	return types
}

func TestCreateOrder(t *testing.T) {
	service, repo, _, publisher := newTestService()
	ctx := context.Background()

	items := []ItemRequest{
		{ProductID: "prod-1", Quantity: 2},
		{ProductID: "prod-2", Quantity: 1, SpecialInstructions: "extra salt"},
	}

	o, err := service.CreateOrder(ctx, "cust-1", "Alice Smith", items, "no onions", 0)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if o.Status != orderstatus.Statuses.Created.Code() {
		t.Errorf("status = %q, want created", o.Status)
	}
	if !o.Subtotal.Equal(decimal.NewFromFloat(32.00)) {
		t.Errorf("Subtotal = %s, want 32.00", o.Subtotal)
	}
	if !o.Total.Equal(decimal.NewFromFloat(35.20)) {
		t.Errorf("Total = %s, want 35.20", o.Total)
	}
	if o.Items[0].ProductName != "Burger" {
		t.Errorf("product name snapshot = %q, want Burger", o.Items[0].ProductName)
	}
	if o.Items[1].SpecialInstructions != "extra salt" {
		t.Errorf("special instructions = %q", o.Items[1].SpecialInstructions)
	}

	stored, err := repo.FindByID(ctx, o.ID)
	if err != nil || stored == nil {
		t.Fatalf("order was not persisted: %v", err)
	}

	if len(publisher.PublishedEvents) != 1 {
		t.Fatalf("published %d events, want 1", len(publisher.PublishedEvents))
	}
	wantSubject := event.Subject(event.OrderEventsTopic, o.ID.String())
	if publisher.PublishedEvents[0].Topic != wantSubject {
		t.Errorf("subject = %q, want %q", publisher.PublishedEvents[0].Topic, wantSubject)
	}
	if got := eventTypes(t, publisher); got[0] != event.EventOrderCreated {
		t.Errorf("event type = %q, want order.created", got[0])
	}
}

func TestCreateOrderEmptyItems(t *testing.T) {
	service, _, _, publisher := newTestService()

	_, err := service.CreateOrder(context.Background(), "cust-1", "Alice Smith", nil, "", 0)
	if !errors.Is(err, ErrEmptyOrder) {
		t.Errorf("CreateOrder() error = %v, want ErrEmptyOrder", err)
	}
	if len(publisher.PublishedEvents) != 0 {
		t.Errorf("published %d events, want 0", len(publisher.PublishedEvents))
	}
}

func TestCreateOrderUnknownProduct(t *testing.T) {
	service, repo, _, publisher := newTestService()

	items := []ItemRequest{{ProductID: "prod-missing", Quantity: 1}}
	_, err := service.CreateOrder(context.Background(), "cust-1", "Alice Smith", items, "", 0)
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("CreateOrder() error = %v, want ErrProductNotFound", err)
	}
	if len(repo.orders) != 0 {
		t.Error("order was persisted despite missing product")
	}
	if len(publisher.PublishedEvents) != 0 {
		t.Errorf("published %d events, want 0", len(publisher.PublishedEvents))
	}
}

func TestCreateOrderUnavailableProduct(t *testing.T) {
	service, repo, menu, _ := newTestService()
	menu.AddProduct("prod-3", "Seasonal Special", 20.00, false)

	items := []ItemRequest{
		{ProductID: "prod-1", Quantity: 1},
		{ProductID: "prod-3", Quantity: 1},
	}
	_, err := service.CreateOrder(context.Background(), "cust-1", "Alice Smith", items, "", 0)
	if !errors.Is(err, ErrProductUnavailable) {
		t.Errorf("CreateOrder() error = %v, want ErrProductUnavailable", err)
	}
	if len(repo.orders) != 0 {
		t.Error("order was persisted despite unavailable product")
	}
}

func TestCreateOrderCatalogFailureAborts(t *testing.T) {
	service, repo, menu, _ := newTestService()
	menu.GetProductFunc = func(ctx context.Context, productID string) (*ProductInfo, error) {
		return nil, fmt.Errorf("menu service returned status 503")
	}

	items := []ItemRequest{{ProductID: "prod-1", Quantity: 1}}
	_, err := service.CreateOrder(context.Background(), "cust-1", "Alice Smith", items, "", 0)
	if err == nil {
		t.Fatal("CreateOrder() did not fail on catalog error")
	}
	if len(repo.orders) != 0 {
		t.Error("order was persisted despite catalog failure")
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	service, repo, _, publisher := newTestService()
	ctx := context.Background()

	o := newTestOrder()
	repo.AddOrder(o)

	updated, err := service.UpdateOrderStatus(ctx, o.ID, "paid")
	if err != nil {
		t.Fatalf("UpdateOrderStatus() error = %v", err)
	}
	if updated.Status != orderstatus.Statuses.Paid.Code() {
		t.Errorf("status = %q, want paid", updated.Status)
	}

	// Scenario: paid cannot skip straight to delivered.
	_, err = service.UpdateOrderStatus(ctx, o.ID, "delivered")
	var transitionErr *orderstatus.TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("UpdateOrderStatus() error = %v, want *TransitionError", err)
	}

	if got := eventTypes(t, publisher); len(got) != 1 || got[0] != event.EventOrderUpdated {
		t.Errorf("events = %v, want [order.updated]", got)
	}
}

func TestUpdateOrderStatusUnknownStatus(t *testing.T) {
	service, repo, _, _ := newTestService()
	o := newTestOrder()
	repo.AddOrder(o)

	_, err := service.UpdateOrderStatus(context.Background(), o.ID, "bogus")
	if !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("UpdateOrderStatus() error = %v, want ErrUnknownStatus", err)
	}
}

func TestUpdateOrderStatusNotFound(t *testing.T) {
	service, _, _, _ := newTestService()

	_, err := service.UpdateOrderStatus(context.Background(), newTestOrder().ID, "paid")
	if !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("UpdateOrderStatus() error = %v, want ErrOrderNotFound", err)
	}
}

func TestCancelOrder(t *testing.T) {
	service, repo, _, publisher := newTestService()
	ctx := context.Background()

	o := newTestOrder()
	repo.AddOrder(o)

	cancelled, err := service.CancelOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("CancelOrder() error = %v", err)
	}
	if cancelled.Status != orderstatus.Statuses.Cancelled.Code() {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}

	if got := eventTypes(t, publisher); len(got) != 1 || got[0] != event.EventOrderCancelled {
		t.Errorf("events = %v, want [order.cancelled]", got)
	}

	// A second cancel hits the terminal check.
	_, err = service.CancelOrder(ctx, o.ID)
	var transitionErr *orderstatus.TransitionError
	if !errors.As(err, &transitionErr) {
		t.Fatalf("CancelOrder() error = %v, want *TransitionError", err)
	}
	if !transitionErr.Terminal {
		t.Error("TransitionError.Terminal = false, want true")
	}
	if len(publisher.PublishedEvents) != 1 {
		t.Errorf("published %d events after repeated cancel, want 1", len(publisher.PublishedEvents))
	}
}

func TestQueries(t *testing.T) {
	service, repo, _, _ := newTestService()
	ctx := context.Background()

	first := newTestOrder()
	second := NewOrder("cust-2", "Bob Jones", []OrderItem{
		NewOrderItem("prod-2", "Fries", 2, decimal.NewFromFloat(12.00), ""),
	}, "")
	second.Status = orderstatus.Statuses.Paid.Code()
	repo.AddOrder(first)
	repo.AddOrder(second)

	byCustomer, err := service.GetOrdersByCustomer(ctx, "cust-2")
	if err != nil || len(byCustomer) != 1 {
		t.Errorf("GetOrdersByCustomer() = %d orders, err %v; want 1", len(byCustomer), err)
	}

	byStatus, err := service.GetOrdersByStatus(ctx, "paid")
	if err != nil || len(byStatus) != 1 {
		t.Errorf("GetOrdersByStatus() = %d orders, err %v; want 1", len(byStatus), err)
	}

	all, err := service.GetAllOrders(ctx)
	if err != nil || len(all) != 2 {
		t.Errorf("GetAllOrders() = %d orders, err %v; want 2", len(all), err)
	}

	got, err := service.GetOrderByID(ctx, first.ID)
	if err != nil || got.ID != first.ID {
		t.Errorf("GetOrderByID() = %v, err %v", got, err)
	}
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	service, _, _, publisher := newTestService()
	publisher.PublishFunc = func(ctx context.Context, topic string, data []byte) error {
		return fmt.Errorf("nats: connection closed")
	}

	items := []ItemRequest{{ProductID: "prod-1", Quantity: 1}}
	o, err := service.CreateOrder(context.Background(), "cust-1", "Alice Smith", items, "", 0)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v, want nil despite publish failure", err)
	}
	if o == nil {
		t.Fatal("CreateOrder() returned nil order")
	}
}

func TestOrderEventPayload(t *testing.T) {
	service, _, _, publisher := newTestService()

	items := []ItemRequest{{ProductID: "prod-1", Quantity: 2}}
	o, err := service.CreateOrder(context.Background(), "cust-1", "Alice Smith", items, "ring twice", 0)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	var evt event.OrderEvent
	if err := json.Unmarshal(publisher.PublishedEvents[0].Data, &evt); err != nil {
		t.Fatalf("cannot decode event: %v", err)
	}
	if evt.OrderID != o.ID.String() {
		t.Errorf("event order id = %q, want %q", evt.OrderID, o.ID)
	}
	if evt.EventID == "" || evt.OccurredAt.IsZero() {
		t.Error("event metadata incomplete")
	}
	if len(evt.Items) != 1 || evt.Items[0].ProductName != "Burger" {
		t.Errorf("event items = %+v", evt.Items)
	}
	if !evt.Total.Equal(o.Total) {
		t.Errorf("event total = %s, want %s", evt.Total, o.Total)
	}
	if !strings.HasPrefix(publisher.PublishedEvents[0].Topic, event.OrderEventsTopic+".") {
		t.Errorf("subject %q not under order-events", publisher.PublishedEvents[0].Topic)
	}
}

func TestCreateOrderPriority(t *testing.T) {
	tests := []struct {
		name     string
		priority int
		want     int
	}{
		{name: "requestedPriorityOnEvent", priority: 3, want: 3},
		{name: "zeroMeansUnset", priority: 0, want: 0},
		{name: "negativeTreatedAsUnset", priority: -1, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			service, _, _, publisher := newTestService()

			items := []ItemRequest{{ProductID: "prod-1", Quantity: 1}}
			o, err := service.CreateOrder(context.Background(), "cust-1", "Alice Smith", items, "", tc.priority)
			if err != nil {
				t.Fatalf("CreateOrder() error = %v", err)
			}
			if o.Priority != tc.want {
				t.Errorf("order priority = %d, want %d", o.Priority, tc.want)
			}

			var evt event.OrderEvent
			if err := json.Unmarshal(publisher.PublishedEvents[0].Data, &evt); err != nil {
				t.Fatalf("cannot decode event: %v", err)
			}
			if evt.Priority != tc.want {
				t.Errorf("event priority = %d, want %d", evt.Priority, tc.want)
			}
		})
	}
}
