package menu

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newTestHandler(repo *MockMenuItemRepo) *Handler {
	return NewHandler(repo, apt.NewConfig(), apt.NewNoopLogger())
}

func newTestRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func seededRepo() *MockMenuItemRepo {
	repo := NewMockMenuItemRepo()
	burger := NewMenuItem("Burger", "Beef patty", decimal.NewFromFloat(10.00), "mains")
	fries := NewMenuItem("Fries", "", decimal.NewFromFloat(4.50), "sides")
	special := NewMenuItem("Seasonal Special", "", decimal.NewFromFloat(20.00), "mains")
	special.Available = false
	repo.AddItem(burger)
	repo.AddItem(fries)
	repo.AddItem(special)
	return repo
}

func TestHandlerCreateItem(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "success", body: `{"name":"Shake","price":"5.50","category":"drinks"}`, expectedStatus: http.StatusCreated},
		{name: "invalidJSON", body: `{broken`, expectedStatus: http.StatusBadRequest},
		{name: "missingName", body: `{"price":"5.50"}`, expectedStatus: http.StatusBadRequest},
		{name: "zeroPrice", body: `{"name":"Water","price":"0"}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(NewMockMenuItemRepo())
			router := newTestRouter(h)

			req := httptest.NewRequest(http.MethodPost, "/menu/items", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d; body %s", w.Code, tt.expectedStatus, w.Body)
			}
		})
	}
}

func TestHandlerListItems(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		expectedCount int
	}{
		{name: "listAll", url: "/menu/items", expectedCount: 3},
		{name: "filterByCategory", url: "/menu/items?category=mains", expectedCount: 2},
		{name: "filterAvailable", url: "/menu/items?available=true", expectedCount: 2},
		{name: "filterUnavailable", url: "/menu/items?available=false", expectedCount: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(seededRepo())
			router := newTestRouter(h)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			var resp map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("cannot decode response: %v", err)
			}
			data := resp["data"].(map[string]interface{})
			items := data["items"].([]interface{})
			if len(items) != tt.expectedCount {
				t.Errorf("got %d items, want %d", len(items), tt.expectedCount)
			}
		})
	}
}

func TestHandlerGetItem(t *testing.T) {
	repo := seededRepo()
	var known *MenuItem
	for _, item := range repo.items {
		known = item
		break
	}

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{name: "success", id: known.ID.String(), expectedStatus: http.StatusOK},
		{name: "invalidID", id: "not-a-uuid", expectedStatus: http.StatusBadRequest},
		{name: "notFound", id: uuid.New().String(), expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(repo)
			router := newTestRouter(h)

			req := httptest.NewRequest(http.MethodGet, "/menu/items/"+tt.id, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandlerGetItemResponseShape(t *testing.T) {
	repo := NewMockMenuItemRepo()
	item := NewMenuItem("Burger", "Beef patty", decimal.NewFromFloat(10.00), "mains")
	repo.AddItem(item)

	h := newTestHandler(repo)
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/menu/items/"+item.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// The order service reads id, name, price and available from this shape.
	var resp struct {
		Data struct {
			ID        string          `json:"id"`
			Name      string          `json:"name"`
			Price     decimal.Decimal `json:"price"`
			Available bool            `json:"available"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	if resp.Data.ID != item.ID.String() || resp.Data.Name != "Burger" || !resp.Data.Available {
		t.Errorf("response data = %+v", resp.Data)
	}
	if !resp.Data.Price.Equal(decimal.NewFromFloat(10.00)) {
		t.Errorf("price = %s, want 10.00", resp.Data.Price)
	}
}

func TestHandlerUpdateItem(t *testing.T) {
	repo := NewMockMenuItemRepo()
	item := NewMenuItem("Burger", "Beef patty", decimal.NewFromFloat(10.00), "mains")
	repo.AddItem(item)

	h := newTestHandler(repo)
	router := newTestRouter(h)

	body := `{"name":"Double Burger","price":"13.00","category":"mains"}`
	req := httptest.NewRequest(http.MethodPut, "/menu/items/"+item.ID.String(), bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body)
	}
	if item.Name != "Double Burger" {
		t.Errorf("name = %q, want Double Burger", item.Name)
	}
	if !item.Price.Equal(decimal.NewFromFloat(13.00)) {
		t.Errorf("price = %s, want 13.00", item.Price)
	}
}

func TestHandlerSetAvailability(t *testing.T) {
	repo := NewMockMenuItemRepo()
	item := NewMenuItem("Burger", "", decimal.NewFromFloat(10.00), "mains")
	repo.AddItem(item)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "disable", body: `{"available":false}`, expectedStatus: http.StatusOK},
		{name: "missingFlag", body: `{}`, expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(repo)
			router := newTestRouter(h)

			req := httptest.NewRequest(http.MethodPatch, "/menu/items/"+item.ID.String()+"/availability", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d; body %s", w.Code, tt.expectedStatus, w.Body)
			}
		})
	}

	if item.Available {
		t.Error("item still available after disable")
	}
}

func TestHandlerDeleteItem(t *testing.T) {
	repo := NewMockMenuItemRepo()
	item := NewMenuItem("Burger", "", decimal.NewFromFloat(10.00), "mains")
	repo.AddItem(item)

	h := newTestHandler(repo)
	router := newTestRouter(h)

	req := httptest.NewRequest(http.MethodDelete, "/menu/items/"+item.ID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/menu/items/"+item.ID.String(), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
