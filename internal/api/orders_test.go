package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"doucetentation/internal/gloria"
	"doucetentation/internal/models"
	"doucetentation/internal/store"
	"doucetentation/internal/syncer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memStore struct {
	orders map[string]models.Order
}

func newMemStore() *memStore {
	return &memStore{orders: make(map[string]models.Order)}
}

func (s *memStore) GetAll() ([]models.Order, error) {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *memStore) Get(id string) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (s *memStore) Create(order models.Order) (*models.Order, error) {
	s.orders[order.ID] = order
	return &order, nil
}

func (s *memStore) Update(id string, order models.Order) (*models.Order, error) {
	if _, ok := s.orders[id]; !ok {
		return nil, store.ErrNotFound
	}
	order.ID = id
	s.orders[id] = order
	return &order, nil
}

func (s *memStore) Delete(id string) (bool, error) {
	if _, ok := s.orders[id]; !ok {
		return false, nil
	}
	delete(s.orders, id)
	return true, nil
}

type stubPoller struct {
	orders []gloria.RawOrder
}

func (p *stubPoller) Poll(ctx context.Context) []gloria.RawOrder {
	return p.orders
}

func newTestAPI(st store.OrderStore, poller syncer.Poller) *OrdersAPI {
	if poller == nil {
		poller = &stubPoller{}
	}
	engine := syncer.New(syncer.Options{Poller: poller, Store: st})
	return NewOrdersAPI(st, engine, nil, nil, nil)
}

func doRequest(a *OrdersAPI, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	a := newTestAPI(newMemStore(), nil)
	w := doRequest(a, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateAndGetOrder(t *testing.T) {
	a := newTestAPI(newMemStore(), nil)

	w := doRequest(a, http.MethodPost, "/api/orders", models.Order{
		Type:   "Gâteau Chocolat",
		Client: "Marie",
		Date:   "2024-05-10",
		Items:  []models.OrderItem{{Name: "Gâteau Chocolat", Quantity: 0}},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created models.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.SourceManual, created.Source)
	assert.Equal(t, models.StatusAccepted, created.Status)
	assert.Equal(t, 1, created.Items[0].Quantity)

	w = doRequest(a, http.MethodGet, "/api/orders/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var fetched models.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "Marie", fetched.Client)
}

func TestGetOrderNotFound(t *testing.T) {
	a := newTestAPI(newMemStore(), nil)
	w := doRequest(a, http.MethodGet, "/api/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderRejectsBadJSON(t *testing.T) {
	a := newTestAPI(newMemStore(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewReader([]byte("{broken")))
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateOrder(t *testing.T) {
	st := newMemStore()
	st.orders["o1"] = models.Order{ID: "o1", Client: "Marie", Status: models.StatusPending}
	a := newTestAPI(st, nil)

	w := doRequest(a, http.MethodPut, "/api/orders/o1", models.Order{
		Client: "Marie",
		Status: models.StatusReady,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.StatusReady, st.orders["o1"].Status)

	w = doRequest(a, http.MethodPut, "/api/orders/missing", models.Order{Client: "X"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteOrder(t *testing.T) {
	st := newMemStore()
	st.orders["o1"] = models.Order{ID: "o1"}
	a := newTestAPI(st, nil)

	w := doRequest(a, http.MethodDelete, "/api/orders/o1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, st.orders)

	w = doRequest(a, http.MethodDelete, "/api/orders/o1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSyncEndpoint(t *testing.T) {
	st := newMemStore()
	poller := &stubPoller{orders: []gloria.RawOrder{{ID: "555", ClientFirstName: "Ana"}}}
	a := newTestAPI(st, poller)

	w := doRequest(a, http.MethodPost, "/api/orders/sync", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var result struct {
		Success        bool `json:"success"`
		NewOrdersCount int  `json:"newOrdersCount"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.NewOrdersCount)
	assert.Len(t, st.orders, 1)

	// A repeated trigger finds nothing new.
	w = doRequest(a, http.MethodGet, "/api/orders/sync", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 0, result.NewOrdersCount)
}

func TestBackupDownload(t *testing.T) {
	st := newMemStore()
	st.orders["o1"] = models.Order{ID: "o1", Client: "Marie"}
	a := newTestAPI(st, nil)

	w := doRequest(a, http.MethodGet, "/api/orders/backup/download", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "douce_tentation_backup_")

	var orders []models.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}

func TestOrderPriceEndpoint(t *testing.T) {
	st := newMemStore()
	st.orders["o1"] = models.Order{
		ID:   "o1",
		Size: "10 pers",
		Items: []models.OrderItem{
			{Name: "Gâteau", Quantity: 1, Instructions: "Catégorie: Gâteaux | Finition: Chantilly"},
		},
	}
	a := newTestAPI(st, nil)

	w := doRequest(a, http.MethodGet, "/api/orders/o1/price", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var result struct {
		OrderID string `json:"order_id"`
		Total   string `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "o1", result.OrderID)
	assert.Equal(t, "50", result.Total)
}

type failingStore struct{ memStore }

func (s *failingStore) GetAll() ([]models.Order, error) {
	return nil, errors.New("database locked")
}

func TestListOrdersStoreError(t *testing.T) {
	st := &failingStore{memStore: *newMemStore()}
	a := newTestAPI(st, nil)

	w := doRequest(a, http.MethodGet, "/api/orders", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
