package syncer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"doucetentation/internal/gloria"
	"doucetentation/internal/models"
	"doucetentation/internal/store"
)

type fakePoller struct {
	orders []gloria.RawOrder
	calls  int
}

func (p *fakePoller) Poll(ctx context.Context) []gloria.RawOrder {
	p.calls++
	return p.orders
}

type fakeStore struct {
	orders  map[string]models.Order
	listErr error
	failIDs map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[string]models.Order)}
}

func (s *fakeStore) GetAll() ([]models.Order, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, o)
	}
	return out, nil
}

func (s *fakeStore) Get(id string) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (s *fakeStore) Create(order models.Order) (*models.Order, error) {
	if s.failIDs[order.ID] {
		return nil, errors.New("disk full")
	}
	s.orders[order.ID] = order
	return &order, nil
}

func (s *fakeStore) Update(id string, order models.Order) (*models.Order, error) {
	if _, ok := s.orders[id]; !ok {
		return nil, store.ErrNotFound
	}
	order.ID = id
	s.orders[id] = order
	return &order, nil
}

func (s *fakeStore) Delete(id string) (bool, error) {
	if _, ok := s.orders[id]; !ok {
		return false, nil
	}
	delete(s.orders, id)
	return true, nil
}

func newTestEngine(p Poller, s store.OrderStore) *Engine {
	return New(Options{Poller: p, Store: s, Source: models.SourceGloriaCake})
}

func TestAdmitNew(t *testing.T) {
	existing := map[string]struct{}{"1": {}}
	candidates := []gloria.RawOrder{
		{ID: "1"},
		{ID: "2"},
		{ID: " 2 "}, // batch duplicate after trimming
		{ID: "3"},
		{ID: ""}, // empty ids are always admitted
		{ID: ""},
	}

	admitted := AdmitNew(existing, candidates)

	ids := make([]string, len(admitted))
	for i, a := range admitted {
		ids[i] = string(a.ID)
	}
	assert.Equal(t, []string{"2", "3", "", ""}, ids)
}

func TestSyncNowImportsNewOrders(t *testing.T) {
	poller := &fakePoller{orders: []gloria.RawOrder{
		{ID: "555", ClientFirstName: "Marie", FulfillAt: "2024-05-10T14:30:00Z",
			Items: []gloria.RawItem{{Name: "Tarte", Quantity: 1}}},
		{ID: "556", ClientFirstName: "Paulo"},
	}}
	st := newFakeStore()
	engine := newTestEngine(poller, st)

	count, err := engine.SyncNow(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	imported, err := st.Get("555")
	assert.NoError(t, err)
	assert.Equal(t, "Marie", imported.Client)
	assert.Equal(t, models.SourceGloriaCake, imported.Source)
	assert.Equal(t, "2024-05-10", imported.Date)
}

func TestSyncNowIsIdempotent(t *testing.T) {
	poller := &fakePoller{orders: []gloria.RawOrder{{ID: "555", ClientFirstName: "Marie"}}}
	st := newFakeStore()
	engine := newTestEngine(poller, st)

	count, err := engine.SyncNow(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	// The same upstream order is returned again on the next poll.
	count, err = engine.SyncNow(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Len(t, st.orders, 1)
}

func TestSyncNowPreservesStaffEdits(t *testing.T) {
	poller := &fakePoller{orders: []gloria.RawOrder{{ID: "555", ClientFirstName: "Marie"}}}
	st := newFakeStore()
	engine := newTestEngine(poller, st)

	_, err := engine.SyncNow(context.Background())
	assert.NoError(t, err)

	// Staff renames the client before the next poll.
	edited := st.orders["555"]
	edited.Client = "Marie D. (acompte versé)"
	st.orders["555"] = edited

	_, err = engine.SyncNow(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Marie D. (acompte versé)", st.orders["555"].Client)
}

func TestSyncNowEmptyPoll(t *testing.T) {
	poller := &fakePoller{}
	st := newFakeStore()
	engine := newTestEngine(poller, st)

	count, err := engine.SyncNow(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestSyncNowStoreReadFailure(t *testing.T) {
	poller := &fakePoller{orders: []gloria.RawOrder{{ID: "555"}}}
	st := newFakeStore()
	st.listErr = errors.New("database locked")
	engine := newTestEngine(poller, st)

	count, err := engine.SyncNow(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, count)
}

func TestSyncNowContinuesPastWriteFailure(t *testing.T) {
	poller := &fakePoller{orders: []gloria.RawOrder{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	st := newFakeStore()
	st.failIDs = map[string]bool{"2": true}
	engine := newTestEngine(poller, st)

	count, err := engine.SyncNow(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, st.orders, 2)
}

func TestSyncNowTagsConfiguredSource(t *testing.T) {
	poller := &fakePoller{orders: []gloria.RawOrder{{ID: "9"}}}
	st := newFakeStore()
	engine := New(Options{Poller: poller, Store: st, Source: models.SourceGloriaSnack})

	_, err := engine.SyncNow(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, models.SourceGloriaSnack, st.orders["9"].Source)
}
