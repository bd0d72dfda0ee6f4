package galaroutes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	galacli "github.com/gala-events/gala-api/gala-cli"
	"github.com/gala-events/gala-api/authdao"
	"github.com/gala-events/gala-api/eventdao"
	"github.com/gala-events/gala-api/requestdao"
	"github.com/go-chi/chi/v5"
	"github.com/tj/assert"
)

type ensurerFunc func(ctx context.Context) error

func (fn ensurerFunc) Ensure(ctx context.Context) error { return fn(ctx) }

var connected = ensurerFunc(func(ctx context.Context) error { return nil })

type fakeAuth struct {
	creds   []authdao.Credential
	updated map[string]string
}

func (f *fakeAuth) FindByCredentials(ctx context.Context, username, password string) (*authdao.Credential, error) {
	for _, cred := range f.creds {
		if cred.Username == username && cred.Password == password {
			c := cred
			return &c, nil
		}
	}
	return nil, authdao.ErrNotFound
}

func (f *fakeAuth) UpdateCredential(ctx context.Context, role, username, password string) error {
	for i, cred := range f.creds {
		if cred.Role == role {
			f.creds[i].Username = username
			f.creds[i].Password = password
			if f.updated == nil {
				f.updated = map[string]string{}
			}
			f.updated[role] = username
			return nil
		}
	}
	return authdao.ErrNotFound
}

type fakeEvents struct {
	events map[string]*eventdao.Event
	calls  int
}

func (f *fakeEvents) List(ctx context.Context) ([]eventdao.Event, error) {
	f.calls++
	out := []eventdao.Event{}
	for _, ev := range f.events {
		out = append(out, *ev)
	}
	return out, nil
}

func (f *fakeEvents) Find(ctx context.Context, id string) (*eventdao.Event, error) {
	f.calls++
	if ev, ok := f.events[id]; ok {
		return ev, nil
	}
	return nil, eventdao.ErrNotFound
}

func (f *fakeEvents) Create(ctx context.Context, ev eventdao.Event) (*eventdao.Event, error) {
	f.calls++
	if f.events == nil {
		f.events = map[string]*eventdao.Event{}
	}
	if ev.Transactions == nil {
		ev.Transactions = []eventdao.Transaction{}
	}
	f.events["65f000000000000000000001"] = &ev
	return &ev, nil
}

func (f *fakeEvents) Update(ctx context.Context, id string, ev eventdao.Event) error {
	f.calls++
	existing, ok := f.events[id]
	if !ok {
		return eventdao.ErrNotFound
	}
	existing.Title = ev.Title
	existing.Date = ev.Date
	existing.Budget = ev.Budget
	existing.Archived = ev.Archived
	return nil
}

func (f *fakeEvents) Delete(ctx context.Context, id string) error {
	f.calls++
	if _, ok := f.events[id]; !ok {
		return eventdao.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEvents) AddTransaction(ctx context.Context, id string, tx eventdao.Transaction) error {
	f.calls++
	ev, ok := f.events[id]
	if !ok {
		return eventdao.ErrNotFound
	}
	ev.Transactions = append(ev.Transactions, tx)
	return nil
}

func (f *fakeEvents) UpdateTransaction(ctx context.Context, id, txID string, tx eventdao.Transaction) error {
	f.calls++
	ev, ok := f.events[id]
	if !ok {
		return eventdao.ErrNotFound
	}
	for i, existing := range ev.Transactions {
		if existing.ID == txID {
			tx.ID = txID
			ev.Transactions[i] = tx
			return nil
		}
	}
	return eventdao.ErrNotFound
}

func (f *fakeEvents) DeleteTransaction(ctx context.Context, id, txID string) error {
	f.calls++
	ev, ok := f.events[id]
	if !ok {
		return eventdao.ErrNotFound
	}
	for i, existing := range ev.Transactions {
		if existing.ID == txID {
			ev.Transactions = append(ev.Transactions[:i], ev.Transactions[i+1:]...)
			return nil
		}
	}
	return eventdao.ErrNotFound
}

type fakeRequests struct {
	requests map[string]*requestdao.Request
}

func (f *fakeRequests) List(ctx context.Context) ([]requestdao.Request, error) {
	out := []requestdao.Request{}
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRequests) Create(ctx context.Context, r requestdao.Request) (*requestdao.Request, error) {
	if f.requests == nil {
		f.requests = map[string]*requestdao.Request{}
	}
	f.requests["65f000000000000000000002"] = &r
	return &r, nil
}

func (f *fakeRequests) MarkRead(ctx context.Context, id string) error {
	r, ok := f.requests[id]
	if !ok {
		return requestdao.ErrNotFound
	}
	r.Read = true
	return nil
}

func (f *fakeRequests) Delete(ctx context.Context, id string) error {
	if _, ok := f.requests[id]; !ok {
		return requestdao.ErrNotFound
	}
	delete(f.requests, id)
	return nil
}

func newRouter(db ensurerFunc, h *Handler) chi.Router {
	if h.Auth == nil {
		h.Auth = &fakeAuth{}
	}
	if h.Events == nil {
		h.Events = &fakeEvents{}
	}
	if h.Requests == nil {
		h.Requests = &fakeRequests{}
	}
	return Router(galacli.Service{Name: "gala-api", Version: "test"}, db, nil, h)
}

func do(router chi.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	var body map[string]string
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestHealthBypassesGate(t *testing.T) {
	down := ensurerFunc(func(ctx context.Context) error {
		return errors.New("unable to connect to database: connection refused")
	})
	router := newRouter(down, &Handler{})

	w := do(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestGateBlocksAPIWhenStoreUnreachable(t *testing.T) {
	down := ensurerFunc(func(ctx context.Context) error {
		return errors.New("unable to connect to database: connection refused")
	})
	events := &fakeEvents{}
	router := newRouter(down, &Handler{Events: events})

	w := do(router, http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unable to connect to database: connection refused", errorBody(t, w))

	// the handler never ran
	assert.Equal(t, 0, events.calls)
}

func TestUnmatchedAPIPath(t *testing.T) {
	router := newRouter(connected, &Handler{})

	w := do(router, http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "API Endpoint Not Found", errorBody(t, w))

	w = do(router, http.MethodPatch, "/api/events", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "API Endpoint Not Found", errorBody(t, w))
}

func TestLogin(t *testing.T) {
	auth := &fakeAuth{creds: []authdao.Credential{
		{Role: "admin", Username: "admin", Password: "admin123"},
	}}
	router := newRouter(connected, &Handler{Auth: auth})

	w := do(router, http.MethodPost, "/api/auth/login", loginRequest{Username: "admin", Password: "admin123"})
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "admin", body["role"])

	w = do(router, http.MethodPost, "/api/auth/login", loginRequest{Username: "admin", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", errorBody(t, w))
}

func TestUpdateCredential(t *testing.T) {
	auth := &fakeAuth{creds: []authdao.Credential{
		{Role: "user", Username: "user", Password: "user123"},
	}}
	router := newRouter(connected, &Handler{Auth: auth})

	w := do(router, http.MethodPut, "/api/auth/user", loginRequest{Username: "alice", Password: "hunter2"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", auth.updated["user"])

	w = do(router, http.MethodPut, "/api/auth/nobody", loginRequest{Username: "x", Password: "y"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPut, "/api/auth/user", loginRequest{Username: "", Password: ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventCRUD(t *testing.T) {
	const id = "65f000000000000000000001"
	events := &fakeEvents{}
	router := newRouter(connected, &Handler{Events: events})

	w := do(router, http.MethodPost, "/api/events", eventdao.Event{Title: "Spring Gala", Budget: 5000})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created eventdao.Event
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Spring Gala", created.Title)
	assert.NotNil(t, created.Transactions)

	w = do(router, http.MethodPost, "/api/events", eventdao.Event{Budget: 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/api/events/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodGet, "/api/events/65f0000000000000000000ff", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Event not found", errorBody(t, w))

	w = do(router, http.MethodPut, "/api/events/"+id, eventdao.Event{Title: "Autumn Gala", Budget: 7500})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Autumn Gala", events.events[id].Title)

	w = do(router, http.MethodDelete, "/api/events/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, events.events)
}

func TestEventTransactions(t *testing.T) {
	const id = "65f000000000000000000001"
	events := &fakeEvents{events: map[string]*eventdao.Event{
		id: {Title: "Spring Gala", Transactions: []eventdao.Transaction{}},
	}}
	router := newRouter(connected, &Handler{Events: events})

	w := do(router, http.MethodPost, "/api/events/"+id+"/transactions",
		eventdao.Transaction{ID: "t1", Description: "venue deposit", Amount: 1200})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, events.events[id].Transactions, 1)

	// caller-supplied id is mandatory
	w = do(router, http.MethodPost, "/api/events/"+id+"/transactions",
		eventdao.Transaction{Description: "flowers", Amount: 300})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPut, "/api/events/"+id+"/transactions/t1",
		eventdao.Transaction{Description: "venue deposit", Amount: 1500})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1500), events.events[id].Transactions[0].Amount)
	assert.Equal(t, "t1", events.events[id].Transactions[0].ID)

	w = do(router, http.MethodPut, "/api/events/"+id+"/transactions/t9",
		eventdao.Transaction{Amount: 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Transaction not found", errorBody(t, w))

	w = do(router, http.MethodDelete, "/api/events/"+id+"/transactions/t1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, events.events[id].Transactions)
}

func TestRequests(t *testing.T) {
	const id = "65f000000000000000000002"
	requests := &fakeRequests{}
	router := newRouter(connected, &Handler{Requests: requests})

	w := do(router, http.MethodPost, "/api/requests",
		requestdao.Request{Name: "Bob", Message: "Can we add a plus-one?"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = do(router, http.MethodPost, "/api/requests", requestdao.Request{Name: "Bob"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/requests", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(router, http.MethodPut, "/api/requests/"+id+"/read", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, requests.requests[id].Read)

	w = do(router, http.MethodDelete, "/api/requests/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, requests.requests)

	w = do(router, http.MethodDelete, "/api/requests/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Request not found", errorBody(t, w))
}

func TestInvalidJSONBody(t *testing.T) {
	router := newRouter(connected, &Handler{})

	req := httptest.NewRequest(http.MethodPost, "/api/events", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", errorBody(t, w))
}
