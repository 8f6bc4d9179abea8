package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"contacts-service/internal/domain"

	"github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

type restServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	list     string
}

func newRESTServer(t *testing.T) (*restServer, *httptest.Server) {
	t.Helper()
	rs := &restServer{status: http.StatusOK, list: `[{"id":"1","email":"a@b.com","name":"Ann","phone":"123456"},{"id":2,"email":"bob@example.com","name":"Bob","phone":"5550001"}]`}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rs.mu.Lock()
		rs.requests = append(rs.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.EscapedPath(),
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
		})
		status, list := rs.status, rs.list
		rs.mu.Unlock()

		w.WriteHeader(status)
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, list)
		}
	}))
	t.Cleanup(srv.Close)
	return rs, srv
}

func (rs *restServer) setStatus(status int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.status = status
}

func (rs *restServer) setList(list string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.list = list
}

func (rs *restServer) last() recordedRequest {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.requests[len(rs.requests)-1]
}

func TestContactsClientList(t *testing.T) {
	_, srv := newRESTServer(t)
	set := metrics.NewSet()
	client := NewContactsClient(srv.URL+"/contacts/", time.Second, set)

	contacts, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, domain.ContactID("1"), contacts[0].ID)
	assert.Equal(t, domain.ContactID("2"), contacts[1].ID, "numeric ids are accepted")
	assert.Equal(t, "Bob", contacts[1].Name)

	var sb strings.Builder
	set.WritePrometheus(&sb)
	assert.Contains(t, sb.String(), `contacts_api_requests_total{op="list",result="ok"} 1`)
}

func TestContactsClientListFailures(t *testing.T) {
	rs, srv := newRESTServer(t)
	client := NewContactsClient(srv.URL, time.Second, nil)

	rs.setStatus(http.StatusInternalServerError)
	_, err := client.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetchContacts)

	rs.setStatus(http.StatusOK)
	rs.setList(`{"not":"an array"}`)
	_, err = client.List(context.Background())
	assert.Error(t, err)
}

func TestContactsClientCreate(t *testing.T) {
	rs, srv := newRESTServer(t)
	client := NewContactsClient(srv.URL+"/contacts", time.Second, nil)

	rs.setStatus(http.StatusCreated)
	err := client.Create(context.Background(), domain.Contact{ID: "ignored", Email: "a@b.com", Name: "Ann", Phone: "123456"})
	require.NoError(t, err)

	req := rs.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/contacts", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.JSONEq(t, `{"email":"a@b.com","name":"Ann","phone":"123456"}`, req.Body)
}

func TestContactsClientUpdate(t *testing.T) {
	rs, srv := newRESTServer(t)
	client := NewContactsClient(srv.URL+"/contacts", time.Second, nil)

	err := client.Update(context.Background(), domain.Contact{ID: "7", Email: "a@b.com", Name: "Ann", Phone: "123456"})
	require.NoError(t, err)

	req := rs.last()
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/contacts/7", req.Path)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(req.Body), &body))
	assert.Equal(t, map[string]string{"id": "7", "email": "a@b.com", "name": "Ann", "phone": "123456"}, body)

	assert.ErrorIs(t, client.Update(context.Background(), domain.Contact{Email: "a@b.com"}), domain.ErrContactIDRequired)

	rs.setStatus(http.StatusBadRequest)
	err = client.Update(context.Background(), domain.Contact{ID: "7"})
	assert.ErrorIs(t, err, domain.ErrSaveContact)
	assert.Contains(t, err.Error(), "400")
}

func TestContactsClientDelete(t *testing.T) {
	rs, srv := newRESTServer(t)
	client := NewContactsClient(srv.URL+"/contacts", time.Second, nil)

	require.NoError(t, client.Delete(context.Background(), "a b"))
	req := rs.last()
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/contacts/a%20b", req.Path)

	rs.setStatus(http.StatusNotFound)
	assert.ErrorIs(t, client.Delete(context.Background(), "9"), domain.ErrDeleteContact)
	assert.ErrorIs(t, client.Delete(context.Background(), ""), domain.ErrContactIDRequired)
}

func TestContactsClientNetworkError(t *testing.T) {
	_, srv := newRESTServer(t)
	url := srv.URL
	srv.Close()

	client := NewContactsClient(url, time.Second, nil)
	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrFetchContacts)
}

func TestContactManagerOverHTTP(t *testing.T) {
	rs, srv := newRESTServer(t)
	m := newTestManager(t, NewContactsClient(srv.URL, time.Second, nil))
	ctx := context.Background()

	require.NoError(t, m.Load(ctx))
	assert.Equal(t, []domain.ContactID{"2", "1"}, ids(m.Visible()))

	rs.setStatus(http.StatusInternalServerError)
	require.NoError(t, m.OpenEdit("1"))
	require.Error(t, m.Submit(ctx))

	view := m.Snapshot()
	assert.True(t, view.ModalOpen)
	require.NotNil(t, view.Notice)
	assert.Equal(t, "failed to add/edit contact: status 500", view.Notice.Message)
}
