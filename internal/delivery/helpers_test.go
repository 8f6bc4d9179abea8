package delivery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contacts-service/internal/domain"
	"contacts-service/internal/service"
	"contacts-service/internal/store"

	"github.com/VictoriaMetrics/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	testVerifier = service.StaticCredentials{Username: "admin123", Password: "12345"}

	ann = domain.Contact{Email: "a@b.com", Name: "Ann", Phone: "123456"}
	bob = domain.Contact{Email: "bob@example.com", Name: "Bob", Phone: "5550001"}
)

// storeAPI - ContactsAPI поверх хранилища без сети
type storeAPI struct {
	store store.ContactsStore
}

func (a storeAPI) List(ctx context.Context) ([]domain.Contact, error) {
	return a.store.List(ctx)
}

func (a storeAPI) Create(ctx context.Context, c domain.Contact) error {
	_, err := a.store.Create(ctx, c)
	return err
}

func (a storeAPI) Update(ctx context.Context, c domain.Contact) error {
	_, err := a.store.Update(ctx, c)
	return err
}

func (a storeAPI) Delete(ctx context.Context, id domain.ContactID) error {
	return a.store.Delete(ctx, id)
}

type testEnv struct {
	app        *fiber.App
	store      *store.Inmem
	workspaces *service.WorkspaceStore
	metrics    *metrics.Set
}

func newTestEnv(t *testing.T, mutate ...func(*Options)) *testEnv {
	t.Helper()

	logger := zaptest.NewLogger(t)
	contacts := store.NewInmem(ann, bob)

	codec, err := service.NewSessionCodec(service.GenerateKey(32), service.GenerateKey(32), domain.SessionLifetime)
	require.NoError(t, err)

	api := storeAPI{store: contacts}
	workspaces := service.NewWorkspaceStore(func() *service.ContactManager {
		return service.NewContactManager(api, logger)
	}, domain.SessionLifetime, time.Minute)
	t.Cleanup(workspaces.Close)

	opts := Options{
		Logger:     logger,
		Verifier:   testVerifier,
		Sessions:   codec,
		Workspaces: workspaces,
		Metrics:    metrics.NewSet(),
		Store:      contacts,
		AccessLog:  io.Discard,
	}
	for _, m := range mutate {
		m(&opts)
	}

	app, err := NewApp(opts)
	require.NoError(t, err)

	return &testEnv{app: app, store: contacts, workspaces: workspaces, metrics: opts.Metrics}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// login входит с тестовой парой и возвращает маркер сессии
func (e *testEnv) login(t *testing.T) *http.Cookie {
	t.Helper()

	resp := e.do(t, formRequest(http.MethodPost, "/login", "username=admin123&password=12345"))
	require.Equal(t, fiber.StatusFound, resp.StatusCode)

	marker := sessionCookie(resp)
	require.NotNil(t, marker, "session marker must be set")
	return marker
}

func formRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return req
}

func jsonRequest(method, target string, body any) *http.Request {
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = strings.NewReader(string(b))
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	return req
}

func withCookie(req *http.Request, c *http.Cookie) *http.Request {
	req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	return req
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == domain.SessionCookieName {
			return c
		}
	}
	return nil
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func decodeView(t *testing.T, resp *http.Response) domain.ManagerView {
	t.Helper()
	var view domain.ManagerView
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
	return view
}
