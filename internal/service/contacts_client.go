package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"contacts-service/internal/domain"

	"github.com/VictoriaMetrics/metrics"
)

// ContactsAPI - удаленное хранилище контактов, с которым работает менеджер
type ContactsAPI interface {
	List(ctx context.Context) ([]domain.Contact, error)
	Create(ctx context.Context, c domain.Contact) error
	Update(ctx context.Context, c domain.Contact) error
	Delete(ctx context.Context, id domain.ContactID) error
}

// ContactsClient - REST клиент хранилища контактов.
// Успехом считается любой 2xx, повторов нет.
type ContactsClient struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Set
}

var _ ContactsAPI = (*ContactsClient)(nil)

// NewContactsClient создает клиент для базового URL коллекции (GET {base} отдает массив контактов)
func NewContactsClient(baseURL string, timeout time.Duration, set *metrics.Set) *ContactsClient {
	if set == nil {
		set = metrics.NewSet()
	}
	return &ContactsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    set,
	}
}

// List - GET {base}
func (c *ContactsClient) List(ctx context.Context) ([]domain.Contact, error) {
	body, status, err := c.do(ctx, "list", http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	if !isSuccess(status) {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchContacts, status)
	}

	var contacts []domain.Contact
	if err := json.Unmarshal(body, &contacts); err != nil {
		return nil, fmt.Errorf("failed to parse contacts response: %w", err)
	}

	return contacts, nil
}

// Create - POST {base}, тело без id
func (c *ContactsClient) Create(ctx context.Context, contact domain.Contact) error {
	contact.ID = ""
	return c.save(ctx, "create", http.MethodPost, c.baseURL, contact)
}

// Update - PUT {base}/{id}, тело с id
func (c *ContactsClient) Update(ctx context.Context, contact domain.Contact) error {
	if contact.ID == "" {
		return domain.ErrContactIDRequired
	}
	return c.save(ctx, "update", http.MethodPut, c.contactURL(contact.ID), contact)
}

// Delete - DELETE {base}/{id}
func (c *ContactsClient) Delete(ctx context.Context, id domain.ContactID) error {
	if id == "" {
		return domain.ErrContactIDRequired
	}

	_, status, err := c.do(ctx, "delete", http.MethodDelete, c.contactURL(id), nil)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if !isSuccess(status) {
		return fmt.Errorf("%w: status %d", domain.ErrDeleteContact, status)
	}

	return nil
}

func (c *ContactsClient) save(ctx context.Context, op, method, target string, contact domain.Contact) error {
	payload, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("failed to encode contact: %w", err)
	}

	_, status, err := c.do(ctx, op, method, target, payload)
	if err != nil {
		return fmt.Errorf("failed to save contact: %w", err)
	}
	if !isSuccess(status) {
		return fmt.Errorf("%w: status %d", domain.ErrSaveContact, status)
	}

	return nil
}

func (c *ContactsClient) do(ctx context.Context, op, method, target string, payload []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		c.count(op, "error")
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.count(op, "error")
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.count(op, "error")
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if isSuccess(resp.StatusCode) {
		c.count(op, "ok")
	} else {
		c.count(op, "fail")
	}

	return body, resp.StatusCode, nil
}

func (c *ContactsClient) contactURL(id domain.ContactID) string {
	return c.baseURL + "/" + url.PathEscape(string(id))
}

func (c *ContactsClient) count(op, result string) {
	c.metrics.GetOrCreateCounter(fmt.Sprintf(`contacts_api_requests_total{op=%q,result=%q}`, op, result)).Inc()
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
