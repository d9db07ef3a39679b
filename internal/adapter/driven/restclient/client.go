// Package restclient implements the ContactStore port against the teambook
// REST API. Every call is a single HTTP exchange; nothing is cached or retried.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ContactStore = (*Client)(nil)

// DefaultTimeout bounds a single exchange when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 4 << 10

// Client talks to the /records endpoints of a teambook server.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. Tests use this to inject
// an httptest server's client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a Client rooted at baseURL, e.g.
// "http://127.0.0.1:4200/api/v1".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("parsing base URL: unsupported scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API root.
func (c *Client) BaseURL() string { return c.baseURL }

// contactJSON is the wire shape of a contact.
type contactJSON struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

func (j contactJSON) toModel() model.Contact {
	return model.Contact{
		ID:        j.ID,
		Name:      j.Name,
		Email:     j.Email,
		Phone:     j.Phone,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// writeBody is the request body for create and update. The ID travels in the
// URL, never in the body.
type writeBody struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type errorBody struct {
	Error string `json:"error"`
}

// ListAll fetches the full collection.
func (c *Client) ListAll(ctx context.Context) ([]model.Contact, error) {
	var payload []contactJSON
	if err := c.do(ctx, http.MethodGet, c.recordsURL(""), false, nil, http.StatusOK, &payload); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	contacts := make([]model.Contact, 0, len(payload))
	for _, p := range payload {
		contacts = append(contacts, p.toModel())
	}
	return contacts, nil
}

// GetByID fetches one contact.
func (c *Client) GetByID(ctx context.Context, id string) (*model.Contact, error) {
	var payload contactJSON
	if err := c.do(ctx, http.MethodGet, c.recordsURL(id), true, nil, http.StatusOK, &payload); err != nil {
		return nil, fmt.Errorf("get contact %q: %w", id, err)
	}
	contact := payload.toModel()
	return &contact, nil
}

// Create validates the contact locally and posts it. The returned contact
// carries the server-assigned ID.
func (c *Client) Create(ctx context.Context, contact model.Contact) (model.Contact, error) {
	if err := contact.Validate(); err != nil {
		return model.Contact{}, err
	}

	var payload contactJSON
	if err := c.do(ctx, http.MethodPost, c.recordsURL(""), false, toWriteBody(contact), http.StatusCreated, &payload); err != nil {
		return model.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return payload.toModel(), nil
}

// Update replaces the stored contact with the same ID.
func (c *Client) Update(ctx context.Context, contact model.Contact) error {
	if !contact.IsPersisted() {
		return fmt.Errorf("update contact: %w", driven.ErrContactNotFound)
	}
	if err := c.do(ctx, http.MethodPut, c.recordsURL(contact.ID), true, toWriteBody(contact), http.StatusOK, nil); err != nil {
		return fmt.Errorf("update contact %q: %w", contact.ID, err)
	}
	return nil
}

// Delete removes the contact with the given ID.
func (c *Client) Delete(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, c.recordsURL(id), true, nil, http.StatusOK, nil); err != nil {
		return fmt.Errorf("delete contact %q: %w", id, err)
	}
	return nil
}

func toWriteBody(c model.Contact) *writeBody {
	return &writeBody{Name: c.Name, Email: c.Email, Phone: c.Phone}
}

func (c *Client) recordsURL(id string) string {
	if id == "" {
		return c.baseURL + "/records"
	}
	return c.baseURL + "/records/" + url.PathEscape(id)
}

// do performs one exchange. A non-nil body is sent as JSON; out, when non-nil,
// receives the decoded response on the expected status. A 404 means a missing
// contact only when byID is set; on the collection route it means the base URL
// does not point at a teambook API.
func (c *Client) do(ctx context.Context, method, target string, byID bool, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return errors.Join(ctxErr, driven.ErrTransport)
		}
		return fmt.Errorf("%w: %w", driven.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == want:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decoding response: %v", driven.ErrTransport, err)
		}
		return nil
	case resp.StatusCode == http.StatusNotFound && byID:
		return driven.ErrContactNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return &model.ValidationError{Reason: errorMessage(resp.Body, "rejected by server")}
	default:
		return fmt.Errorf("%w: %s %s: status %d: %s",
			driven.ErrTransport, method, target, resp.StatusCode, errorMessage(resp.Body, http.StatusText(resp.StatusCode)))
	}
}

// errorMessage extracts the "error" field of a JSON error body, falling back
// to the given text.
func errorMessage(r io.Reader, fallback string) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return fallback
	}
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
		return eb.Error
	}
	return fallback
}
