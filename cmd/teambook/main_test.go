package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/teambook/internal/adapter/driving/http"
	"github.com/ericfisherdev/teambook/internal/application"
	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

// memoryStore backs a real REST handler for the commands to talk to.
type memoryStore struct {
	mu       sync.Mutex
	contacts []model.Contact
	nextID   int
}

var _ driven.ContactStore = (*memoryStore)(nil)

func (s *memoryStore) ListAll(context.Context) ([]model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Contact{}, s.contacts...), nil
}

func (s *memoryStore) GetByID(_ context.Context, id string) (*model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, driven.ErrContactNotFound
}

func (s *memoryStore) Create(_ context.Context, c model.Contact) (model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.ID = fmt.Sprintf("c%d", s.nextID)
	s.contacts = append(s.contacts, c)
	return c, nil
}

func (s *memoryStore) Update(_ context.Context, c model.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == c.ID {
			s.contacts[i] = c
			return nil
		}
	}
	return driven.ErrContactNotFound
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.contacts {
		if s.contacts[i].ID == id {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return driven.ErrContactNotFound
}

func (s *memoryStore) get(id string) (model.Contact, bool) {
	c, err := s.GetByID(context.Background(), id)
	if err != nil {
		return model.Contact{}, false
	}
	return *c, true
}

// startServer serves the REST API over a store seeded with names and
// returns the API base URL.
func startServer(t *testing.T, names ...string) (string, *memoryStore) {
	t.Helper()

	store := &memoryStore{}
	for i, name := range names {
		_, _ = store.Create(context.Background(), model.Contact{
			Name:  name,
			Email: fmt.Sprintf("user%d@example.com", i+1),
			Phone: "(11) 98765-4321",
		})
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := httphandler.NewHandler(application.NewContactService(store), logger)
	srv := httptest.NewServer(httphandler.NewServeMux(h, httphandler.MuxConfig{}, logger))
	t.Cleanup(srv.Close)

	return srv.URL + "/api/v1", store
}

// execute runs the root command with args and stdin, returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, key := range []string{
		"TEAMBOOK_API_URL", "TEAMBOOK_TIMEOUT", "TEAMBOOK_PAGE_SIZE",
		"TEAMBOOK_LOG_LEVEL", "TEAMBOOK_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList(t *testing.T) {
	apiURL, _ := startServer(t, "Bruna", "Ana", "Carlos")

	out, err := execute(t, "", "--api-url", apiURL, "list")

	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "PHONE")
	assert.Less(t, strings.Index(out, "Ana"), strings.Index(out, "Bruna"))
	assert.Less(t, strings.Index(out, "Bruna"), strings.Index(out, "Carlos"))
	assert.Contains(t, out, "Page 1 of 1 (3 of 3 contacts)")
}

func TestList_SearchSortPage(t *testing.T) {
	apiURL, _ := startServer(t, "Ana", "Mariana", "Bruna", "Juliana", "Carlos")

	out, err := execute(t, "", "--api-url", apiURL, "list",
		"--search", "ANA", "--sort", "desc", "--page", "2", "--page-size", "2")

	require.NoError(t, err)
	assert.Contains(t, out, "Ana")
	assert.NotContains(t, out, "Mariana")
	assert.NotContains(t, out, "Bruna")
	assert.Contains(t, out, "Page 2 of 2 (3 of 5 contacts)")
}

func TestList_SortIgnoresCase(t *testing.T) {
	apiURL, _ := startServer(t, "Bruna", "Ana", "Carlos")

	out, err := execute(t, "", "--api-url", apiURL, "list", "--sort", "DESC")

	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "Carlos"), strings.Index(out, "Bruna"))
	assert.Less(t, strings.Index(out, "Bruna"), strings.Index(out, "Ana"))
}

func TestList_Empty(t *testing.T) {
	apiURL, _ := startServer(t)

	out, err := execute(t, "", "--api-url", apiURL, "list")

	require.NoError(t, err)
	assert.Equal(t, "No contacts found.\n", out)
}

func TestList_InvalidSort(t *testing.T) {
	apiURL, _ := startServer(t)

	_, err := execute(t, "", "--api-url", apiURL, "list", "--sort", "sideways")

	assert.ErrorContains(t, err, "--sort must be asc or desc")
}

func TestAdd(t *testing.T) {
	apiURL, store := startServer(t)

	out, err := execute(t, "", "--api-url", apiURL, "add",
		"--name", "Zeca", "--email", "zeca@example.com", "--phone", "21987654321")

	require.NoError(t, err)
	assert.Equal(t, "Created Zeca (c1)\n", out)

	created, ok := store.get("c1")
	require.True(t, ok)
	assert.Equal(t, "(21) 98765-4321", created.Phone)
}

func TestAdd_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{
			name:    "incomplete phone",
			args:    []string{"--name", "Zeca", "--email", "z@example.com", "--phone", "2198"},
			wantErr: "phone",
		},
		{
			name:    "blank name",
			args:    []string{"--name", " ", "--email", "z@example.com", "--phone", "21987654321"},
			wantErr: "name",
		},
		{
			name:    "missing flag",
			args:    []string{"--name", "Zeca", "--email", "z@example.com"},
			wantErr: "phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiURL, store := startServer(t)

			_, err := execute(t, "", append([]string{"--api-url", apiURL, "add"}, tt.args...)...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			contacts, _ := store.ListAll(context.Background())
			assert.Empty(t, contacts, "nothing reaches the server")
		})
	}
}

func TestUpdate(t *testing.T) {
	apiURL, store := startServer(t, "Ana")

	out, err := execute(t, "", "--api-url", apiURL, "update", "c1", "--email", "ana@new.example.com")

	require.NoError(t, err)
	assert.Equal(t, "Updated Ana (c1)\n", out)

	updated, _ := store.get("c1")
	assert.Equal(t, model.Contact{
		ID:    "c1",
		Name:  "Ana",
		Email: "ana@new.example.com",
		Phone: "(11) 98765-4321",
	}, updated)
}

func TestUpdate_NotFound(t *testing.T) {
	apiURL, _ := startServer(t)

	_, err := execute(t, "", "--api-url", apiURL, "update", "missing", "--name", "X")

	assert.ErrorIs(t, err, driven.ErrContactNotFound)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name        string
		stdin       string
		args        []string
		wantOut     string
		wantDeleted bool
	}{
		{name: "yes flag", args: []string{"--yes"}, wantOut: "Removed c1\n", wantDeleted: true},
		{name: "prompt accepted", stdin: "y\n", wantOut: "Delete Ana (c1)? [y/N] Removed c1\n", wantDeleted: true},
		{name: "prompt declined", stdin: "n\n", wantOut: "Delete Ana (c1)? [y/N] Cancelled.\n"},
		{name: "no answer", stdin: "", wantOut: "Delete Ana (c1)? [y/N] Cancelled.\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiURL, store := startServer(t, "Ana")

			args := append([]string{"--api-url", apiURL, "delete", "c1"}, tt.args...)
			out, err := execute(t, tt.stdin, args...)

			require.NoError(t, err)
			assert.Equal(t, tt.wantOut, out)
			_, exists := store.get("c1")
			assert.Equal(t, !tt.wantDeleted, exists)
		})
	}
}

func TestDelete_NotFound(t *testing.T) {
	apiURL, _ := startServer(t, "Ana")

	_, err := execute(t, "", "--api-url", apiURL, "delete", "missing", "--yes")

	assert.ErrorIs(t, err, driven.ErrContactNotFound)
}

func TestInvalidAPIURL(t *testing.T) {
	_, err := execute(t, "", "--api-url", "ftp://example.com", "list")

	assert.ErrorContains(t, err, "--api-url")
}

func TestUnreachableServer(t *testing.T) {
	_, err := execute(t, "", "--api-url", "http://127.0.0.1:1/api/v1", "list")

	assert.ErrorIs(t, err, driven.ErrTransport)
}
