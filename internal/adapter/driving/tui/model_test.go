package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/teambook/internal/application"
	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

// memoryStore is an in-memory driven.ContactStore for driving the screen.
type memoryStore struct {
	mu       sync.Mutex
	contacts []model.Contact
	nextID   int
	listErr  error
	deleted  []string
}

var _ driven.ContactStore = (*memoryStore)(nil)

func newStore(names ...string) *memoryStore {
	s := &memoryStore{}
	for i, name := range names {
		s.contacts = append(s.contacts, model.Contact{
			ID:    fmt.Sprintf("c%d", i+1),
			Name:  name,
			Email: fmt.Sprintf("user%d@example.com", i+1),
			Phone: "(11) 98765-4321",
		})
	}
	return s
}

func (s *memoryStore) ListAll(context.Context) ([]model.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
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
	c.ID = fmt.Sprintf("n%d", s.nextID)
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
			s.deleted = append(s.deleted, id)
			return nil
		}
	}
	return driven.ErrContactNotFound
}

func (s *memoryStore) byID(id string) (model.Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contacts {
		if c.ID == id {
			return c, true
		}
	}
	return model.Contact{}, false
}

// newLoadedModel builds a model over store and runs its initial load.
func newLoadedModel(t *testing.T, store *memoryStore) (Model, *application.Controller) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := application.NewController(store, logger)
	m := New(context.Background(), ctrl)
	m = run(t, m, m.Init())
	return m, ctrl
}

// run executes cmd synchronously and feeds its message back into m.
func run(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return m
	}
	next, _ := m.Update(cmd())
	return next.(Model)
}

// press sends keys one by one and runs the store command of the last one.
func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	if cmd == nil {
		return m
	}
	msg := cmd()
	if _, ok := msg.(tea.QuitMsg); ok {
		return m
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typed(s string) []tea.KeyMsg {
	keys := make([]tea.KeyMsg, 0, len(s))
	for _, r := range s {
		keys = append(keys, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return keys
}

var (
	enter     = tea.KeyMsg{Type: tea.KeyEnter}
	esc       = tea.KeyMsg{Type: tea.KeyEsc}
	tab       = tea.KeyMsg{Type: tea.KeyTab}
	ctrlS     = tea.KeyMsg{Type: tea.KeyCtrlS}
	ctrlC     = tea.KeyMsg{Type: tea.KeyCtrlC}
	backspace = tea.KeyMsg{Type: tea.KeyBackspace}
)

func TestModel_InitLoadsAndRenders(t *testing.T) {
	m, ctrl := newLoadedModel(t, newStore("Bruna", "Ana", "Carlos"))

	view := ctrl.View()
	assert.Equal(t, application.StateLoaded, view.State)

	out := m.View()
	assert.Contains(t, out, "Teambook")
	assert.Contains(t, out, "> ")
	assert.Contains(t, out, "Page 1 of 1 - 3 of 3 contacts - sort A-Z")
	assert.Less(t, strings.Index(out, "Ana"), strings.Index(out, "Bruna"))
	assert.Less(t, strings.Index(out, "Bruna"), strings.Index(out, "Carlos"))
}

func TestModel_LoadFailureShowsRetry(t *testing.T) {
	store := newStore("Ana")
	store.listErr = errors.New("connection refused")

	m, _ := newLoadedModel(t, store)

	out := m.View()
	assert.Contains(t, out, "could not reach the contact store")
	assert.Contains(t, out, "Press r to retry")

	store.listErr = nil
	m = press(t, m, key("r"))
	assert.Contains(t, m.View(), "Ana")
}

func TestModel_CursorMovement(t *testing.T) {
	m, _ := newLoadedModel(t, newStore("Ana", "Bruna", "Carlos"))

	m = press(t, m, key("j"), key("j"), key("j"))
	assert.Equal(t, 2, m.cursor, "cursor stops on the last row")

	m = press(t, m, key("k"), key("k"), key("k"))
	assert.Equal(t, 0, m.cursor, "cursor stops on the first row")
}

func TestModel_Paging(t *testing.T) {
	m, ctrl := newLoadedModel(t, newStore("A1", "A2", "A3", "A4", "A5", "A6", "A7"))

	m = press(t, m, key("j"), key("n"))
	assert.Equal(t, 2, ctrl.View().Page.Page)
	assert.Equal(t, 0, m.cursor)
	assert.Contains(t, m.View(), "Page 2 of 2")

	m = press(t, m, key("n"))
	assert.Equal(t, 2, ctrl.View().Page.Page, "next is a no-op on the last page")

	m = press(t, m, key("p"))
	assert.Equal(t, 1, ctrl.View().Page.Page)
}

func TestModel_SortToggle(t *testing.T) {
	m, ctrl := newLoadedModel(t, newStore("Ana", "Bruna"))

	m = press(t, m, key("s"))

	assert.Equal(t, application.SortDesc, ctrl.View().Sort)
	out := m.View()
	assert.Contains(t, out, "sort Z-A")
	assert.Less(t, strings.Index(out, "Bruna"), strings.Index(out, "Ana"))
}

func TestModel_Search(t *testing.T) {
	m, ctrl := newLoadedModel(t, newStore("Ana", "Bruna", "Mariana"))

	m = press(t, m, key("/"))
	assert.Equal(t, modeSearch, m.mode)

	m = press(t, m, typed("ana")...)
	view := ctrl.View()
	assert.Equal(t, "ana", view.Search)
	assert.Equal(t, 2, view.Page.TotalMatches)

	m = press(t, m, enter)
	assert.Equal(t, modeList, m.mode)
	assert.Contains(t, m.View(), "/ ana", "active search stays visible")

	m = press(t, m, key("/"), backspace, backspace, backspace, esc)
	assert.Empty(t, ctrl.View().Search)
	assert.Equal(t, 3, ctrl.View().Page.TotalMatches)
}

func TestModel_CreateContact(t *testing.T) {
	store := newStore("Ana")
	m, ctrl := newLoadedModel(t, store)

	m = press(t, m, key("a"))
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "New contact")

	keys := typed("Zeca")
	keys = append(keys, tab)
	keys = append(keys, typed("zeca@example.com")...)
	keys = append(keys, tab)
	keys = append(keys, typed("21987654321")...)
	m = press(t, m, keys...)

	assert.Equal(t, "(21) 98765-4321", m.inputs[fieldPhone].Value(), "phone input is rewritten masked")

	m = press(t, m, enter)

	assert.Equal(t, modeList, m.mode)
	created, ok := store.byID("n1")
	require.True(t, ok)
	assert.Equal(t, model.Contact{ID: "n1", Name: "Zeca", Email: "zeca@example.com", Phone: "(21) 98765-4321"}, created)
	assert.Equal(t, "contact created", ctrl.View().Status.Message)
	assert.Contains(t, m.View(), "Zeca")
}

func TestModel_SubmitInvalidKeepsForm(t *testing.T) {
	store := newStore("Ana")
	m, ctrl := newLoadedModel(t, store)

	m = press(t, m, key("a"))
	m = press(t, m, typed("Zeca")...)
	m = press(t, m, ctrlS)

	assert.Equal(t, modeForm, m.mode)
	assert.True(t, ctrl.View().Status.IsError())
	assert.Equal(t, "Zeca", m.inputs[fieldName].Value())
	_, ok := store.byID("n1")
	assert.False(t, ok, "invalid draft never reaches the store")
}

func TestModel_EditContact(t *testing.T) {
	store := newStore("Ana", "Bruna")
	m, ctrl := newLoadedModel(t, store)

	m = press(t, m, key("j"), key("e"))
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, "Bruna", m.inputs[fieldName].Value())
	assert.Contains(t, m.View(), "Edit contact")
	assert.Equal(t, application.StateEditing, ctrl.View().State)

	m = press(t, m, typed(" Lima")...)
	m = press(t, m, ctrlS)

	assert.Equal(t, modeList, m.mode)
	updated, ok := store.byID("c2")
	require.True(t, ok)
	assert.Equal(t, "Bruna Lima", updated.Name)
	assert.Equal(t, "contact updated", ctrl.View().Status.Message)
}

func TestModel_EscCancelsEdit(t *testing.T) {
	store := newStore("Ana")
	m, ctrl := newLoadedModel(t, store)

	m = press(t, m, key("e"))
	m = press(t, m, typed("XYZ")...)
	m = press(t, m, esc)

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, application.StateLoaded, ctrl.View().State)
	assert.Empty(t, ctrl.View().Draft)
	c, _ := store.byID("c1")
	assert.Equal(t, "Ana", c.Name)
}

func TestModel_FocusCycles(t *testing.T) {
	m, _ := newLoadedModel(t, newStore("Ana"))

	m = press(t, m, key("a"))
	assert.Equal(t, fieldName, m.focus)

	m = press(t, m, tab, tab)
	assert.Equal(t, fieldPhone, m.focus)

	m = press(t, m, tab)
	assert.Equal(t, fieldName, m.focus, "tab wraps around")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, fieldPhone, m.focus)

	m = press(t, m, esc, key("a"), enter)
	assert.Equal(t, fieldEmail, m.focus, "enter advances before the last field")
}

func TestModel_Delete(t *testing.T) {
	t.Run("confirmed", func(t *testing.T) {
		store := newStore("Ana", "Bruna")
		m, ctrl := newLoadedModel(t, store)

		m = press(t, m, key("j"), key("d"))
		require.Equal(t, modeConfirmDelete, m.mode)
		assert.Contains(t, m.View(), "Delete Bruna? (y/n)")

		m = press(t, m, key("y"))

		assert.Equal(t, modeList, m.mode)
		assert.Equal(t, []string{"c2"}, store.deleted)
		assert.Equal(t, 1, ctrl.View().Total)
		assert.Equal(t, 0, m.cursor, "cursor is clamped to the shorter page")
	})

	t.Run("declined", func(t *testing.T) {
		store := newStore("Ana")
		m, ctrl := newLoadedModel(t, store)

		m = press(t, m, key("d"), key("n"))

		assert.Equal(t, modeList, m.mode)
		assert.Empty(t, store.deleted)
		assert.Equal(t, 1, ctrl.View().Total)
	})

	t.Run("empty list", func(t *testing.T) {
		m, _ := newLoadedModel(t, newStore())

		m = press(t, m, key("d"))

		assert.Equal(t, modeList, m.mode)
		assert.Contains(t, m.View(), "No contacts found.")
	})
}

func TestModel_Quit(t *testing.T) {
	m, _ := newLoadedModel(t, newStore("Ana"))

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = press(t, m, key("a"))
	_, cmd = m.Update(key("q"))
	assert.Nil(t, cmd, "q is text inside the form")

	_, cmd = m.Update(ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Ana", truncate("Ana", 10))
	assert.Equal(t, "Joã...", truncate("João Pedro", 6))
}
