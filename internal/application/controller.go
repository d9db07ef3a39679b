package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

// ErrBusy is returned when a request of the same kind is already in flight.
var ErrBusy = errors.New("request already in progress")

// ControllerState is the coarse UI state exposed by the Controller.
type ControllerState int

const (
	// StateIdle means nothing has been loaded yet (or the first load failed).
	StateIdle ControllerState = iota
	// StateLoading means a list request is in flight.
	StateLoading
	// StateLoaded means the collection is loaded and no record is being edited.
	StateLoaded
	// StateEditing means the draft holds a copy of a persisted record.
	StateEditing
)

// String returns a lower-case name for the state.
func (s ControllerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// ConfirmFunc is the decision gate consulted before a delete. Returning false
// cancels the delete without any request to the store.
type ConfirmFunc func(ctx context.Context, contact model.Contact) bool

// Confirmed is a ConfirmFunc that always agrees. Use it when the caller has
// already asked the user (TUI prompt, --yes flag).
func Confirmed(context.Context, model.Contact) bool { return true }

// Status is the user-visible outcome of the last action.
type Status struct {
	Message string
	Err     error
}

// IsError reports whether the status describes a failure.
func (s Status) IsError() bool { return s.Err != nil }

// ControllerView is an immutable snapshot of the controller for rendering.
type ControllerView struct {
	State   ControllerState
	Busy    bool
	Page    ListPage
	Total   int
	Draft   model.Contact
	Editing bool
	Search  string
	Sort    SortDirection
	Status  Status
}

// action identifies a kind of store exchange for busy tracking.
type action int

const (
	actionLoad action = iota
	actionSave
	actionDelete
)

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithPageSize sets the number of contacts per page. Non-positive values
// keep DefaultPageSize.
func WithPageSize(n int) ControllerOption {
	return func(c *Controller) {
		if n > 0 {
			c.query.PageSize = n
		}
	}
}

// Controller drives the contact list and form. It loads the collection from
// the gateway, derives the visible page locally, and round-trips writes
// through the gateway followed by a reload.
//
// Methods are safe for concurrent use. Store exchanges run on the calling
// goroutine with the lock released, so a UI can dispatch them in the
// background and render View() meanwhile. At most one exchange per action kind
// (load, save, delete) is in flight; a second one gets ErrBusy.
type Controller struct {
	gateway driven.ContactStore
	logger  *slog.Logger

	mu       sync.Mutex
	contacts []model.Contact
	matches  []model.Contact // filtered and sorted view of contacts
	query    ListQuery
	page     ListPage
	draft    model.Contact
	editing  bool
	loaded   bool
	inflight map[action]bool
	status   Status

	// reloadPending asks the running Load to fetch again once it returns,
	// because a write committed while it was in flight.
	reloadPending bool
	pendingStatus Status
}

// NewController creates a Controller over the given gateway.
func NewController(gateway driven.ContactStore, logger *slog.Logger, opts ...ControllerOption) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Controller{
		gateway:  gateway,
		logger:   logger,
		query:    ListQuery{Sort: SortAsc, Page: 1, PageSize: DefaultPageSize},
		inflight: make(map[action]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.rederiveLocked()

	return c
}

// Load fetches the full collection. On success the collection is replaced and
// the visible page is re-derived from page 1 with the current search and sort.
// On failure the previous collection is kept and the error is returned and
// recorded in the status.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.begin(actionLoad); err != nil {
		return err
	}
	return c.runLoad(ctx, Status{})
}

// runLoad performs the fetch for a Load that already holds the load slot.
// If a write asks for a reload meanwhile, the fetch is repeated so the
// collection never predates a committed write. done is the status recorded
// on success unless a write left its own.
func (c *Controller) runLoad(ctx context.Context, done Status) error {
	for {
		contacts, err := c.gateway.ListAll(ctx)

		c.mu.Lock()
		if err == nil && c.reloadPending {
			c.reloadPending = false
			c.mu.Unlock()
			continue
		}

		delete(c.inflight, actionLoad)
		pending := c.pendingStatus
		c.reloadPending = false
		c.pendingStatus = Status{}

		if err != nil {
			defer c.mu.Unlock()
			return c.failLocked("load contacts", err)
		}

		c.contacts = contacts
		c.loaded = true
		c.query.Page = 1
		c.rederiveLocked()
		c.status = done
		if pending.Message != "" {
			c.status = pending
		}
		c.mu.Unlock()

		return nil
	}
}

// reload refreshes the collection after a committed write and records msg as
// the outcome. When a Load is already running it is asked to fetch again
// instead, and reload returns at once: the write itself succeeded.
func (c *Controller) reload(ctx context.Context, msg string) error {
	c.mu.Lock()
	if c.inflight[actionLoad] {
		c.reloadPending = true
		c.pendingStatus = Status{Message: msg}
		c.status = c.pendingStatus
		c.mu.Unlock()
		return nil
	}
	c.inflight[actionLoad] = true
	c.mu.Unlock()

	return c.runLoad(ctx, Status{Message: msg})
}

// Edit puts a detached copy of contact in the draft and enters editing mode.
func (c *Controller) Edit(contact model.Contact) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = contact
	c.editing = true
	c.status = Status{}
}

// NewDraft starts a blank draft in create mode.
func (c *Controller) NewDraft() {
	c.Cancel()
}

// Cancel discards the draft and returns to create mode.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.draft = model.Contact{}
	c.editing = false
	c.status = Status{}
}

// SetDraftName sets the draft's name.
func (c *Controller) SetDraftName(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Name = v
}

// SetDraftEmail sets the draft's email.
func (c *Controller) SetDraftEmail(v string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Email = v
}

// SetDraftPhone masks v and stores it in the draft. The masked value is
// returned so the input field can be rewritten with it.
func (c *Controller) SetDraftPhone(v string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Phone = MaskPhone(v)
	return c.draft.Phone
}

// Submit validates the draft locally and saves it: Create when the draft has
// no ID, Update otherwise. Validation failures never reach the gateway. On
// success the draft is cleared, editing ends and the collection is reloaded.
// On failure the draft is kept so the user can retry.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	c.draft.Phone = MaskPhone(c.draft.Phone)
	draft := c.draft

	if err := ValidateDraft(draft); err != nil {
		defer c.mu.Unlock()
		return c.failLocked("validate contact", err)
	}
	if c.inflight[actionSave] {
		c.mu.Unlock()
		return ErrBusy
	}
	c.inflight[actionSave] = true
	c.mu.Unlock()

	var err error
	op := "create contact"
	if draft.IsPersisted() {
		op = "update contact"
		err = c.gateway.Update(ctx, draft)
	} else {
		_, err = c.gateway.Create(ctx, draft)
	}

	c.mu.Lock()
	delete(c.inflight, actionSave)
	if err != nil {
		defer c.mu.Unlock()
		return c.failLocked(op, err)
	}
	c.draft = model.Contact{}
	c.editing = false
	c.mu.Unlock()

	if draft.IsPersisted() {
		return c.reload(ctx, "contact updated")
	}
	return c.reload(ctx, "contact created")
}

// Delete asks confirm and, if it agrees, deletes the contact and reloads.
// A nil confirm counts as declined. The returned bool reports whether the
// delete was issued and succeeded.
func (c *Controller) Delete(ctx context.Context, id string, confirm ConfirmFunc) (bool, error) {
	c.mu.Lock()
	target := model.Contact{ID: id}
	if i := slices.IndexFunc(c.contacts, func(x model.Contact) bool { return x.ID == id }); i >= 0 {
		target = c.contacts[i]
	}
	c.mu.Unlock()

	if confirm == nil || !confirm(ctx, target) {
		c.logger.Debug("delete declined", "id", id)
		return false, nil
	}

	if err := c.begin(actionDelete); err != nil {
		return false, err
	}

	err := c.gateway.Delete(ctx, id)

	c.mu.Lock()
	delete(c.inflight, actionDelete)
	if err != nil {
		defer c.mu.Unlock()
		return false, c.failLocked("delete contact", err)
	}
	if c.draft.ID == id {
		c.draft = model.Contact{}
		c.editing = false
	}
	c.mu.Unlock()

	return true, c.reload(ctx, "contact removed")
}

// Next moves to the following page. It is a no-op on the last page and
// reports whether the page changed.
func (c *Controller) Next() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.page.HasNext() {
		return false
	}
	c.query.Page++
	c.paginateLocked()
	return true
}

// Previous moves to the preceding page. It is a no-op on the first page and
// reports whether the page changed.
func (c *Controller) Previous() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.page.HasPrevious() {
		return false
	}
	c.query.Page--
	c.paginateLocked()
	return true
}

// SetPage jumps to page n, clamped into the valid range.
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query.Page = n
	c.paginateLocked()
}

// SetSearch changes the name filter and resets to page 1.
func (c *Controller) SetSearch(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query.Search = term
	c.query.Page = 1
	c.rederiveLocked()
}

// SetSort changes the sort direction. The current page is kept (clamped).
func (c *Controller) SetSort(dir SortDirection) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query.Sort = dir
	c.rederiveLocked()
}

// ToggleSort flips the sort direction.
func (c *Controller) ToggleSort() SortDirection {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query.Sort = c.query.Sort.Reverse()
	c.rederiveLocked()
	return c.query.Sort
}

// View returns a snapshot of the current state.
func (c *Controller) View() ControllerView {
	c.mu.Lock()
	defer c.mu.Unlock()

	page := c.page
	page.Contacts = slices.Clone(c.page.Contacts)

	return ControllerView{
		State:   c.stateLocked(),
		Busy:    len(c.inflight) > 0,
		Page:    page,
		Total:   len(c.contacts),
		Draft:   c.draft,
		Editing: c.editing,
		Search:  c.query.Search,
		Sort:    c.query.Sort,
		Status:  c.status,
	}
}

func (c *Controller) stateLocked() ControllerState {
	switch {
	case c.inflight[actionLoad]:
		return StateLoading
	case c.editing:
		return StateEditing
	case c.loaded:
		return StateLoaded
	default:
		return StateIdle
	}
}

func (c *Controller) begin(a action) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight[a] {
		return ErrBusy
	}
	c.inflight[a] = true
	return nil
}

// failLocked records a user-facing status for err and returns it wrapped
// with op. Transport failures are logged as errors.
func (c *Controller) failLocked(op string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidContact):
		c.status = Status{Message: err.Error(), Err: err}
		c.logger.Debug(op+" rejected", "error", err)
	case errors.Is(err, driven.ErrContactNotFound):
		c.status = Status{Message: "contact not found", Err: err}
		c.logger.Warn(op+" failed", "error", err)
	default:
		c.status = Status{Message: "could not reach the contact store", Err: err}
		c.logger.Error(op+" failed", "error", err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// rederiveLocked runs the whole pipeline: filter, sort, paginate.
func (c *Controller) rederiveLocked() {
	c.matches = FilterContacts(c.contacts, c.query.Search)
	SortContacts(c.matches, c.query.Sort)
	c.paginateLocked()
}

// paginateLocked re-cuts the current page from the cached matches.
func (c *Controller) paginateLocked() {
	visible, page, total := Paginate(c.matches, c.query.Page, c.query.PageSize)
	c.query.Page = page
	c.page = ListPage{
		Contacts:     visible,
		Page:         page,
		PageSize:     c.query.PageSize,
		TotalPages:   total,
		TotalMatches: len(c.matches),
	}
}

// ValidateDraft is the client-side check run before any save: every field
// present and the phone in its masked form.
func ValidateDraft(draft model.Contact) error {
	if err := draft.Validate(); err != nil {
		return err
	}
	if !ValidPhone(draft.Phone) {
		return &model.ValidationError{Field: "phone", Reason: "must match (DD) DDDDD-DDDD"}
	}
	return nil
}
