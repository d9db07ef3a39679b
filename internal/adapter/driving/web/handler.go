// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ericfisherdev/teambook/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/teambook/internal/application"
	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
// Every write follows post-redirect-get; failed writes re-render the page with
// the submitted draft and a message instead.
type Handler struct {
	contacts *application.ContactService
	pageSize int
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. A
// non-positive pageSize uses application.DefaultPageSize.
func NewHandler(contacts *application.ContactService, pageSize int, logger *slog.Logger) *Handler {
	if pageSize <= 0 {
		pageSize = application.DefaultPageSize
	}
	return &Handler{
		contacts: contacts,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Index renders the contact list with an empty create form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	st := parseListState(r)
	notice := notices[r.URL.Query().Get("notice")]

	h.renderPage(w, r, http.StatusOK, st, model.Contact{}, notice, "")
}

// Edit renders the list with the form pre-filled from the stored contact.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	st := parseListState(r)
	id := r.PathValue("id")

	contact, err := h.contacts.Get(r.Context(), id)
	if err != nil {
		h.renderWriteError(w, r, st, model.Contact{}, "get contact", err)
		return
	}

	h.renderPage(w, r, http.StatusOK, st, *contact, "", "")
}

// Create stores a new contact from the submitted form.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	st := parseListState(r)
	draft := formContact(r, "")
	if err := application.ValidateDraft(draft); err != nil {
		h.renderPage(w, r, http.StatusUnprocessableEntity, st, draft, "", err.Error())
		return
	}

	if _, err := h.contacts.Create(r.Context(), draft); err != nil {
		h.renderWriteError(w, r, st, draft, "create contact", err)
		return
	}

	h.redirect(w, r, st, "created")
}

// Update overwrites the contact named in the path with the submitted form.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	st := parseListState(r)
	draft := formContact(r, r.PathValue("id"))
	if err := application.ValidateDraft(draft); err != nil {
		h.renderPage(w, r, http.StatusUnprocessableEntity, st, draft, "", err.Error())
		return
	}

	if err := h.contacts.Update(r.Context(), draft); err != nil {
		h.renderWriteError(w, r, st, draft, "update contact", err)
		return
	}

	h.redirect(w, r, st, "updated")
}

// Delete removes the contact named in the path. The browser asks for
// confirmation before the form is submitted.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	st := parseListState(r)
	if err := h.contacts.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.renderWriteError(w, r, st, model.Contact{}, "delete contact", err)
		return
	}

	h.redirect(w, r, st, "removed")
}

// formContact reads the contact fields from the form, masking the phone the
// same way the browser script does.
func formContact(r *http.Request, id string) model.Contact {
	return model.Contact{
		ID:    id,
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Phone: application.MaskPhone(r.PostFormValue("phone")),
	}
}

// renderWriteError maps a service error to a re-rendered page. A missing
// record drops the draft since it can no longer be saved.
func (h *Handler) renderWriteError(w http.ResponseWriter, r *http.Request, st listState, draft model.Contact, op string, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidContact):
		h.renderPage(w, r, http.StatusUnprocessableEntity, st, draft, "", err.Error())
	case errors.Is(err, driven.ErrContactNotFound):
		h.renderPage(w, r, http.StatusNotFound, st, model.Contact{}, "", "Contact not found.")
	default:
		h.logger.Error("failed to "+op, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, st listState, notice string) {
	v := st.values()
	v.Set("notice", notice)
	http.Redirect(w, r, "/?"+v.Encode(), http.StatusSeeOther)
}

// renderPage lists the contacts, derives the visible page and renders it with
// the given draft in the form. The page is buffered so a render failure can
// still produce a clean 500.
func (h *Handler) renderPage(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	st listState,
	draft model.Contact,
	notice, errMsg string,
) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list contacts", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	page := application.DeriveListPage(contacts, st.query(h.pageSize))
	form := toContactFormViewModel(draft, st, csrfToken(w, r))
	view := toContactsPageViewModel(page, len(contacts), st, form, draft.ID)
	view.Notice = notice
	view.Error = errMsg

	var buf bytes.Buffer
	if err := templates.Layout(view.Title, templates.ContactsPage(view)).Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render contacts page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
