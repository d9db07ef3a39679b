package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	vm "github.com/ericfisherdev/teambook/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/teambook/internal/application"
	"github.com/ericfisherdev/teambook/internal/domain/model"
)

// listState is the search, sort and page carried through links and form
// posts so the list looks the same after every round trip.
type listState struct {
	Search string
	Sort   application.SortDirection
	Page   int
}

// parseListState reads q, sort and page from the query string or form body.
// Unknown sort values fall back to ascending and bad pages to 1.
func parseListState(r *http.Request) listState {
	st := listState{
		Search: strings.TrimSpace(r.FormValue("q")),
		Sort:   application.ParseSortDirection(r.FormValue("sort")),
		Page:   1,
	}
	if p, err := strconv.Atoi(r.FormValue("page")); err == nil && p > 0 {
		st.Page = p
	}
	return st
}

// values encodes the state, omitting defaults.
func (s listState) values() url.Values {
	v := url.Values{}
	if s.Search != "" {
		v.Set("q", s.Search)
	}
	if s.Sort != application.SortAsc {
		v.Set("sort", s.Sort.String())
	}
	if s.Page > 1 {
		v.Set("page", strconv.Itoa(s.Page))
	}
	return v
}

// withPath returns path with the state appended as a query string.
func (s listState) withPath(path string) string {
	q := s.values().Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

func (s listState) query(pageSize int) application.ListQuery {
	return application.ListQuery{Search: s.Search, Sort: s.Sort, Page: s.Page, PageSize: pageSize}
}

// toContactRowViewModel converts a domain Contact to a table row.
func toContactRowViewModel(c model.Contact, st listState, editingID string) vm.ContactRowViewModel {
	escaped := url.PathEscape(c.ID)
	return vm.ContactRowViewModel{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		EditURL:   st.withPath("/contacts/" + escaped + "/edit"),
		DeleteURL: "/contacts/" + escaped + "/delete",
		Selected:  editingID != "" && c.ID == editingID,
	}
}

// toContactFormViewModel builds the form for a draft. A persisted draft posts
// to its update route, anything else to the create route.
func toContactFormViewModel(draft model.Contact, st listState, csrf string) vm.ContactFormViewModel {
	form := vm.ContactFormViewModel{
		Action:    "/contacts",
		Name:      draft.Name,
		Email:     draft.Email,
		Phone:     draft.Phone,
		CSRFToken: csrf,
	}
	if draft.IsPersisted() {
		form.Action = "/contacts/" + url.PathEscape(draft.ID)
		form.Editing = true
		form.CancelURL = st.withPath("/")
	}
	return form
}

// toContactsPageViewModel assembles the page from a derived list page.
func toContactsPageViewModel(
	page application.ListPage,
	total int,
	st listState,
	form vm.ContactFormViewModel,
	editingID string,
) vm.ContactsPageViewModel {
	// The derived page may have been clamped; links follow the clamped value.
	st.Page = page.Page

	rows := make([]vm.ContactRowViewModel, 0, len(page.Contacts))
	for _, c := range page.Contacts {
		rows = append(rows, toContactRowViewModel(c, st, editingID))
	}

	pager := vm.PagerViewModel{
		Page:         page.Page,
		TotalPages:   page.TotalPages,
		TotalMatches: page.TotalMatches,
	}
	if page.HasPrevious() {
		prev := st
		prev.Page--
		pager.PrevURL = prev.withPath("/")
	}
	if page.HasNext() {
		next := st
		next.Page++
		pager.NextURL = next.withPath("/")
	}

	flipped := st
	flipped.Sort = st.Sort.Reverse()

	sortLabel := "Name A-Z"
	if st.Sort == application.SortDesc {
		sortLabel = "Name Z-A"
	}

	return vm.ContactsPageViewModel{
		Title:     "Teambook",
		Rows:      rows,
		Form:      form,
		Pager:     pager,
		Search:    st.Search,
		Sort:      st.Sort.String(),
		SortURL:   flipped.withPath("/"),
		SortLabel: sortLabel,
		Total:     total,
	}
}

// notices maps the notice query parameter set by post-redirect-get to its text.
var notices = map[string]string{
	"created": "Contact created.",
	"updated": "Contact updated.",
	"removed": "Contact removed.",
}
