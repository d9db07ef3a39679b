// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// ContactRowViewModel holds presentation-ready data for one row of the table.
type ContactRowViewModel struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	EditURL   string // GET target that opens the row in the form
	DeleteURL string // POST target for removal
	Selected  bool   // true when the row is the one being edited
}

// ContactFormViewModel holds the create/edit form state.
type ContactFormViewModel struct {
	Action    string // POST target
	Name      string
	Email     string
	Phone     string
	Editing   bool
	CancelURL string // shown only while editing
	CSRFToken string
}

// SubmitLabel returns the button text for the form's mode.
func (f ContactFormViewModel) SubmitLabel() string {
	if f.Editing {
		return "Save changes"
	}
	return "Add contact"
}

// PagerViewModel holds the pagination controls.
type PagerViewModel struct {
	Page         int
	TotalPages   int
	TotalMatches int
	PrevURL      string // empty on the first page
	NextURL      string // empty on the last page
}

// ContactsPageViewModel is everything the contacts page renders.
type ContactsPageViewModel struct {
	Title     string
	Rows      []ContactRowViewModel
	Form      ContactFormViewModel
	Pager     PagerViewModel
	Search    string
	Sort      string // "asc" or "desc"
	SortURL   string // link that flips the sort direction
	SortLabel string
	Notice    string
	Error     string
	Total     int // size of the whole collection, before filtering
}
