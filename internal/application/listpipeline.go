package application

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ericfisherdev/teambook/internal/domain/model"
)

// DefaultPageSize is used when a ListQuery carries a non-positive page size.
const DefaultPageSize = 5

// SortDirection orders contacts by name.
type SortDirection int

const (
	// SortAsc orders names A to Z.
	SortAsc SortDirection = iota
	// SortDesc orders names Z to A.
	SortDesc
)

// String returns "asc" or "desc".
func (d SortDirection) String() string {
	if d == SortDesc {
		return "desc"
	}
	return "asc"
}

// Reverse returns the opposite direction.
func (d SortDirection) Reverse() SortDirection {
	if d == SortDesc {
		return SortAsc
	}
	return SortDesc
}

// ParseSortDirection parses "asc" or "desc" (case-insensitive). Anything else
// is ascending.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(strings.TrimSpace(s), "desc") {
		return SortDesc
	}
	return SortAsc
}

// ListQuery selects the visible page of a contact collection.
type ListQuery struct {
	Search   string
	Sort     SortDirection
	Page     int
	PageSize int
}

// ListPage is the result of running a ListQuery over a collection.
type ListPage struct {
	Contacts     []model.Contact
	Page         int
	PageSize     int
	TotalPages   int
	TotalMatches int
}

// HasNext reports whether a page follows this one.
func (p ListPage) HasNext() bool { return p.Page < p.TotalPages }

// HasPrevious reports whether a page precedes this one.
func (p ListPage) HasPrevious() bool { return p.Page > 1 }

// DeriveListPage filters contacts by q.Search, sorts them by name in
// q.Sort direction and returns page q.Page of size q.PageSize. The input
// slice is not modified.
func DeriveListPage(contacts []model.Contact, q ListQuery) ListPage {
	matches := FilterContacts(contacts, q.Search)
	SortContacts(matches, q.Sort)

	size := q.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	visible, page, totalPages := Paginate(matches, q.Page, size)

	return ListPage{
		Contacts:     visible,
		Page:         page,
		PageSize:     size,
		TotalPages:   totalPages,
		TotalMatches: len(matches),
	}
}

// FilterContacts returns a new slice with the contacts whose case-folded name
// contains the case-folded, trimmed term. A blank term keeps every contact.
func FilterContacts(contacts []model.Contact, term string) []model.Contact {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(term))

	out := make([]model.Contact, 0, len(contacts))
	for _, c := range contacts {
		if needle == "" || strings.Contains(folder.String(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out
}

// SortContacts sorts contacts in place by name using Brazilian Portuguese
// collation, ignoring case and width. The sort is stable in both directions:
// contacts with equal names keep their relative order.
func SortContacts(contacts []model.Contact, dir SortDirection) {
	folder := cases.Fold()
	coll := collate.New(language.BrazilianPortuguese, collate.IgnoreCase, collate.IgnoreWidth)

	keys := make(map[string]string, len(contacts))
	key := func(name string) string {
		k, ok := keys[name]
		if !ok {
			k = folder.String(name)
			keys[name] = k
		}
		return k
	}

	slices.SortStableFunc(contacts, func(a, b model.Contact) int {
		cmp := coll.CompareString(key(a.Name), key(b.Name))
		if dir == SortDesc {
			return -cmp
		}
		return cmp
	})
}

// Paginate cuts page number page (1-based) of the given size out of contacts
// and returns it with the clamped page number and the page count. totalPages
// is ceil(len/size) with a minimum of 1; page is clamped into [1, totalPages].
// A non-positive size falls back to DefaultPageSize.
func Paginate(contacts []model.Contact, page, size int) (visible []model.Contact, clamped, totalPages int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	totalPages = TotalPages(len(contacts), size)
	clamped = ClampPage(page, totalPages)

	start := min((clamped-1)*size, len(contacts))
	end := min(start+size, len(contacts))

	return contacts[start:end:end], clamped, totalPages
}

// TotalPages returns max(1, ceil(count/size)).
func TotalPages(count, size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	return max(1, (count+size-1)/size)
}

// ClampPage keeps page inside [1, totalPages].
func ClampPage(page, totalPages int) int {
	return max(1, min(page, totalPages))
}
