package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidContact is matched by every *ValidationError via errors.Is.
var ErrInvalidContact = errors.New("invalid contact")

// Contact is a single entry in the contact book. ID is empty until the store
// assigns one on creation and never changes afterwards.
type Contact struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPersisted reports whether the contact has been assigned an ID by a store.
func (c Contact) IsPersisted() bool {
	return c.ID != ""
}

// Validate checks that name, email and phone are present. Whitespace-only
// values count as missing. The first missing field is reported.
func (c Contact) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return &ValidationError{Field: "name", Reason: "is required"}
	case strings.TrimSpace(c.Email) == "":
		return &ValidationError{Field: "email", Reason: "is required"}
	case strings.TrimSpace(c.Phone) == "":
		return &ValidationError{Field: "phone", Reason: "is required"}
	}
	return nil
}

// ValidationError describes why a contact cannot be saved. Field is empty when
// the reason does not belong to a single field (e.g. a server-side rejection).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidContact) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidContact
}
