package application

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

// ContactService is the server-side entry point for contact mutations. It
// normalizes input, enforces presence of the required fields and delegates to
// the store. Phone format is deliberately not checked here; clients mask and
// validate before submitting.
type ContactService struct {
	store     driven.ContactStore
	sanitizer *bluemonday.Policy
}

// NewContactService creates a ContactService backed by the given store.
func NewContactService(store driven.ContactStore) *ContactService {
	return &ContactService{
		store:     store,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// List returns every stored contact.
func (s *ContactService) List(ctx context.Context) ([]model.Contact, error) {
	contacts, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		contacts = []model.Contact{}
	}
	return contacts, nil
}

// Get returns a single contact or driven.ErrContactNotFound.
func (s *ContactService) Get(ctx context.Context, id string) (*model.Contact, error) {
	return s.store.GetByID(ctx, id)
}

// Create normalizes and validates the contact, then stores it. Any ID on the
// argument is discarded; the store assigns one.
func (s *ContactService) Create(ctx context.Context, contact model.Contact) (model.Contact, error) {
	contact = s.normalize(contact)
	contact.ID = ""
	if err := contact.Validate(); err != nil {
		return model.Contact{}, err
	}

	created, err := s.store.Create(ctx, contact)
	if err != nil {
		return model.Contact{}, fmt.Errorf("create contact: %w", err)
	}
	return created, nil
}

// Update normalizes and validates the contact, then overwrites the stored
// record with the same ID.
func (s *ContactService) Update(ctx context.Context, contact model.Contact) error {
	contact = s.normalize(contact)
	if contact.ID == "" {
		return fmt.Errorf("update contact: %w", driven.ErrContactNotFound)
	}
	if err := contact.Validate(); err != nil {
		return err
	}

	if err := s.store.Update(ctx, contact); err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

// Delete removes the contact with the given ID.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// normalize trims every field and strips markup from the free-text ones.
// The sanitizer escapes entities, so the result is unescaped back to plain
// text; output escaping is the renderer's job.
func (s *ContactService) normalize(c model.Contact) model.Contact {
	c.ID = strings.TrimSpace(c.ID)
	c.Name = s.plainText(c.Name)
	c.Email = s.plainText(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	return c
}

func (s *ContactService) plainText(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(v)))
}
