package application

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/ericfisherdev/teambook/internal/domain/model"
	"github.com/ericfisherdev/teambook/internal/domain/port/driven"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeStore is an in-memory driven.ContactStore with per-method error
// injection and call counting. A non-nil gate blocks ListAll until closed.
type fakeStore struct {
	mu       sync.Mutex
	contacts []model.Contact
	nextID   int
	calls    map[string]int

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	listNil   bool

	gate    chan struct{}
	entered chan struct{}
}

var _ driven.ContactStore = (*fakeStore)(nil)

func newFakeStore(cs ...model.Contact) *fakeStore {
	return &fakeStore{
		contacts: append([]model.Contact(nil), cs...),
		calls:    make(map[string]int),
	}
}

func (f *fakeStore) record(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) ListAll(ctx context.Context) ([]model.Contact, error) {
	f.record("ListAll")

	if f.gate != nil {
		if f.entered != nil {
			f.entered <- struct{}{}
		}
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.listNil {
		return nil, nil
	}
	return append([]model.Contact{}, f.contacts...), nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*model.Contact, error) {
	f.record("GetByID")

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contacts {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, driven.ErrContactNotFound
}

func (f *fakeStore) Create(_ context.Context, c model.Contact) (model.Contact, error) {
	f.record("Create")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return model.Contact{}, f.createErr
	}
	f.nextID++
	c.ID = fmt.Sprintf("new-%d", f.nextID)
	f.contacts = append(f.contacts, c)
	return c, nil
}

func (f *fakeStore) Update(_ context.Context, c model.Contact) error {
	f.record("Update")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.contacts {
		if f.contacts[i].ID == c.ID {
			f.contacts[i] = c
			return nil
		}
	}
	return driven.ErrContactNotFound
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.record("Delete")

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.contacts {
		if f.contacts[i].ID == id {
			f.contacts = append(f.contacts[:i], f.contacts[i+1:]...)
			return nil
		}
	}
	return driven.ErrContactNotFound
}
