package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/teambook/internal/domain/model"
)

// Sentinel errors returned by ContactStore implementations.
var (
	// ErrContactNotFound indicates no contact exists with the requested ID.
	ErrContactNotFound = errors.New("contact not found")

	// ErrTransport indicates the store could not be reached or answered with
	// an unexpected failure. Only remote implementations return it.
	ErrTransport = errors.New("contact store unavailable")
)

// ContactStore defines the driven port for contact persistence. It is
// implemented both by the embedded SQLite store on the server and by the REST
// gateway on the client side.
//
// Create assigns the ID and returns the stored contact. Update and Delete
// return ErrContactNotFound if the ID does not exist. GetByID returns
// ErrContactNotFound as well rather than a nil contact.
type ContactStore interface {
	ListAll(ctx context.Context) ([]model.Contact, error)
	GetByID(ctx context.Context, id string) (*model.Contact, error)
	Create(ctx context.Context, contact model.Contact) (model.Contact, error)
	Update(ctx context.Context, contact model.Contact) error
	Delete(ctx context.Context, id string) error
}
