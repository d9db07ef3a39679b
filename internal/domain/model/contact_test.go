package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContact_Validate(t *testing.T) {
	tests := []struct {
		name      string
		contact   Contact
		wantField string
	}{
		{
			name:    "all fields present",
			contact: Contact{Name: "Ana", Email: "a@x.com", Phone: "(11) 98888-7777"},
		},
		{
			name:      "missing name",
			contact:   Contact{Email: "a@x.com", Phone: "(11) 98888-7777"},
			wantField: "name",
		},
		{
			name:      "blank name",
			contact:   Contact{Name: "   ", Email: "a@x.com", Phone: "(11) 98888-7777"},
			wantField: "name",
		},
		{
			name:      "missing email",
			contact:   Contact{Name: "Ana", Phone: "(11) 98888-7777"},
			wantField: "email",
		},
		{
			name:      "missing phone",
			contact:   Contact{Name: "Ana", Email: "a@x.com"},
			wantField: "phone",
		},
		{
			name:      "everything missing reports name first",
			contact:   Contact{},
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.contact.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.True(t, errors.Is(err, ErrInvalidContact))
		})
	}
}

func TestValidationError_Message(t *testing.T) {
	assert.Equal(t, "phone is required", (&ValidationError{Field: "phone", Reason: "is required"}).Error())
	assert.Equal(t, "incomplete data", (&ValidationError{Reason: "incomplete data"}).Error())
}

func TestContact_IsPersisted(t *testing.T) {
	assert.False(t, Contact{Name: "Ana"}.IsPersisted())
	assert.True(t, Contact{ID: "abc"}.IsPersisted())
}
