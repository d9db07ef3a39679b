package sqlite

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// newContactID returns a time-ordered UUIDv7 encoded as unpadded base64url
// (22 characters). The encoding keeps IDs short and safe inside URL paths.
func newContactID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(id[:]), nil
}
