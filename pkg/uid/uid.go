package uid

import "github.com/google/uuid"

// New returns a random UUID string, used for record and request ids.
func New() string {
	return uuid.NewString()
}

// IsValid reports whether id parses as a UUID.
func IsValid(id string) bool {
	return uuid.Validate(id) == nil
}
