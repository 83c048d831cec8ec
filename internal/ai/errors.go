package ai

import (
	"strings"
)

// FailureKind classifies a failed generation call.
type FailureKind int

const (
	// FailureServer covers every provider failure that is not a credential problem.
	FailureServer FailureKind = iota
	// FailureUnauthorized means the provider rejected or lacked the API key.
	FailureUnauthorized
)

const (
	unauthorizedMessage = "Invalid or missing OpenAI API key on the server."
	serverMessage       = "An error occurred on the server."
)

// ExternalError is a mapped text-generation failure. Error returns the
// message safe to show to clients; the provider error is kept for logs.
type ExternalError struct {
	Kind FailureKind
	Err  error
}

func (e *ExternalError) Error() string {
	if e.Kind == FailureUnauthorized {
		return unauthorizedMessage
	}
	return serverMessage
}

func (e *ExternalError) Unwrap() error { return e.Err }

var credentialMarkers = []string{"api key", "api_key", "apikey", "unauthorized", "authentication", "credential"}

// classify maps a provider error onto the failure taxonomy.
func classify(err error) *ExternalError {
	msg := strings.ToLower(err.Error())
	for _, marker := range credentialMarkers {
		if strings.Contains(msg, marker) {
			return &ExternalError{Kind: FailureUnauthorized, Err: err}
		}
	}
	return &ExternalError{Kind: FailureServer, Err: err}
}
