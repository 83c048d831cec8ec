package handler

import (
	"encoding/json"
	"net/http"

	"stockroom-api/internal/auth"
	"stockroom-api/internal/model"
	"stockroom-api/pkg/apierror"
	"stockroom-api/pkg/response"
)

// SessionHandler exposes the user selector.
type SessionHandler struct {
	session *auth.Session
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(session *auth.Session) *SessionHandler {
	return &SessionHandler{session: session}
}

// SessionResponse is the current user with their permissions.
type SessionResponse struct {
	CurrentUser model.User        `json:"currentUser"`
	Permissions model.Permissions `json:"permissions"`
}

// switchRequest is the body of PUT /session.
type switchRequest struct {
	UserID string `json:"userId"`
}

// Users handles GET /api/v1/users
func (h *SessionHandler) Users(w http.ResponseWriter, r *http.Request) {
	response.OK(w, auth.Users)
}

// Get handles GET /api/v1/session
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, sessionResponse(h.session.State()))
}

// Switch handles PUT /api/v1/session
func (h *SessionHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req switchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFormBytes)).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid JSON"))
		return
	}
	if req.UserID == "" {
		response.Error(w, apierror.ValidationError("", apierror.FieldError{Field: "userId", Message: "is required"}))
		return
	}

	state, err := h.session.Dispatch(auth.SwitchUser{UserID: req.UserID})
	if err != nil {
		response.Error(w, toAPIError(err))
		return
	}
	response.OK(w, sessionResponse(state))
}

func sessionResponse(s auth.State) SessionResponse {
	return SessionResponse{CurrentUser: s.CurrentUser, Permissions: s.Permissions()}
}
