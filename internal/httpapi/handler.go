package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kanishk-singh19/Wellness/internal/auth"
	"github.com/kanishk-singh19/Wellness/internal/sessions"
	"github.com/kanishk-singh19/Wellness/internal/store"
	"github.com/kanishk-singh19/Wellness/internal/token"
)

type Handler struct {
	auth     *auth.Service
	sessions *sessions.Service
	tokens   *token.Manager
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type saveSessionRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Tags        []string `json:"tags"`
	JSONFileURL string   `json:"json_file_url"`
	Status      string   `json:"status"`
}

type authResponse struct {
	User  interface{} `json:"user"`
	Token string      `json:"token"`
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewHandler(authSvc *auth.Service, sessionSvc *sessions.Service, tokens *token.Manager) *Handler {
	return &Handler{auth: authSvc, sessions: sessionSvc, tokens: tokens}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/auth/register", h.handleRegister)
	mux.HandleFunc("/api/auth/login", h.handleLogin)
	mux.HandleFunc("/api/auth/verify", h.handleVerify)
	mux.HandleFunc("/api/sessions/published", h.handlePublished)
	mux.HandleFunc("/api/sessions/user/", h.handleUserSessions)
	mux.HandleFunc("/api/sessions/create", h.handleSave)
	mux.HandleFunc("/api/sessions/", h.handleSessionByID)
	return AuthMiddleware(h.tokens, mux)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req registerRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	if req.FullName == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "full_name, email, password, and role are required")
		return
	}

	user, err := h.auth.Register(r.Context(), auth.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: signed})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req loginRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	user, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}

	signed, err := h.tokens.Issue(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: signed})
}

func (h *Handler) handleVerify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing or invalid token")
		return
	}

	user, err := h.auth.GetUser(r.Context(), identity.Subject)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

func (h *Handler) handlePublished(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	listed, err := h.sessions.ListPublished(r.Context())
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, listed)
}

func (h *Handler) handleUserSessions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	userID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sessions/user/"), "/")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "user id is required")
		return
	}

	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing or invalid token")
		return
	}

	owned, err := h.sessions.ListOwned(r.Context(), identity.Subject, userID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, owned)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing or invalid token")
		return
	}

	var req saveSessionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	session, err := h.sessions.Save(r.Context(), sessions.SaveInput{
		ID:          strings.TrimSpace(req.ID),
		Title:       req.Title,
		Tags:        req.Tags,
		JSONFileURL: req.JSONFileURL,
		Status:      req.Status,
		CallerID:    identity.Subject,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// handleSessionByID serves GET/DELETE /api/sessions/{id} and
// PUT /api/sessions/{id}/publish|unpublish.
func (h *Handler) handleSessionByID(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sessions/"), "/")
	parts := strings.Split(path, "/")

	switch {
	case len(parts) == 1 && parts[0] != "":
		h.dispatchSession(w, r, parts[0])
	case len(parts) == 2 && (parts[1] == "publish" || parts[1] == "unpublish"):
		h.handleStatusChange(w, r, parts[0], parts[1])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) dispatchSession(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		h.handleGet(w, r, id)
	case http.MethodDelete:
		h.handleDelete(w, r, id)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	// Anonymous callers may read published sessions; identity is only
	// needed to read one's own drafts.
	callerID := ""
	if identity, ok := identityFromContext(r.Context()); ok {
		callerID = identity.Subject
	}

	session, err := h.sessions.Get(r.Context(), id, callerID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing or invalid token")
		return
	}

	if err := h.sessions.Delete(r.Context(), id, identity.Subject); err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) handleStatusChange(w http.ResponseWriter, r *http.Request, id, action string) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity, ok := identityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "missing or invalid token")
		return
	}

	var session interface{}
	var err error
	if action == "publish" {
		session, err = h.sessions.Publish(r.Context(), id, identity.Subject)
	} else {
		session, err = h.sessions.Unpublish(r.Context(), id, identity.Subject)
	}
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusBadRequest, "duplicate_email", "email already registered"
	case errors.Is(err, auth.ErrInvalidRole):
		return http.StatusBadRequest, "invalid_request", "role must be member or practitioner"
	case errors.Is(err, auth.ErrWeakPassword):
		return http.StatusBadRequest, "invalid_request", "password must be at least 8 characters with upper case, lower case, and a digit"
	case errors.Is(err, sessions.ErrMissingFields):
		return http.StatusBadRequest, "invalid_request", "title and json_file_url are required"
	case errors.Is(err, sessions.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid_request", "status must be draft or published"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid credentials"
	case errors.Is(err, token.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid_token", "missing or invalid token"
	case errors.Is(err, sessions.ErrNotOwner):
		return http.StatusForbidden, "access_denied", "you do not own this session"
	case errors.Is(err, store.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found", "session not found"
	case errors.Is(err, store.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found", "user not found"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: responseError{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
