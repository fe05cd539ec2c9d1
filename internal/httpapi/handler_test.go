package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kanishk-singh19/Wellness/internal/auth"
	"github.com/kanishk-singh19/Wellness/internal/models"
	"github.com/kanishk-singh19/Wellness/internal/sessions"
	"github.com/kanishk-singh19/Wellness/internal/store/memory"
	"github.com/kanishk-singh19/Wellness/internal/token"
)

func newTestHandler() http.Handler {
	st := memory.NewStore()
	tokens := token.NewManager([]byte("test-secret"), time.Hour)
	return NewHandler(auth.NewService(st), sessions.NewService(st), tokens).Routes()
}

func doJSON(t *testing.T, handler http.Handler, method, path, bearer string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, body)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func registerUser(t *testing.T, handler http.Handler, email string) (userID, bearer string) {
	t.Helper()
	resp := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"full_name": "Test User",
		"email":     email,
		"password":  "Sunrise42",
		"role":      "practitioner",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("register: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	return out.User.ID, out.Token
}

func createSession(t *testing.T, handler http.Handler, bearer string, payload map[string]interface{}) models.Session {
	t.Helper()
	resp := doJSON(t, handler, http.MethodPost, "/api/sessions/create", bearer, payload)
	if resp.Code != http.StatusOK {
		t.Fatalf("create session: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var session models.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &session); err != nil {
		t.Fatalf("decode session: %v", err)
	}
	return session
}

func TestRegisterLoginVerify(t *testing.T) {
	handler := newTestHandler()
	registerUser(t, handler, "anna@example.com")

	resp := doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "anna@example.com", "password": "Sunrise42",
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}

	resp = doJSON(t, handler, http.MethodPost, "/api/auth/verify", out.Token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler := newTestHandler()
	registerUser(t, handler, "anna@example.com")

	resp := doJSON(t, handler, http.MethodPost, "/api/auth/register", "", map[string]string{
		"full_name": "Other", "email": "anna@example.com", "password": "Sunrise42", "role": "member",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	handler := newTestHandler()
	registerUser(t, handler, "anna@example.com")

	resp := doJSON(t, handler, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "anna@example.com", "password": "Wrong1234",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestVerifyRejectsGarbageToken(t *testing.T) {
	handler := newTestHandler()
	resp := doJSON(t, handler, http.MethodPost, "/api/auth/verify", "not-a-token", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestCreateRequiresToken(t *testing.T) {
	handler := newTestHandler()
	resp := doJSON(t, handler, http.MethodPost, "/api/sessions/create", "", map[string]interface{}{
		"title": "T", "json_file_url": "http://x/y.json",
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestCreateValidation(t *testing.T) {
	handler := newTestHandler()
	_, bearer := registerUser(t, handler, "anna@example.com")

	resp := doJSON(t, handler, http.MethodPost, "/api/sessions/create", bearer, map[string]interface{}{
		"title": "No URL",
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestUpsertFlow(t *testing.T) {
	handler := newTestHandler()
	_, bearer := registerUser(t, handler, "anna@example.com")

	created := createSession(t, handler, bearer, map[string]interface{}{
		"title": "Title", "json_file_url": "http://x/y.json",
	})
	updated := createSession(t, handler, bearer, map[string]interface{}{
		"id": created.ID, "title": "New Title", "json_file_url": "http://x/y.json",
	})
	if updated.ID != created.ID || updated.Title != "New Title" {
		t.Fatalf("upsert mismatch: %+v", updated)
	}
}

func TestOwnershipEnforcedOverHTTP(t *testing.T) {
	handler := newTestHandler()
	_, ownerBearer := registerUser(t, handler, "owner@example.com")
	_, otherBearer := registerUser(t, handler, "other@example.com")

	session := createSession(t, handler, ownerBearer, map[string]interface{}{
		"title": "Mine", "json_file_url": "http://x/y.json",
	})

	if resp := doJSON(t, handler, http.MethodPut, "/api/sessions/"+session.ID+"/publish", otherBearer, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("publish by non-owner: expected 403, got %d", resp.Code)
	}
	if resp := doJSON(t, handler, http.MethodDelete, "/api/sessions/"+session.ID, otherBearer, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("delete by non-owner: expected 403, got %d", resp.Code)
	}
	if resp := doJSON(t, handler, http.MethodPost, "/api/sessions/create", otherBearer, map[string]interface{}{
		"id": session.ID, "title": "Taken", "json_file_url": "http://x/y.json",
	}); resp.Code != http.StatusForbidden {
		t.Fatalf("update by non-owner: expected 403, got %d", resp.Code)
	}

	if resp := doJSON(t, handler, http.MethodPut, "/api/sessions/"+session.ID+"/publish", ownerBearer, nil); resp.Code != http.StatusOK {
		t.Fatalf("publish by owner: expected 200, got %d", resp.Code)
	}
}

func TestPublishedListingPublic(t *testing.T) {
	handler := newTestHandler()
	_, bearer := registerUser(t, handler, "anna@example.com")

	session := createSession(t, handler, bearer, map[string]interface{}{
		"title": "Morning Yoga", "json_file_url": "http://x/y.json",
	})

	resp := doJSON(t, handler, http.MethodGet, "/api/sessions/published", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var listed []models.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("draft leaked into public listing: %+v", listed)
	}

	if resp := doJSON(t, handler, http.MethodPut, "/api/sessions/"+session.ID+"/publish", bearer, nil); resp.Code != http.StatusOK {
		t.Fatalf("publish: expected 200, got %d", resp.Code)
	}

	resp = doJSON(t, handler, http.MethodGet, "/api/sessions/published", "", nil)
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != session.ID {
		t.Fatalf("published session missing: %+v", listed)
	}
}

func TestUserSessionsRequireMatchingSubject(t *testing.T) {
	handler := newTestHandler()
	ownerID, ownerBearer := registerUser(t, handler, "owner@example.com")
	_, otherBearer := registerUser(t, handler, "other@example.com")

	if resp := doJSON(t, handler, http.MethodGet, "/api/sessions/user/"+ownerID, "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", resp.Code)
	}
	if resp := doJSON(t, handler, http.MethodGet, "/api/sessions/user/"+ownerID, otherBearer, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("mismatched subject: expected 403, got %d", resp.Code)
	}
	if resp := doJSON(t, handler, http.MethodGet, "/api/sessions/user/"+ownerID, ownerBearer, nil); resp.Code != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d", resp.Code)
	}
}

func TestDeleteTwiceReportsNotFound(t *testing.T) {
	handler := newTestHandler()
	_, bearer := registerUser(t, handler, "anna@example.com")
	session := createSession(t, handler, bearer, map[string]interface{}{
		"title": "T", "json_file_url": "http://x/y.json",
	})

	if resp := doJSON(t, handler, http.MethodDelete, "/api/sessions/"+session.ID, bearer, nil); resp.Code != http.StatusOK {
		t.Fatalf("first delete: expected 200, got %d", resp.Code)
	}
	if resp := doJSON(t, handler, http.MethodDelete, "/api/sessions/"+session.ID, bearer, nil); resp.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", resp.Code)
	}
}

func TestGetPublishedSessionAnonymously(t *testing.T) {
	handler := newTestHandler()
	_, bearer := registerUser(t, handler, "anna@example.com")
	session := createSession(t, handler, bearer, map[string]interface{}{
		"title": "T", "json_file_url": "http://x/y.json", "status": "published",
	})

	resp := doJSON(t, handler, http.MethodGet, "/api/sessions/"+session.ID, "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var got models.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Views != 1 {
		t.Fatalf("expected view counted, got %d", got.Views)
	}
}

func TestGetForeignDraftForbidden(t *testing.T) {
	handler := newTestHandler()
	_, ownerBearer := registerUser(t, handler, "owner@example.com")
	_, otherBearer := registerUser(t, handler, "other@example.com")
	session := createSession(t, handler, ownerBearer, map[string]interface{}{
		"title": "Draft", "json_file_url": "http://x/y.json",
	})

	if resp := doJSON(t, handler, http.MethodGet, "/api/sessions/"+session.ID, otherBearer, nil); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.Code)
	}
}
