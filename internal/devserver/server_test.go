package devserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nocturna/internal/config"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	_, router := New(config.ServerConfig{
		JWTSecret:   "test-secret",
		JWTIssuer:   "nocturna-test",
		JWTDuration: time.Hour,
	})
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router http.Handler, email, password string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestPublicReadsNeedNoToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/personajes?page=1&limit=8", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/obras", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestWritesRejectedWithoutToken(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/api/personajes", "", map[string]string{
		"nombre": "Carmilla", "tipo": "Vampiro",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWritesRejectedForNonAdmin(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "invitado@nocturna.dev", "nocturna-guest")

	w := doJSON(t, router, http.MethodPost, "/api/personajes", token, map[string]string{
		"nombre": "Carmilla", "tipo": "Vampiro",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminCanWrite(t *testing.T) {
	router := newTestRouter(t)
	token := login(t, router, "admin@nocturna.dev", "nocturna-admin")

	w := doJSON(t, router, http.MethodPost, "/api/personajes", token, map[string]any{
		"nombre": "Carmilla", "tipo": "Vampiro", "clasificacion": "Antagonista",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestGarbageTokenRejected(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodDelete, "/api/obras/x", "not-a-jwt", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
