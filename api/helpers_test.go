package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/garnizeh/feedback/api"
	dbfs "github.com/garnizeh/feedback/db"
	"github.com/garnizeh/feedback/internal/auth"
	"github.com/garnizeh/feedback/internal/config"
	"github.com/garnizeh/feedback/internal/models"
	"github.com/garnizeh/feedback/internal/seed"
	"github.com/garnizeh/feedback/pkg/repository/mock"
)

const testSecret = "test-secret"

func TestMain(m *testing.M) {
	api.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

type testServer struct {
	router http.Handler
	store  *mock.Store
}

// newTestServer serves the demo fixture from an in-memory store.
func newTestServer(t *testing.T, opts ...auth.Option) *testServer {
	t.Helper()
	ctx := context.Background()

	store := mock.NewStore()
	fx, err := seed.LoadFS(dbfs.SeedFiles, "seed/demo.yaml")
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	s := seed.New(store, nil)
	s.Cost = bcrypt.MinCost
	if err := s.Apply(ctx, fx); err != nil {
		t.Fatalf("apply fixture: %v", err)
	}

	cfg := &config.Config{JWTSecret: testSecret, TokenTTL: 24 * time.Hour}
	r, err := api.SetupRoutes(cfg, "test", "now", store, opts...)
	if err != nil {
		t.Fatalf("SetupRoutes: %v", err)
	}

	return &testServer{router: r, store: store}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	header := ""
	if token != "" {
		header = "Bearer " + token
	}
	return ts.doRaw(t, method, path, header, body)
}

// doRaw sends the request with authorization as the literal Authorization header.
func (ts *testServer) doRaw(t *testing.T, method, path, authorization string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) login(t *testing.T, username string) string {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/login", "", map[string]string{"username": username, "password": "password"})
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", username, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	if resp.Token == "" {
		t.Fatalf("login %s: empty token", username)
	}
	return resp.Token
}

func (ts *testServer) user(t *testing.T, username string) *models.User {
	t.Helper()
	u, err := ts.store.GetUserByUsername(context.Background(), username)
	if err != nil || u == nil {
		t.Fatalf("user %s: %#v err=%v", username, u, err)
	}
	return u
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) api.ErrorDetail {
	t.Helper()
	var resp api.ErrorResponse
	decode(t, w, &resp)
	return resp.Error
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("want status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}
