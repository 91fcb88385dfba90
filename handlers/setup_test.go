package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"studystream/internal/database"
	"studystream/models"
	"studystream/services/accounts"
	"studystream/services/schedules"
	"studystream/services/sessions"
	"studystream/utils"
)

// fakeSource is a playlist source returning canned videos or a canned error.
type fakeSource struct {
	videos []models.PlaylistVideo
	err    error
}

func (f *fakeSource) Fetch(ctx context.Context, playlistURL string) ([]models.PlaylistVideo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.videos, nil
}

type testEnv struct {
	server *httptest.Server
	source *fakeSource
	db     *database.DB
}

// setupTestEnv wires real services over a temp database behind the full
// router, with the playlist source faked out.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.NewDB(database.Config{DatabasePath: dbPath})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sessionsSvc, err := sessions.NewService(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("failed to create sessions service: %v", err)
	}

	source := &fakeSource{}
	accountsSvc := accounts.NewService(db.Users)
	schedulesSvc := schedules.NewService(db.Schedules)

	router := utils.NewRouter()
	RegisterRoutes(router,
		NewAuthHandler(accountsSvc, sessionsSvc),
		NewSchedulesHandler(source, schedulesSvc),
		sessionsSvc,
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, source: source, db: db}
}

// doJSON performs a JSON request and decodes the response body into out
// (skipped when out is nil). token may be empty for public endpoints.
func (e *testEnv) doJSON(t *testing.T, method, path, token string, body, out any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response body: %v", err)
		}
	}
	return resp
}

// registerAndLogin creates an account and returns a session token for it.
func (e *testEnv) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()

	resp := e.doJSON(t, http.MethodPost, "/api/auth/register", "",
		RegisterRequest{Username: username, Password: password}, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned status %d", resp.StatusCode)
	}

	var login LoginResponse
	resp = e.doJSON(t, http.MethodPost, "/api/auth/login", "",
		LoginRequest{Username: username, Password: password}, &login)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned status %d", resp.StatusCode)
	}
	return login.Token
}

// schedulePath builds the completion-toggle path for one entry.
func schedulePath(name, day, videoID string) string {
	return "/api/schedules/" + url.PathEscape(name) +
		"/days/" + url.PathEscape(day) +
		"/videos/" + url.PathEscape(videoID)
}
