//go:build integration

package e2e

import (
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/itsmeurbi/medical-control-electron-sub000/internal/auth"
	httpserver "github.com/itsmeurbi/medical-control-electron-sub000/internal/http"
	"github.com/itsmeurbi/medical-control-electron-sub000/internal/testutil"
)

const testAppKey = "e2e-app-key"

// TestServer bundles a real database, a full router and an in-memory
// publisher into one end-to-end environment.
type TestServer struct {
	Server        *httptest.Server
	DB            *sql.DB
	MockPublisher *testutil.MockPublisher
	Sessions      *auth.Sessions
}

// SetupE2ETest connects to the local test database, ensures the schema and
// serves the complete route table over httptest.
func SetupE2ETest(t *testing.T) *TestServer {
	t.Helper()

	conn := testutil.SetupTestDB(t)
	mockPublisher := testutil.NewMockPublisher()

	sessions := auth.NewSessions(auth.Config{
		AppKey:        testAppKey,
		SessionSecret: "e2e-session-secret",
		SessionTTL:    time.Hour,
	})

	router := httpserver.SetupRouter(conn, sessions, mockPublisher, nil)
	server := httptest.NewServer(router)

	return &TestServer{
		Server:        server,
		DB:            conn,
		MockPublisher: mockPublisher,
		Sessions:      sessions,
	}
}

// Cleanup shuts the server down and truncates the test tables. The database
// handle itself is closed by the SetupTestDB cleanup hook.
func (ts *TestServer) Cleanup(t *testing.T) {
	t.Helper()

	ts.Server.Close()
	testutil.CleanupTestDB(t, ts.DB)
}

// SessionToken issues a valid operator session token.
func (ts *TestServer) SessionToken(t *testing.T) string {
	t.Helper()

	token, _, err := ts.Sessions.Issue(testAppKey)
	if err != nil {
		t.Fatalf("Failed to issue session token: %v", err)
	}
	return token
}

// NewClient creates an HTTP test client bound to this server with the given
// token.
func (ts *TestServer) NewClient(token string) *testutil.HTTPTestClient {
	return testutil.NewHTTPTestClient(ts.Server.URL, token)
}
