package console

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/api"
	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/handlers"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
)

func setupTestBackend(t *testing.T) *httptest.Server {
	t.Helper()

	st, err := sqlite.NewSQLiteStore(":memory:", "../../migrations")
	require.NoError(t, err)

	config := &app.Config{}
	config.Server.AdminUsername = "admin"
	config.Server.AdminPassword = "hunter22"
	config.Sessions.TokenTTL = "1h"
	config.Stats.RecentActivityLimit = 8

	service := &app.Service{
		Config:   config,
		Store:    st,
		Sessions: app.NewMemorySessions(time.Hour),
	}
	require.NoError(t, service.EnsureAdminAccount())

	root := chi.NewRouter()
	root.Mount("/api", handlers.New(service).Routes())

	server := httptest.NewServer(root)
	t.Cleanup(func() {
		server.Close()
		service.Close()
	})
	return server
}

func newTestConsole(t *testing.T, server *httptest.Server, script string) (*Console, *bytes.Buffer) {
	t.Helper()

	var out bytes.Buffer
	client := api.NewClient(api.Config{BaseURL: server.URL}, &api.MemCredentialStore{}, func() {
		out.WriteString("Session expired, please login again\n")
	})

	return &Console{
		client: client,
		in:     bufio.NewReader(strings.NewReader(script)),
		out:    &out,
	}, &out
}

func TestConsoleDrivesFullStack(t *testing.T) {
	server := setupTestBackend(t)
	csvPath := filepath.Join(t.TempDir(), "students.csv")

	script := strings.Join([]string{
		"login admin",
		"hunter22",
		"students add",
		"S1001",
		"Alice Meyer",
		"alice@example.edu",
		"", // keep the STUDENT default
		"courses add",
		"Intro to Computing",
		"CS101",
		"5",
		"Prof. Lindqvist",
		"registrations add",
		"1",
		"1",
		"2026-02-01",
		"results add",
		"1",
		"1",
		"A-",
		"students filter alice",
		"export students " + csvPath,
		"dashboard",
		"results delete 1",
		"y",
		"logout",
		"exit",
	}, "\n") + "\n"

	console, out := newTestConsole(t, server, script)
	require.NoError(t, console.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "OK: logged in as admin (ADMIN)")
	assert.Contains(t, output, "OK: created student S1001 (id 1)")
	assert.Contains(t, output, "OK: created course CS101 (id 1)")
	assert.Contains(t, output, "OK: registered S1001 for CS101")
	assert.Contains(t, output, "OK: recorded A- for S1001 in CS101")
	assert.Contains(t, output, "Alice Meyer")
	assert.Contains(t, output, "OK: wrote 1 students to")
	assert.Contains(t, output, "3.70")
	assert.Contains(t, output, "A-=1")
	assert.Contains(t, output, "Recent:")
	assert.Contains(t, output, "OK: deleted result 1")
	assert.Contains(t, output, "OK: logged out")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "S1001", records[1][1])
}

func TestConsoleValidationFeedback(t *testing.T) {
	server := setupTestBackend(t)

	script := strings.Join([]string{
		"login admin",
		"hunter22",
		"courses add",
		"Intro",
		"cs101", // lowercase, rejected
		"many",  // not a number
		"Prof. Lindqvist",
		"exit",
	}, "\n") + "\n"

	console, out := newTestConsole(t, server, script)
	require.NoError(t, console.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "Please fix:")
	assert.Contains(t, output, "code: must look like CS101")
	assert.Contains(t, output, "credits: must be a whole number")
}

func TestConsoleUnknownCommand(t *testing.T) {
	server := setupTestBackend(t)

	script := "frobnicate\nwhoami\nexit\n"
	console, out := newTestConsole(t, server, script)
	require.NoError(t, console.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, `Unknown command "frobnicate"`)
	assert.Contains(t, output, "Not logged in")
}

func TestConsoleRejectedLogin(t *testing.T) {
	server := setupTestBackend(t)

	script := strings.Join([]string{
		"login admin",
		"wrong-password",
		"exit",
	}, "\n") + "\n"

	console, out := newTestConsole(t, server, script)
	require.NoError(t, console.Run(context.Background()))

	output := out.String()
	assert.Contains(t, output, "Invalid username or password")
	assert.NotContains(t, output, "Session expired")
}

func TestReadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"http://localhost:9999\"\n"), 0o644))

	config, err := ReadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9999", config.API.BaseURL)
	assert.Equal(t, ".semla-credentials.json", config.CredentialsFile)
	assert.Equal(t, 10*time.Second, config.APITimeout())
}

func TestReadConfigRequiresBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "admin.toml")
	require.NoError(t, os.WriteFile(path, []byte("credentials_file = \"x.json\"\n"), 0o644))

	_, err := ReadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}
