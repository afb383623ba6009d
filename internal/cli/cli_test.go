package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pfrederiksen/fringe-events/internal/config"
	"github.com/pfrederiksen/fringe-events/internal/logger"
	"github.com/pfrederiksen/fringe-events/internal/show"
	"github.com/pfrederiksen/fringe-events/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fringeSite serves the listing, detail and showtime endpoints from the scraper fixtures
func fringeSite(t *testing.T) *httptest.Server {
	t.Helper()
	read := func(name string) []byte {
		b, err := os.ReadFile(filepath.Join(fixtureDir, name))
		require.NoError(t, err)
		return b
	}
	index, detail, times := read("index.html"), read("detail.html"), read("showtimes.json")

	mux := http.NewServeMux()
	mux.HandleFunc("/events/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(index)
	})
	mux.HandleFunc("/event/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ":1003") {
			http.Error(w, "gone", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write(detail)
	})
	mux.HandleFunc("/wp-admin/admin-ajax.php", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(times)
	})
	return httptest.NewServer(mux)
}

// isolateEnv clears the variables the command reads and moves to an empty directory
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvConnectionString, config.EnvConcurrency, config.EnvBaseURL,
		config.EnvWindowStart, config.EnvWindowEnd,
	} {
		t.Setenv(key, "")
	}
	t.Chdir(t.TempDir())
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestFringeSite_ServesFixturesAfterChdir(t *testing.T) {
	isolateEnv(t)
	site := fringeSite(t)
	defer site.Close()

	resp, err := http.Get(site.URL + "/events/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "card")
}

func TestRootCmd_EndToEnd(t *testing.T) {
	isolateEnv(t)
	site := fringeSite(t)
	defer site.Close()

	dbPath := filepath.Join(t.TempDir(), "fringe.db")
	out, err := runCommand(t,
		"--db", "sqlite:"+dbPath,
		"--base-url", site.URL,
		"--concurrency", "2",
		"--migrate",
	)
	require.NoError(t, err, out)

	// 1003 fails, so its showtimes are dropped as orphans
	assert.Contains(t, out, "Shows:           2 scraped, 1 failed")
	assert.Contains(t, out, "Failed shows:     1003")
	assert.Contains(t, out, "Saved 2 shows, 4 showtimes, 1 venues, 1 content ratings (2 orphan showtimes dropped)")

	store, err := storage.Open(t.Context(), config.Connection{Dialect: config.DialectSQLite, DSN: dbPath})
	require.NoError(t, err)
	defer store.Close()

	var stored []show.Show
	require.NoError(t, store.DB().Preload("Venue").Order("id").Find(&stored).Error)
	require.Len(t, stored, 2)
	assert.Equal(t, 1001, stored[0].ID)
	assert.Equal(t, "Hamlet & the Ice Queen", stored[0].Title)
	assert.Equal(t, 7, stored[0].Venue.VenueNumber)
}

func TestRootCmd_DryRunJSONList(t *testing.T) {
	isolateEnv(t)
	site := fringeSite(t)
	defer site.Close()

	t.Setenv(config.EnvConnectionString, "postgres://fringe@db.invalid:5432/fringe")

	out, err := runCommand(t,
		"--base-url", site.URL,
		"--dry-run",
		"--list",
		"--sort", "venue",
		"--format", "json",
	)
	require.NoError(t, err, out)

	dec := json.NewDecoder(strings.NewReader(out))
	var summary RunSummary
	require.NoError(t, dec.Decode(&summary))
	assert.True(t, summary.DryRun)
	assert.Equal(t, 3, summary.ShowIDs)
	assert.Equal(t, 2, summary.Shows)
	assert.Equal(t, 6, summary.ShowTimes)
	assert.Nil(t, summary.Persisted)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, int64(2), summary.Metrics.Counters["detail.ok"])

	var list ShowList
	require.NoError(t, dec.Decode(&list))
	assert.Equal(t, SortByVenue, list.Sort)
	assert.Equal(t, 2, list.Count)
}

func TestRootCmd_MissingConnectionString(t *testing.T) {
	isolateEnv(t)

	_, err := runCommand(t, "--base-url", "http://127.0.0.1:1")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingConnectionString)
}

func TestRootCmd_RestoresDefaultLogger(t *testing.T) {
	isolateEnv(t)
	prev := logger.Default()

	_, err := runCommand(t, "--log-format", "json")
	require.Error(t, err)
	assert.Same(t, prev, logger.Default())
}

func TestRootCmd_InvalidFlags(t *testing.T) {
	isolateEnv(t)

	tests := [][]string{
		{"--format", "yaml"},
		{"--sort", "price"},
		{"--log-level", "loud"},
		{"--log-format", "xml"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			_, err := runCommand(t, append(args, "--db", "sqlite:/tmp/unused.db")...)
			assert.Error(t, err)
		})
	}
}

func TestResolveConfig_Precedence(t *testing.T) {
	isolateEnv(t)

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"FRINGE_DB_CONNECTION=sqlite:/from/file.db\nFRINGE_CONCURRENCY=3\nFRINGE_BASE_URL=http://file.example\n"), 0o600))
	t.Setenv(config.EnvConcurrency, "9")
	os.Unsetenv(config.EnvConnectionString)
	os.Unsetenv(config.EnvBaseURL)

	opts := &options{}
	cmd := newRootCmd(opts)
	require.NoError(t, cmd.ParseFlags([]string{"--env-file", envFile, "--db", "sqlite:/from/flag.db"}))

	cfg, err := resolveConfig(cmd, opts)
	require.NoError(t, err)
	assert.Equal(t, "sqlite:/from/flag.db", cfg.ConnectionString, "flag beats env file")
	assert.Equal(t, 9, cfg.Concurrency, "environment beats env file")
	assert.Equal(t, "http://file.example", cfg.BaseURL, "env file beats flag default")
}

func TestRootCmd_ListFilterAndCalendar(t *testing.T) {
	isolateEnv(t)
	site := fringeSite(t)
	defer site.Close()

	icsPath := filepath.Join(t.TempDir(), "fringe.ics")
	out, err := runCommand(t,
		"--db", "sqlite:/tmp/unused.db",
		"--base-url", site.URL,
		"--dry-run",
		"--ics", icsPath,
		"--list",
		"--venue", "99",
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "No shows found.")

	ics, err := os.ReadFile(icsPath)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(ics), "BEGIN:VEVENT"), "performances of the failed show are skipped")
	assert.Contains(t, string(ics), "/event/601:1001")

	out, err = runCommand(t,
		"--db", "sqlite:/tmp/unused.db",
		"--base-url", site.URL,
		"--dry-run",
		"--list",
		"--tag", "improv",
		"--dates", "Aug 14-15",
	)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Total: 2 shows")
}

func TestBuildFilter(t *testing.T) {
	f, err := buildFilter(&options{dates: "Aug 14-18", venues: []int{7}}, 2025)
	require.NoError(t, err)
	require.NotNil(t, f.DateFrom)
	assert.Equal(t, 2025, f.DateFrom.Year())
	assert.Equal(t, []int{7}, f.Venues)

	_, err = buildFilter(&options{dates: "soon"}, 2025)
	assert.Error(t, err)
	_, err = buildFilter(&options{maxPrice: -1}, 2025)
	assert.Error(t, err)
}
