package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/pkg/config"
)

var fixedNow = time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type fakeAPI struct {
	mu         sync.Mutex
	auth       []string
	denyAccess bool
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.auth = append(f.auth, r.Header.Get("Authorization"))
	f.mu.Unlock()
	switch r.URL.Path {
	case "/api/v1/doctors":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"items": []map[string]interface{}{
				{"id": "d1", "full_name": "dr. Zaki", "specialization": "Cardiology", "status": "Active"},
				{"id": "d2", "full_name": "Dr. Ana", "specialization": "Pediatrics", "status": "On Leave"},
				{"id": "d3", "full_name": "dr. budi", "specialization": "Cardiology", "status": "Active"},
			},
			"pagination": map[string]int{"page": 1, "page_size": 100, "total_count": 3, "total_pages": 1},
		})
	case "/api/v1/doctors/stats":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"total": 3, "byStatus": map[string]int{"Active": 2}, "counters": map[string]int{"onLeave": 1}},
		})
	case "/api/v1/dashboard":
		if f.denyAccess {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "token expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"clinics":      map[string]interface{}{"total": 2, "counters": map[string]int{"active": 1}},
				"appointments": map[string]interface{}{"total": 5, "counters": map[string]int{"todayCount": 2, "upcomingCount": 1, "cancelled": 1}},
				"invoices":     map[string]interface{}{"total": 4, "counters": map[string]int{"outstanding": 3, "overdue": 1}},
				"revenue":      map[string]int64{"billedCents": 30000, "collectedCents": 10000, "outstandingCents": 20000},
			},
		})
	case "/api/v1/appointments":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"items": []map[string]interface{}{
				{"id": "a1", "status": "Pending", "appointment_date": "2024-01-10T00:00:00Z"},
				{"id": "a2", "status": "Confirmed", "appointment_date": "2024-01-05T00:00:00Z"},
				{"id": "a3", "status": "No Show", "appointment_date": "2024-01-05T00:00:00Z"},
			},
			"pagination": map[string]int{"page": 1, "page_size": 100, "total_count": 3, "total_pages": 1},
		})
	default:
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "token expired"})
	}
}

func run(t *testing.T, api *fakeAPI, args ...string) (string, string, error) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Client:    config.ClientConfig{BaseURL: srv.URL + "/api/v1", Timeout: 5 * time.Second, Token: "tok"},
		View:      config.ViewConfig{Timezone: "UTC", Locale: "en"},
		Dashboard: config.DashboardConfig{RefreshInterval: 10 * time.Millisecond},
	}
	var out, errOut bytes.Buffer
	root := NewRootCommand(Options{Config: cfg, Out: &out, Err: &errOut, Now: func() time.Time { return fixedNow }})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestListFiltersAndSortsClientSide(t *testing.T) {
	api := &fakeAPI{}
	out, _, err := run(t, api, "doctors", "list", "--filter", "specialization=cardio", "--sort", "doctor_name")
	require.NoError(t, err)

	budi := strings.Index(out, "dr. budi")
	zaki := strings.Index(out, "dr. Zaki")
	require.NotEqual(t, -1, budi)
	require.NotEqual(t, -1, zaki)
	assert.Less(t, budi, zaki)
	assert.NotContains(t, out, "Dr. Ana")
	assert.Contains(t, out, "2 of 3 doctors")
	assert.Equal(t, "Bearer tok", api.auth[0])
}

func TestListSearch(t *testing.T) {
	out, _, err := run(t, &fakeAPI{}, "doctors", "list", "--search", "PEDIA")
	require.NoError(t, err)
	assert.Contains(t, out, "Dr. Ana")
	assert.Contains(t, out, "1 of 3 doctors")
}

func TestListRejectsMalformedFilter(t *testing.T) {
	_, _, err := run(t, &fakeAPI{}, "doctors", "list", "--filter", "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key=value")
}

func TestStatsFromServerAndLocal(t *testing.T) {
	out, _, err := run(t, &fakeAPI{}, "doctors", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "total")
	assert.Contains(t, out, "onLeave")

	out, _, err = run(t, &fakeAPI{}, "appointments", "stats", "--local")
	require.NoError(t, err)
	assert.Regexp(t, `todayCount\s+2`, out)
	assert.Regexp(t, `cancelled\s+1`, out)
}

func TestExportWritesProjection(t *testing.T) {
	target := filepath.Join(t.TempDir(), "doctors.csv")
	out, _, err := run(t, &fakeAPI{}, "doctors", "export", "--format", "csv", "--out", target)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+target)

	body, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Doctor Code")
	assert.Contains(t, string(body), "dr. Zaki")
}

func TestUnauthorizedPrintsLoginHint(t *testing.T) {
	_, errOut, err := run(t, &fakeAPI{}, "invoices", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
	assert.Contains(t, errOut, loginHint)
}

func TestWatchStopsAfterCount(t *testing.T) {
	out, _, err := run(t, &fakeAPI{}, "appointments", "watch", "--count", "2", "--interval", "10ms")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Contains(t, lines[0], "total=3 scheduled=1 confirmed=1 completed=0 cancelled=1 today=2 upcoming=1")
}

func TestDashboardPrintsSummary(t *testing.T) {
	out, _, err := run(t, &fakeAPI{}, "dashboard")
	require.NoError(t, err)
	assert.Regexp(t, `clinics\s+2\s+active=1`, out)
	assert.Regexp(t, `appointments\s+5\s+todayCount=2 upcomingCount=1 cancelled=1`, out)
	assert.Regexp(t, `invoices\s+4\s+outstanding=3 overdue=1`, out)
	assert.Contains(t, out, "revenue billed=30000 collected=10000 outstanding=20000")
}

func TestDashboardWatchStopsAfterCount(t *testing.T) {
	api := &fakeAPI{}
	out, _, err := run(t, api, "dashboard", "--watch", "--count", "2", "--interval", "10ms")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, strings.Count(out, "dashboard "), 2)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.GreaterOrEqual(t, len(api.auth), 2)
}

func TestDashboardWatchStopsOnUnauthorized(t *testing.T) {
	_, errOut, err := run(t, &fakeAPI{denyAccess: true}, "dashboard", "--watch", "--interval", "10ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token expired")
	assert.Contains(t, errOut, loginHint)
}
