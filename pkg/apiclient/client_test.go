package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clinic-admin-api/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, store CredentialStore, onUnauthorized func()) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api/v1/"}, store, onUnauthorized)
}

func TestClientReadsTokenAtRequestTime(t *testing.T) {
	var seen []string
	store := NewMemoryStore("first")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]string{"id": "c1"}})
	}, store, nil)

	_, err := client.Clinics().Get(context.Background(), "c1")
	require.NoError(t, err)
	store.Set("second")
	_, err = client.Clinics().Get(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second"}, seen)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]string{"id": "c1"}})
	}, NewMemoryStore(""), nil)

	_, err := client.Clinics().Get(context.Background(), "c1")
	require.NoError(t, err)
}

func TestClientUnauthorizedClearsStoreOnce(t *testing.T) {
	var calls int32
	store := NewMemoryStore("expired")
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"success": false,
			"message": "unauthorized",
			"error":   map[string]interface{}{"code": "UNAUTHORIZED", "message": "unauthorized", "status": 401},
		})
	}, store, func() { atomic.AddInt32(&calls, 1) })

	_, err := client.Patients().Get(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "", store.Token())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	_, err = client.Patients().List(context.Background(), ListParams{})
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestResourceListSendsParamsAndDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/appointments", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "budi", q.Get("search"))
		assert.Equal(t, "appointment_date_asc", q.Get("sort"))
		assert.Equal(t, "cancelled", q.Get("status"))
		assert.Equal(t, "2", q.Get("page"))
		assert.False(t, q.Has("date"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"items":      []map[string]string{{"id": "a1", "status": "No Show"}},
			"stats":      map[string]interface{}{"total": 3, "byStatus": map[string]int{"No Show": 1}, "counters": map[string]int{"cancelled": 1}},
			"pagination": map[string]int{"page": 2, "page_size": 20, "total_count": 21, "total_pages": 2},
		})
	}, nil, nil)

	page, err := client.Appointments().List(context.Background(), ListParams{
		Search:  "budi",
		Sort:    "appointment_date_asc",
		Filters: map[string]string{"status": "cancelled", "date": ""},
		Page:    2,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.AppointmentStatusNoShow, page.Items[0].Status)
	assert.Equal(t, 3, page.Stats.Total)
	assert.Equal(t, 1, page.Stats.Counter("cancelled"))
	assert.Equal(t, 21, page.Pagination.TotalCount)
}

func TestResourceAllWalksPages(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success":    true,
			"items":      []map[string]string{{"id": "n" + strconv.Itoa(page)}},
			"pagination": map[string]int{"page": page, "page_size": 100, "total_count": 3, "total_pages": 3},
		})
	}, nil, nil)

	nurses, err := client.Nurses().All(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, nurses, 3)
	assert.Equal(t, "n3", nurses[2].ID)
}

func TestResourceFailureSurfacesServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"message": "invalid appointment payload",
			"error": map[string]interface{}{
				"code":    "VALIDATION_ERROR",
				"message": "invalid appointment payload",
				"status":  400,
				"fields":  map[string]string{"time_slot": "must be a valid time"},
			},
		})
	}, nil, nil)

	_, err := client.Appointments().Create(context.Background(), map[string]string{"time_slot": "9am"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Contains(t, apiErr.Fields, "time_slot")
	assert.Equal(t, "invalid appointment payload", UserMessage(err, "something went wrong"))
}

func TestResourceSuccessFalseWithOKStatusIsFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": false})
	}, nil, nil)

	_, err := client.Invoices().Get(context.Background(), "i1")
	require.Error(t, err)
	assert.Equal(t, "could not load invoice", UserMessage(err, "could not load invoice"))
}

func TestResourceDeleteAcceptsNoContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/referrals/r1", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}, nil, nil)

	require.NoError(t, client.Referrals().Delete(context.Background(), "r1"))
}

func TestResourceCreateSendsBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]string
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.Equal(t, "Klinik Sehat", body["name"])
		writeJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "data": map[string]string{"id": "c9", "name": "Klinik Sehat"}})
	}, nil, nil)

	clinic, err := client.Clinics().Create(context.Background(), map[string]string{"name": "Klinik Sehat"})
	require.NoError(t, err)
	assert.Equal(t, "c9", clinic.ID)
}

func TestResourceStatsAndDownload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/doctors/stats":
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": map[string]interface{}{"total": 4}})
		case "/api/v1/doctors/export":
			assert.Equal(t, "csv", r.URL.Query().Get("format"))
			w.Header().Set("Content-Disposition", `attachment; filename="doctors_20240105_090000.csv"`)
			w.Header().Set("Content-Type", "text/csv")
			_, _ = w.Write([]byte("Name\nDr. Sari\n"))
		default:
			http.NotFound(w, r)
		}
	}, nil, nil)

	stats, err := client.Doctors().Stats(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)

	body, name, err := client.Doctors().Download(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "doctors_20240105_090000.csv", name)
	assert.Equal(t, "Name\nDr. Sari\n", string(body))
}

func TestTransportFailureUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := New(Config{BaseURL: srv.URL}, nil, nil)

	_, err := client.Patients().Get(context.Background(), "p1")
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Equal(t, "network error", UserMessage(err, "network error"))
}

func TestSequencerDropsStaleResponses(t *testing.T) {
	var seq Sequencer
	first := seq.Next()
	second := seq.Next()

	assert.True(t, seq.Apply(second))
	assert.False(t, seq.Apply(first))
	assert.Equal(t, second, seq.Applied())
	assert.True(t, seq.Apply(seq.Next()))
}

func TestDashboardDecodesSummary(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/dashboard", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("clinicId"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"clinicId":     "c1",
				"appointments": map[string]interface{}{"total": 4, "counters": map[string]int{"todayCount": 2}},
				"revenue":      map[string]int64{"outstandingCents": 1500},
			},
		})
	}, NewMemoryStore("tok"), nil)

	summary, err := client.Dashboard(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", summary.ClinicID)
	assert.Equal(t, 4, summary.Appointments.Total)
	assert.Equal(t, 2, summary.Appointments.Counter("todayCount"))
	assert.Equal(t, int64(1500), summary.Revenue.OutstandingCents)
}

func TestDashboardFailureUsesServerMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{"success": false, "message": "dashboard is disabled"})
	}, NewMemoryStore("tok"), nil)

	_, err := client.Dashboard(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, "dashboard is disabled", UserMessage(err, "the server could not be reached"))
}
