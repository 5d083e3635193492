package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func observationsJSON(values ...string) string {
	type obs struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	}
	var list []obs
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range values {
		list = append(list, obs{
			Date:  base.AddDate(0, i, 0).Format("2006-01-02"),
			Value: v,
		})
	}
	b, _ := json.Marshal(map[string]any{"observations": list})
	return string(b)
}

// seriesServer serves canned observations keyed by series_id.
func seriesServer(t *testing.T, series map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "json", r.URL.Query().Get("file_type"))
		require.NotEmpty(t, r.URL.Query().Get("api_key"))

		body, ok := series[r.URL.Query().Get("series_id")]
		if !ok {
			http.Error(w, `{"error_message":"series does not exist"}`, http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, body)
	}))
}

func TestClient_SeriesObservations(t *testing.T) {
	srv := seriesServer(t, map[string]string{
		"UNRATE": observationsJSON("3.7", ".", "3.9"),
	})
	defer srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL))
	obs, err := client.SeriesObservations(context.Background(), "UNRATE", time.Time{}, time.Time{})

	require.NoError(t, err)
	require.Len(t, obs, 2, "missing values reported as \".\" are skipped")
	assert.Equal(t, 3.7, obs[0].Value)
	assert.Equal(t, 3.9, obs[1].Value)
	assert.True(t, obs[1].Date.After(obs[0].Date))
}

func TestClient_SeriesObservations_ErrorStatus(t *testing.T) {
	srv := seriesServer(t, nil)
	defer srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL))
	_, err := client.SeriesObservations(context.Background(), "NOPE", time.Time{}, time.Time{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE")
	assert.Contains(t, err.Error(), "status 400")
}

func TestClient_SourceReleases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/source/releases", r.URL.Path)
		assert.Equal(t, "22", r.URL.Query().Get("source_id"))
		assert.Equal(t, "desc", r.URL.Query().Get("sort_order"))

		json.NewEncoder(w).Encode(map[string]any{
			"releases": []map[string]any{
				{"id": 50, "name": "Employment Situation", "press_release": true},
				{"id": 10, "name": "Consumer Price Index", "press_release": true},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL))
	releases, err := client.SourceReleases(context.Background(), SourceBLS, 5)

	require.NoError(t, err)
	require.Len(t, releases, 2)
	assert.Equal(t, "Employment Situation", releases[0].Name)
	assert.True(t, releases[0].PressRelease)
}

func TestClient_RecentReleases_SkipsUnknownAndFailedSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("source_id") == "18" {
			http.Error(w, "unavailable", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"releases": []map[string]any{{"id": 1, "name": "H.15 Selected Interest Rates"}},
		})
	}))
	defer srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL))
	releases, err := client.RecentReleases(context.Background(), []string{"fed", "bea", "not-a-source"}, 5)

	require.Error(t, err, "the bea failure is surfaced")
	require.Len(t, releases, 1, "fed still contributes")
	assert.Equal(t, "fed", releases[0].Source)
}

func TestSourceID(t *testing.T) {
	id, ok := SourceID("BLS")
	require.True(t, ok)
	assert.Equal(t, SourceBLS, id)

	_, ok = SourceID("treasury")
	assert.False(t, ok)
}

func TestClient_ReleaseDates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/release/dates", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"release_dates": []map[string]string{
				{"date": "2025-08-01"},
				{"date": "2025-07-01"},
			},
		})
	}))
	defer srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL))
	dates, err := client.ReleaseDates(context.Background(), 50, 10)

	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, 2025, dates[0].Year())
}
