package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autochroma/autochroma/internal/engine"
	"github.com/autochroma/autochroma/internal/model"
	"github.com/autochroma/autochroma/internal/registry"
	"github.com/autochroma/autochroma/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.AssetStore) {
	t.Helper()
	assets := store.NewAssetStore(nil)
	eng := engine.New(engine.Options{
		Assets:   assets,
		Outputs:  store.NewOutputStore(t.TempDir()),
		Registry: registry.New(registry.Options{MaxConcurrent: 1, Logger: zerolog.Nop()}),
		Logger:   zerolog.Nop(),
	})
	srv := NewServer(eng, zerolog.Nop())
	ts := httptest.NewServer(srv.Router(prometheus.NewRegistry()))
	t.Cleanup(ts.Close)
	return ts, assets
}

func putVideo(assets *store.AssetStore, hasAudio bool) *model.Asset {
	return assets.Put(&model.Asset{
		ID:       uuid.NewString(),
		Kind:     model.AssetVideo,
		Filename: "clip.mp4",
		Path:     "/media/clip.mp4",
		Width:    1280,
		Height:   720,
		Duration: 20 * time.Second,
		FPS:      30,
		HasAudio: hasAudio,
	})
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListAssets(t *testing.T) {
	ts, assets := newTestServer(t)
	asset := putVideo(assets, true)

	resp, err := http.Get(ts.URL + "/api/assets")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	list := decode[[]*model.Asset](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, asset.ID, list[0].ID)
}

func TestEstimateKey_UnknownAssetIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/assets/"+uuid.NewString()+"/estimate-key", "{}")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decode[map[string]string](t, resp)
	assert.Equal(t, "not_found", body["error"])
}

func TestStartRender_Accepted(t *testing.T) {
	ts, assets := newTestServer(t)
	asset := putVideo(assets, true)

	resp := postJSON(t, ts.URL+"/api/assets/"+asset.ID+"/render",
		`{"hex":"#00FF00","similarity":0.1,"blend":0.05}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	jobID, _ := body["job_id"].(string)
	assert.NoError(t, store.ValidateID(jobID))

	// The created job is visible through the jobs endpoints.
	jobResp, err := http.Get(ts.URL + "/api/jobs/" + jobID)
	require.NoError(t, err)
	defer jobResp.Body.Close()
	assert.Equal(t, http.StatusOK, jobResp.StatusCode)

	listResp, err := http.Get(ts.URL + "/api/jobs")
	require.NoError(t, err)
	defer listResp.Body.Close()
	jobs := decode[[]model.JobSnapshot](t, listResp)
	require.Len(t, jobs, 1)
	assert.Equal(t, jobID, jobs[0].ID)
}

func TestStartRender_BadRequests(t *testing.T) {
	ts, assets := newTestServer(t)
	asset := putVideo(assets, false)
	base := ts.URL + "/api/assets/" + asset.ID + "/render"

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"hex":`},
		{"invalid hex", `{"hex":"green","similarity":0.1,"blend":0.1}`},
		{"similarity above max", `{"hex":"#00FF00","similarity":0.6,"blend":0.1}`},
		{"blend above max", `{"hex":"#00FF00","similarity":0.1,"blend":0.7}`},
		{"crf out of range", `{"hex":"#00FF00","similarity":0.1,"blend":0.1,"crf":5}`},
		{"audio on silent asset", `{"hex":"#00FF00","similarity":0.1,"blend":0.1,"include_audio":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, base, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}

	// None of the rejected requests created a job.
	listResp, err := http.Get(ts.URL + "/api/jobs")
	require.NoError(t, err)
	defer listResp.Body.Close()
	jobs := decode[[]model.JobSnapshot](t, listResp)
	assert.Empty(t, jobs)
}

func TestStartRender_UnknownAssetIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/assets/"+uuid.NewString()+"/render",
		`{"hex":"#00FF00","similarity":0.1,"blend":0.1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJobEndpoints_UnknownJobIs404(t *testing.T) {
	ts, _ := newTestServer(t)
	id := uuid.NewString()

	resp, err := http.Get(ts.URL + "/api/jobs/" + id)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancelResp := postJSON(t, ts.URL+"/api/jobs/"+id+"/cancel", "")
	assert.Equal(t, http.StatusNotFound, cancelResp.StatusCode)

	dlResp, err := http.Get(ts.URL + "/api/jobs/" + id + "/download")
	require.NoError(t, err)
	defer dlResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, dlResp.StatusCode)
}

func TestDownload_UnfinishedJobIsBadRequest(t *testing.T) {
	ts, assets := newTestServer(t)
	asset := putVideo(assets, true)

	resp := postJSON(t, ts.URL+"/api/assets/"+asset.ID+"/render",
		`{"hex":"#00FF00","similarity":0.1,"blend":0.05}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	jobID, _ := body["job_id"].(string)

	dlResp, err := http.Get(ts.URL + "/api/jobs/" + jobID + "/download")
	require.NoError(t, err)
	defer dlResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, dlResp.StatusCode)
}

func TestPreview_RejectsInvalidParams(t *testing.T) {
	ts, assets := newTestServer(t)
	asset := putVideo(assets, true)

	resp := postJSON(t, ts.URL+"/api/assets/"+asset.ID+"/preview",
		`{"hex":"#00FF00","similarity":0.9,"blend":0.1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
