package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/annel0/terra-engine/internal/auth"
	"github.com/annel0/terra-engine/internal/engine"
	"github.com/annel0/terra-engine/internal/hydrology"
	"github.com/annel0/terra-engine/internal/scheduler"
	"github.com/annel0/terra-engine/internal/terrain"
)

func smallWorldConfig() engine.WorldConfig {
	cfg := terrain.DefaultConfig()
	cfg.WorldWidthKm = 32
	cfg.WorldHeightKm = 32
	cfg.CellSizeM = 500
	cfg.TileSide = 8
	cfg.CoarseSampleRes = 32
	cfg.MajorContinents = 1
	cfg.MinorCountRange = [2]int{0, 1}
	cfg.PlacementAttempts = 16
	return engine.WorldConfig{
		Terrain:          cfg,
		Hydrology:        hydrology.DefaultConfig(),
		MasterSeed:       7,
		MaxResidentTiles: 16,
	}
}

func setupTestServer(t *testing.T) (*Server, []byte) {
	t.Helper()
	t.Cleanup(engine.ResetWorldForTest)
	t.Cleanup(engine.ResetEngineForTest)

	_, err := engine.InitWorld(smallWorldConfig())
	require.NoError(t, err)
	_, err = engine.StartEngine(scheduler.DefaultConfig())
	require.NoError(t, err)

	secret, err := auth.DecodeSecret(auth.GenerateSecureSecret())
	require.NoError(t, err)

	s := NewServer(Config{
		APIKey:          "test-key",
		AdminJWTSecret:  secret,
		SnapshotPath:    t.TempDir() + "/snap.json",
		SchedulerConfig: scheduler.DefaultConfig(),
	})
	return s, secret
}

func TestHealthNoAuthRequired(t *testing.T) {
	s, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWorldStatsRequiresAPIKey(t *testing.T) {
	s, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/world/stats", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code, "status without key")

	req = httptest.NewRequest(http.MethodGet, "/world/stats", nil)
	req.Header.Set("X-API-Key", "test-key")
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, "status with key")

	var resp GenericResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "Data = %#v, want map", resp.Data)
	require.Contains(t, data, "gameDate")
	gameDate, ok := data["gameDate"].(map[string]interface{})
	require.True(t, ok, "gameDate = %#v, want map", data["gameDate"])
	require.Equal(t, float64(1970), gameDate["Year"])
}

func TestWorldTileRejectsBadQuery(t *testing.T) {
	s, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/world/tile?cx=abc&cy=0", nil)
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWorldTileReturnsSummary(t *testing.T) {
	s, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/world/tile?cx=0&cy=0", nil)
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp GenericResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "Data = %#v, want map", resp.Data)
	require.Equal(t, float64(0), data["cx"])
	require.Equal(t, float64(0), data["cy"])
}

func TestAdminEndpointsRequireBearerToken(t *testing.T) {
	s, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/engine/stop", nil)
	req.Header.Set("X-API-Key", "test-key")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminSnapshotSaveAndEngineStop(t *testing.T) {
	s, secret := setupTestServer(t)

	token, err := auth.GenerateAdminToken(secret, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/admin/snapshot/save", nil)
	req.Header.Set("X-API-Key", "test-key")
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/admin/engine/stop", nil)
	req.Header.Set("X-API-Key", "test-key")
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/admin/engine/stop", nil)
	req.Header.Set("X-API-Key", "test-key")
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code, "second engine stop")
}
