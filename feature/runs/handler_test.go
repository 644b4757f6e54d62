package runs

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRunsApp(t *testing.T) (*fiber.App, *Store) {
	t.Helper()

	store := newTestStore(t)

	app := fiber.New()
	NewHandler(store, zap.NewNop()).RegisterRoutes(app)

	return app, store
}

func decodeBody(t *testing.T, resp io.Reader) map[string]any {
	t.Helper()

	raw, err := io.ReadAll(resp)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))

	return body
}

func TestHandleListRuns(t *testing.T) {
	app, store := setupRunsApp(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(context.Background(), sampleResult("run-1", "nightly", base)))
	require.NoError(t, store.Record(context.Background(), sampleResult("run-2", "adhoc", base.Add(time.Hour))))

	resp, err := app.Test(httptest.NewRequest("GET", "/runs", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(2), body["count"])

	runs, ok := body["runs"].([]any)
	require.True(t, ok)
	first, ok := runs[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "run-2", first["id"])
}

func TestHandleListRunsFiltersByPipeline(t *testing.T) {
	app, store := setupRunsApp(t)
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(context.Background(), sampleResult("run-1", "nightly", base)))
	require.NoError(t, store.Record(context.Background(), sampleResult("run-2", "adhoc", base.Add(time.Hour))))

	resp, err := app.Test(httptest.NewRequest("GET", "/runs?pipeline=adhoc&limit=10", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(1), body["count"])
}

func TestHandleGetRun(t *testing.T) {
	app, store := setupRunsApp(t)

	result := sampleResult("run-1", "nightly", time.Now())
	require.NoError(t, store.Record(context.Background(), result))

	resp, err := app.Test(httptest.NewRequest("GET", "/runs/run-1", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "run-1", body["id"])
	assert.Equal(t, "nightly", body["pipeline_id"])

	steps, ok := body["steps"].([]any)
	require.True(t, ok)
	require.Len(t, steps, 2)
	first, ok := steps[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "collect", first["step_id"])
}

func TestHandleGetRunNotFound(t *testing.T) {
	app, _ := setupRunsApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/runs/no-such-run", nil), 2000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
