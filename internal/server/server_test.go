package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gridcanvas/pkg/canvas"
	"github.com/matzehuels/gridcanvas/pkg/catalog"
	"github.com/matzehuels/gridcanvas/pkg/grid"
	"github.com/matzehuels/gridcanvas/pkg/permission"
	"github.com/matzehuels/gridcanvas/pkg/session"
	"github.com/matzehuels/gridcanvas/pkg/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	n := 0
	sess, err := session.New(session.Options{
		Grid:        grid.Config{Columns: 30, RowHeightPx: 30, MarginPx: [2]float64{6, 6}, ContainerWidthPx: 1200},
		Catalog:     catalog.Builtin(),
		Storage:     storage.NewMemory(),
		Permissions: permission.NewSet(permission.Wildcard),
		Logger:      log.New(io.Discard),
		NewID: func() string {
			n++
			return fmt.Sprintf("w%d", n)
		},
	})
	require.NoError(t, err)
	sess.Open(t.Context())

	ts := httptest.NewServer(New(sess, log.New(io.Discard)))
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, ts *httptest.Server, method, path string, body any, out any) int {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	var body map[string]string
	assert.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/healthz", nil, &body))
	assert.Equal(t, "ok", body["status"])
}

func TestAddDragResize(t *testing.T) {
	ts := newTestServer(t)

	var first, second canvas.WidgetInstance
	require.Equal(t, http.StatusCreated, do(t, ts, http.MethodPost, "/api/widgets", AddWidgetRequest{CatalogID: "metric"}, &first))
	require.Equal(t, http.StatusCreated, do(t, ts, http.MethodPost, "/api/widgets", AddWidgetRequest{CatalogID: "metric", Params: map[string]any{"title": "Orders"}}, &second))
	assert.Equal(t, 0, first.Layout.X)
	assert.Equal(t, "Orders", second.Params["title"])

	// Live move then a colliding drop: reverted to the pre-drag position.
	var l canvas.Layout
	live := second.Layout
	live.X = first.Layout.X
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPatch, "/api/widgets/w2/layout?phase=drag-move", live, &l))
	assert.Equal(t, first.Layout.X, l.X)
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPatch, "/api/widgets/w2/layout?phase=drag-stop", live, &l))
	assert.Equal(t, second.Layout.X, l.X)
	assert.Equal(t, second.Layout.Y, l.Y)

	// Resize below the minimum is clamped.
	small := second.Layout
	small.W, small.H = 1, 1
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPatch, "/api/widgets/w2/layout?phase=resize-stop", small, &l))
	assert.Equal(t, l.MinW, l.W)
	assert.Equal(t, l.MinH, l.H)

	var c CanvasResponse
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/canvas", nil, &c))
	assert.Len(t, c.Instances, 2)
	assert.Empty(t, c.Overlaps)
}

func TestErrors(t *testing.T) {
	ts := newTestServer(t)

	var e ErrorResponse
	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodPost, "/api/widgets", AddWidgetRequest{CatalogID: "nope"}, &e))
	assert.Equal(t, "NOT_FOUND_WIDGET", e.Code)

	assert.Equal(t, http.StatusNotFound, do(t, ts, http.MethodDelete, "/api/widgets/missing", nil, &e))
	assert.Equal(t, "NOT_FOUND_INSTANCE", e.Code)

	assert.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPatch, "/api/widgets/w1/layout?phase=wiggle", canvas.Layout{}, &e))
	assert.Equal(t, "INVALID_INPUT", e.Code)

	assert.Equal(t, http.StatusBadRequest, do(t, ts, http.MethodPut, "/api/container", ContainerRequest{WidthPx: -5}, &e))
	assert.Equal(t, "INVALID_GRID", e.Code)

	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/widgets", bytes.NewBufferString("{"))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPermissionsDropSelection(t *testing.T) {
	ts := newTestServer(t)

	var inst canvas.WidgetInstance
	require.Equal(t, http.StatusCreated, do(t, ts, http.MethodPost, "/api/widgets", AddWidgetRequest{CatalogID: "table"}, &inst))

	var c CanvasResponse
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPut, "/api/selection", SelectionRequest{ID: inst.ID}, &c))
	assert.Equal(t, inst.ID, c.Selected)

	var resp PermissionsResponse
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPut, "/api/permissions", PermissionsRequest{Granted: []string{"orders"}}, &resp))
	assert.Equal(t, []string{inst.ID}, resp.Dropped)

	c = CanvasResponse{}
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/canvas", nil, &c))
	assert.Empty(t, c.Instances)
	assert.Empty(t, c.Selected)
}

func TestContainerAndCatalog(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/widgets", AddWidgetRequest{CatalogID: "metric"}, nil)

	var c CanvasResponse
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodPut, "/api/container", ContainerRequest{WidthPx: 600}, &c))
	assert.Equal(t, 600.0, c.Grid.ContainerWidthPx)
	for _, w := range c.Instances {
		assert.GreaterOrEqual(t, w.Layout.W, w.Layout.MinW)
	}

	var entries []catalog.Entry
	require.Equal(t, http.StatusOK, do(t, ts, http.MethodGet, "/api/catalog", nil, &entries))
	assert.NotEmpty(t, entries)
}

func TestCanvasSVG(t *testing.T) {
	ts := newTestServer(t)
	do(t, ts, http.MethodPost, "/api/widgets", AddWidgetRequest{CatalogID: "metric"}, nil)

	resp, err := http.Get(ts.URL + "/api/canvas.svg")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "<svg")
}
