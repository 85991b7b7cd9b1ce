package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newServer(DefaultConfig(), nil, discardLogger()).routes())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, srv *httptest.Server, path string, body interface{}) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(srv.URL+path, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestServer_RequiresGraph(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/route", RouteRequest{Start: Point{1, 1}, End: Point{90, 90}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, srv, "/graph")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var health map[string]interface{}
	decode(t, get(t, srv, "/health"), &health)
	assert.Equal(t, "waiting for graph", health["status"])
	assert.Equal(t, false, health["hasGraph"])
}

func TestServer_BuildAndRoute(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv, "/build", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var built map[string]interface{}
	decode(t, resp, &built)
	assert.Equal(t, true, built["success"])
	assert.NotEmpty(t, built["id"])
	numNodes := int(built["numNodes"].(float64))
	require.Greater(t, numNodes, 2)

	// Route from the first top-level node's region down to one of its descendants
	planner, err := NewPlanner(DefaultConfig().BSP, nil, discardLogger())
	require.NoError(t, err)
	leaf := planner.Partition.Subs[0].Leaves()[0]
	start, _ := planner.Path.Position(0)

	resp = post(t, srv, "/route", RouteRequest{Start: fromOrb(start), End: fromOrb(leaf.Bound.Center())})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var route RouteResponse
	decode(t, resp, &route)
	assert.True(t, route.Success)
	require.NotEmpty(t, route.Nodes)
	assert.Equal(t, NodeID(0), route.Nodes[0])
	assert.Equal(t, fromOrb(leaf.Bound.Center()), route.Path[len(route.Path)-1])
	assert.Greater(t, route.Cost, 0.0)

	var health map[string]interface{}
	decode(t, get(t, srv, "/health"), &health)
	assert.Equal(t, "ready", health["status"])
	assert.Equal(t, float64(numNodes), health["numNodes"])
}

func firstAndLastLeaf(t *testing.T, cfg BSPConfig) (orb.Point, orb.Point) {
	t.Helper()
	planner, err := NewPlanner(cfg, nil, discardLogger())
	require.NoError(t, err)
	leaves := planner.Partition.Leaves()
	require.Greater(t, len(leaves), 2)
	return leaves[0].Bound.Center(), leaves[len(leaves)-1].Bound.Center()
}

func TestServer_RouteBetweenLeaves(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, post(t, srv, "/build", nil).StatusCode)
	from, to := firstAndLastLeaf(t, DefaultConfig().BSP)

	var route RouteResponse
	decode(t, post(t, srv, "/route", RouteRequest{Start: fromOrb(from), End: fromOrb(to)}), &route)
	require.True(t, route.Success)
	require.Greater(t, len(route.Path), 2)
	assert.Equal(t, fromOrb(from), route.Path[0])
	assert.Equal(t, fromOrb(to), route.Path[len(route.Path)-1])
	assert.Len(t, route.Nodes, len(route.Path))

	// Tolerance 0 draws every waypoint
	require.NotNil(t, route.Route)
	line, ok := route.Route.Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, line, len(route.Path))
	assert.Equal(t, "route", route.Route.Properties.MustString("kind"))
}

func TestServer_RouteFeatureIsSimplified(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.SimplifyTolerance = 1000
	srv := httptest.NewServer(newServer(cfg, nil, discardLogger()).routes())
	t.Cleanup(srv.Close)
	require.Equal(t, http.StatusOK, post(t, srv, "/build", nil).StatusCode)
	from, to := firstAndLastLeaf(t, cfg.BSP)

	var route RouteResponse
	decode(t, post(t, srv, "/route", RouteRequest{Start: fromOrb(from), End: fromOrb(to)}), &route)
	require.True(t, route.Success)
	require.Greater(t, len(route.Path), 2)

	// The drawn line collapses to its endpoints; the waypoints stay complete
	require.NotNil(t, route.Route)
	assert.Equal(t, orb.LineString{from, to}, route.Route.Geometry)
	assert.InDelta(t, route.Cost, route.Route.Properties.MustFloat64("cost"), 1e-9)
}

func TestServer_NoRoute(t *testing.T) {
	s := newServer(DefaultConfig(), nil, discardLogger())
	p := newTestPath(2)
	s.planner = &Planner{Path: p, nodes: NewNodeIndex(p)}
	srv := httptest.NewServer(s.routes())
	t.Cleanup(srv.Close)

	var route RouteResponse
	decode(t, post(t, srv, "/route", RouteRequest{Start: Point{0, 0}, End: Point{1, 0}}), &route)
	assert.False(t, route.Success)
	assert.Empty(t, route.Path)
	assert.Nil(t, route.Route)
	assert.NotEmpty(t, route.Message)
}

func TestServer_RebuildClearsPreviousGraph(t *testing.T) {
	s := newServer(DefaultConfig(), nil, discardLogger())
	handler := s.routes()

	build := func() {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/build", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	build()
	first := s.planner
	require.Greater(t, first.Path.Len(), 0)

	build()
	assert.NotSame(t, first, s.planner)
	assert.Zero(t, first.Path.Len())
	assert.Greater(t, s.planner.Path.Len(), 0)
}

func TestServer_BuildWithRequestOptions(t *testing.T) {
	srv := newTestServer(t)

	seed := int64(3)
	req := map[string]interface{}{
		"bounds":  map[string]interface{}{"Min": Point{0, 0}, "Max": Point{50, 50}},
		"minSize": 20.0,
		"seed":    seed,
	}
	resp := post(t, srv, "/build", req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var built map[string]interface{}
	decode(t, resp, &built)

	cfg := BSPConfig{MaxX: 50, MaxY: 50, MinSize: 20, Seed: seed}
	want, err := NewPlanner(cfg, nil, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, float64(want.Path.Len()), built["numNodes"])

	bad := post(t, srv, "/build", map[string]interface{}{"bounds": map[string]interface{}{"Min": Point{5, 5}, "Max": Point{1, 1}}})
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)

	bad = post(t, srv, "/build", map[string]interface{}{"minSize": -1})
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

func TestServer_TransformAndGraph(t *testing.T) {
	srv := newTestServer(t)
	require.Equal(t, http.StatusOK, post(t, srv, "/build", nil).StatusCode)

	var before geojson.FeatureCollection
	decode(t, get(t, srv, "/graph"), &before)
	require.NotEmpty(t, before.Features)

	resp := post(t, srv, "/transform", TransformRequest{Offset: Point{10, 0}, Scale: 2})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var after geojson.FeatureCollection
	decode(t, get(t, srv, "/graph"), &after)
	require.Len(t, after.Features, len(before.Features))

	for i, f := range before.Features {
		if f.Properties.MustString("kind") != "connection" {
			continue
		}
		assert.InDelta(t, f.Properties.MustFloat64("cost")*2, after.Features[i].Properties.MustFloat64("cost"), 1e-9)
	}

	resp = post(t, srv, "/transform", TransformRequest{Scale: -1})
	assert.Equal(t, http.StatusOK, resp.StatusCode, "negative factors mirror the graph")
}

func TestServer_InvalidBodies(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/build", "/route", "/transform"} {
		resp, err := http.Post(srv.URL+path, "application/json", bytes.NewBufferString("{nope"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestServer_CORSPreflight(t *testing.T) {
	srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/route", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
