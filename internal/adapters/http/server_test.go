package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grigi/workstate"
	httpAdapter "github.com/grigi/workstate/internal/adapters/http"
	"github.com/grigi/workstate/pkg/adapters/memory"
	"github.com/grigi/workstate/pkg/domain"
	"github.com/grigi/workstate/pkg/dsl"
	"github.com/grigi/workstate/pkg/graph"
)

func newSource(t *testing.T, broken bool, opts ...workstate.Option) *workstate.Workstate {
	t.Helper()
	b := dsl.New("ticket").Initial("open")
	b.Event("start", "open__in_progress")
	b.Event("finish", "in_progress__done")
	if broken {
		b.State("lost", "")
	}
	loader, err := memory.NewFromBuilders("tickets", b)
	require.NoError(t, err)

	ws, err := workstate.New("", append([]workstate.Option{workstate.WithLoader(loader)}, opts...)...)
	require.NoError(t, err)
	return ws
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealthAndInfo(t *testing.T) {
	h := httpAdapter.NewHandler(newSource(t, false))

	rr := do(t, h, "GET", "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = do(t, h, "GET", "/info")
	var info map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &info))
	assert.Equal(t, "workstate-http", info["app"])
	assert.Equal(t, workstate.Version, info["version"])
}

func TestScopes(t *testing.T) {
	h := httpAdapter.NewHandler(newSource(t, false))

	rr := do(t, h, "GET", "/scopes")
	require.Equal(t, http.StatusOK, rr.Code)

	var scopes []httpAdapter.ScopeInfo
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &scopes))
	assert.Equal(t, []httpAdapter.ScopeInfo{{
		Name:    "ticket",
		Initial: "open",
		States:  []string{"ticket:open", "ticket:in_progress", "ticket:done"},
	}}, scopes)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rr := do(t, httpAdapter.NewHandler(newSource(t, false)), "GET", "/validate")
		assert.Equal(t, http.StatusOK, rr.Code)

		var res httpAdapter.ValidationResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.True(t, res.Valid)
		assert.Equal(t, "tickets", res.Model)
		assert.Nil(t, res.Error)
		require.NotEmpty(t, res.Findings)
		assert.Equal(t, "undocumented-event", res.Findings[0].Rule)
	})

	t.Run("broken", func(t *testing.T) {
		rr := do(t, httpAdapter.NewHandler(newSource(t, true)), "GET", "/validate")
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

		var res httpAdapter.ValidationResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
		assert.False(t, res.Valid)
		require.NotNil(t, res.Error)
		assert.Equal(t, domain.CodeUnreachableStates, res.Error.Code)
		assert.Equal(t, []string{"ticket:lost"}, res.Error.States)
	})
}

func TestGraph(t *testing.T) {
	h := httpAdapter.NewHandler(newSource(t, false))

	rr := do(t, h, "GET", "/graph")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var g graph.Graph
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &g))
	assert.Len(t, g.Edges, 2)

	rr = do(t, h, "GET", "/graph?format=mermaid")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "flowchart LR"))

	rr = do(t, h, "GET", "/graph?format=dot")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "digraph")

	rr = do(t, h, "GET", "/graph?format=gif")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGraph_Broken(t *testing.T) {
	h := httpAdapter.NewHandler(newSource(t, true))

	rr := do(t, h, "GET", "/graph?format=mermaid")
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, h, "GET", "/graph?format=mermaid&draft=true")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "classDef unreachable")
}

func TestSnapshots(t *testing.T) {
	store := memory.NewStore()
	h := httpAdapter.NewHandler(newSource(t, false, workstate.WithStore(store)))

	rr := do(t, h, "GET", "/snapshots")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = do(t, h, "POST", "/snapshots?name=v1")
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, h, "GET", "/snapshots/v1")
	require.Equal(t, http.StatusOK, rr.Code)
	var snap graph.Snapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, "v1", snap.Name)
	assert.True(t, snap.Valid)

	rr = do(t, h, "DELETE", "/snapshots/v1")
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = do(t, h, "GET", "/snapshots/v1")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSnapshots_NoStore(t *testing.T) {
	rr := do(t, httpAdapter.NewHandler(newSource(t, false)), "GET", "/snapshots")
	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

func TestMetrics(t *testing.T) {
	h := httpAdapter.NewHandler(newSource(t, false))
	do(t, h, "GET", "/validate")
	do(t, h, "GET", "/graph?format=dot")

	rr := do(t, h, "GET", "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `workstate_validations_total{outcome="valid",target="http"} 2`)
	assert.Contains(t, body, `workstate_graph_renders_total{format="dot"} 1`)
	assert.Contains(t, body, `workstate_model_states{scope="ticket"} 3`)
}

func TestCORSPreflight(t *testing.T) {
	rr := do(t, httpAdapter.NewHandler(newSource(t, false)), "OPTIONS", "/graph")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
