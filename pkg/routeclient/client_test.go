package routeclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/campusmap/pkg/graph"
)

const graphBody = `{
  "nodes": [
    {"id": 1, "x": 0, "y": 0, "name": "Gate", "category": "sight"},
    {"id": 2, "x": 10, "y": 0, "name": "Library", "category": "building"}
  ],
  "edges": [{"u": 1, "v": 2, "dist": 10}]
}`

func service(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /graph", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"Not authenticated"}`)
			return
		}
		_, _ = io.WriteString(w, graphBody)
	})
	mux.HandleFunc("POST /navigate", func(w http.ResponseWriter, r *http.Request) {
		var req graph.RouteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = io.WriteString(w, `{"detail":[{"msg":"bad body"}]}`)
			return
		}
		if req.StartID == req.EndID {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"detail":"start and end are the same"}`)
			return
		}
		_ = json.NewEncoder(w).Encode(graph.RouteResponse{
			PathIDs:   []graph.NodeID{req.StartID, req.EndID},
			PathNames: []string{"Gate", "Library"},
			TotalCost: 10,
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGraph(t *testing.T) {
	srv := service(t)

	g, err := New(srv.URL+"/", "tok").Graph(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())
	assert.True(t, g.HasEdge(1, 2))
}

func TestGraphUnauthorized(t *testing.T) {
	srv := service(t)

	_, err := New(srv.URL, "").Graph(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatus))

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.Code)
	assert.Equal(t, "Not authenticated", se.Detail)
}

func TestNavigate(t *testing.T) {
	srv := service(t)
	c := New(srv.URL, "tok")

	resp, err := c.Navigate(context.Background(), graph.RouteRequest{
		StartID: 1, EndID: 2, Strategy: graph.StrategyDistance, Transport: graph.TransportWalk,
	})
	require.NoError(t, err)
	assert.Equal(t, []graph.NodeID{1, 2}, resp.PathIDs)
	assert.Equal(t, 10.0, resp.TotalCost)
	assert.Equal(t, "米", resp.Unit(graph.StrategyDistance))
}

func TestNavigateDetail(t *testing.T) {
	srv := service(t)

	_, err := New(srv.URL, "tok").Navigate(context.Background(), graph.RouteRequest{StartID: 1, EndID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start and end are the same")
	assert.True(t, errors.Is(err, ErrStatus))
}

func TestDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"nope"}`, "nope"},
		{`{"detail":[{"msg":"x"}]}`, `[{"msg":"x"}]`},
		{"plain text\n", "plain text"},
		{`{"other":1}`, `{"other":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detail([]byte(tt.body)))
	}
}

func TestCancelledContext(t *testing.T) {
	srv := service(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, "tok").Graph(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
