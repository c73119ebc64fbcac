package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *memoryRepo) {
	t.Helper()
	repo := newMemoryRepo()
	handler := NewHandler(slog.New(slog.NewTextHandler(testWriter{t}, nil)), newTestService(repo))
	r := chi.NewRouter()
	r.Route("/api/stock-moves", handler.MountRoutes)
	r.Route("/api/inventory", handler.MountInventoryRoutes)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, repo
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHandlerSubmitSingleMove(t *testing.T) {
	srv, repo := newTestServer(t)

	body := fmt.Sprintf(`{"product_id":%q,"type":"receipt","to_warehouse_id":%q,"quantity":50}`, productA, warehouse1)
	resp := postJSON(t, srv.URL+"/api/stock-moves", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// A single object in yields a single object out.
	move := decodeBody[StockMove](t, resp)
	require.NotEmpty(t, move.ID)
	require.Equal(t, MoveTypeReceipt, move.Type)
	require.Equal(t, MoveStatusDone, move.Status)
	require.EqualValues(t, 50, repo.quantity(productA, warehouse1))
}

func TestHandlerSubmitBatch(t *testing.T) {
	srv, repo := newTestServer(t)

	body := fmt.Sprintf(`[
		{"product_id":%q,"type":"receipt","to_warehouse_id":%q,"quantity":30},
		{"product_id":%q,"type":"transfer","from_warehouse_id":%q,"to_warehouse_id":%q,"quantity":10}
	]`, productA, warehouse1, productA, warehouse1, warehouse2)
	resp := postJSON(t, srv.URL+"/api/stock-moves", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	moves := decodeBody[[]StockMove](t, resp)
	require.Len(t, moves, 2)
	require.EqualValues(t, 20, repo.quantity(productA, warehouse1))
	require.EqualValues(t, 10, repo.quantity(productA, warehouse2))
}

func TestHandlerInsufficientStockConflict(t *testing.T) {
	srv, _ := newTestServer(t)

	postJSON(t, srv.URL+"/api/stock-moves",
		fmt.Sprintf(`{"product_id":%q,"type":"receipt","to_warehouse_id":%q,"quantity":20}`, productA, warehouse1))

	resp := postJSON(t, srv.URL+"/api/stock-moves",
		fmt.Sprintf(`{"product_id":%q,"type":"delivery","from_warehouse_id":%q,"quantity":25}`, productA, warehouse1))
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	problem := decodeBody[map[string]any](t, resp)
	require.Equal(t, "Insufficient stock. Available: 20, Requested: 25", problem["detail"])
}

func TestHandlerValidateDraft(t *testing.T) {
	srv, repo := newTestServer(t)

	postJSON(t, srv.URL+"/api/stock-moves",
		fmt.Sprintf(`{"product_id":%q,"type":"receipt","to_warehouse_id":%q,"quantity":10}`, productA, warehouse1))

	resp := postJSON(t, srv.URL+"/api/stock-moves",
		fmt.Sprintf(`{"product_id":%q,"type":"delivery","from_warehouse_id":%q,"quantity":4,"status":"draft"}`, productA, warehouse1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	draft := decodeBody[StockMove](t, resp)
	require.EqualValues(t, 10, repo.quantity(productA, warehouse1))

	resp = postJSON(t, srv.URL+"/api/stock-moves/"+draft.ID+"/validate", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	done := decodeBody[StockMove](t, resp)
	require.Equal(t, MoveStatusDone, done.Status)
	require.EqualValues(t, 6, repo.quantity(productA, warehouse1))

	resp = postJSON(t, srv.URL+"/api/stock-moves/"+draft.ID+"/validate", "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	problem := decodeBody[map[string]any](t, resp)
	require.Equal(t, "Cannot update a move that is already done", problem["detail"])
}

func TestHandlerRejectsMalformedRequests(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"product_id":`},
		{"empty batch", `[]`},
		{"bad type", fmt.Sprintf(`{"product_id":%q,"type":"teleport","to_warehouse_id":%q,"quantity":1}`, productA, warehouse1)},
		{"bad uuid", fmt.Sprintf(`{"product_id":"abc","type":"receipt","to_warehouse_id":%q,"quantity":1}`, warehouse1)},
		{"bad status", fmt.Sprintf(`{"product_id":%q,"type":"receipt","to_warehouse_id":%q,"quantity":1,"status":"pending"}`, productA, warehouse1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/stock-moves", tc.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandlerSameWarehouseTransfer(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/stock-moves",
		fmt.Sprintf(`{"product_id":%q,"type":"transfer","from_warehouse_id":%q,"to_warehouse_id":%q,"quantity":1}`, productA, warehouse1, warehouse1))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerListWithFilters(t *testing.T) {
	srv, _ := newTestServer(t)

	postJSON(t, srv.URL+"/api/stock-moves", fmt.Sprintf(`[
		{"product_id":%q,"type":"receipt","to_warehouse_id":%q,"quantity":5},
		{"product_id":%q,"type":"receipt","to_warehouse_id":%q,"quantity":5},
		{"product_id":%q,"type":"delivery","from_warehouse_id":%q,"quantity":3}
	]`, productA, warehouse1, productA, warehouse2, productA, warehouse1))

	resp, err := http.Get(srv.URL + "/api/stock-moves?type=delivery")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	moves := decodeBody[[]MoveDetail](t, resp)
	require.Len(t, moves, 1)
	require.Equal(t, MoveTypeDelivery, moves[0].Type)

	resp, err = http.Get(srv.URL + "/api/stock-moves?warehouse_id=" + warehouse2)
	require.NoError(t, err)
	defer resp.Body.Close()
	moves = decodeBody[[]MoveDetail](t, resp)
	require.Len(t, moves, 1)

	// "all" means no type filter.
	resp, err = http.Get(srv.URL + "/api/stock-moves?type=all&limit=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	moves = decodeBody[[]MoveDetail](t, resp)
	require.Len(t, moves, 2)

	resp, err = http.Get(srv.URL + "/api/stock-moves?start_date=garbage")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerGetMove(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/stock-moves",
		fmt.Sprintf(`{"product_id":%q,"type":"receipt","to_warehouse_id":%q,"quantity":5}`, productA, warehouse1))
	created := decodeBody[StockMove](t, resp)

	resp, err := http.Get(srv.URL + "/api/stock-moves/" + created.ID)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decodeBody[MoveDetail](t, resp)
	require.Equal(t, created.ID, detail.ID)

	resp, err = http.Get(srv.URL + "/api/stock-moves/4aa7e1db-5b63-4f57-a1bc-0aaed6b0f70e")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandlerInventoryLevels(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/inventory")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	levels := decodeBody[[]LevelDetail](t, resp)
	require.Empty(t, levels)

	postJSON(t, srv.URL+"/api/stock-moves",
		fmt.Sprintf(`{"product_id":%q,"type":"receipt","to_warehouse_id":%q,"quantity":12}`, productA, warehouse1))

	resp, err = http.Get(srv.URL + "/api/inventory")
	require.NoError(t, err)
	defer resp.Body.Close()
	levels = decodeBody[[]LevelDetail](t, resp)
	require.Len(t, levels, 1)
	require.EqualValues(t, 12, levels[0].Quantity)
}
