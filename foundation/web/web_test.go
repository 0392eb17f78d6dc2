package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qcbit/escrow-gateway/foundation/web"
)

func TestHandle(t *testing.T) {
	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	shutdown := make(chan os.Signal, 1)
	app := web.NewApp(shutdown, mw("app1"), mw("app2"))

	var traceID string
	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		require.NoError(t, err)
		traceID = v.TraceID

		resp := map[string]string{"id": web.Param(r, "id")}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}
	app.Handle(http.MethodGet, "v1", "/items/:id", h, mw("route"))

	r := httptest.NewRequest(http.MethodGet, "/v1/items/42", nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
	require.Equal(t, []string{"app1", "app2", "route"}, order)
	require.Len(t, traceID, 36)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "42", resp["id"])

	require.Empty(t, shutdown)
}

func TestHandleErrorSignalsShutdown(t *testing.T) {
	shutdown := make(chan os.Signal, 1)
	app := web.NewApp(shutdown)

	app.Handle(http.MethodGet, "", "/fail", func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	})

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	require.Len(t, shutdown, 1)
}

func TestDecode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"alice"}`))
	require.NoError(t, web.Decode(r, &v))
	require.Equal(t, "alice", v.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":1}`))
	require.Error(t, web.Decode(r, &v))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	require.Error(t, web.Decode(r, &v))
}

func TestShutdownError(t *testing.T) {
	require.True(t, web.IsShutdown(web.NewShutdownError("stop")))
	require.False(t, web.IsShutdown(context.Canceled))
}

func TestGetValuesMissing(t *testing.T) {
	_, err := web.GetValues(context.Background())
	require.Error(t, err)
	require.Error(t, web.SetStatusCode(context.Background(), http.StatusOK))
	require.Equal(t, "00000000-0000-0000-0000-000000000000", web.GetTraceID(context.Background()))
}
