package localserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/routes"
)

func TestServerRunShutsDownOnContextCancel(t *testing.T) {
	table := routes.NewTable(routes.Route{
		Verb: http.MethodPost,
		Path: "/api/echo",
		Handler: func(ctx context.Context, req routes.Request) routes.Response {
			return routes.Response{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"echo":"` + string(req.Body) + `"}`)}
		},
	})

	srv := New(Config{Addr: "127.0.0.1:0", Table: table})

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-runErr:
		require.ErrorIs(t, err, context.Canceled, "graceful shutdown reports the context's cancellation")
	case <-time.After(time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeRouteWritesHandlerResponse(t *testing.T) {
	route := routes.Route{
		Verb: http.MethodGet,
		Path: "/api/echo",
		Handler: func(ctx context.Context, req routes.Request) routes.Response {
			return routes.Response{StatusCode: 201, ContentType: "application/json", Body: []byte(`{"ok":true}`)}
		},
	}

	rec := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/api/echo", nil)
	require.NoError(t, err)

	serveRoute(rec, req, route)
	require.Equal(t, 201, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, `{"ok":true}`, rec.Body.String())
}
