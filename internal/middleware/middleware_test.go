package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/rpc"
)

type echo struct {
	SessionID string `json:"session_id"`
}

const (
	openProcedure   = "/test.v1.Echo/Open"
	closedProcedure = "/test.v1.Echo/Closed"
)

func echoServer(t *testing.T, tokens *auth.TokenManager) *httptest.Server {
	t.Helper()
	handle := func(ctx context.Context, _ *connect.Request[echo]) (*connect.Response[echo], error) {
		return connect.NewResponse(&echo{SessionID: GetSessionID(ctx)}), nil
	}
	opts := []connect.HandlerOption{
		connect.WithCodec(rpc.JSONCodec{}),
		connect.WithInterceptors(RequireSession(tokens, openProcedure), LoggingInterceptor()),
	}
	mux := http.NewServeMux()
	mux.Handle(openProcedure, connect.NewUnaryHandler(openProcedure, handle, opts...))
	mux.Handle(closedProcedure, connect.NewUnaryHandler(closedProcedure, handle, opts...))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRequireSession(t *testing.T) {
	tokens := auth.NewTokenManager("secret")
	srv := echoServer(t, tokens)
	ctx := context.Background()

	call := func(procedure, authHeader string) (*connect.Response[echo], error) {
		client := connect.NewClient[echo, echo](srv.Client(), srv.URL+procedure, connect.WithCodec(rpc.JSONCodec{}))
		req := connect.NewRequest(&echo{})
		if authHeader != "" {
			req.Header().Set("Authorization", authHeader)
		}
		return client.CallUnary(ctx, req)
	}

	t.Run("open procedure needs no token", func(t *testing.T) {
		resp, err := call(openProcedure, "")
		require.NoError(t, err)
		assert.Empty(t, resp.Msg.SessionID)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := call(closedProcedure, "")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("malformed header", func(t *testing.T) {
		_, err := call(closedProcedure, "Token abc")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("invalid token", func(t *testing.T) {
		_, err := call(closedProcedure, "Bearer abc")
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := tokens.Generate("session-42")
		require.NoError(t, err)

		resp, err := call(closedProcedure, "Bearer "+token)
		require.NoError(t, err)
		assert.Equal(t, "session-42", resp.Msg.SessionID)
	})
}

func TestLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
