package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type loggerFunc func(string, ...any)

func (f loggerFunc) Info(msg string, v ...any) { f(msg, v...) }

func TestLoggerMiddleware(t *testing.T) {
	called := 0
	var msg string
	logged := map[string]any{}

	logger := loggerFunc(func(m string, v ...any) {
		called++
		msg = m
		for i := 0; i+1 < len(v); i += 2 {
			logged[v[i].(string)] = v[i+1]
		}
	})

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, err := w.Write([]byte("hi"))
		require.NoError(t, err, "should write response")
	})

	srv := httptest.NewServer(LoggerMiddleware(logger)(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/test")
	require.NoError(t, err, "should make request to test server")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "should read response body")
	defer resp.Body.Close() // nolint:errcheck

	require.Equalf(t, http.StatusTeapot, resp.StatusCode, "should return status Teapot. Resp: %s", string(body))
	require.Equal(t, "hi", string(body))

	require.Equal(t, 1, called, "logger should be called once")
	require.Equal(t, "handled request", msg)
	require.Equal(t, "GET", logged["method"])
	require.Equal(t, "/test", logged["uri"])
	require.Equal(t, http.StatusTeapot, logged["status"])
	require.Equal(t, 2, logged["size"], "size should be the body length")
	require.NotEmpty(t, logged["duration"])
}
