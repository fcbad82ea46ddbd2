package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gotest.tools/v3/assert"
)

func TestDoRequestDecodesJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Method, http.MethodPost)
		assert.Equal(t, r.URL.Path, "/embed")
		assert.Equal(t, r.Header.Get("Authorization"), "Bearer secret")
		assert.Equal(t, r.Header.Get("Content-Type"), "application/json")
		w.Write([]byte(`{"value":42}`))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL}, WithAuthToken("secret"), WithRequestLogging())

	var resp struct {
		Value int `json:"value"`
	}
	err := c.PostJSON(context.Background(), "/embed", map[string]string{"q": "nav"}, &resp)
	assert.NilError(t, err)
	assert.Equal(t, resp.Value, 42)
}

func TestDoRequestReturnsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, r.Header.Get("Authorization"), "")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: srv.URL}, WithAuthToken(""))

	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var httpErr *HTTPError
	assert.Assert(t, errors.As(err, &httpErr))
	assert.Equal(t, httpErr.StatusCode, http.StatusTooManyRequests)
	assert.Equal(t, httpErr.Message, "slow down")
}

func TestDoRequestReturnsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewConnector(&ConnectorConfig{BaseURL: url})
	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil)

	var netErr *NetworkError
	assert.Assert(t, errors.As(err, &netErr))
}
