package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biztositok/biztositok-go/api"
)

func newClient(t *testing.T, creds api.Credentials, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.New(api.Config{APIEndpoint: srv.URL, Username: creds.Username, Password: creds.Password})
	require.NoError(t, err)
	return client
}

func TestHandler_Echo(t *testing.T) {
	creds := api.Credentials{Username: "site", Password: "secret"}
	h := NewHandler(creds, nil)
	client := newClient(t, creds, h)

	resp, err := client.Invoke(context.Background(), "echo", api.Params{"age": 30, "name": "Kati"},
		api.WithQuery(map[string]string{"mode": "quick"}), api.WithCallHeader("X-Trace", "abc"))
	require.NoError(t, err)

	assert.True(t, resp.IsSuccess())
	assert.Equal(t, "site", resp.Get("data.user", nil))
	assert.Equal(t, "30", resp.Get("data.params.age", nil))
	assert.Equal(t, "Kati", resp.Get("data.params.name", nil))
	assert.Nil(t, resp.Get("data.params.auth", nil))
	assert.Equal(t, "quick", resp.Get("data.query.mode", nil))
	assert.Equal(t, "abc", resp.Get("data.headers.X-Trace", nil))
	assert.Equal(t, int64(1), h.Calls())
}

func TestHandler_Auth(t *testing.T) {
	h := NewHandler(api.Credentials{Username: "site", Password: "secret"}, nil)
	client := newClient(t, api.Credentials{Username: "site", Password: "wrong"}, h)

	resp, err := client.Invoke(context.Background(), "echo", nil)
	require.NoError(t, err)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
	assert.Equal(t, "authentication failed", resp.Message())
}

func TestHandler_Fail(t *testing.T) {
	client := newClient(t, api.Credentials{}, NewHandler(api.Credentials{}, nil))

	resp, err := client.Invoke(context.Background(), "fail", api.Params{"fields": "age, zip"})
	require.NoError(t, err)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, []string{"[age]: age is invalid", "[zip]: zip is invalid"}, resp.ErrorsCombined())
}

func TestHandler_TextAndUnknown(t *testing.T) {
	client := newClient(t, api.Credentials{}, NewHandler(api.Credentials{}, nil))

	_, err := client.Invoke(context.Background(), "text", nil)
	assert.ErrorIs(t, err, api.ErrDecode)

	resp, err := client.Invoke(context.Background(), "nope", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "unknown function nope", resp.Message())
}

func TestHandler_WrongMethod(t *testing.T) {
	srv := httptest.NewServer(NewHandler(api.Credentials{}, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/run/echo")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
