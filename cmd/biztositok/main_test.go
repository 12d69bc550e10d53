package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain_ExitCodes(t *testing.T) {
	t.Setenv("BIZTOSITOK_API_ENDPOINT", "")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":1,"message":"ok"}`))
	}))
	defer server.Close()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "help", args: []string{"--help"}, want: 0},
		{name: "successful call", args: []string{"--env-file", "", "run", "ping", "--endpoint", server.URL, "--no-color"}, want: 0},
		{name: "unknown command", args: []string{"no-such-command"}, want: 1},
		{name: "missing endpoint", args: []string{"--env-file", "", "run", "ping"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Main(tt.args))
		})
	}
}
