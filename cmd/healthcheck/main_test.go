package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty uses default", raw: "", want: "127.0.0.1:4200"},
		{name: "bind all", raw: "0.0.0.0:9000", want: "127.0.0.1:9000"},
		{name: "bare port", raw: ":9000", want: "127.0.0.1:9000"},
		{name: "ipv6 any", raw: "[::]:9000", want: "127.0.0.1:9000"},
		{name: "explicit host", raw: "10.0.0.5:9000", want: "10.0.0.5:9000"},
		{name: "malformed", raw: "not-an-addr", want: "127.0.0.1:4200"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeAddr(tt.raw))
		})
	}
}

func TestHealthURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:4200/api/v1/health", healthURL(""))
}

func TestProbe(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer healthy.Close()

	unhealthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer unhealthy.Close()

	assert.NoError(t, probe(context.Background(), healthy.URL))

	err := probe(context.Background(), unhealthy.URL)
	assert.ErrorContains(t, err, "status 503")
}
