package ota

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/version"
)

func TestPollEnqueuesWhenNewerVersionAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/sn-123/firmwares/latest", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"version":"1.1.0","binary":{"downloadUrl":"https://example.test/fw.bin","hash":"abc"}}`))
	}))
	defer server.Close()

	var enqueued UpdateRequest
	var enqueueCalled bool
	checker := NewChecker(CheckerConfig{
		BaseURL:  server.URL + "/",
		DeviceID: "sn-123",
		Current:  version.Version{Major: 1, Minor: 0, Patch: 3},
	}, func(req UpdateRequest) error {
		enqueueCalled = true
		enqueued = req
		return nil
	})

	err := checker.Poll(context.Background())
	require.NoError(t, err)
	require.True(t, enqueueCalled)
	require.Equal(t, "https://example.test/fw.bin", enqueued.URL)
	require.Equal(t, "1.1.0", enqueued.Version)
}

func TestPollReportsUpToDateWithoutEnqueuing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"version":"1.0.3","binary":{"downloadUrl":"","hash":""}}`))
	}))
	defer server.Close()

	var enqueueCalled bool
	checker := NewChecker(CheckerConfig{
		BaseURL:  server.URL + "/",
		DeviceID: "sn-123",
		Current:  version.Version{Major: 1, Minor: 0, Patch: 3},
	}, func(req UpdateRequest) error {
		enqueueCalled = true
		return nil
	})

	err := checker.Poll(context.Background())
	require.ErrorIs(t, err, ErrUpToDate)
	require.False(t, enqueueCalled)
}

func TestPollPropagatesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	checker := NewChecker(CheckerConfig{
		BaseURL:  server.URL + "/",
		DeviceID: "sn-123",
		Current:  version.Current,
	}, func(req UpdateRequest) error { return nil })

	err := checker.Poll(context.Background())
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrUpToDate)
}
