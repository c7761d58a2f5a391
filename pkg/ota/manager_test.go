package ota

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeFlasher struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	begun     bool
	committed bool
	aborted   bool
	failWrite bool
}

func (f *fakeFlasher) Begin(size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.begun = true
	return nil
}

func (f *fakeFlasher) Write(p []byte) (int, error) {
	if f.failWrite {
		return 0, errors.New("disk full")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.buf.Write(p)
}

func (f *fakeFlasher) Commit() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.committed = true
	return nil
}

func (f *fakeFlasher) Abort() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.aborted = true
	return nil
}

func TestManagerAppliesQueuedUpdateSuccessfully(t *testing.T) {
	image := bytes.Repeat([]byte{0xAB}, 10_000)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(image)
	}))
	defer server.Close()

	fl := &fakeFlasher{}
	mgr := NewManager(fl, server.Client(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx)

	require.NoError(t, mgr.Enqueue(UpdateRequest{URL: server.URL, Version: "1.1.0"}))

	require.Eventually(t, func() bool {
		return mgr.Status().State == stateSuccess
	}, 2*time.Second, 10*time.Millisecond)

	require.Equal(t, 100, mgr.Status().Progress)
	require.True(t, fl.committed)
	require.Equal(t, image, fl.buf.Bytes())
}

func TestManagerReportsErrorOnWriteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bytes.Repeat([]byte{1}, 4096))
	}))
	defer server.Close()

	fl := &fakeFlasher{failWrite: true}
	mgr := NewManager(fl, server.Client(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mgr.Run(ctx)

	require.NoError(t, mgr.Enqueue(UpdateRequest{URL: server.URL, Version: "1.1.0"}))

	require.Eventually(t, func() bool {
		return mgr.Status().State == stateError
	}, 2*time.Second, 10*time.Millisecond)

	require.True(t, fl.aborted)
	require.NotEmpty(t, mgr.Status().Error)
}

func TestEnqueueRejectsWhenQueueFull(t *testing.T) {
	fl := &fakeFlasher{}
	mgr := NewManager(fl, nil, nil, nil)

	require.NoError(t, mgr.Enqueue(UpdateRequest{URL: "https://example.test/a.bin"}))
	err := mgr.Enqueue(UpdateRequest{URL: "https://example.test/b.bin"})
	require.Error(t, err)
}

func TestTriggerUpdateDelegatesToCheckFunc(t *testing.T) {
	fl := &fakeFlasher{}
	called := false
	mgr := NewManager(fl, nil, nil, func(ctx context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, mgr.TriggerUpdate(context.Background()))
	require.True(t, called)
}

func TestTriggerUpdateErrorsWithoutCheckFunc(t *testing.T) {
	mgr := NewManager(&fakeFlasher{}, nil, nil, nil)
	err := mgr.TriggerUpdate(context.Background())
	require.Error(t, err)
}
