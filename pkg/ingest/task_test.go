package ingest

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/srcful/zap-gateway/pkg/framedetect"
	"github.com/srcful/zap-gateway/pkg/meterbuf"
	"github.com/srcful/zap-gateway/pkg/meterreading"
)

// pipePort adapts an io.Reader/io.Closer pair (typically an io.Pipe end)
// to the meterserial.Port interface.
type pipePort struct {
	io.Reader
	io.Closer
}

func newAsciiDetector() *framedetect.Detector {
	return framedetect.New([]framedetect.DelimiterPair{
		{Start: '/', End: '!', Type: framedetect.FrameTypeASCII},
	}, 50*time.Millisecond)
}

func TestRunDecodesFrameAndPublishesReading(t *testing.T) {
	r, w := io.Pipe()
	task := New(pipePort{Reader: r, Closer: r}, meterbuf.New(512), newAsciiDetector())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runErr := make(chan error, 1)
	go func() { runErr <- task.Run(ctx) }()

	telegram := "/LGF5E360\r\n0-0:1.0.0(250427132220W)\r\n1-0:1.8.0(00013139.107*kWh)\r\n!1234\r\n"
	go func() {
		_, _ = w.Write([]byte(telegram))
	}()

	select {
	case reading := <-task.Readings():
		require.Equal(t, meterreading.ProtocolASCII, reading.Protocol)
		require.Equal(t, "LGF5E360", reading.DeviceID)
		require.Len(t, reading.Values, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a decoded reading")
	}

	cancel()
	_ = w.Close()
	<-runErr
}

func TestRunStopsOnContextCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	task := New(pipePort{Reader: r, Closer: r}, meterbuf.New(512), newAsciiDetector())

	ctx, cancel := context.WithCancel(context.Background())

	runErr := make(chan error, 1)
	go func() { runErr <- task.Run(ctx) }()

	cancel()

	select {
	case err := <-runErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}

func TestPublishDropsOldestWhenReadingsChannelIsFull(t *testing.T) {
	r, w := io.Pipe()
	defer r.Close()
	defer w.Close()
	task := New(pipePort{Reader: r, Closer: r}, meterbuf.New(512), newAsciiDetector())

	for i := 0; i < ReadingsCapacity; i++ {
		task.publish(meterreading.Reading{DeviceID: "first-batch"})
	}
	task.publish(meterreading.Reading{DeviceID: "overflow"})

	require.Len(t, task.readings, ReadingsCapacity)

	var last meterreading.Reading
	for i := 0; i < ReadingsCapacity; i++ {
		last = <-task.readings
	}
	require.Equal(t, "overflow", last.DeviceID)
}
