package ingest

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/srcful/zap-gateway/pkg/decode"
	"github.com/srcful/zap-gateway/pkg/framedetect"
	"github.com/srcful/zap-gateway/pkg/gwlog"
	"github.com/srcful/zap-gateway/pkg/meterbuf"
	"github.com/srcful/zap-gateway/pkg/meterreading"
	"github.com/srcful/zap-gateway/pkg/meterserial"
)

var tag = gwlog.NewTag("ingest", gwlog.LevelInfo)

// ReadingsCapacity is the size of the bounded readings channel. A full
// channel drops the oldest pending reading rather than blocking the
// decoder, matching the superseded poller's "queue full, remove oldest item"
// behavior ahead of xQueueSendToBack.
const ReadingsCapacity = 3

// readChunkSize bounds a single Port.Read call.
const readChunkSize = 256

// pollIdleDelay paces repeated zero-byte reads against a non-blocking
// port, matching the superseded poller's 100ms poll interval.
const pollIdleDelay = 100 * time.Millisecond

// Task reads a meter's wire protocol off a serial port and publishes
// decoded readings.
type Task struct {
	port     meterserial.Port
	buf      *meterbuf.Buffer
	detector *framedetect.Detector
	readings chan meterreading.Reading

	byteArrived chan struct{}

	mu   sync.Mutex
	last meterreading.Reading
	have bool
}

// New builds a Task reading from port, using buf as its scratch ring
// buffer and detector to carve frames out of it. detector must already be
// configured with the delimiter pairs for the protocols expected on this
// port.
func New(port meterserial.Port, buf *meterbuf.Buffer, detector *framedetect.Detector) *Task {
	return &Task{
		port:        port,
		buf:         buf,
		detector:    detector,
		readings:    make(chan meterreading.Reading, ReadingsCapacity),
		byteArrived: make(chan struct{}, 1),
	}
}

// Readings returns the channel decoded readings are published on.
func (t *Task) Readings() <-chan meterreading.Reading {
	return t.readings
}

// LastReading returns the most recently decoded frame, satisfying
// routes.LastReadingProvider.
func (t *Task) LastReading() (meterreading.Reading, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last, t.have
}

// Run drives the task until ctx is cancelled or the port is closed. It
// starts the blocking port reader on its own goroutine and processes
// completed frames on the calling goroutine, returning once both have
// stopped.
func (t *Task) Run(ctx context.Context) error {
	readErrCh := make(chan error, 1)
	go t.readLoop(ctx, readErrCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = t.port.Close()
			<-readErrCh
			return ctx.Err()
		case err := <-readErrCh:
			return err
		case <-t.byteArrived:
			t.drainFrames()
		case <-ticker.C:
			t.drainFrames()
		}
	}
}

func (t *Task) readLoop(ctx context.Context, done chan<- error) {
	chunk := make([]byte, readChunkSize)
	for {
		n, err := t.port.Read(chunk)
		now := time.Now()
		for i := 0; i < n; i++ {
			t.buf.Add(chunk[i], now)
		}
		if n > 0 {
			select {
			case t.byteArrived <- struct{}{}:
			default:
			}
		}
		if err != nil {
			if ctx.Err() != nil || err == io.EOF {
				done <- nil
				return
			}
			gwlog.Warnf(tag, "serial read error: %v", err)
			done <- err
			return
		}
		if n == 0 {
			// Non-blocking ports return immediately with nothing
			// available; pace the poll the way the superseded poller's
			// 100ms vTaskDelay did, instead of busy-looping.
			time.Sleep(pollIdleDelay)
		}
	}
}

// drainFrames pulls every complete frame currently available out of the
// buffer and decodes it. It can pull more than one frame per call when
// several telegrams arrived in a single read burst.
func (t *Task) drainFrames() {
	for {
		frame, ok := t.detector.Detect(t.buf, time.Now())
		if !ok {
			return
		}
		t.decodeAndPublish(frame)
	}
}

func (t *Task) decodeAndPublish(frame framedetect.Frame) {
	var (
		reading meterreading.Reading
		err     error
	)

	switch frame.Type {
	case framedetect.FrameTypeASCII:
		reading, err = decode.DecodeASCII(t.buf, frame)
	case framedetect.FrameTypeHDLC:
		reading, err = decode.DecodeHDLC(t.buf, frame)
	case framedetect.FrameTypeMBus:
		reading, err = decode.DecodeMBus(t.buf, frame)
	default:
		gwlog.Warnf(tag, "frame with unknown type, %d bytes", frame.Size)
		return
	}

	if err != nil {
		gwlog.Warnf(tag, "failed to decode frame type %d (%d bytes): %v", frame.Type, frame.Size, err)
		return
	}

	gwlog.Debugf(tag, "decoded %s frame: device=%q values=%d", reading.Protocol, reading.DeviceID, len(reading.Values))

	t.mu.Lock()
	t.last = reading
	t.have = true
	t.mu.Unlock()

	t.publish(reading)
}

// publish sends reading to the readings channel, dropping the oldest
// pending reading first if the channel is full.
func (t *Task) publish(reading meterreading.Reading) {
	select {
	case t.readings <- reading:
		return
	default:
	}

	select {
	case <-t.readings:
		gwlog.Warnf(tag, "readings channel full, dropped oldest reading")
	default:
	}

	select {
	case t.readings <- reading:
	default:
		gwlog.Warnf(tag, "readings channel still full after drain, dropping new reading")
	}
}
