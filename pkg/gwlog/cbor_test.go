package gwlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventCBORRoundTrip(t *testing.T) {
	original := Event{
		Timestamp: time.Date(2026, 7, 30, 10, 0, 0, 0, time.UTC),
		Tag:       "subscription",
		Level:     LevelInfo,
		Message:   "handshake complete",
		Layer:     LayerSubscription,
		Detail:    map[string]any{"attempt": uint64(1)},
	}

	data, err := EncodeEvent(original)
	require.NoError(t, err)

	decoded, err := DecodeEvent(data)
	require.NoError(t, err)

	require.True(t, original.Timestamp.Equal(decoded.Timestamp))
	require.Equal(t, original.Tag, decoded.Tag)
	require.Equal(t, original.Level, decoded.Level)
	require.Equal(t, original.Message, decoded.Message)
	require.Equal(t, original.Layer, decoded.Layer)
}

func TestMultiLoggerFansOutToAllSinks(t *testing.T) {
	var a, b []Event
	m := NewMultiLogger(captureLogger{dst: &a}, captureLogger{dst: &b})

	m.Log(Event{Tag: "x", Message: "hello"})

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	require.Equal(t, "hello", a[0].Message)
}
