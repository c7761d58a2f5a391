package gwlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

var (
	mu         sync.Mutex
	stream     io.Writer = os.Stderr
	globalGate atomic.Uint32 // holds a Level

	auditMu sync.Mutex
	audit   Logger = NoopLogger{}
)

func init() {
	globalGate.Store(uint32(LevelDebug))
}

// SetStream configures the debug stream that text output is written to.
// Passing nil disables text output entirely (calls become no-ops).
func SetStream(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		stream = io.Discard
		return
	}
	stream = w
}

// SetLevel sets the runtime gate. Calls below this level are dropped even
// if the tag's own minimum level would allow them.
func SetLevel(l Level) {
	globalGate.Store(uint32(l))
}

// CurrentLevel returns the runtime gate.
func CurrentLevel() Level {
	return Level(globalGate.Load())
}

// SetAuditLogger attaches a structured event sink. Pass NoopLogger{} (the
// default) to disable it.
func SetAuditLogger(l Logger) {
	auditMu.Lock()
	defer auditMu.Unlock()
	if l == nil {
		l = NoopLogger{}
	}
	audit = l
}

func emit(tag Tag, level Level, format string, args []any) {
	if level < tag.MinLevel || level < CurrentLevel() {
		return
	}

	line := fmt.Sprintf(format, args...)

	mu.Lock()
	w := stream
	mu.Unlock()
	if w != nil {
		fmt.Fprintf(w, "%s_%s: %s\n", level, tag.Name, line)
	}

	auditMu.Lock()
	a := audit
	auditMu.Unlock()
	a.Log(newTextEvent(tag, level, line))
}

// Debugf logs at LevelDebug.
func Debugf(tag Tag, format string, args ...any) { emit(tag, LevelDebug, format, args) }

// Infof logs at LevelInfo.
func Infof(tag Tag, format string, args ...any) { emit(tag, LevelInfo, format, args) }

// Warnf logs at LevelWarn.
func Warnf(tag Tag, format string, args ...any) { emit(tag, LevelWarn, format, args) }

// Errorf logs at LevelError.
func Errorf(tag Tag, format string, args ...any) { emit(tag, LevelError, format, args) }
