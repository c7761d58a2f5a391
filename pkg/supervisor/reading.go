package supervisor

import (
	"github.com/srcful/zap-gateway/pkg/ingest"
	"github.com/srcful/zap-gateway/pkg/meterreading"
	"github.com/srcful/zap-gateway/pkg/routes"
)

// readingAdapter makes an *ingest.Task satisfy routes.LastReadingProvider,
// translating its internal meterreading.Reading shape into the narrow
// view NewP1DataHandler needs.
type readingAdapter struct {
	task *ingest.Task
}

// NewLastReadingProvider wraps task so it satisfies
// routes.LastReadingProvider.
func NewLastReadingProvider(task *ingest.Task) routes.LastReadingProvider {
	return readingAdapter{task: task}
}

// LastReading implements routes.LastReadingProvider.
func (a readingAdapter) LastReading() (routes.Reading, bool) {
	reading, ok := a.task.LastReading()
	if !ok {
		return routes.Reading{}, false
	}
	return routes.Reading{
		TimestampUnix: reading.Timestamp.Unix(),
		ObisLines:     obisLines(reading),
	}, true
}

func obisLines(reading meterreading.Reading) []string {
	lines := make([]string, 0, len(reading.Values))
	for _, v := range reading.Values {
		lines = append(lines, v.Raw)
	}
	return lines
}
