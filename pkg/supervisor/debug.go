package supervisor

import (
	"time"

	"github.com/srcful/zap-gateway/pkg/framedetect"
	"github.com/srcful/zap-gateway/pkg/routes"
	"github.com/srcful/zap-gateway/pkg/scheduler"
)

// actionTypes lists every ActionType in declaration order, since
// scheduler has no public enumerator.
var actionTypes = []scheduler.ActionType{
	scheduler.Reboot,
	scheduler.WifiDisconnect,
	scheduler.SendState,
	scheduler.BleDisconnect,
}

// DebugProvider reports scheduler and frame-detector state through the
// debug endpoint.
type DebugProvider struct {
	Scheduler *scheduler.Scheduler
	Detector  *framedetect.Detector
}

// DebugReport implements routes.DebugProvider.
func (d DebugProvider) DebugReport() map[string]any {
	report := map[string]any{}

	if d.Scheduler != nil {
		pending := map[string]string{}
		for _, t := range actionTypes {
			if at, ok := d.Scheduler.Pending(t); ok {
				pending[t.String()] = at.UTC().Format(time.RFC3339)
			}
		}
		report["scheduledActions"] = pending
	}

	if d.Detector != nil {
		report["framesDetected"] = d.Detector.FrameCount()
	}

	return report
}

var _ routes.DebugProvider = DebugProvider{}
