// Package status defines the boundary the supervisor uses to surface
// gateway state externally, standing in for the superseded ESP32 firmware's
// status LED. The default Indicator logs transitions through pkg/gwlog
// rather than driving any physical output.
package status
