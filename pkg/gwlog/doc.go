// Package gwlog provides the gateway's logging facility: a level-filtered,
// tag-prefixed text sink for the debug stream, plus an optional structured
// audit trail of the same events.
//
// # Text output
//
// Applications log through a Tag, which carries a name and a default
// minimum level:
//
//	var tagUplink = gwlog.NewTag("uplink", gwlog.LevelInfo)
//	gwlog.Infof(tagUplink, "posted reading for %s", deviceID)
//
// Output is a single line per call: "L_tag: formatted message", written to
// the configured debug stream. Calls below the tag's minimum level, or
// below the current runtime level, are no-ops.
//
// # Structured audit trail
//
// Applications that want a machine-readable trace in addition to the text
// stream attach a Logger (CBOR-encoded Event values) via SetAuditLogger.
// NoopLogger (the default) discards everything; FileLogger appends to a
// .gwlog file; MultiLogger fans out to several sinks at once.
package gwlog
