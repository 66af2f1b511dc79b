// Package timeouts defines shared timeout constants used by commands.
// Centralizing these values keeps the durations discoverable.
package timeouts

import "time"

// TelemetryShutdown caps how long a command waits for pending spans to flush
// on exit.
const TelemetryShutdown = 5 * time.Second

// MetricsPush caps a single Pushgateway request when the command's
// configuration does not set one.
const MetricsPush = 5 * time.Second
