package paths

// Topic segments for the Sentinel telemetry protocol.
// These constants define the routing contract between the hub and field devices.

// Upstream: Device -> Hub
const (
	// Ping is the topic segment for telemetry pings.
	// Payload: { "lat": 10, "lng": 20, "alt": 120, "battery": 80, "report": "..." }
	// Pattern: {root}/ping/{callSign}
	Ping = "ping"
)

// Downstream: Hub -> Command Center
const (
	// Alert is the topic segment for threat alerts published by the mqtt alert sink.
	// Payload: { "callSign": "...", "reportText": "...", "lat": 10, "lng": 20 }
	// Pattern: {root}/alert/{callSign}
	Alert = "alert"
)

// GroupHub is the shared-subscription group joined by every hub replica,
// so each ping is delivered to exactly one replica.
const GroupHub = "sentinel-hub"
