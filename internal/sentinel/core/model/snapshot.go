package model

// Field names of a live snapshot document. They are shared by every store
// backend so that dashboards read the same layout regardless of backend.
const (
	FieldLat         = "lat"
	FieldLng         = "lng"
	FieldAlt         = "alt"
	FieldBattery     = "batt"
	FieldLastSeen    = "last_seen"
	FieldThreatLevel = "threat_level"
	FieldLastReport  = "last_report"
)

// DeviceSnapshot is the latest known telemetry of one device, keyed by call sign.
// It is created implicitly by the first ping and never deleted by ingestion.
type DeviceSnapshot struct {
	// CallSign uniquely identifies the device.
	CallSign string `json:"callSign"`

	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Alt     float64 `json:"alt"`
	Battery int     `json:"batt"`

	// LastSeenEpochMillis is stamped by the hub when a ping is accepted.
	LastSeenEpochMillis int64 `json:"last_seen"`

	// ThreatLevel is empty until the first report was classified.
	ThreatLevel Verdict `json:"threat_level,omitempty"`

	// LastReport is the most recent classified report text.
	LastReport string `json:"last_report,omitempty"`
}
