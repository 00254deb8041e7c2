package store

import (
	"encoding/json"
	"strconv"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

// snapshotFromFields rebuilds a snapshot from a stored field document.
// Values may be native numbers, json.Number or strings depending on backend.
func snapshotFromFields(callSign string, fields map[string]any) *model.DeviceSnapshot {
	return &model.DeviceSnapshot{
		CallSign:            callSign,
		Lat:                 toFloat(fields[model.FieldLat]),
		Lng:                 toFloat(fields[model.FieldLng]),
		Alt:                 toFloat(fields[model.FieldAlt]),
		Battery:             int(toInt(fields[model.FieldBattery])),
		LastSeenEpochMillis: toInt(fields[model.FieldLastSeen]),
		ThreatLevel:         model.Verdict(toString(fields[model.FieldThreatLevel])),
		LastReport:          toString(fields[model.FieldLastReport]),
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	}
	return 0
}

func toInt(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, _ := n.Float64()
		return int64(f)
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i
		}
		f, _ := strconv.ParseFloat(n, 64)
		return int64(f)
	}
	return 0
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
