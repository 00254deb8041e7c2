package service

import (
	"time"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

// telemetryFields maps the supplied ping fields onto snapshot fields.
// Absent fields are left out so the store keeps their previous value.
func telemetryFields(p *model.TelemetryPing, now time.Time) map[string]any {
	fields := map[string]any{
		model.FieldLastSeen: now.UnixMilli(),
	}
	if p.Lat != nil {
		fields[model.FieldLat] = *p.Lat
	}
	if p.Lng != nil {
		fields[model.FieldLng] = *p.Lng
	}
	if p.Alt != nil {
		fields[model.FieldAlt] = *p.Alt
	}
	if p.Battery != nil {
		fields[model.FieldBattery] = *p.Battery
	}
	return fields
}

func assessmentFields(v model.Verdict, report string) map[string]any {
	return map[string]any{
		model.FieldThreatLevel: string(v),
		model.FieldLastReport:  report,
	}
}

func alertFor(callSign string, p *model.TelemetryPing) *model.AlertEvent {
	ev := &model.AlertEvent{
		CallSign:   callSign,
		ReportText: p.Report,
	}
	if p.Lat != nil {
		ev.Lat = *p.Lat
	}
	if p.Lng != nil {
		ev.Lng = *p.Lng
	}
	return ev
}
