package model

import (
	"errors"
	"fmt"
	"math"
)

// TelemetryPing is one telemetry update sent by a device. Pointer fields
// distinguish "not sent" from a zero value, so absent fields leave the
// stored snapshot untouched.
type TelemetryPing struct {
	// CallSign is optional in payloads; the transport (URL path or topic)
	// is authoritative.
	CallSign string `json:"callSign,omitempty"`

	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Alt     *float64 `json:"alt,omitempty"`
	Battery *int     `json:"battery,omitempty"`

	// Report is an optional free-text field report. A non-empty report
	// triggers threat classification.
	Report string `json:"report,omitempty"`
}

// Validate checks the structural sanity of the supplied fields.
func (p *TelemetryPing) Validate() error {
	if p == nil {
		return errors.New("ping is required")
	}

	var errs []error
	if p.Lat != nil && !inRange(*p.Lat, -90, 90) {
		errs = append(errs, fmt.Errorf("lat %v out of range [-90, 90]", *p.Lat))
	}
	if p.Lng != nil && !inRange(*p.Lng, -180, 180) {
		errs = append(errs, fmt.Errorf("lng %v out of range [-180, 180]", *p.Lng))
	}
	if p.Alt != nil && (math.IsNaN(*p.Alt) || math.IsInf(*p.Alt, 0)) {
		errs = append(errs, fmt.Errorf("alt %v is not a finite number", *p.Alt))
	}
	if p.Battery != nil && (*p.Battery < 0 || *p.Battery > 100) {
		errs = append(errs, fmt.Errorf("battery %d out of range [0, 100]", *p.Battery))
	}

	return errors.Join(errs...)
}

func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}
