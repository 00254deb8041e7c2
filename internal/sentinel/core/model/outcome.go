package model

// Outcome summarises what the ingestion pipeline did with one ping.
type Outcome struct {
	CallSign string

	// LastSeenEpochMillis is the timestamp written with the telemetry update.
	LastSeenEpochMillis int64

	// Classified is true when the ping carried a report.
	Classified bool

	// Verdict is the resolved verdict; empty when Classified is false.
	Verdict Verdict

	// Escalated is true when an alert was handed to the dispatcher.
	Escalated bool
}
