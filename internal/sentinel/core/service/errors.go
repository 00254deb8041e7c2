package service

import "errors"

var (
	// ErrInvalidInput is returned when the call sign is empty or the ping
	// is structurally invalid. Nothing is written.
	ErrInvalidInput = errors.New("invalid telemetry ping")

	// ErrStateUpdateFailed is returned when the telemetry write (step 1)
	// could not be committed. Classification and alerting are skipped.
	ErrStateUpdateFailed = errors.New("live state update failed")
)
