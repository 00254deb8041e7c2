package notifier

import "errors"

var (
	// ErrDispatchFailed is returned by sinks when a delivery attempt failed.
	// The pool logs it; it never reaches the ingestion caller.
	ErrDispatchFailed = errors.New("alert dispatch failed")

	// ErrPoolFull means every worker is busy and the queue is at capacity.
	ErrPoolFull = errors.New("alert queue full")

	// ErrPoolClosed means the pool no longer accepts alerts.
	ErrPoolClosed = errors.New("alert pool closed")
)
