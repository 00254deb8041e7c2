package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/autopeer-io/sentinel/internal/pkg/metrics"
	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
	"github.com/autopeer-io/sentinel/pkg/log"
)

const (
	stepTelemetry  = "telemetry"
	stepAssessment = "assessment"
)

// ProcessPing ingests one telemetry ping.
// Flow:
// 1. Merge the supplied telemetry fields plus last_seen into live state.
// 2. If the ping carries a report, classify it and merge threat_level/last_report.
// 3. If the verdict is THREAT, hand an alert to the dispatcher without waiting.
//
// Only a step 1 failure is returned. Later failures are logged and absorbed.
func (s *Service) ProcessPing(ctx context.Context, callSign string, ping *model.TelemetryPing) (*model.Outcome, error) {
	callSign = strings.TrimSpace(callSign)
	if callSign == "" {
		return nil, fmt.Errorf("%w: call sign is required", ErrInvalidInput)
	}
	if err := ping.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	logger := log.FromContext(ctx).WithValues("callSign", callSign, "pingID", uuid.NewString())
	now := s.clock.Now()

	if err := s.write(ctx, callSign, telemetryFields(ping, now), stepTelemetry); err != nil {
		logger.Error(err, "Failed to update live telemetry")
		return nil, fmt.Errorf("%w: %w", ErrStateUpdateFailed, err)
	}

	outcome := &model.Outcome{
		CallSign:            callSign,
		LastSeenEpochMillis: now.UnixMilli(),
	}
	if ping.Report == "" {
		logger.Debug("Telemetry updated")
		return outcome, nil
	}

	// Steps 2 and 3 finish even if the caller goes away after step 1.
	ctx = context.WithoutCancel(ctx)

	verdict := s.classify(ctx, ping.Report)
	outcome.Classified = true
	outcome.Verdict = verdict
	logger.Info("Report classified", "verdict", verdict)

	if err := s.write(ctx, callSign, assessmentFields(verdict, ping.Report), stepAssessment); err != nil {
		// The telemetry write already landed; a stale threat_level is tolerated.
		logger.Error(err, "Failed to record threat assessment", "verdict", verdict)
	}

	if verdict == model.VerdictThreat {
		s.dispatcher.Dispatch(alertFor(callSign, ping))
		outcome.Escalated = true
		logger.Warn("Threat escalated")
	}

	return outcome, nil
}

func (s *Service) write(ctx context.Context, key string, fields map[string]any, step string) error {
	ctx, cancel := context.WithTimeout(ctx, s.stateTimeout)
	defer cancel()

	if err := s.state.PartialUpdate(ctx, key, fields); err != nil {
		metrics.StateWritesTotal.WithLabelValues(step, "failed").Inc()
		return err
	}
	metrics.StateWritesTotal.WithLabelValues(step, "success").Inc()
	return nil
}

// classify runs the classifier under a hard deadline. A classifier that
// ignores cancellation is abandoned and the verdict is UNKNOWN.
func (s *Service) classify(ctx context.Context, report string) (verdict model.Verdict) {
	start := s.clock.Now()
	defer func() {
		metrics.ClassificationDuration.Observe(s.clock.Since(start).Seconds())
		metrics.ClassificationsTotal.WithLabelValues(string(verdict)).Inc()
	}()

	ctx, cancel := context.WithTimeout(ctx, s.classifyTimeout)
	defer cancel()

	result := make(chan model.Verdict, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error(fmt.Errorf("%v", r), "Classifier panicked")
				result <- model.VerdictUnknown
			}
		}()
		result <- s.classifier.Classify(ctx, report)
	}()

	select {
	case v := <-result:
		return model.ParseVerdict(string(v))
	case <-ctx.Done():
		log.FromContext(ctx).Warn("Classification timed out", "timeout", s.classifyTimeout)
		return model.VerdictUnknown
	}
}
