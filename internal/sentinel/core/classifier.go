package core

import (
	"context"

	"github.com/autopeer-io/sentinel/internal/sentinel/core/model"
)

// ThreatClassifier turns free-text reports into verdicts.
type ThreatClassifier interface {
	// Classify never fails: any upstream problem yields model.VerdictUnknown.
	Classify(ctx context.Context, reportText string) model.Verdict
}
