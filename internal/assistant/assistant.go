// Package assistant is the boundary to the AI provider. The repository only
// depends on receiving structured text or a failure; prompt internals and
// response parsing quirks stay behind this interface.
package assistant

import (
	"context"

	"health-portal-server/internal/models"
)

// Assessment is the AI triage result for an emergency trigger.
type Assessment struct {
	Severity models.AlertSeverity
	Summary  string
}

// Risk is one AI-predicted health risk.
type Risk struct {
	Category    models.RiskCategory
	Level       models.RiskLevel
	Probability int
	Prediction  string
	Steps       []string
}

// Assistant defines the AI operations the repository invokes.
type Assistant interface {
	SummarizeRecord(ctx context.Context, content string) (string, error)
	AssessEmergency(ctx context.Context, symptoms string, vitals models.WearableData, country string) (Assessment, error)
	PredictRisks(ctx context.Context, history string, country string) ([]Risk, error)
}
