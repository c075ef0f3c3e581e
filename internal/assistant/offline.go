package assistant

import (
	"context"
	"strings"

	"health-portal-server/internal/models"
)

// OfflineAssistant produces deterministic canned responses. It is used when
// no API key is configured and in tests.
type OfflineAssistant struct{}

func NewOffline() *OfflineAssistant { return &OfflineAssistant{} }

func (OfflineAssistant) SummarizeRecord(ctx context.Context, content string) (string, error) {
	summary := content
	if len(summary) > 140 {
		summary = summary[:140] + "..."
	}
	return "Summary: " + summary, nil
}

func (OfflineAssistant) AssessEmergency(ctx context.Context, symptoms string, vitals models.WearableData, country string) (Assessment, error) {
	severity := models.SeverityHigh
	lowered := strings.ToLower(symptoms)
	if strings.Contains(lowered, "chest") || strings.Contains(lowered, "breath") || vitals.SpO2 < 92 {
		severity = models.SeverityCritical
	}
	return Assessment{
		Severity: severity,
		Summary:  "Automated assessment unavailable. Reported symptoms: " + symptoms + ". Seek immediate medical attention.",
	}, nil
}

func (OfflineAssistant) PredictRisks(ctx context.Context, history string, country string) ([]Risk, error) {
	return []Risk{
		{
			Category:    models.RiskCardiac,
			Level:       models.RiskLow,
			Probability: 15,
			Prediction:  "No elevated cardiac indicators in the available history.",
			Steps:       []string{"Maintain regular exercise", "Schedule an annual checkup"},
		},
		{
			Category:    models.RiskMetabolic,
			Level:       models.RiskMedium,
			Probability: 35,
			Prediction:  "Insufficient wellness data for a confident metabolic estimate.",
			Steps:       []string{"Log hydration and sleep regularly"},
		},
	}, nil
}
