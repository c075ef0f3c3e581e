package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"health-portal-server/internal/models"
)

// OpenAIAssistant calls the OpenAI API for summaries, emergency triage and
// risk prediction.
type OpenAIAssistant struct {
	client *openai.Client
	model  string
}

// NewOpenAI constructs an OpenAI-backed assistant.
func NewOpenAI(apiKey, model string) *OpenAIAssistant {
	return &OpenAIAssistant{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (a *OpenAIAssistant) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// SummarizeRecord produces a short patient-friendly summary of a clinical note.
func (a *OpenAIAssistant) SummarizeRecord(ctx context.Context, content string) (string, error) {
	return a.complete(ctx,
		"Summarize the following medical record in two plain-language sentences for the patient.",
		content)
}

// AssessEmergency triages symptoms plus a vitals snapshot into a severity and
// a short assessment.
func (a *OpenAIAssistant) AssessEmergency(ctx context.Context, symptoms string, vitals models.WearableData, country string) (Assessment, error) {
	prompt := fmt.Sprintf(
		"Symptoms: %s. Heart rate %d bpm, SpO2 %d%%, blood pressure %d/%d. Patient country: %s. "+
			`Respond with JSON {"severity":"HIGH"|"CRITICAL","assessment":"..."}.`,
		symptoms, vitals.HeartRate, vitals.SpO2, vitals.BloodPressureSys, vitals.BloodPressureDia, country)

	raw, err := a.complete(ctx, "You are an emergency triage assistant.", prompt)
	if err != nil {
		return Assessment{}, err
	}

	var parsed struct {
		Severity   string `json:"severity"`
		Assessment string `json:"assessment"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		// Unstructured reply: treat the text as the assessment.
		return Assessment{Severity: models.SeverityHigh, Summary: raw}, nil
	}

	severity := models.SeverityHigh
	if strings.EqualFold(parsed.Severity, string(models.SeverityCritical)) {
		severity = models.SeverityCritical
	}
	return Assessment{Severity: severity, Summary: parsed.Assessment}, nil
}

// PredictRisks estimates health risks from a concatenated history string.
func (a *OpenAIAssistant) PredictRisks(ctx context.Context, history string, country string) ([]Risk, error) {
	prompt := fmt.Sprintf(
		"Patient history: %s. Country: %s. Respond with a JSON array of up to four objects "+
			`{"category":"CARDIAC"|"METABOLIC"|"RESPIRATORY"|"MENTAL","level":"LOW"|"MEDIUM"|"HIGH",`+
			`"probability":0-100,"prediction":"...","steps":["..."]}.`,
		history, country)

	raw, err := a.complete(ctx, "You are a preventative health analyst.", prompt)
	if err != nil {
		return nil, err
	}

	var parsed []struct {
		Category    string   `json:"category"`
		Level       string   `json:"level"`
		Probability int      `json:"probability"`
		Prediction  string   `json:"prediction"`
		Steps       []string `json:"steps"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("while parsing risk prediction response: %w", err)
	}

	risks := make([]Risk, 0, len(parsed))
	for _, p := range parsed {
		risks = append(risks, Risk{
			Category:    models.RiskCategory(strings.ToUpper(p.Category)),
			Level:       models.RiskLevel(strings.ToUpper(p.Level)),
			Probability: p.Probability,
			Prediction:  p.Prediction,
			Steps:       p.Steps,
		})
	}
	return risks, nil
}

// extractJSON strips markdown code fences some models wrap around JSON.
func extractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	return strings.TrimSpace(trimmed)
}
