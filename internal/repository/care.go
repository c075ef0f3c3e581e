package repository

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"health-portal-server/internal/assistant"
	"health-portal-server/internal/fingerprint"
	"health-portal-server/internal/models"
)

// addNotificationLocked appends a notification. Callers must hold r.mu.
func (r *Repository) addNotificationLocked(userID, title, message string, kind models.NotificationType) {
	r.notifications = append(r.notifications, models.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		Timestamp: time.Now(),
	})
	r.persist(keyNotifications, r.notifications)
}

// AddNotification creates an in-app notification for a user.
func (r *Repository) AddNotification(ctx context.Context, userID, title, message string, kind models.NotificationType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()
	r.addNotificationLocked(userID, title, message, kind)
	return nil
}

// GetNotifications lists a user's notifications, newest first.
func (r *Repository) GetNotifications(ctx context.Context, userID string) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

// AddTask creates a provider to-do item.
func (r *Repository) AddTask(ctx context.Context, task models.DoctorTask) (models.DoctorTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	task.ID = uuid.New().String()
	task.Status = models.TaskPending
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}

	r.tasks = append(r.tasks, task)
	r.persist(keyTasks, r.tasks)
	return task, nil
}

// GetTasks lists a provider's tasks.
func (r *Repository) GetTasks(ctx context.Context, providerID string) ([]models.DoctorTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	var out []models.DoctorTask
	for _, t := range r.tasks {
		if t.ProviderID == providerID {
			out = append(out, t)
		}
	}
	return out, nil
}

// AddWellnessEntry records a self-reported wellness data point.
func (r *Repository) AddWellnessEntry(ctx context.Context, entry models.WellnessEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	entry.ID = uuid.New().String()
	if entry.Date == "" {
		entry.Date = time.Now().Format(time.RFC3339)
	}
	r.wellness = append(r.wellness, entry)
	r.persist(keyWellness, r.wellness)
	return nil
}

// GetWearables returns a simulated device vitals snapshot.
func (r *Repository) GetWearables(ctx context.Context, userID string) (models.WearableData, error) {
	return models.WearableData{
		HeartRate:        72 + rand.Intn(10),
		Steps:            4500 + rand.Intn(5000),
		SpO2:             98,
		BloodPressureSys: 120,
		BloodPressureDia: 80,
		LastSync:         time.Now(),
	}, nil
}

// TriggerEmergency handles an SOS: the assistant triages the symptoms, the
// alert is anchored via the fingerprint engine, and every connected provider
// is notified. Active alerts are never automatically cleared.
func (r *Repository) TriggerEmergency(ctx context.Context, userID, symptoms string) (models.EmergencyAlert, error) {
	vitals, _ := r.GetWearables(ctx, userID)

	r.mu.Lock()
	user := r.findUserLoaded(userID)
	if user == nil {
		r.mu.Unlock()
		return models.EmergencyAlert{}, ErrNotFound
	}
	name := user.Name
	country := user.Country
	r.mu.Unlock()

	assessment, err := r.ai.AssessEmergency(ctx, symptoms, vitals, country)
	if err != nil {
		log.Printf("repository: emergency assessment unavailable: %v", err)
		assessment = assistant.Assessment{
			Severity: models.SeverityHigh,
			Summary:  "Automated assessment unavailable. Seek immediate medical attention.",
		}
	}

	receipt, err := fingerprint.Broadcast(map[string]any{
		"type":      "EMERGENCY_ALERT",
		"patientId": userID,
		"symptoms":  symptoms,
		"timestamp": time.Now().UnixMilli(),
	}, strconv.FormatInt(time.Now().UnixMilli(), 10))
	if err != nil {
		return models.EmergencyAlert{}, fmt.Errorf("while anchoring alert: %w", err)
	}

	alert := models.EmergencyAlert{
		ID:           uuid.New().String(),
		PatientID:    userID,
		PatientName:  name,
		Timestamp:    time.Now(),
		Severity:     assessment.Severity,
		Symptoms:     symptoms,
		AIAssessment: assessment.Summary,
		Vitals:       &vitals,
		Active:       true,
		Fingerprint:  receipt.TxID,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.emergencies = append(r.emergencies, alert)
	r.persist(keyEmergencies, r.emergencies)

	for _, id := range r.connections[userID] {
		if contact := r.findUser(id); contact != nil && contact.Role == models.RoleProvider {
			r.addNotificationLocked(contact.ID, "EMERGENCY ALERT",
				fmt.Sprintf("Critical alert for %s: %s", name, assessment.Summary), models.NotifyAlert)
		}
	}

	return alert, nil
}

// findUserLoaded is findUser preceded by ensure; callers must hold r.mu.
func (r *Repository) findUserLoaded(id string) *models.User {
	r.ensure()
	return r.findUser(id)
}

// GetEmergencyAlerts lists the active alerts of a provider's patients.
func (r *Repository) GetEmergencyAlerts(ctx context.Context, providerID string) ([]models.EmergencyAlert, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	mine := make(map[string]bool)
	for _, p := range r.patientsForProviderLocked(providerID) {
		mine[p.ID] = true
	}

	var out []models.EmergencyAlert
	for _, a := range r.emergencies {
		if a.Active && mine[a.PatientID] {
			out = append(out, a)
		}
	}
	return out, nil
}

// GenerateRiskPrediction asks the assistant for fresh risk estimates based on
// the user's record and wellness history, replacing any previous predictions
// for that user.
func (r *Repository) GenerateRiskPrediction(ctx context.Context, userID string) ([]models.RiskPrediction, error) {
	r.mu.Lock()
	user := r.findUserLoaded(userID)
	if user == nil {
		r.mu.Unlock()
		return nil, ErrNotFound
	}
	country := user.Country

	var history []string
	for _, rec := range r.records {
		if rec.PatientID == userID {
			if rec.AISummary != "" {
				history = append(history, rec.AISummary)
			} else {
				history = append(history, rec.Title)
			}
		}
	}
	var wellness []string
	for _, w := range r.wellness {
		if w.UserID == userID {
			wellness = append(wellness, fmt.Sprintf("%s: %g", w.Type, w.Value))
		}
	}
	r.mu.Unlock()

	prompt := fmt.Sprintf("Medical History: %s. Wellness Data: %s",
		strings.Join(history, ". "), strings.Join(wellness, ", "))

	risks, err := r.ai.PredictRisks(ctx, prompt, country)
	if err != nil {
		return nil, fmt.Errorf("while predicting risks: %w", err)
	}

	now := time.Now()
	fresh := make([]models.RiskPrediction, 0, len(risks))
	for _, risk := range risks {
		fresh = append(fresh, models.RiskPrediction{
			ID:                uuid.New().String(),
			UserID:            userID,
			Category:          risk.Category,
			RiskLevel:         risk.Level,
			Probability:       risk.Probability,
			Prediction:        risk.Prediction,
			PreventativeSteps: risk.Steps,
			Timestamp:         now,
		})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.risks[:0]
	for _, p := range r.risks {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	r.risks = append(kept, fresh...)
	r.persist(keyRisks, r.risks)

	return fresh, nil
}

// GetRisks lists a user's current risk predictions.
func (r *Repository) GetRisks(ctx context.Context, userID string) ([]models.RiskPrediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	var out []models.RiskPrediction
	for _, p := range r.risks {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}
