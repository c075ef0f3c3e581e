package models

import (
	"time"
)

// AlertSeverity represents how urgent an emergency alert is
type AlertSeverity string

const (
	SeverityHigh     AlertSeverity = "HIGH"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// EmergencyAlert is created on an SOS trigger. Active alerts are never
// automatically cleared; no acknowledgement workflow exists.
type EmergencyAlert struct {
	ID           string        `json:"id"`
	PatientID    string        `json:"patientId"`
	PatientName  string        `json:"patientName"`
	Timestamp    time.Time     `json:"timestamp"`
	Severity     AlertSeverity `json:"severity"`
	Symptoms     string        `json:"symptoms"`
	AIAssessment string        `json:"aiAssessment"`
	Vitals       *WearableData `json:"vitals,omitempty"`
	Active       bool          `json:"active"`
	Fingerprint  string        `json:"fingerprint,omitempty"`
}

// WearableData is a snapshot of simulated device vitals.
type WearableData struct {
	HeartRate        int       `json:"heartRate"`
	Steps            int       `json:"steps"`
	SpO2             int       `json:"spO2"`
	BloodPressureSys int       `json:"bloodPressureSys"`
	BloodPressureDia int       `json:"bloodPressureDia"`
	LastSync         time.Time `json:"lastSync"`
}

// RiskCategory enum
type RiskCategory string

const (
	RiskCardiac     RiskCategory = "CARDIAC"
	RiskMetabolic   RiskCategory = "METABOLIC"
	RiskRespiratory RiskCategory = "RESPIRATORY"
	RiskMental      RiskCategory = "MENTAL"
)

// RiskLevel enum
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RiskPrediction is an AI-generated health risk estimate for a user.
type RiskPrediction struct {
	ID                string       `json:"id"`
	UserID            string       `json:"userId"`
	Category          RiskCategory `json:"category"`
	RiskLevel         RiskLevel    `json:"riskLevel"`
	Probability       int          `json:"probability"` // 0-100
	Prediction        string       `json:"prediction"`
	PreventativeSteps []string     `json:"preventativeSteps"`
	Timestamp         time.Time    `json:"timestamp"`
}

// TaskStatus enum
type TaskStatus string

const (
	TaskPending TaskStatus = "PENDING"
	TaskDone    TaskStatus = "DONE"
)

// TaskPriority enum
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// DoctorTask is a provider's to-do item, optionally tied to a patient.
type DoctorTask struct {
	ID          string       `json:"id"`
	ProviderID  string       `json:"providerId"`
	PatientID   string       `json:"patientId,omitempty"`
	PatientName string       `json:"patientName,omitempty"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	DueDate     string       `json:"dueDate,omitempty"`
}

// NotificationType enum
type NotificationType string

const (
	NotifyAlert    NotificationType = "ALERT"
	NotifyReminder NotificationType = "REMINDER"
	NotifyInfo     NotificationType = "INFO"
	NotifyInsight  NotificationType = "AI_INSIGHT"
)

// Notification is an in-app notification for a user.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	Timestamp time.Time        `json:"timestamp"`
}

// WellnessType enum
type WellnessType string

const (
	WellnessSleep     WellnessType = "SLEEP"
	WellnessMood      WellnessType = "MOOD"
	WellnessHydration WellnessType = "HYDRATION"
	WellnessExercise  WellnessType = "EXERCISE"
)

// WellnessEntry is a self-reported wellness data point.
type WellnessEntry struct {
	ID     string       `json:"id"`
	UserID string       `json:"userId"`
	Date   string       `json:"date"`
	Type   WellnessType `json:"type"`
	Value  float64      `json:"value"`
	Notes  string       `json:"notes,omitempty"`
}

// Relation enum for dependents
type Relation string

const (
	RelationChild  Relation = "CHILD"
	RelationSpouse Relation = "SPOUSE"
	RelationParent Relation = "PARENT"
	RelationOther  Relation = "OTHER"
)

// Dependent is a family profile managed by a parent user. Each dependent also
// gets a patient user record so records and appointments can reference it.
type Dependent struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parentId"`
	Name     string   `json:"name"`
	Relation Relation `json:"relation"`
	Age      int      `json:"age"`
	Gender   string   `json:"gender"`
	Country  string   `json:"country,omitempty"`
}
