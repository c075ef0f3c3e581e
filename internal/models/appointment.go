package models

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusScheduled AppointmentStatus = "SCHEDULED"
	StatusCancelled AppointmentStatus = "CANCELLED"
	StatusCompleted AppointmentStatus = "COMPLETED"
)

// AppointmentType represents how the appointment is held
type AppointmentType string

const (
	AppointmentVideo    AppointmentType = "VIDEO"
	AppointmentInPerson AppointmentType = "IN_PERSON"
)

// Appointment represents a scheduled medical appointment. Names are
// denormalized for display. Booking yields PENDING; the provider moves it to
// SCHEDULED or CANCELLED.
type Appointment struct {
	ID           string            `json:"id"`
	PatientID    string            `json:"patientId"`
	ProviderID   string            `json:"providerId"`
	PatientName  string            `json:"patientName"`
	ProviderName string            `json:"providerName"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Status       AppointmentStatus `json:"status"`
	Type         AppointmentType   `json:"type"`
	Notes        string            `json:"notes,omitempty"`
}
