package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"health-portal-server/internal/models"
)

// AppointmentInput are the inputs for booking an appointment.
type AppointmentInput struct {
	PatientID    string
	ProviderID   string
	PatientName  string
	ProviderName string
	Date         string
	Time         string
	Type         models.AppointmentType
	Notes        string
}

// BookAppointment creates an appointment in PENDING state and notifies the
// provider.
func (r *Repository) BookAppointment(ctx context.Context, input AppointmentInput) (models.Appointment, error) {
	if r.remote != nil {
		return r.remote.BookAppointment(ctx, input)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	if r.findUser(input.PatientID) == nil || r.findUser(input.ProviderID) == nil {
		return models.Appointment{}, ErrNotFound
	}

	aptType := input.Type
	if aptType == "" {
		aptType = models.AppointmentVideo
	}

	apt := models.Appointment{
		ID:           uuid.New().String(),
		PatientID:    input.PatientID,
		ProviderID:   input.ProviderID,
		PatientName:  input.PatientName,
		ProviderName: input.ProviderName,
		Date:         input.Date,
		Time:         input.Time,
		Status:       models.StatusPending,
		Type:         aptType,
		Notes:        input.Notes,
	}

	r.appointments = append(r.appointments, apt)
	r.persist(keyAppointments, r.appointments)

	r.addNotificationLocked(input.ProviderID, "New Appointment Request",
		fmt.Sprintf("%s requested a %s appointment.", input.PatientName, aptType), models.NotifyAlert)

	return apt, nil
}

// GetAppointments lists a user's appointments: providers see their bookings,
// everyone else sees appointments they booked as a patient.
func (r *Repository) GetAppointments(ctx context.Context, userID string) ([]models.Appointment, error) {
	if r.remote != nil {
		return r.remote.GetAppointments(ctx, userID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	user := r.findUser(userID)
	if user == nil {
		return nil, ErrNotFound
	}

	var out []models.Appointment
	for _, apt := range r.appointments {
		if user.Role == models.RoleProvider {
			if apt.ProviderID == userID {
				out = append(out, apt)
			}
		} else if apt.PatientID == userID {
			out = append(out, apt)
		}
	}
	return out, nil
}

// ConfirmAppointment moves an appointment to SCHEDULED (confirm) or
// CANCELLED (decline) and notifies the patient. Re-confirming is accepted;
// the last call wins, there is no lock on the transition.
func (r *Repository) ConfirmAppointment(ctx context.Context, actorID, appointmentID string, confirm bool) (models.Appointment, error) {
	if r.remote != nil {
		return r.remote.ConfirmAppointment(ctx, appointmentID, confirm)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	actor := r.findUser(actorID)
	if actor == nil {
		return models.Appointment{}, ErrNotFound
	}

	for i := range r.appointments {
		apt := &r.appointments[i]
		if apt.ID != appointmentID {
			continue
		}
		if !canConfirmAppointment(actor, apt) {
			return models.Appointment{}, ErrForbidden
		}

		verdict := "declined"
		notify := models.NotifyAlert
		if confirm {
			apt.Status = models.StatusScheduled
			verdict = "confirmed"
			notify = models.NotifyReminder
		} else {
			apt.Status = models.StatusCancelled
		}
		r.persist(keyAppointments, r.appointments)

		r.addNotificationLocked(apt.PatientID, "Appointment Update",
			fmt.Sprintf("Your appointment with %s was %s.", apt.ProviderName, verdict), notify)

		return *apt, nil
	}
	return models.Appointment{}, ErrNotFound
}
