package repository

import "health-portal-server/internal/models"

// Role-dependent authorization rules are collected here instead of being
// re-derived by every caller.

// canShareRecord: only the owning patient may grant access to their record.
func canShareRecord(actor *models.User, record *models.MedicalRecord) bool {
	return actor.Role == models.RolePatient && actor.ID == record.PatientID
}

// canConfirmAppointment: only the booked provider, or an admin, may confirm
// or decline.
func canConfirmAppointment(actor *models.User, apt *models.Appointment) bool {
	if actor.Role == models.RoleAdmin {
		return true
	}
	return actor.Role == models.RoleProvider && actor.ID == apt.ProviderID
}
