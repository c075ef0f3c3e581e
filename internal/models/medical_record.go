package models

// MedicalRecordType represents the type of medical record
type MedicalRecordType string

const (
	RecordTypePrescription MedicalRecordType = "PRESCRIPTION"
	RecordTypeLabReport    MedicalRecordType = "LAB_REPORT"
	RecordTypeClinicalNote MedicalRecordType = "CLINICAL_NOTE"
	RecordTypeImaging      MedicalRecordType = "IMAGING"
)

// MedicalRecord represents one clinical artifact. The anchor triple
// (Fingerprint, LockingScript, Fee) simulates immutable notarization: the
// fingerprint is a content hash minted exactly once at creation and never
// rewritten, and the fee is a cosmetic cost estimate with no real-world
// meaning. SharedWith only grows; there is no revoke operation.
type MedicalRecord struct {
	ID         string            `json:"id"`
	PatientID  string            `json:"patientId"`
	ProviderID string            `json:"providerId"`
	Type       MedicalRecordType `json:"type"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	AISummary  string            `json:"aiSummary,omitempty"`
	FileURL    string            `json:"fileUrl,omitempty"`
	FileName   string            `json:"fileName,omitempty"`
	Date       string            `json:"date"` // YYYY-MM-DD

	// Provider ids granted read access, additive only.
	SharedWith []string `json:"sharedWith"`

	// Anchor triple
	Fingerprint   string `json:"fingerprint"`
	LockingScript string `json:"lockingScript"`
	Fee           int    `json:"fee"`
}

// SharedWithContains reports whether providerID already has access.
func (r *MedicalRecord) SharedWithContains(providerID string) bool {
	for _, id := range r.SharedWith {
		if id == providerID {
			return true
		}
	}
	return false
}
