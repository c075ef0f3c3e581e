package repository

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"health-portal-server/internal/fingerprint"
	"health-portal-server/internal/models"
)

// RecordInput are the inputs for creating a medical record. Fingerprint,
// LockingScript and Fee may be pre-supplied when the record passes through
// from the thin REST backend; otherwise the anchor is minted here.
type RecordInput struct {
	PatientID     string
	ProviderID    string
	Type          models.MedicalRecordType
	Title         string
	Content       string
	AISummary     string
	FileURL       string
	FileName      string
	Fingerprint   string
	LockingScript string
	Fee           int
}

// AddRecord creates a medical record. The anchor fingerprint is computed
// exactly once, at creation, and is immutable afterwards.
func (r *Repository) AddRecord(ctx context.Context, input RecordInput) (models.MedicalRecord, error) {
	if r.remote != nil {
		return r.remote.AddRecord(ctx, input)
	}

	// AI work happens before taking the lock; the assistant call is slow
	// and best-effort.
	if input.AISummary == "" && input.Content != "" {
		summary, err := r.ai.SummarizeRecord(ctx, input.Content)
		if err != nil {
			log.Printf("repository: record summary unavailable: %v", err)
		} else {
			input.AISummary = summary
		}
	}

	fp := input.Fingerprint
	fee := input.Fee
	if fp == "" {
		receipt, err := fingerprint.Broadcast(input, strconv.FormatInt(time.Now().UnixMilli(), 10))
		if err != nil {
			return models.MedicalRecord{}, fmt.Errorf("while anchoring record: %w", err)
		}
		fp = receipt.TxID
		fee = receipt.Fee
	}

	script := input.LockingScript
	if script == "" {
		script = fingerprint.DefaultLockingScript
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	if r.findUser(input.PatientID) == nil {
		return models.MedicalRecord{}, ErrNotFound
	}

	record := models.MedicalRecord{
		ID:            uuid.New().String(),
		PatientID:     input.PatientID,
		ProviderID:    input.ProviderID,
		Type:          input.Type,
		Title:         input.Title,
		Content:       input.Content,
		AISummary:     input.AISummary,
		FileURL:       input.FileURL,
		FileName:      input.FileName,
		Date:          time.Now().Format("2006-01-02"),
		SharedWith:    []string{},
		Fingerprint:   fp,
		LockingScript: script,
		Fee:           fee,
	}

	r.records = append(r.records, record)
	r.persist(keyRecords, r.records)

	r.addNotificationLocked(record.PatientID, "New Medical Record",
		fmt.Sprintf("A new record %q has been added.", record.Title), models.NotifyInfo)

	return record, nil
}

// GetRecords returns the records visible to a user: patients see their own,
// providers see records they authored or were granted, admins see all.
func (r *Repository) GetRecords(ctx context.Context, userID string) ([]models.MedicalRecord, error) {
	if r.remote != nil {
		return r.remote.GetRecords(ctx, userID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	user := r.findUser(userID)
	if user == nil {
		return nil, ErrNotFound
	}

	var out []models.MedicalRecord
	for _, rec := range r.records {
		switch user.Role {
		case models.RoleAdmin:
			out = append(out, rec)
		case models.RoleProvider:
			if rec.ProviderID == userID || rec.SharedWithContains(userID) {
				out = append(out, rec)
			}
		default:
			if rec.PatientID == userID {
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

// ShareRecord grants a provider read access. Sharing is additive and
// idempotent; there is no revoke.
func (r *Repository) ShareRecord(ctx context.Context, actorID, recordID, targetUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	actor := r.findUser(actorID)
	if actor == nil {
		return ErrNotFound
	}

	for i := range r.records {
		if r.records[i].ID != recordID {
			continue
		}
		if !canShareRecord(actor, &r.records[i]) {
			return ErrForbidden
		}
		if !r.records[i].SharedWithContains(targetUserID) {
			r.records[i].SharedWith = append(r.records[i].SharedWith, targetUserID)
			r.persist(keyRecords, r.records)
		}
		return nil
	}
	return ErrNotFound
}
