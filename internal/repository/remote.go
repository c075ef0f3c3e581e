package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"health-portal-server/internal/models"
)

// RemoteClient talks to the thin REST backend. The remote side owns its own
// persistence, so fingerprinting and sealing do not apply here; this client
// only maps between the snake_case wire format and the in-memory model.
type RemoteClient struct {
	baseURL string
	http    *http.Client
}

// NewRemoteClient creates a client for the REST backend at baseURL
// (e.g. "http://localhost:5000/api").
func NewRemoteClient(baseURL string) *RemoteClient {
	return &RemoteClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *RemoteClient) call(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("while encoding request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("while calling remote backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("remote backend returned %s for %s %s", resp.Status, method, path)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("while decoding remote response: %w", err)
	}
	return nil
}

// Wire types: snake_case on the wire, camelCase in memory.

type wireUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	IsVerified    bool   `json:"is_verified"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	HealthScore   int    `json:"health_score,omitempty"`
	Country       string `json:"country,omitempty"`
}

func (w wireUser) toModel() models.UserSanitized {
	return models.UserSanitized{
		ID:            w.ID,
		Email:         w.Email,
		Name:          w.Name,
		Role:          models.UserRole(w.Role),
		IsVerified:    w.IsVerified,
		AvatarURL:     w.AvatarURL,
		WalletAddress: w.WalletAddress,
		HealthScore:   w.HealthScore,
		Country:       w.Country,
	}
}

type wireRecord struct {
	ID            string   `json:"id"`
	PatientID     string   `json:"patient_id"`
	ProviderID    string   `json:"provider_id"`
	Type          string   `json:"type"`
	Title         string   `json:"title"`
	Content       string   `json:"content"`
	AISummary     string   `json:"ai_summary,omitempty"`
	FileURL       string   `json:"file_url,omitempty"`
	FileName      string   `json:"file_name,omitempty"`
	Date          string   `json:"date"`
	SharedWith    []string `json:"shared_with,omitempty"`
	Fingerprint   string   `json:"fingerprint"`
	LockingScript string   `json:"locking_script"`
	Fee           int      `json:"fee"`
}

func (w wireRecord) toModel() models.MedicalRecord {
	shared := w.SharedWith
	if shared == nil {
		shared = []string{}
	}
	return models.MedicalRecord{
		ID:            w.ID,
		PatientID:     w.PatientID,
		ProviderID:    w.ProviderID,
		Type:          models.MedicalRecordType(w.Type),
		Title:         w.Title,
		Content:       w.Content,
		AISummary:     w.AISummary,
		FileURL:       w.FileURL,
		FileName:      w.FileName,
		Date:          w.Date,
		SharedWith:    shared,
		Fingerprint:   w.Fingerprint,
		LockingScript: w.LockingScript,
		Fee:           w.Fee,
	}
}

type wireAppointment struct {
	ID           string `json:"id"`
	PatientID    string `json:"patient_id"`
	ProviderID   string `json:"provider_id"`
	PatientName  string `json:"patient_name"`
	ProviderName string `json:"provider_name"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Status       string `json:"status"`
	Type         string `json:"type"`
	Notes        string `json:"notes,omitempty"`
}

func (w wireAppointment) toModel() models.Appointment {
	return models.Appointment{
		ID:           w.ID,
		PatientID:    w.PatientID,
		ProviderID:   w.ProviderID,
		PatientName:  w.PatientName,
		ProviderName: w.ProviderName,
		Date:         w.Date,
		Time:         w.Time,
		Status:       models.AppointmentStatus(w.Status),
		Type:         models.AppointmentType(w.Type),
		Notes:        w.Notes,
	}
}

func (c *RemoteClient) Login(ctx context.Context, identifier, password string, requestedRole models.UserRole) (models.UserSanitized, error) {
	var out wireUser
	err := c.call(ctx, http.MethodPost, "/auth/login", map[string]string{
		"identifier": identifier,
		"password":   password,
		"role":       string(requestedRole),
	}, &out)
	if err != nil {
		return models.UserSanitized{}, ErrInvalidCredentials
	}
	return out.toModel(), nil
}

func (c *RemoteClient) Register(ctx context.Context, p RegisterParams) (models.UserSanitized, error) {
	var out wireUser
	err := c.call(ctx, http.MethodPost, "/auth/register", map[string]any{
		"id":          p.ID,
		"email":       p.Email,
		"password":    p.Password,
		"name":        p.Name,
		"role":        string(p.Role),
		"is_verified": p.IsVerified,
		"country":     p.Country,
	}, &out)
	if err != nil {
		return models.UserSanitized{}, err
	}
	return out.toModel(), nil
}

func (c *RemoteClient) SendVerificationCode(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, "/auth/send-otp", map[string]string{"email": email}, nil)
}

func (c *RemoteClient) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	var ok bool
	if err := c.call(ctx, http.MethodPost, "/auth/verify-otp", map[string]string{
		"email": email,
		"code":  code,
	}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func (c *RemoteClient) GetRecords(ctx context.Context, userID string) ([]models.MedicalRecord, error) {
	var out []wireRecord
	if err := c.call(ctx, http.MethodGet, "/records/"+userID, nil, &out); err != nil {
		return nil, err
	}
	records := make([]models.MedicalRecord, 0, len(out))
	for _, w := range out {
		records = append(records, w.toModel())
	}
	return records, nil
}

func (c *RemoteClient) AddRecord(ctx context.Context, input RecordInput) (models.MedicalRecord, error) {
	var out wireRecord
	err := c.call(ctx, http.MethodPost, "/records", wireRecord{
		PatientID:     input.PatientID,
		ProviderID:    input.ProviderID,
		Type:          string(input.Type),
		Title:         input.Title,
		Content:       input.Content,
		AISummary:     input.AISummary,
		FileURL:       input.FileURL,
		FileName:      input.FileName,
		Date:          time.Now().Format("2006-01-02"),
		Fingerprint:   input.Fingerprint,
		LockingScript: input.LockingScript,
		Fee:           input.Fee,
	}, &out)
	if err != nil {
		return models.MedicalRecord{}, err
	}
	return out.toModel(), nil
}

func (c *RemoteClient) GetAppointments(ctx context.Context, userID string) ([]models.Appointment, error) {
	var out []wireAppointment
	if err := c.call(ctx, http.MethodGet, "/appointments/"+userID, nil, &out); err != nil {
		return nil, err
	}
	appointments := make([]models.Appointment, 0, len(out))
	for _, w := range out {
		appointments = append(appointments, w.toModel())
	}
	return appointments, nil
}

func (c *RemoteClient) BookAppointment(ctx context.Context, input AppointmentInput) (models.Appointment, error) {
	var out wireAppointment
	err := c.call(ctx, http.MethodPost, "/appointments", wireAppointment{
		PatientID:    input.PatientID,
		ProviderID:   input.ProviderID,
		PatientName:  input.PatientName,
		ProviderName: input.ProviderName,
		Date:         input.Date,
		Time:         input.Time,
		Type:         string(input.Type),
		Notes:        input.Notes,
	}, &out)
	if err != nil {
		return models.Appointment{}, err
	}
	return out.toModel(), nil
}

func (c *RemoteClient) ConfirmAppointment(ctx context.Context, appointmentID string, confirm bool) (models.Appointment, error) {
	err := c.call(ctx, http.MethodPost, "/appointments/"+appointmentID+"/confirm",
		map[string]bool{"confirm": confirm}, nil)
	if err != nil {
		return models.Appointment{}, err
	}
	status := models.StatusScheduled
	if !confirm {
		status = models.StatusCancelled
	}
	return models.Appointment{ID: appointmentID, Status: status}, nil
}
