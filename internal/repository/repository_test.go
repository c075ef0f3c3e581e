package repository

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"health-portal-server/internal/assistant"
	"health-portal-server/internal/mailer"
	"health-portal-server/internal/models"
	"health-portal-server/internal/securestore"
	"health-portal-server/internal/storage"
)

func newTestRepo(t *testing.T) (*Repository, storage.Store) {
	t.Helper()
	backing := storage.NewMemoryStore()
	repo := New(backing, securestore.New(backing), assistant.NewOffline(), mailer.NewLog())
	return repo, backing
}

func TestLoginSeedAccounts(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.Login(ctx, "sarah@example.com", "password123", models.RolePatient)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != "patient-001" || user.Name != "Sarah Connor" {
		t.Errorf("unexpected seed user %+v", user)
	}

	// Login by ID works too.
	if _, err := repo.Login(ctx, "provider-001", "password123", models.RoleProvider); err != nil {
		t.Errorf("Login by id: %v", err)
	}

	if _, err := repo.Login(ctx, "sarah@example.com", "wrong", models.RolePatient); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginResponseCarriesNoCredentials(t *testing.T) {
	repo, _ := newTestRepo(t)

	user, err := repo.Login(context.Background(), "sarah@example.com", "password123", models.RolePatient)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(strings.ToLower(string(raw)), "password") {
		t.Errorf("sanitized user leaks a password field: %s", raw)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	params := RegisterParams{Email: "new@example.com", Password: "secret99", Name: "New Patient", Role: models.RolePatient}
	if _, err := repo.Register(ctx, params); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := repo.Register(ctx, params); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("second Register: got %v, want ErrDuplicateEmail", err)
	}
}

func TestBookAppointmentStartsPending(t *testing.T) {
	repo, _ := newTestRepo(t)

	apt, err := repo.BookAppointment(context.Background(), AppointmentInput{
		PatientID:    "patient-001",
		ProviderID:   "provider-001",
		PatientName:  "Sarah Connor",
		ProviderName: "Dr. Stephen Strange",
		Date:         "2026-09-01",
		Time:         "10:30",
	})
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}
	if apt.Status != models.StatusPending {
		t.Errorf("new appointment status = %q, want %q", apt.Status, models.StatusPending)
	}
	if apt.Type != models.AppointmentVideo {
		t.Errorf("default appointment type = %q, want %q", apt.Type, models.AppointmentVideo)
	}
}

func TestConfirmAppointmentTransitions(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	apt, err := repo.BookAppointment(ctx, AppointmentInput{
		PatientID: "patient-001", ProviderID: "provider-001",
		PatientName: "Sarah Connor", ProviderName: "Dr. Stephen Strange",
		Date: "2026-09-01", Time: "10:30",
	})
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}

	got, err := repo.ConfirmAppointment(ctx, "provider-001", apt.ID, true)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != models.StatusScheduled {
		t.Errorf("after confirm: status = %q, want SCHEDULED", got.Status)
	}

	// Re-confirming with the opposite verdict is accepted; last call wins.
	got, err = repo.ConfirmAppointment(ctx, "provider-001", apt.ID, false)
	if err != nil {
		t.Fatalf("decline after confirm: %v", err)
	}
	if got.Status != models.StatusCancelled {
		t.Errorf("after decline: status = %q, want CANCELLED", got.Status)
	}

	got, err = repo.ConfirmAppointment(ctx, "provider-001", apt.ID, true)
	if err != nil {
		t.Fatalf("re-confirm: %v", err)
	}
	if got.Status != models.StatusScheduled {
		t.Errorf("after re-confirm: status = %q, want SCHEDULED", got.Status)
	}
}

func TestConfirmAppointmentAuthorization(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	other, err := repo.Register(ctx, RegisterParams{
		Email: "who@example.com", Password: "secret99", Name: "Dr. Other", Role: models.RoleProvider,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	apt, err := repo.BookAppointment(ctx, AppointmentInput{
		PatientID: "patient-001", ProviderID: "provider-001",
		Date: "2026-09-01", Time: "10:30",
	})
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}

	if _, err := repo.ConfirmAppointment(ctx, other.ID, apt.ID, true); !errors.Is(err, ErrForbidden) {
		t.Errorf("unrelated provider confirm: got %v, want ErrForbidden", err)
	}
	if _, err := repo.ConfirmAppointment(ctx, "patient-001", apt.ID, true); !errors.Is(err, ErrForbidden) {
		t.Errorf("patient confirm: got %v, want ErrForbidden", err)
	}
	if _, err := repo.ConfirmAppointment(ctx, "admin-001", apt.ID, true); err != nil {
		t.Errorf("admin confirm: %v", err)
	}
}

func TestAddRecordMintsFingerprintOnce(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	rec, err := repo.AddRecord(ctx, RecordInput{
		PatientID:  "patient-001",
		ProviderID: "provider-001",
		Type:       models.RecordTypeLabReport,
		Title:      "Annual blood panel",
		Content:    "Blood test normal",
	})
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	hex64 := regexp.MustCompile(`^[0-9a-f]{64}$`)
	if !hex64.MatchString(rec.Fingerprint) {
		t.Fatalf("fingerprint %q is not 64 hex chars", rec.Fingerprint)
	}
	if rec.LockingScript == "" {
		t.Error("locking script not set")
	}
	if rec.Fee < 100 || rec.Fee > 299 {
		t.Errorf("fee %d out of range [100, 299]", rec.Fee)
	}

	// The fingerprint is minted at creation and never recomputed.
	for i := 0; i < 3; i++ {
		records, err := repo.GetRecords(ctx, "patient-001")
		if err != nil {
			t.Fatalf("GetRecords: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("got %d records, want 1", len(records))
		}
		if records[0].Fingerprint != rec.Fingerprint {
			t.Fatalf("read %d: fingerprint changed from %q to %q", i, rec.Fingerprint, records[0].Fingerprint)
		}
	}
}

func TestAddRecordPreservesSuppliedAnchor(t *testing.T) {
	repo, _ := newTestRepo(t)

	supplied := strings.Repeat("ab", 32)
	rec, err := repo.AddRecord(context.Background(), RecordInput{
		PatientID: "patient-001", ProviderID: "provider-001",
		Type: models.RecordTypeClinicalNote, Title: "Imported", Content: "n/a",
		Fingerprint: supplied, LockingScript: "custom-script", Fee: 42,
	})
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}
	if rec.Fingerprint != supplied || rec.LockingScript != "custom-script" || rec.Fee != 42 {
		t.Errorf("supplied anchor was not preserved: %+v", rec)
	}
}

func TestShareRecordIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	rec, err := repo.AddRecord(ctx, RecordInput{
		PatientID: "patient-001", ProviderID: "provider-001",
		Type: models.RecordTypePrescription, Title: "Rx", Content: "Take daily",
	})
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	other, err := repo.Register(ctx, RegisterParams{
		Email: "second@example.com", Password: "secret99", Name: "Dr. Second", Role: models.RoleProvider,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := repo.ShareRecord(ctx, "patient-001", rec.ID, other.ID); err != nil {
			t.Fatalf("ShareRecord call %d: %v", i, err)
		}
	}

	records, err := repo.GetRecords(ctx, other.ID)
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("shared provider sees %d records, want 1", len(records))
	}
	if diff := cmp.Diff([]string{other.ID}, records[0].SharedWith); diff != "" {
		t.Errorf("sharedWith mismatch (-want +got):\n%s", diff)
	}

	// Only the owning patient may grant access.
	if err := repo.ShareRecord(ctx, "provider-001", rec.ID, "admin-001"); !errors.Is(err, ErrForbidden) {
		t.Errorf("provider share: got %v, want ErrForbidden", err)
	}
}

func TestRecordVisibilityByRole(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.AddRecord(ctx, RecordInput{
		PatientID: "patient-001", ProviderID: "provider-001",
		Type: models.RecordTypeImaging, Title: "X-Ray", Content: "Clear",
	}); err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	stranger, err := repo.Register(ctx, RegisterParams{
		Email: "outsider@example.com", Password: "secret99", Name: "Dr. Outsider", Role: models.RoleProvider,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	records, err := repo.GetRecords(ctx, stranger.ID)
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("unrelated provider sees %d records, want 0", len(records))
	}

	records, err = repo.GetRecords(ctx, "admin-001")
	if err != nil {
		t.Fatalf("GetRecords admin: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("admin sees %d records, want 1", len(records))
	}
}

func TestConnectSymmetricAndIdempotent(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repo.Connect(ctx, "patient-001", "provider-001"); err != nil {
			t.Fatalf("Connect call %d: %v", i, err)
		}
	}

	patientSide, err := repo.GetContacts(ctx, "patient-001")
	if err != nil {
		t.Fatalf("GetContacts patient: %v", err)
	}
	providerSide, err := repo.GetContacts(ctx, "provider-001")
	if err != nil {
		t.Fatalf("GetContacts provider: %v", err)
	}

	if len(patientSide) != 1 || patientSide[0].ID != "provider-001" {
		t.Errorf("patient contacts = %+v, want exactly provider-001", patientSide)
	}
	if len(providerSide) != 1 || providerSide[0].ID != "patient-001" {
		t.Errorf("provider contacts = %+v, want exactly patient-001", providerSide)
	}
}

func TestConversationOrdering(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.SendMessage(ctx, "patient-001", "provider-001", "hello", "", ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := repo.SendMessage(ctx, "provider-001", "patient-001", "hi, how can I help?", "", ""); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	msgs, err := repo.GetConversation(ctx, "patient-001", "provider-001")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2", len(msgs))
	}
	if msgs[0].Content != "hello" || msgs[1].Content != "hi, how can I help?" {
		t.Errorf("conversation out of order: %+v", msgs)
	}
}

func TestStatePersistsAcrossInstances(t *testing.T) {
	backing := storage.NewMemoryStore()
	ctx := context.Background()

	first := New(backing, securestore.New(backing), assistant.NewOffline(), mailer.NewLog())
	rec, err := first.AddRecord(ctx, RecordInput{
		PatientID: "patient-001", ProviderID: "provider-001",
		Type: models.RecordTypeLabReport, Title: "Panel", Content: "Blood test normal",
	})
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	// A fresh repository over the same backing store must unseal the same
	// state with the persisted master key.
	second := New(backing, securestore.New(backing), assistant.NewOffline(), mailer.NewLog())
	records, err := second.GetRecords(ctx, "patient-001")
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(records) != 1 || records[0].Fingerprint != rec.Fingerprint {
		t.Errorf("reloaded records = %+v, want the original record with fingerprint %q", records, rec.Fingerprint)
	}

	if _, err := second.Login(ctx, "sarah@example.com", "password123", models.RolePatient); err != nil {
		t.Errorf("Login after reload: %v", err)
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	token := "refresh-token-1"
	if err := repo.StoreRefreshToken(ctx, "patient-001", token, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("StoreRefreshToken: %v", err)
	}

	stored, err := repo.FindValidRefreshToken(ctx, token)
	if err != nil {
		t.Fatalf("FindValidRefreshToken: %v", err)
	}
	if stored.UserID != "patient-001" {
		t.Errorf("token belongs to %q, want patient-001", stored.UserID)
	}

	if err := repo.RevokeRefreshToken(ctx, token); err != nil {
		t.Fatalf("RevokeRefreshToken: %v", err)
	}
	if _, err := repo.FindValidRefreshToken(ctx, token); !errors.Is(err, ErrNotFound) {
		t.Errorf("revoked token lookup: got %v, want ErrNotFound", err)
	}

	// Revoking again is a no-op.
	if err := repo.RevokeRefreshToken(ctx, token); err != nil {
		t.Errorf("second revoke: %v", err)
	}

	if err := repo.StoreRefreshToken(ctx, "patient-001", "stale", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("StoreRefreshToken expired: %v", err)
	}
	if _, err := repo.FindValidRefreshToken(ctx, "stale"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired token lookup: got %v, want ErrNotFound", err)
	}
}

func TestOTPFlowVerifiesAccount(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	provider, err := repo.Register(ctx, RegisterParams{
		Email: "dr.new@example.com", Password: "secret99", Name: "Dr. New", Role: models.RoleProvider,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if provider.IsVerified {
		t.Fatal("freshly registered provider should not be verified")
	}

	if err := repo.SendVerificationCode(ctx, provider.Email); err != nil {
		t.Fatalf("SendVerificationCode: %v", err)
	}

	repo.mu.Lock()
	code := repo.otp[provider.Email]
	repo.mu.Unlock()
	if code == "" {
		t.Fatal("no OTP recorded for provider")
	}

	if ok, _ := repo.VerifyCode(ctx, provider.Email, "000000"); ok {
		t.Error("wrong code accepted")
	}
	ok, err := repo.VerifyCode(ctx, provider.Email, code)
	if err != nil || !ok {
		t.Fatalf("VerifyCode: ok=%v err=%v", ok, err)
	}

	reloaded, err := repo.GetUser(ctx, provider.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if !reloaded.IsVerified {
		t.Error("provider still unverified after OTP")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	rec, err := repo.AddRecord(ctx, RecordInput{
		PatientID: "patient-001", ProviderID: "provider-001",
		Type: models.RecordTypeClinicalNote, Title: "Checkup", Content: "All fine",
	})
	if err != nil {
		t.Fatalf("AddRecord: %v", err)
	}

	dump, err := repo.ExportDatabase(ctx)
	if err != nil {
		t.Fatalf("ExportDatabase: %v", err)
	}

	fresh, _ := newTestRepo(t)
	if err := fresh.ImportDatabase(ctx, dump); err != nil {
		t.Fatalf("ImportDatabase: %v", err)
	}

	records, err := fresh.GetRecords(ctx, "patient-001")
	if err != nil {
		t.Fatalf("GetRecords: %v", err)
	}
	if len(records) != 1 || records[0].Fingerprint != rec.Fingerprint {
		t.Errorf("imported records = %+v, want fingerprint %q", records, rec.Fingerprint)
	}

	if err := fresh.ImportDatabase(ctx, `{"version":"1.3"}`); err == nil {
		t.Error("import of snapshot without users/records should fail")
	}
}
