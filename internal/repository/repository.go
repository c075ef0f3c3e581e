// Package repository owns every collection of the portal's data model. All
// state flows through repository operations: loads and saves round-trip the
// secure store, record creation mints fingerprints, and role guards live
// here rather than in callers.
package repository

import (
	"log"
	"sync"

	"health-portal-server/internal/assistant"
	"health-portal-server/internal/fingerprint"
	"health-portal-server/internal/mailer"
	"health-portal-server/internal/models"
	"health-portal-server/internal/securestore"
	"health-portal-server/internal/storage"
)

// Storage keys for the persisted collections.
const (
	keyUsers         = "portal_users"
	keyConnections   = "portal_connections"
	keyRecords       = "portal_records"
	keyAppointments  = "portal_appointments"
	keyMessages      = "portal_messages"
	keyWellness      = "portal_wellness"
	keyTasks         = "portal_tasks"
	keyNotifications = "portal_notifications"
	keyEmergencies   = "portal_emergencies"
	keyRisks         = "portal_risks"
	keyDependents    = "portal_dependents"
	keyRefreshTokens = "portal_refresh_tokens"
)

// Repository owns the portal collections. External layers never touch the
// storage medium directly; they call repository operations, which apply the
// invariants and persist through the secure store.
type Repository struct {
	backing storage.Store
	secure  *securestore.SecureStore
	ai      assistant.Assistant
	mail    mailer.Mailer
	remote  *RemoteClient

	mu     sync.Mutex
	loaded bool

	users         []models.User
	connections   map[string][]string
	records       []models.MedicalRecord
	appointments  []models.Appointment
	messages      []models.ChatMessage
	wellness      []models.WellnessEntry
	tasks         []models.DoctorTask
	notifications []models.Notification
	emergencies   []models.EmergencyAlert
	risks         []models.RiskPrediction
	dependents    []models.Dependent
	refreshTokens []models.RefreshToken

	otp map[string]string
}

// New constructs a repository over the given persistence medium. Collections
// are loaded lazily on first use.
func New(backing storage.Store, secure *securestore.SecureStore, ai assistant.Assistant, mail mailer.Mailer) *Repository {
	return &Repository{
		backing: backing,
		secure:  secure,
		ai:      ai,
		mail:    mail,
		otp:     make(map[string]string),
	}
}

// UseRemote switches the repository into remote REST mode for the operations
// the thin backend exposes. In that mode the remote side owns persistence;
// the fingerprint engine and secure store are bypassed for those calls.
func (r *Repository) UseRemote(c *RemoteClient) {
	r.remote = c
}

// ensure lazily loads all collections. Corrupted or unreadable storage
// degrades to empty defaults; availability wins over strict durability.
// Callers must hold r.mu.
func (r *Repository) ensure() {
	if r.loaded {
		return
	}

	r.users = loadCollection(r, keyUsers, []models.User(nil))
	r.connections = loadCollection(r, keyConnections, map[string][]string{})
	r.records = loadCollection(r, keyRecords, []models.MedicalRecord(nil))
	r.appointments = loadCollection(r, keyAppointments, []models.Appointment(nil))
	r.messages = loadCollection(r, keyMessages, []models.ChatMessage(nil))
	r.wellness = loadCollection(r, keyWellness, []models.WellnessEntry(nil))
	r.tasks = loadCollection(r, keyTasks, []models.DoctorTask(nil))
	r.notifications = loadCollection(r, keyNotifications, []models.Notification(nil))
	r.emergencies = loadCollection(r, keyEmergencies, []models.EmergencyAlert(nil))
	r.risks = loadCollection(r, keyRisks, []models.RiskPrediction(nil))
	r.dependents = loadCollection(r, keyDependents, []models.Dependent(nil))
	r.refreshTokens = loadCollection(r, keyRefreshTokens, []models.RefreshToken(nil))
	if r.connections == nil {
		r.connections = make(map[string][]string)
	}

	if len(r.users) == 0 {
		r.seedDefaults()
	}

	r.loaded = true
}

func loadCollection[T any](r *Repository, key string, def T) T {
	blob, err := r.backing.Load(key, "")
	if err != nil {
		log.Printf("repository: loading %s failed, using default: %v", key, err)
		return def
	}
	if blob == "" {
		return def
	}
	return securestore.Unseal(r.secure, blob, def)
}

// persist seals value and writes it under key. Failures are logged, not
// propagated: in-memory state is already mutated and remains serveable.
func (r *Repository) persist(key string, value any) {
	sealed, err := r.secure.Seal(value)
	if err != nil {
		log.Printf("repository: sealing %s failed: %v", key, err)
		return
	}
	if err := r.backing.Save(key, sealed); err != nil {
		log.Printf("repository: saving %s failed: %v", key, err)
	}
}

// seedDefaults installs the initial accounts on first boot.
func (r *Repository) seedDefaults() {
	seeds := []struct {
		user     models.User
		password string
	}{
		{models.User{
			ID: "admin-001", Email: "admin@healthportal.local", Name: "Portal Admin",
			Role: models.RoleAdmin, IsVerified: true, HealthScore: 85, Country: "India",
		}, "changeme-admin"},
		{models.User{
			ID: "patient-001", Email: "sarah@example.com", Name: "Sarah Connor",
			Role: models.RolePatient, IsVerified: true, HealthScore: 72, Country: "United Kingdom",
		}, "password123"},
		{models.User{
			ID: "provider-001", Email: "strange@healthportal.local", Name: "Dr. Stephen Strange",
			Role: models.RoleProvider, IsVerified: true, Country: "United States",
		}, "password123"},
	}

	for _, s := range seeds {
		u := s.user
		u.WalletAddress = fingerprint.NewWalletAddress()
		if err := u.SetPassword(s.password); err != nil {
			log.Printf("repository: seeding %s failed: %v", u.Email, err)
			continue
		}
		r.users = append(r.users, u)
	}
	r.persist(keyUsers, r.users)
}

// findUser returns a pointer into r.users. Callers must hold r.mu.
func (r *Repository) findUser(id string) *models.User {
	for i := range r.users {
		if r.users[i].ID == id {
			return &r.users[i]
		}
	}
	return nil
}

func (r *Repository) findUserByEmail(email string) *models.User {
	for i := range r.users {
		if r.users[i].Email == email {
			return &r.users[i]
		}
	}
	return nil
}
