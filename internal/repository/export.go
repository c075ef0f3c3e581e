package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"health-portal-server/internal/models"
)

// snapshot is the portable export format for the whole database. Credentials
// are included; the export is meant for local backup, not sharing.
type snapshot struct {
	Users         []models.User            `json:"users"`
	Connections   map[string][]string      `json:"connections"`
	Records       []models.MedicalRecord   `json:"records"`
	Appointments  []models.Appointment     `json:"appointments"`
	Messages      []models.ChatMessage     `json:"messages"`
	Wellness      []models.WellnessEntry   `json:"wellness"`
	Tasks         []models.DoctorTask      `json:"tasks"`
	Notifications []models.Notification    `json:"notifications"`
	Emergencies   []models.EmergencyAlert  `json:"emergencies"`
	Risks         []models.RiskPrediction  `json:"risks"`
	Dependents    []models.Dependent       `json:"dependents"`
	Version       string                   `json:"version"`
}

const snapshotVersion = "1.3"

// ExportDatabase serializes every collection as indented JSON.
func (r *Repository) ExportDatabase(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	out, err := json.MarshalIndent(snapshot{
		Users:         r.users,
		Connections:   r.connections,
		Records:       r.records,
		Appointments:  r.appointments,
		Messages:      r.messages,
		Wellness:      r.wellness,
		Tasks:         r.tasks,
		Notifications: r.notifications,
		Emergencies:   r.emergencies,
		Risks:         r.risks,
		Dependents:    r.dependents,
		Version:       snapshotVersion,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("while exporting database: %w", err)
	}
	return string(out), nil
}

// ImportDatabase replaces every collection from an exported snapshot. A
// snapshot without users and records is rejected without touching state.
func (r *Repository) ImportDatabase(ctx context.Context, raw string) error {
	var snap snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return fmt.Errorf("while parsing snapshot: %w", err)
	}
	if len(snap.Users) == 0 || snap.Records == nil {
		return fmt.Errorf("snapshot missing users or records")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	r.users = snap.Users
	r.connections = snap.Connections
	if r.connections == nil {
		r.connections = make(map[string][]string)
	}
	r.records = snap.Records
	r.appointments = snap.Appointments
	r.messages = snap.Messages
	r.wellness = snap.Wellness
	r.tasks = snap.Tasks
	r.notifications = snap.Notifications
	r.emergencies = snap.Emergencies
	r.risks = snap.Risks
	r.dependents = snap.Dependents

	r.persist(keyUsers, r.users)
	r.persist(keyConnections, r.connections)
	r.persist(keyRecords, r.records)
	r.persist(keyAppointments, r.appointments)
	r.persist(keyMessages, r.messages)
	r.persist(keyWellness, r.wellness)
	r.persist(keyTasks, r.tasks)
	r.persist(keyNotifications, r.notifications)
	r.persist(keyEmergencies, r.emergencies)
	r.persist(keyRisks, r.risks)
	r.persist(keyDependents, r.dependents)
	return nil
}
