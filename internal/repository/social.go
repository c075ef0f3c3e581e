package repository

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"health-portal-server/internal/models"
)

// Connect records a mutual connection between two users. The relation is
// stored bidirectionally and the operation is idempotent: connecting an
// already-connected pair is a no-op.
func (r *Repository) Connect(ctx context.Context, userID, targetUserID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	if r.findUser(userID) == nil || r.findUser(targetUserID) == nil {
		return ErrNotFound
	}

	r.addEdgeLocked(userID, targetUserID)
	r.addEdgeLocked(targetUserID, userID)
	r.persist(keyConnections, r.connections)
	return nil
}

func (r *Repository) addEdgeLocked(from, to string) {
	for _, id := range r.connections[from] {
		if id == to {
			return
		}
	}
	r.connections[from] = append(r.connections[from], to)
}

// GetContacts lists the users connected to userID as directory entries.
func (r *Repository) GetContacts(ctx context.Context, userID string) ([]models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	var out []models.Contact
	for _, id := range r.connections[userID] {
		u := r.findUser(id)
		if u == nil {
			continue
		}
		out = append(out, models.Contact{
			ID:          u.ID,
			Name:        u.Name,
			Role:        u.Role,
			AvatarURL:   u.AvatarURL,
			LastMessage: "Click to start chat",
			IsOnline:    rand.Intn(2) == 0, // presence is simulated
		})
	}
	return out, nil
}

// GetPatientsForProvider lists a provider's patients: connected users plus
// anyone with an appointment booked against the provider.
func (r *Repository) GetPatientsForProvider(ctx context.Context, providerID string) ([]models.UserSanitized, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	return r.patientsForProviderLocked(providerID), nil
}

func (r *Repository) patientsForProviderLocked(providerID string) []models.UserSanitized {
	seen := make(map[string]bool)
	for _, id := range r.connections[providerID] {
		seen[id] = true
	}
	for _, apt := range r.appointments {
		if apt.ProviderID == providerID {
			seen[apt.PatientID] = true
		}
	}

	var out []models.UserSanitized
	for i := range r.users {
		if seen[r.users[i].ID] {
			out = append(out, r.users[i].Sanitize())
		}
	}
	return out
}

// SendMessage appends a message to a conversation.
func (r *Repository) SendMessage(ctx context.Context, senderID, recipientID, content, attachmentURL string, attachmentType models.AttachmentType) (models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	sender := r.findUser(senderID)
	if sender == nil {
		return models.ChatMessage{}, ErrNotFound
	}

	msg := models.ChatMessage{
		ID:             uuid.New().String(),
		SenderID:       senderID,
		RecipientID:    recipientID,
		SenderName:     sender.Name,
		Content:        content,
		Timestamp:      time.Now(),
		AttachmentURL:  attachmentURL,
		AttachmentType: attachmentType,
	}

	r.messages = append(r.messages, msg)
	r.persist(keyMessages, r.messages)
	return msg, nil
}

// GetConversation returns the messages between two users ordered by
// timestamp ascending.
func (r *Repository) GetConversation(ctx context.Context, userID, otherUserID string) ([]models.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	var out []models.ChatMessage
	for _, m := range r.messages {
		if (m.SenderID == userID && m.RecipientID == otherUserID) ||
			(m.SenderID == otherUserID && m.RecipientID == userID) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out, nil
}
