package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"health-portal-server/internal/models"
)

// GetUser returns a sanitized user by id.
func (r *Repository) GetUser(ctx context.Context, id string) (models.UserSanitized, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	user := r.findUser(id)
	if user == nil {
		return models.UserSanitized{}, ErrNotFound
	}
	return user.Sanitize(), nil
}

// UserUpdate carries optional profile mutations; nil fields are untouched.
type UserUpdate struct {
	Name        *string
	AvatarURL   *string
	Country     *string
	HealthScore *int
}

// UpdateUser applies a partial profile update.
func (r *Repository) UpdateUser(ctx context.Context, id string, updates UserUpdate) (models.UserSanitized, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	user := r.findUser(id)
	if user == nil {
		return models.UserSanitized{}, ErrNotFound
	}

	if updates.Name != nil {
		user.Name = *updates.Name
	}
	if updates.AvatarURL != nil {
		user.AvatarURL = *updates.AvatarURL
	}
	if updates.Country != nil {
		user.Country = *updates.Country
	}
	if updates.HealthScore != nil {
		user.HealthScore = *updates.HealthScore
	}

	r.persist(keyUsers, r.users)
	return user.Sanitize(), nil
}

// SearchDirectory lists users of the opposite role for connection requests:
// patients see providers, providers (and admins) see patients.
func (r *Repository) SearchDirectory(ctx context.Context, currentUserID, query string) ([]models.UserSanitized, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	current := r.findUser(currentUserID)
	if current == nil {
		return nil, ErrNotFound
	}

	targetRole := models.RolePatient
	if current.Role == models.RolePatient {
		targetRole = models.RoleProvider
	}

	query = strings.ToLower(query)
	var out []models.UserSanitized
	for i := range r.users {
		u := &r.users[i]
		if u.Role != targetRole || u.ID == currentUserID {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(u.Name), query) {
			continue
		}
		out = append(out, u.Sanitize())
	}
	return out, nil
}

// GetDependents lists the dependent profiles of a parent user.
func (r *Repository) GetDependents(ctx context.Context, parentID string) ([]models.Dependent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	var out []models.Dependent
	for _, d := range r.dependents {
		if d.ParentID == parentID {
			out = append(out, d)
		}
	}
	return out, nil
}

// AddDependent creates a dependent profile plus its backing patient user so
// records and appointments can reference the dependent by id.
func (r *Repository) AddDependent(ctx context.Context, parentID, name string, relation models.Relation, age int) (models.Dependent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	parent := r.findUser(parentID)
	if parent == nil {
		return models.Dependent{}, ErrNotFound
	}

	dep := models.Dependent{
		ID:       uuid.New().String(),
		ParentID: parentID,
		Name:     name,
		Relation: relation,
		Age:      age,
		Gender:   "OTHER",
		Country:  parent.Country,
	}
	r.dependents = append(r.dependents, dep)

	r.users = append(r.users, models.User{
		ID:          dep.ID,
		Email:       strings.ToLower(strings.ReplaceAll(name, " ", "")) + "@dependent.local",
		Name:        name,
		Role:        models.RolePatient,
		IsVerified:  true,
		HealthScore: 80,
		ParentID:    parentID,
		Country:     parent.Country,
	})

	r.persist(keyDependents, r.dependents)
	r.persist(keyUsers, r.users)
	return dep, nil
}

// SwitchProfile returns the target profile when the caller owns it: either
// their own account or one of their dependents.
func (r *Repository) SwitchProfile(ctx context.Context, currentUserID, targetID string) (models.UserSanitized, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	target := r.findUser(targetID)
	if target == nil {
		return models.UserSanitized{}, ErrNotFound
	}
	if target.ID != currentUserID && target.ParentID != currentUserID {
		return models.UserSanitized{}, ErrForbidden
	}
	return target.Sanitize(), nil
}
