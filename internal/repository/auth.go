package repository

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"health-portal-server/internal/fingerprint"
	"health-portal-server/internal/models"
)

// Login authenticates by email or user id. An optional requestedRole lets an
// admin account assume a different dashboard role for the session.
func (r *Repository) Login(ctx context.Context, identifier, password string, requestedRole models.UserRole) (models.UserSanitized, error) {
	if r.remote != nil {
		return r.remote.Login(ctx, identifier, password, requestedRole)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	user := r.findUserByEmail(identifier)
	if user == nil {
		user = r.findUser(identifier)
	}
	if user == nil || !user.CheckPassword(password) {
		return models.UserSanitized{}, ErrInvalidCredentials
	}

	sanitized := user.Sanitize()
	if requestedRole != "" && user.Role == models.RoleAdmin && requestedRole.Valid() {
		sanitized.Role = requestedRole
	}
	return sanitized, nil
}

// RegisterParams are the inputs for creating an account.
type RegisterParams struct {
	Email      string
	Password   string
	Name       string
	Role       models.UserRole
	ID         string // optional, minted when empty
	IsVerified bool
	Country    string
}

// Register creates a user. Patients are verified immediately; providers stay
// unverified until the OTP flow confirms their address.
func (r *Repository) Register(ctx context.Context, p RegisterParams) (models.UserSanitized, error) {
	if r.remote != nil {
		return r.remote.Register(ctx, p)
	}

	if !p.Role.Valid() {
		return models.UserSanitized{}, ErrInvalidRole
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	if r.findUserByEmail(p.Email) != nil {
		return models.UserSanitized{}, ErrDuplicateEmail
	}

	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}

	user := models.User{
		ID:            id,
		Email:         p.Email,
		Name:          p.Name,
		Role:          p.Role,
		IsVerified:    p.IsVerified || p.Role == models.RolePatient,
		WalletAddress: fingerprint.NewWalletAddress(),
		HealthScore:   70,
		Country:       p.Country,
	}
	if user.Country == "" {
		user.Country = "United States"
	}
	if err := user.SetPassword(p.Password); err != nil {
		return models.UserSanitized{}, fmt.Errorf("while hashing password: %w", err)
	}

	r.users = append(r.users, user)
	r.persist(keyUsers, r.users)
	return user.Sanitize(), nil
}

// SendVerificationCode issues a six-digit OTP for email and hands it to the
// mail collaborator.
func (r *Repository) SendVerificationCode(ctx context.Context, email string) error {
	if r.remote != nil {
		return r.remote.SendVerificationCode(ctx, email)
	}

	code := fmt.Sprintf("%06d", 100000+rand.Intn(900000))

	r.mu.Lock()
	r.ensure()
	r.otp[email] = code
	r.mu.Unlock()

	if err := r.mail.SendOTP(ctx, email, code); err != nil {
		return fmt.Errorf("while sending verification code: %w", err)
	}
	return nil
}

// VerifyCode checks an OTP and, when it matches, marks the account verified.
func (r *Repository) VerifyCode(ctx context.Context, email, code string) (bool, error) {
	if r.remote != nil {
		return r.remote.VerifyCode(ctx, email, code)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	if code == "" || r.otp[email] != code {
		return false, nil
	}
	delete(r.otp, email)

	if user := r.findUserByEmail(email); user != nil && !user.IsVerified {
		user.IsVerified = true
		r.persist(keyUsers, r.users)
	}
	return true, nil
}

// StoreRefreshToken records an issued refresh token.
func (r *Repository) StoreRefreshToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	r.refreshTokens = append(r.refreshTokens, models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
	})
	r.persist(keyRefreshTokens, r.refreshTokens)
	return nil
}

// FindValidRefreshToken returns the stored token when it exists, is not
// revoked and has not expired.
func (r *Repository) FindValidRefreshToken(ctx context.Context, token string) (models.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	for _, rt := range r.refreshTokens {
		if rt.Token == token && !rt.IsRevoked && rt.ExpiresAt.After(time.Now()) {
			return rt, nil
		}
	}
	return models.RefreshToken{}, ErrNotFound
}

// RevokeRefreshToken marks a token revoked. Revoking an unknown token is a
// no-op; logout must not fail.
func (r *Repository) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensure()

	for i := range r.refreshTokens {
		if r.refreshTokens[i].Token == token && !r.refreshTokens[i].IsRevoked {
			r.refreshTokens[i].IsRevoked = true
			r.refreshTokens[i].ExpiresAt = time.Now()
			r.persist(keyRefreshTokens, r.refreshTokens)
			return nil
		}
	}
	return nil
}
