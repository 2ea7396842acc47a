package services

import (
	"context"
	"fmt"
	"net/url"

	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/pkg/supabase"
	"github.com/MansiJagta/echo-forge-create/platform/logging"
	"github.com/MansiJagta/echo-forge-create/platform/token"
)

// IdentityService delegates credential handling to the remote identity
// backend and issues the gateway's own bearer tokens. No credentials or
// user rows live locally.
type IdentityService struct {
	Backend       *supabase.Client
	Issuer        *token.Issuer
	ProfilesTable string
}

type profileRow struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Register creates credentials remotely, stores the profile row keyed by
// the returned user id, and issues a token. A duplicate email fails before
// any token is issued.
func (s *IdentityService) Register(ctx context.Context, email, password, name string) (*models.AuthResult, error) {
	user, err := s.Backend.SignUp(ctx, email, password)
	if err != nil {
		// A 4xx from the identity backend means the caller's input was
		// rejected, typically a duplicate email, not a backend outage.
		// The upstream detail stays in the logs.
		if ue, ok := models.AsUpstream(err); ok && ue.Status >= 400 && ue.Status < 500 && !ue.Timeout {
			logging.Warn("registration rejected by identity backend", "status", ue.Status, "body", ue.Body)
			return nil, fmt.Errorf("%w: registration rejected, email may already be in use", models.ErrInvalidInput)
		}
		return nil, fmt.Errorf("registering user: %w", err)
	}

	if err := s.Backend.Insert(ctx, s.ProfilesTable, profileRow{ID: user.ID, Email: email, Name: name}); err != nil {
		// The credentials exist remotely but the profile write failed;
		// surface the failure rather than issue a token for a half-created
		// account.
		return nil, fmt.Errorf("storing profile: %w", err)
	}

	tok, err := s.Issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{UserID: user.ID, Email: email, Token: tok}, nil
}

// Login verifies credentials remotely. Upstream diagnostics are logged but
// never echoed; the caller only ever learns "invalid credentials".
func (s *IdentityService) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	user, err := s.Backend.SignIn(ctx, email, password)
	if err != nil {
		if ue, ok := models.AsUpstream(err); ok {
			logging.Warn("login rejected by identity backend", "status", ue.Status, "body", ue.Body)
		}
		return nil, models.ErrInvalidCredentials
	}

	tok, err := s.Issuer.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{UserID: user.ID, Email: user.Email, Token: tok}, nil
}

// Profile fetches the profile row for an authenticated user.
func (s *IdentityService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	filters := url.Values{}
	filters.Set("id", "eq."+userID)
	filters.Set("limit", "1")

	var rows []models.Profile
	if err := s.Backend.Select(ctx, s.ProfilesTable, filters, &rows); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, models.ErrNotFound
	}
	return &rows[0], nil
}
