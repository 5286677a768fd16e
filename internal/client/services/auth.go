// Package services contains application services for the clinicbook client.
// This file defines the authentication service: student login, resuming a
// saved session, and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/clinicbook/internal/client/identity"
	"github.com/dmitrijs2005/clinicbook/internal/client/models"
	"github.com/dmitrijs2005/clinicbook/internal/client/repositories/kv"
	"github.com/dmitrijs2005/clinicbook/internal/common"
	"github.com/dmitrijs2005/clinicbook/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Login: check student id and PIN, persist a session token.
//   - Resume: restore the student of a previously saved, still valid session.
//   - Logout: forget the saved session.
//   - ClearLocalData: wipe every slot of the repository, returning how many there were.
type AuthService interface {
	Login(ctx context.Context, studentID string, pin []byte) (models.Student, error)
	Resume(ctx context.Context) (models.Student, error)
	Logout(ctx context.Context) error
	ClearLocalData(ctx context.Context) (int, error)
}

type authService struct {
	directory *identity.Directory
	sessions  *identity.Sessions
	limiter   *identity.Limiter
	repo      kv.Repository
	logger    logging.Logger
}

// NewAuthService constructs an AuthService over the student directory and
// the key-value repository that keeps the session token.
func NewAuthService(dir *identity.Directory, sessions *identity.Sessions, limiter *identity.Limiter,
	repo kv.Repository, logger logging.Logger) AuthService {
	return &authService{
		directory: dir,
		sessions:  sessions,
		limiter:   limiter,
		repo:      repo,
		logger:    logger.With("component", "auth"),
	}
}

// Login authenticates the student. Attempts are throttled per student id
// and fail with common.ErrTooManyAttempts once exhausted. Failing to save
// the session is logged; the login itself still succeeds.
func (a *authService) Login(ctx context.Context, studentID string, pin []byte) (models.Student, error) {
	key := strings.TrimSpace(studentID)
	if !a.limiter.Allow(key) {
		a.logger.Warn(ctx, "login throttled", "student", key)
		return models.Student{}, common.ErrTooManyAttempts
	}

	s, err := a.directory.Authenticate(studentID, pin)
	if err != nil {
		return models.Student{}, err
	}
	a.limiter.Reset(key)

	token, err := a.sessions.Issue(s)
	if err != nil {
		a.logger.Error(ctx, "session issue failed", "student", s.ID, "err", err)
		return s, nil
	}
	if err := a.repo.Set(ctx, common.SessionKey, []byte(token)); err != nil {
		a.logger.Warn(ctx, "session save failed", "student", s.ID, "err", err)
	}

	a.logger.Info(ctx, "student logged in", "student", s.ID)
	return s, nil
}

// Resume returns the student of the saved session. A missing session yields
// common.ErrNoSession; an expired or invalid one is removed and its error
// returned.
func (a *authService) Resume(ctx context.Context) (models.Student, error) {
	raw, err := a.repo.Get(ctx, common.SessionKey)
	if err != nil {
		return models.Student{}, fmt.Errorf("read session: %w", err)
	}
	if len(raw) == 0 {
		return models.Student{}, common.ErrNoSession
	}

	claims, err := a.sessions.Parse(string(raw))
	if err != nil {
		a.dropSession(ctx)
		return models.Student{}, err
	}

	s, ok := a.directory.Lookup(claims.StudentID)
	if !ok {
		a.dropSession(ctx)
		return models.Student{}, fmt.Errorf("%w: student %d no longer exists", common.ErrNoSession, claims.StudentID)
	}
	return s, nil
}

func (a *authService) dropSession(ctx context.Context) {
	if err := a.repo.Delete(ctx, common.SessionKey); err != nil {
		a.logger.Warn(ctx, "session delete failed", "err", err)
	}
}

// Logout removes the saved session.
func (a *authService) Logout(ctx context.Context) error {
	if err := a.repo.Delete(ctx, common.SessionKey); err != nil && !errors.Is(err, common.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ClearLocalData removes all stored data: sessions, profiles and
// appointments of every student on this backend.
func (a *authService) ClearLocalData(ctx context.Context) (int, error) {
	slots, err := a.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list slots: %w", err)
	}
	if err := a.repo.Clear(ctx); err != nil {
		return 0, fmt.Errorf("clear slots: %w", err)
	}
	a.logger.Info(ctx, "local data cleared", "slots", len(slots))
	return len(slots), nil
}
