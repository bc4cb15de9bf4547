package session

import (
	"context"
	"strings"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	errs "github.com/amirhossein-jamali/daily-earn/internal/domain/error"
	coreport "github.com/amirhossein-jamali/daily-earn/internal/domain/port/core"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/security"
)

// SessionUseCase verifies bearer tokens and ends sessions
type SessionUseCase struct {
	uow          persistence.UnitOfWork
	tokens       security.TokenIssuer
	revoked      persistence.RevokedTokenRepository
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewSessionUseCase creates a new SessionUseCase
func NewSessionUseCase(
	uow persistence.UnitOfWork,
	tokens security.TokenIssuer,
	revoked persistence.RevokedTokenRepository,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		uow:          uow,
		tokens:       tokens,
		revoked:      revoked,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Authenticate verifies the token, checks it was not revoked and that its
// subject still exists. Staff sessions also require an active admin account
// that still holds the role in the token.
func (u *SessionUseCase) Authenticate(ctx context.Context, token string) (*entity.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errs.ErrUnauthorized
	}

	session, err := u.tokens.Parse(token)
	if err != nil {
		return nil, errs.ErrUnauthorized
	}

	revoked, err := u.revoked.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, err
	}
	if revoked {
		u.logger.Debug("Rejected revoked session", map[string]any{
			"subject_id": session.SubjectID,
			"role":       session.Role,
		})
		return nil, errs.ErrUnauthorized
	}

	if session.IsStaff() {
		admin, err := u.uow.GetAdminRepository(ctx).GetByID(ctx, session.SubjectID)
		if errs.IsNotFoundError(err) {
			return nil, errs.ErrUnauthorized
		}
		if err != nil {
			return nil, err
		}
		if !admin.Active || admin.Role != session.Role {
			u.logger.Warn("Rejected session of disabled or changed admin", map[string]any{
				"admin_id": admin.ID,
				"role":     session.Role,
			})
			return nil, errs.ErrUnauthorized
		}
		return session, nil
	}

	if _, err := u.uow.GetUserRepository(ctx).GetByID(ctx, session.SubjectID); err != nil {
		if errs.IsNotFoundError(err) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	return session, nil
}

// Logout revokes the session token until it would have expired anyway
func (u *SessionUseCase) Logout(ctx context.Context, session *entity.Session) error {
	if session == nil || session.TokenID == "" {
		return errs.ErrUnauthorized
	}
	if !session.ExpiresAt.After(u.timeProvider.Now()) {
		return nil
	}

	if err := u.revoked.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return err
	}

	u.logger.Info("Session revoked", map[string]any{
		"subject_id": session.SubjectID,
		"role":       session.Role,
		"request_id": coreport.RequestIDFromContext(ctx),
	})
	return nil
}
