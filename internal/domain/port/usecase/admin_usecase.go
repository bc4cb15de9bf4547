package usecase

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/persistence"
)

// UserDetail is a user with their most recent ledger entries
type UserDetail struct {
	User          *entity.User
	RecentEntries []*entity.LedgerEntry
}

// UserUpdate changes admin-editable user fields; nil fields are left alone
type UserUpdate struct {
	Name          *string
	EmailVerified *bool
}

// AdminUseCase defines admin authentication and user management
type AdminUseCase interface {
	Login(ctx context.Context, username, password string) (*AuthResult, error)

	// EnsureAdmin creates the account if the username is free
	EnsureAdmin(ctx context.Context, username, passwordHash string, role entity.Role) error

	ListUsers(ctx context.Context, filter persistence.UserFilter) ([]*entity.User, int64, error)
	GetUser(ctx context.Context, id uint64) (*UserDetail, error)
	UpdateUser(ctx context.Context, id uint64, update UserUpdate) (*entity.User, error)
	DeleteUser(ctx context.Context, id uint64) error
	Dashboard(ctx context.Context) (*entity.DashboardStats, error)
}
