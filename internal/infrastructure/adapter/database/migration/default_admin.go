package migration

import (
	"context"

	"github.com/amirhossein-jamali/daily-earn/internal/domain/entity"
	"github.com/amirhossein-jamali/daily-earn/internal/domain/port/usecase"
)

// CreateDefaultAdmin seeds the bootstrap admin account when credentials are configured.
// An existing account with the same username is left untouched.
func CreateDefaultAdmin(ctx context.Context, adminService usecase.AdminUseCase, username, passwordHash string) error {
	if username == "" || passwordHash == "" {
		return nil
	}
	return adminService.EnsureAdmin(ctx, username, passwordHash, entity.RoleAdmin)
}
