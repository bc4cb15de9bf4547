package security

import "github.com/amirhossein-jamali/daily-earn/internal/domain/entity"

// TokenIssuer creates and verifies signed session tokens
type TokenIssuer interface {
	// Issue signs a token for subjectID with role
	Issue(subjectID uint64, role entity.Role) (string, *entity.Session, error)

	// Parse verifies signature, expiry and claims, returning ErrUnauthorized on any failure
	Parse(token string) (*entity.Session, error)
}
