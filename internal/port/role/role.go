package role

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
)

//go:generate mockgen -destination=../../mocks/mock_role_repository.go -package=mocks -mock_names=Repository=MockRoleRepository github.com/alanyang/llm-roles/internal/port/role Repository

// ErrNotFound is returned by repositories when no role has the requested id.
var ErrNotFound = errors.New("role not found")

// Repository is the storage abstraction for roles and their default-template associations.
// [DIP] service/role and service/prompt depend on this interface, not on any concrete storage.
type Repository interface {
	Create(ctx context.Context, r domainrole.Role) (domainrole.Role, error)
	GetByID(ctx context.Context, id uuid.UUID) (domainrole.Role, error)
	// Update replaces the stored row with r; the caller has already merged the partial update.
	Update(ctx context.Context, r domainrole.Role) (domainrole.Role, error)
	// Delete removes the role and its default-template associations.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns one page ordered by created_at desc, plus the total row count.
	List(ctx context.Context, limit, offset int) ([]domainrole.Role, int, error)
	// Search matches query case-insensitively against name and description, ordered by name.
	Search(ctx context.Context, query string) ([]domainrole.Role, error)

	// AddDefaultTemplate is idempotent: an existing pair is left as is.
	AddDefaultTemplate(ctx context.Context, roleID, templateID uuid.UUID) error
	// RemoveDefaultTemplate is idempotent: a missing pair is not an error.
	RemoveDefaultTemplate(ctx context.Context, roleID, templateID uuid.UUID) error
	// DefaultTemplateIDs returns the role's default templates in registration order.
	DefaultTemplateIDs(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
}
