package template

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

//go:generate mockgen -destination=../../mocks/mock_template_repository.go -package=mocks -mock_names=Repository=MockTemplateRepository github.com/alanyang/llm-roles/internal/port/template Repository

// ErrNotFound is returned by repositories when no stored template has the requested id.
var ErrNotFound = errors.New("template not found")

// Repository stores user-defined prompt templates. Builtin templates never reach it.
type Repository interface {
	Create(ctx context.Context, t domaintemplate.Template) (domaintemplate.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (domaintemplate.Template, error)
	Update(ctx context.Context, t domaintemplate.Template) (domaintemplate.Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns one page ordered by name, plus the total row count.
	List(ctx context.Context, limit, offset int) ([]domaintemplate.Template, int, error)
}
