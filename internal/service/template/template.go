package template

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/domain/event"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
	porteventbus "github.com/alanyang/llm-roles/internal/port/eventbus"
	porttemplate "github.com/alanyang/llm-roles/internal/port/template"
	rolesvc "github.com/alanyang/llm-roles/internal/service/role"
)

const DefaultFormat = "openai"

var (
	ErrNotFound = porttemplate.ErrNotFound
	ErrInvalid  = errors.New("invalid template")
	// ErrProtected is returned when modifying a builtin template or deleting a default one.
	ErrProtected = errors.New("template is protected")
)

// Service manages prompt templates: the builtin set plus user-defined ones from the repository.
type Service struct {
	repo porttemplate.Repository
	bus  porteventbus.EventBus
}

func NewService(repo porttemplate.Repository, bus porteventbus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Builtins returns a copy of the builtin templates.
func (s *Service) Builtins() []domaintemplate.Template {
	return append([]domaintemplate.Template{}, builtins...)
}

// Fallback picks the builtin template for a role type: the first builtin scoped to
// it, otherwise the standard template.
func (s *Service) Fallback(roleType string) domaintemplate.Template {
	for _, t := range builtins {
		if t.AppliesTo(roleType) {
			return t
		}
	}
	return builtins[0]
}

func (s *Service) Create(ctx context.Context, in domaintemplate.Create) (domaintemplate.Template, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.TemplateContent) == "" {
		return domaintemplate.Template{}, fmt.Errorf("create template: name and template_content are required: %w", ErrInvalid)
	}
	format := in.Format
	if format == "" {
		format = DefaultFormat
	}

	now := time.Now().UTC()
	t := domaintemplate.Template{
		ID:              uuid.New(),
		Name:            name,
		Description:     in.Description,
		Format:          format,
		RoleTypes:       in.RoleTypes,
		TemplateContent: in.TemplateContent,
		Variables:       in.Variables,
		IsDefault:       in.IsDefault,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return domaintemplate.Template{}, fmt.Errorf("create template: %w", err)
	}
	s.publish(ctx, event.New(event.TypeTemplateCreated, created.ID))
	return created, nil
}

// GetByID resolves builtin templates first, then stored ones.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domaintemplate.Template, error) {
	if t, ok := builtinByID(id); ok {
		return t, nil
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domaintemplate.Template{}, fmt.Errorf("get template: %w", err)
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd domaintemplate.Update) (domaintemplate.Template, error) {
	if _, ok := builtinByID(id); ok {
		return domaintemplate.Template{}, fmt.Errorf("update template: builtin %s: %w", id, ErrProtected)
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return domaintemplate.Template{}, fmt.Errorf("update template: name cannot be empty: %w", ErrInvalid)
	}
	if upd.TemplateContent != nil && strings.TrimSpace(*upd.TemplateContent) == "" {
		return domaintemplate.Template{}, fmt.Errorf("update template: template_content cannot be empty: %w", ErrInvalid)
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domaintemplate.Template{}, fmt.Errorf("update template: %w", err)
	}
	upd.Apply(&t)
	t.Name = strings.TrimSpace(t.Name)
	t.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return domaintemplate.Template{}, fmt.Errorf("update template: %w", err)
	}
	s.publish(ctx, event.New(event.TypeTemplateUpdated, id))
	return updated, nil
}

// Delete removes a stored template. Builtin and default templates are refused.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := builtinByID(id); ok {
		return fmt.Errorf("delete template: builtin %s: %w", id, ErrProtected)
	}
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if t.IsDefault {
		return fmt.Errorf("delete template: default %s: %w", id, ErrProtected)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	s.publish(ctx, event.New(event.TypeTemplateDeleted, id))
	return nil
}

// List returns the builtins (when includeDefaults) followed by one page of stored
// templates. Paging applies to stored templates only; total counts everything listable.
func (s *Service) List(ctx context.Context, includeDefaults bool, limit, offset int) ([]domaintemplate.Template, int, error) {
	limit, offset = rolesvc.NormalizePage(limit, offset)
	stored, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list templates: %w", err)
	}
	if !includeDefaults {
		return stored, total, nil
	}
	out := make([]domaintemplate.Template, 0, len(builtins)+len(stored))
	out = append(out, builtins...)
	out = append(out, stored...)
	return out, total + len(builtins), nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish template event", "type", e.Type, "template_id", e.EntityID, "error", err)
	}
}
