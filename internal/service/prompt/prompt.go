package prompt

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/domain/event"
	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
	porteventbus "github.com/alanyang/llm-roles/internal/port/eventbus"
	portrole "github.com/alanyang/llm-roles/internal/port/role"
	templatesvc "github.com/alanyang/llm-roles/internal/service/template"
)

// Service renders role prompts and manages each role's default templates.
// [SRP] Prompt resolution only; role and template records belong to their own services.
type Service struct {
	roles     portrole.Repository
	templates *templatesvc.Service
	bus       porteventbus.EventBus
}

func NewService(roles portrole.Repository, templates *templatesvc.Service, bus porteventbus.EventBus) *Service {
	return &Service{roles: roles, templates: templates, bus: bus}
}

// Generate renders the role's prompt. Template resolution order: explicit
// templateID, the role's first default template, the builtin for the role type.
func (s *Service) Generate(ctx context.Context, roleID uuid.UUID, req domainprompt.GenerateRequest) (domainprompt.Result, error) {
	r, err := s.roles.GetByID(ctx, roleID)
	if err != nil {
		return domainprompt.Result{}, fmt.Errorf("generate prompt: %w", err)
	}

	var t domaintemplate.Template
	switch {
	case req.TemplateID != nil:
		t, err = s.templates.GetByID(ctx, *req.TemplateID)
		if err != nil {
			return domainprompt.Result{}, fmt.Errorf("generate prompt: %w", err)
		}
	default:
		defaults, err := s.DefaultTemplates(ctx, roleID)
		if err != nil {
			return domainprompt.Result{}, fmt.Errorf("generate prompt: %w", err)
		}
		if len(defaults) > 0 {
			t = defaults[0]
		} else {
			t = s.templates.Fallback(r.RoleType)
		}
	}

	format := req.Format
	if format == "" {
		format = domainprompt.FormatOpenAI
	}
	promptType := req.Type
	if promptType == "" {
		promptType = domainprompt.TypeComplete
	}

	content := domainprompt.Render(t, r.Fields(), req.CustomVariables)
	return domainprompt.Result{
		RoleID:       r.ID,
		RoleName:     r.Name,
		Prompt:       domainprompt.Format(content, format, promptType),
		TemplateID:   t.ID,
		TemplateName: t.Name,
		Format:       format,
		Type:         promptType,
	}, nil
}

// Preview renders the role with a specific template. Nothing is persisted.
func (s *Service) Preview(ctx context.Context, roleID uuid.UUID, req domainprompt.PreviewRequest) (domainprompt.Result, error) {
	templateID := req.TemplateID
	return s.Generate(ctx, roleID, domainprompt.GenerateRequest{
		Format:          req.Format,
		Type:            req.Type,
		TemplateID:      &templateID,
		CustomVariables: req.CustomVariables,
	})
}

// DefaultTemplates resolves the role's default template ids. Ids whose template
// no longer exists are skipped.
func (s *Service) DefaultTemplates(ctx context.Context, roleID uuid.UUID) ([]domaintemplate.Template, error) {
	ids, err := s.roles.DefaultTemplateIDs(ctx, roleID)
	if err != nil {
		return nil, fmt.Errorf("list default templates: %w", err)
	}
	out := make([]domaintemplate.Template, 0, len(ids))
	for _, id := range ids {
		t, err := s.templates.GetByID(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "skipping missing default template", "role_id", roleID, "template_id", id, "error", err)
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// SetDefaultTemplate registers templateID as a default of roleID. Idempotent.
func (s *Service) SetDefaultTemplate(ctx context.Context, roleID, templateID uuid.UUID) error {
	if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		return fmt.Errorf("set default template: %w", err)
	}
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return fmt.Errorf("set default template: %w", err)
	}
	if err := s.roles.AddDefaultTemplate(ctx, roleID, templateID); err != nil {
		return fmt.Errorf("set default template: %w", err)
	}
	s.publish(ctx, event.NewRelated(event.TypeDefaultTemplateSet, roleID, templateID))
	return nil
}

// RemoveDefaultTemplate drops the association. Removing an absent pair succeeds.
func (s *Service) RemoveDefaultTemplate(ctx context.Context, roleID, templateID uuid.UUID) error {
	if err := s.roles.RemoveDefaultTemplate(ctx, roleID, templateID); err != nil {
		return fmt.Errorf("remove default template: %w", err)
	}
	s.publish(ctx, event.NewRelated(event.TypeDefaultTemplateRemoved, roleID, templateID))
	return nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish prompt event", "type", e.Type, "role_id", e.EntityID, "error", err)
	}
}
