package role

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/domain/event"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	porteventbus "github.com/alanyang/llm-roles/internal/port/eventbus"
	portrole "github.com/alanyang/llm-roles/internal/port/role"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

var (
	ErrNotFound = portrole.ErrNotFound
	ErrInvalid  = errors.New("invalid role")
)

// Service owns role CRUD and search.
// [SRP] Role records only — prompt rendering and default templates live in service/prompt.
// [DIP] Depends on the Repository and EventBus ports.
type Service struct {
	repo portrole.Repository
	bus  porteventbus.EventBus
}

func NewService(repo portrole.Repository, bus porteventbus.EventBus) *Service {
	return &Service{repo: repo, bus: bus}
}

func (s *Service) Create(ctx context.Context, in domainrole.Create) (domainrole.Role, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domainrole.Role{}, fmt.Errorf("create role: name is required: %w", ErrInvalid)
	}

	now := time.Now().UTC()
	r := domainrole.Role{
		ID:               uuid.New(),
		Name:             name,
		Description:      in.Description,
		RoleType:         in.RoleType,
		LanguageStyle:    in.LanguageStyle,
		ResponseMode:     in.ResponseMode,
		KnowledgeDomains: in.KnowledgeDomains,
		AllowedTopics:    in.AllowedTopics,
		ForbiddenTopics:  in.ForbiddenTopics,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.repo.Create(ctx, r)
	if err != nil {
		return domainrole.Role{}, fmt.Errorf("create role: %w", err)
	}
	s.publish(ctx, event.New(event.TypeRoleCreated, created.ID))
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domainrole.Role, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domainrole.Role{}, fmt.Errorf("get role: %w", err)
	}
	return r, nil
}

// Update merges the present fields of upd into the stored role.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd domainrole.Update) (domainrole.Role, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return domainrole.Role{}, fmt.Errorf("update role: name cannot be empty: %w", ErrInvalid)
		}
		upd.Name = &name
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domainrole.Role{}, fmt.Errorf("update role: %w", err)
	}
	upd.Apply(&r)
	r.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, r)
	if err != nil {
		return domainrole.Role{}, fmt.Errorf("update role: %w", err)
	}
	s.publish(ctx, event.New(event.TypeRoleUpdated, id))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	s.publish(ctx, event.New(event.TypeRoleDeleted, id))
	return nil
}

// List returns one page of roles and the total number of roles.
func (s *Service) List(ctx context.Context, limit, offset int) ([]domainrole.Role, int, error) {
	limit, offset = NormalizePage(limit, offset)
	roles, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list roles: %w", err)
	}
	return roles, total, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]domainrole.Role, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search roles: query is required: %w", ErrInvalid)
	}
	roles, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search roles: %w", err)
	}
	return roles, nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		slog.ErrorContext(ctx, "failed to publish role event", "type", e.Type, "role_id", e.EntityID, "error", err)
	}
}

// NormalizePage clamps paging parameters to the accepted range.
func NormalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
