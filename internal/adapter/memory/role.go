package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	portrole "github.com/alanyang/llm-roles/internal/port/role"
)

var _ portrole.Repository = (*RoleRepository)(nil)

// RoleRepository keeps roles in process memory. Used when no DATABASE_URL is configured.
type RoleRepository struct {
	mu       sync.RWMutex
	roles    map[uuid.UUID]domainrole.Role
	defaults map[uuid.UUID][]uuid.UUID
}

func NewRoleRepository() *RoleRepository {
	return &RoleRepository{
		roles:    make(map[uuid.UUID]domainrole.Role),
		defaults: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *RoleRepository) Create(_ context.Context, r domainrole.Role) (domainrole.Role, error) {
	m.mu.Lock()
	m.roles[r.ID] = cloneRole(r)
	m.mu.Unlock()
	return r, nil
}

func (m *RoleRepository) GetByID(_ context.Context, id uuid.UUID) (domainrole.Role, error) {
	m.mu.RLock()
	r, ok := m.roles[id]
	m.mu.RUnlock()
	if !ok {
		return domainrole.Role{}, portrole.ErrNotFound
	}
	return cloneRole(r), nil
}

func (m *RoleRepository) Update(_ context.Context, r domainrole.Role) (domainrole.Role, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.roles[r.ID]
	if !ok {
		return domainrole.Role{}, portrole.ErrNotFound
	}
	r.CreatedAt = prev.CreatedAt
	m.roles[r.ID] = cloneRole(r)
	return r, nil
}

func (m *RoleRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[id]; !ok {
		return portrole.ErrNotFound
	}
	delete(m.roles, id)
	delete(m.defaults, id)
	return nil
}

func (m *RoleRepository) List(_ context.Context, limit, offset int) ([]domainrole.Role, int, error) {
	m.mu.RLock()
	all := make([]domainrole.Role, 0, len(m.roles))
	for _, r := range m.roles {
		all = append(all, cloneRole(r))
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].Name < all[j].Name
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return page(all, limit, offset), len(all), nil
}

func (m *RoleRepository) Search(_ context.Context, query string) ([]domainrole.Role, error) {
	q := strings.ToLower(query)
	m.mu.RLock()
	var out []domainrole.Role
	for _, r := range m.roles {
		if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Description), q) {
			out = append(out, cloneRole(r))
		}
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *RoleRepository) AddDefaultTemplate(_ context.Context, roleID, templateID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.roles[roleID]; !ok {
		return portrole.ErrNotFound
	}
	if slices.Contains(m.defaults[roleID], templateID) {
		return nil
	}
	m.defaults[roleID] = append(m.defaults[roleID], templateID)
	return nil
}

func (m *RoleRepository) RemoveDefaultTemplate(_ context.Context, roleID, templateID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := m.defaults[roleID]
	if i := slices.Index(ids, templateID); i >= 0 {
		m.defaults[roleID] = slices.Delete(slices.Clone(ids), i, i+1)
	}
	return nil
}

func (m *RoleRepository) DefaultTemplateIDs(_ context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.roles[roleID]; !ok {
		return nil, portrole.ErrNotFound
	}
	return slices.Clone(m.defaults[roleID]), nil
}

func cloneRole(r domainrole.Role) domainrole.Role {
	r.KnowledgeDomains = slices.Clone(r.KnowledgeDomains)
	r.AllowedTopics = slices.Clone(r.AllowedTopics)
	r.ForbiddenTopics = slices.Clone(r.ForbiddenTopics)
	return r
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
