package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
	porttemplate "github.com/alanyang/llm-roles/internal/port/template"
)

var _ porttemplate.Repository = (*TemplateRepository)(nil)

type TemplateRepository struct {
	mu        sync.RWMutex
	templates map[uuid.UUID]domaintemplate.Template
}

func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{templates: make(map[uuid.UUID]domaintemplate.Template)}
}

func (m *TemplateRepository) Create(_ context.Context, t domaintemplate.Template) (domaintemplate.Template, error) {
	m.mu.Lock()
	m.templates[t.ID] = cloneTemplate(t)
	m.mu.Unlock()
	return t, nil
}

func (m *TemplateRepository) GetByID(_ context.Context, id uuid.UUID) (domaintemplate.Template, error) {
	m.mu.RLock()
	t, ok := m.templates[id]
	m.mu.RUnlock()
	if !ok {
		return domaintemplate.Template{}, porttemplate.ErrNotFound
	}
	return cloneTemplate(t), nil
}

func (m *TemplateRepository) Update(_ context.Context, t domaintemplate.Template) (domaintemplate.Template, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.templates[t.ID]
	if !ok {
		return domaintemplate.Template{}, porttemplate.ErrNotFound
	}
	t.CreatedAt = prev.CreatedAt
	m.templates[t.ID] = cloneTemplate(t)
	return t, nil
}

func (m *TemplateRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.templates[id]; !ok {
		return porttemplate.ErrNotFound
	}
	delete(m.templates, id)
	return nil
}

func (m *TemplateRepository) List(_ context.Context, limit, offset int) ([]domaintemplate.Template, int, error) {
	m.mu.RLock()
	all := make([]domaintemplate.Template, 0, len(m.templates))
	for _, t := range m.templates {
		all = append(all, cloneTemplate(t))
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), len(all), nil
}

func cloneTemplate(t domaintemplate.Template) domaintemplate.Template {
	t.RoleTypes = slices.Clone(t.RoleTypes)
	t.Variables = slices.Clone(t.Variables)
	return t
}
