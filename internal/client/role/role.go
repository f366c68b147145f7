// Package role wraps the role endpoints of the backend.
//
// Every method returns the decoded envelope as is. A non-success envelope is
// a value; only transport failures come back as errors.
package role

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/client/apiclient"
	"github.com/alanyang/llm-roles/internal/domain/envelope"
	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

// DefaultLimit is used when List is called with a non-positive limit.
const DefaultLimit = 100

type Service struct {
	api *apiclient.Client
}

func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

func (s *Service) Create(ctx context.Context, in domainrole.Create) (envelope.Envelope[domainrole.Role], error) {
	return apiclient.Call[domainrole.Role](ctx, s.api, http.MethodPost, "/roles", in, nil)
}

func (s *Service) List(ctx context.Context, limit, offset int) (envelope.Envelope[domainrole.List], error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	return apiclient.Call[domainrole.List](ctx, s.api, http.MethodGet, "/roles", nil, q)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (envelope.Envelope[domainrole.Role], error) {
	return apiclient.Call[domainrole.Role](ctx, s.api, http.MethodGet, rolePath(id), nil, nil)
}

// Update sends only the fields set in upd.
func (s *Service) Update(ctx context.Context, id uuid.UUID, upd domainrole.Update) (envelope.Envelope[domainrole.Role], error) {
	return apiclient.Call[domainrole.Role](ctx, s.api, http.MethodPut, rolePath(id), upd, nil)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (envelope.Empty, error) {
	return apiclient.Call[struct{}](ctx, s.api, http.MethodDelete, rolePath(id), nil, nil)
}

func (s *Service) Search(ctx context.Context, query string) (envelope.Envelope[domainrole.SearchResult], error) {
	q := url.Values{}
	q.Set("query", query)
	return apiclient.Call[domainrole.SearchResult](ctx, s.api, http.MethodGet, "/search-roles", nil, q)
}

// PromptOptions are the optional query parameters of GetPrompt.
type PromptOptions struct {
	Format     string
	Type       string
	TemplateID *uuid.UUID
}

func (o PromptOptions) query() url.Values {
	q := url.Values{}
	if o.Format != "" {
		q.Set("format", o.Format)
	}
	if o.Type != "" {
		q.Set("type", o.Type)
	}
	if o.TemplateID != nil {
		q.Set("template_id", o.TemplateID.String())
	}
	return q
}

func (s *Service) GetPrompt(ctx context.Context, id uuid.UUID, opts PromptOptions) (envelope.Envelope[domainprompt.Result], error) {
	return apiclient.Call[domainprompt.Result](ctx, s.api, http.MethodGet, rolePath(id)+"/prompt", nil, opts.query())
}

func (s *Service) GeneratePrompt(ctx context.Context, id uuid.UUID, req domainprompt.GenerateRequest) (envelope.Envelope[domainprompt.Result], error) {
	return apiclient.Call[domainprompt.Result](ctx, s.api, http.MethodPost, rolePath(id)+"/prompt", req, nil)
}

// PreviewPrompt renders without persisting anything.
func (s *Service) PreviewPrompt(ctx context.Context, id uuid.UUID, req domainprompt.PreviewRequest) (envelope.Envelope[domainprompt.Result], error) {
	return apiclient.Call[domainprompt.Result](ctx, s.api, http.MethodPost, rolePath(id)+"/preview-prompt", req, nil)
}

func (s *Service) DefaultTemplates(ctx context.Context, id uuid.UUID) (envelope.Envelope[domaintemplate.RoleDefaults], error) {
	return apiclient.Call[domaintemplate.RoleDefaults](ctx, s.api, http.MethodGet, rolePath(id)+"/default-templates", nil, nil)
}

// SetDefaultTemplate is idempotent on the backend; nothing is checked here.
func (s *Service) SetDefaultTemplate(ctx context.Context, id, templateID uuid.UUID) (envelope.Empty, error) {
	return apiclient.Call[struct{}](ctx, s.api, http.MethodPost, defaultPath(id, templateID), nil, nil)
}

func (s *Service) RemoveDefaultTemplate(ctx context.Context, id, templateID uuid.UUID) (envelope.Empty, error) {
	return apiclient.Call[struct{}](ctx, s.api, http.MethodDelete, defaultPath(id, templateID), nil, nil)
}

func rolePath(id uuid.UUID) string { return "/roles/" + id.String() }

func defaultPath(id, templateID uuid.UUID) string {
	return rolePath(id) + "/default-templates/" + templateID.String()
}
