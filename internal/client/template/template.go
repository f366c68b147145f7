// Package template wraps the prompt template endpoints of the backend.
package template

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/client/apiclient"
	"github.com/alanyang/llm-roles/internal/domain/envelope"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

const DefaultLimit = 100

type Service struct {
	api *apiclient.Client
}

func NewService(api *apiclient.Client) *Service {
	return &Service{api: api}
}

// ListOptions zero value lists builtins too, DefaultLimit from offset 0.
type ListOptions struct {
	ExcludeDefaults bool
	Limit           int
	Offset          int
}

func (s *Service) Create(ctx context.Context, in domaintemplate.Create) (envelope.Envelope[domaintemplate.Template], error) {
	return apiclient.Call[domaintemplate.Template](ctx, s.api, http.MethodPost, "/prompt-templates", in, nil)
}

func (s *Service) List(ctx context.Context, opts ListOptions) (envelope.Envelope[domaintemplate.List], error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	q := url.Values{}
	q.Set("include_defaults", strconv.FormatBool(!opts.ExcludeDefaults))
	q.Set("limit", strconv.Itoa(opts.Limit))
	q.Set("offset", strconv.Itoa(opts.Offset))
	return apiclient.Call[domaintemplate.List](ctx, s.api, http.MethodGet, "/prompt-templates", nil, q)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (envelope.Envelope[domaintemplate.Template], error) {
	return apiclient.Call[domaintemplate.Template](ctx, s.api, http.MethodGet, templatePath(id), nil, nil)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, upd domaintemplate.Update) (envelope.Envelope[domaintemplate.Template], error) {
	return apiclient.Call[domaintemplate.Template](ctx, s.api, http.MethodPut, templatePath(id), upd, nil)
}

// Delete always issues the call. Refusing defaults is left to the caller and the backend.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (envelope.Empty, error) {
	return apiclient.Call[struct{}](ctx, s.api, http.MethodDelete, templatePath(id), nil, nil)
}

func templatePath(id uuid.UUID) string { return "/prompt-templates/" + id.String() }
