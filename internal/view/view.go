// Package view holds the orchestrators behind each screen of the admin client.
//
// A view runs inside a session (see appstate.NewContext), owns a cancellable
// context and drives the shared state: loading around every call, a
// notification for every outcome. Views are not safe for concurrent use; each
// handler runs to completion before the next one starts.
package view

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/appstate"
	"github.com/alanyang/llm-roles/internal/client/apiclient"
	roleclient "github.com/alanyang/llm-roles/internal/client/role"
	templateclient "github.com/alanyang/llm-roles/internal/client/template"
	"github.com/alanyang/llm-roles/internal/domain/envelope"
	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

// DefaultPageSize is the page size a list view starts with.
const DefaultPageSize = 10

// RoleAPI is the subset of the role service the views call.
type RoleAPI interface {
	Create(ctx context.Context, in domainrole.Create) (envelope.Envelope[domainrole.Role], error)
	List(ctx context.Context, limit, offset int) (envelope.Envelope[domainrole.List], error)
	Get(ctx context.Context, id uuid.UUID) (envelope.Envelope[domainrole.Role], error)
	Update(ctx context.Context, id uuid.UUID, upd domainrole.Update) (envelope.Envelope[domainrole.Role], error)
	Delete(ctx context.Context, id uuid.UUID) (envelope.Empty, error)
	Search(ctx context.Context, query string) (envelope.Envelope[domainrole.SearchResult], error)
	GetPrompt(ctx context.Context, id uuid.UUID, opts roleclient.PromptOptions) (envelope.Envelope[domainprompt.Result], error)
	GeneratePrompt(ctx context.Context, id uuid.UUID, req domainprompt.GenerateRequest) (envelope.Envelope[domainprompt.Result], error)
	PreviewPrompt(ctx context.Context, id uuid.UUID, req domainprompt.PreviewRequest) (envelope.Envelope[domainprompt.Result], error)
	DefaultTemplates(ctx context.Context, id uuid.UUID) (envelope.Envelope[domaintemplate.RoleDefaults], error)
	SetDefaultTemplate(ctx context.Context, id, templateID uuid.UUID) (envelope.Empty, error)
	RemoveDefaultTemplate(ctx context.Context, id, templateID uuid.UUID) (envelope.Empty, error)
}

// TemplateAPI is the subset of the template service the views call.
type TemplateAPI interface {
	Create(ctx context.Context, in domaintemplate.Create) (envelope.Envelope[domaintemplate.Template], error)
	List(ctx context.Context, opts templateclient.ListOptions) (envelope.Envelope[domaintemplate.List], error)
	Get(ctx context.Context, id uuid.UUID) (envelope.Envelope[domaintemplate.Template], error)
	Update(ctx context.Context, id uuid.UUID, upd domaintemplate.Update) (envelope.Envelope[domaintemplate.Template], error)
	Delete(ctx context.Context, id uuid.UUID) (envelope.Empty, error)
}

var (
	_ RoleAPI     = (*roleclient.Service)(nil)
	_ TemplateAPI = (*templateclient.Service)(nil)
)

type base struct {
	ctx    context.Context
	cancel context.CancelFunc
	state  *appstate.State
}

// newBase panics when ctx carries no session.
func newBase(ctx context.Context) base {
	state := appstate.FromContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	return base{ctx: ctx, cancel: cancel, state: state}
}

// Close cancels the calls still in flight. Their results are dropped.
func (b *base) Close() { b.cancel() }

// busy raises the loading flag and returns the function that lowers it.
func (b *base) busy() func() {
	b.state.SetLoading(true)
	return func() { b.state.SetLoading(false) }
}

func (b *base) notify(message string, severity appstate.Severity) {
	b.state.ShowNotification(message, severity)
}

// settle reports whether a call succeeded while the view was still open.
// Failures become error notifications: the envelope message, the message the
// server put in a failed response, or fallback.
func settle[T any](b *base, env envelope.Envelope[T], err error, fallback string) bool {
	if b.ctx.Err() != nil {
		return false
	}
	if err != nil {
		b.notify(apiclient.MessageOf(err, fallback), appstate.SeverityError)
		return false
	}
	if !env.Success {
		b.notify(env.MessageOr(fallback), appstate.SeverityError)
		return false
	}
	return true
}

// settleData is settle for calls whose success carries data.
func settleData[T any](b *base, env envelope.Envelope[T], err error, fallback string) (*T, bool) {
	if !settle(b, env, err, fallback) {
		return nil, false
	}
	if env.Data == nil {
		b.notify(fallback, appstate.SeverityError)
		return nil, false
	}
	return env.Data, true
}

// Tags is an ordered set of trimmed, non-empty strings edited one at a time.
type Tags []string

// Add appends the trimmed input unless it is empty or already present.
func (t *Tags) Add(input string) bool {
	v := strings.TrimSpace(input)
	if v == "" || slices.Contains(*t, v) {
		return false
	}
	*t = append(*t, v)
	return true
}

func (t *Tags) Remove(v string) {
	*t = slices.DeleteFunc(*t, func(s string) bool { return s == v })
}
