package view

import (
	"context"
	"fmt"
	"strings"

	"github.com/alanyang/llm-roles/internal/appstate"
	templateclient "github.com/alanyang/llm-roles/internal/client/template"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

const (
	msgListTemplatesFailed  = "获取模板列表失败"
	msgDeleteTemplateFailed = "删除模板失败"
)

// TemplatesView is the paginated template list. Its search filters the
// fetched page in memory; there is no template search endpoint.
type TemplatesView struct {
	base
	api TemplateAPI

	page            int
	pageSize        int
	includeDefaults bool
	searchText      string

	mounted       bool
	templates     []domaintemplate.Template
	total         int
	pendingDelete *domaintemplate.Template
}

func NewTemplatesView(ctx context.Context, api TemplateAPI) *TemplatesView {
	return &TemplatesView{
		base:            newBase(ctx),
		api:             api,
		pageSize:        DefaultPageSize,
		includeDefaults: true,
	}
}

func (v *TemplatesView) Mount() { v.fetch() }

// Show loads one page in a single call. A non-positive size keeps the current one.
func (v *TemplatesView) Show(page, size int) {
	if size > 0 {
		v.pageSize = size
	}
	if page >= 0 {
		v.page = page
	}
	v.fetch()
}

// Templates is the visible set: the fetched page, narrowed by the last search.
func (v *TemplatesView) Templates() []domaintemplate.Template { return v.templates }

func (v *TemplatesView) Total() int { return v.total }

func (v *TemplatesView) Page() int { return v.page }

func (v *TemplatesView) PageSize() int { return v.pageSize }

func (v *TemplatesView) IncludeDefaults() bool { return v.includeDefaults }

func (v *TemplatesView) SetPage(page int) {
	if page < 0 || page == v.page {
		return
	}
	v.page = page
	v.refresh()
}

func (v *TemplatesView) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	v.pageSize = size
	v.page = 0
	v.refresh()
}

// SetIncludeDefaults toggles the builtin templates and refetches.
func (v *TemplatesView) SetIncludeDefaults(include bool) {
	if include == v.includeDefaults {
		return
	}
	v.includeDefaults = include
	v.refresh()
}

func (v *TemplatesView) SetSearchText(text string) { v.searchText = text }

// Search keeps the templates whose name or description contains the search
// text, ignoring case. Blank text reloads the page.
func (v *TemplatesView) Search() {
	if strings.TrimSpace(v.searchText) == "" {
		v.fetch()
		return
	}
	term := strings.ToLower(v.searchText)
	var hits []domaintemplate.Template
	for _, t := range v.templates {
		if strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.Description), term) {
			hits = append(hits, t)
		}
	}
	v.templates = hits
	v.total = len(hits)
}

func (v *TemplatesView) Edit(t domaintemplate.Template) { v.state.SetActiveTemplate(&t) }

// CanDelete is false for default templates.
func CanDelete(t domaintemplate.Template) bool { return !t.IsDefault }

// RequestDelete opens the confirmation for t. Default templates are refused
// and no confirmation opens.
func (v *TemplatesView) RequestDelete(t domaintemplate.Template) bool {
	if !CanDelete(t) {
		return false
	}
	v.pendingDelete = &t
	return true
}

func (v *TemplatesView) PendingDelete() *domaintemplate.Template { return v.pendingDelete }

func (v *TemplatesView) CancelDelete() { v.pendingDelete = nil }

func (v *TemplatesView) ConfirmDelete() {
	target := v.pendingDelete
	if target == nil {
		return
	}
	defer func() { v.pendingDelete = nil }()

	defer v.busy()()
	env, err := v.api.Delete(v.ctx, target.ID)
	if !settle(&v.base, env, err, msgDeleteTemplateFailed) {
		return
	}
	v.notify(fmt.Sprintf(`模板 "%s" 已删除`, target.Name), appstate.SeveritySuccess)
	v.fetch()
}

// refresh refetches once the view is mounted. Before that, changes only
// configure the first fetch.
func (v *TemplatesView) refresh() {
	if v.mounted {
		v.fetch()
	}
}

func (v *TemplatesView) fetch() {
	v.mounted = true
	defer v.busy()()
	env, err := v.api.List(v.ctx, templateclient.ListOptions{
		ExcludeDefaults: !v.includeDefaults,
		Limit:           v.pageSize,
		Offset:          v.page * v.pageSize,
	})
	list, ok := settleData(&v.base, env, err, msgListTemplatesFailed)
	if !ok {
		return
	}
	v.templates = list.Templates
	v.total = list.Count
}
