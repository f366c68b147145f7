package view_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanyang/llm-roles/internal/appstate"
	"github.com/alanyang/llm-roles/internal/client/apiclient"
	roleclient "github.com/alanyang/llm-roles/internal/client/role"
	templateclient "github.com/alanyang/llm-roles/internal/client/template"
	"github.com/alanyang/llm-roles/internal/domain/envelope"
	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
	"github.com/alanyang/llm-roles/internal/testutil"
	"github.com/alanyang/llm-roles/internal/transport"
	"github.com/alanyang/llm-roles/internal/view"
)

type env struct {
	ctx       context.Context
	state     *appstate.State
	roles     *roleclient.Service
	templates *templateclient.Service
	log       *testutil.RequestLog
}

func setup(t *testing.T) env {
	t.Helper()
	srv, log := testutil.NewRecordedServer(t, transport.Options{})
	api := apiclient.New(srv.URL)
	state := appstate.New()
	t.Cleanup(state.Close)
	return env{
		ctx:       appstate.NewContext(context.Background(), state),
		state:     state,
		roles:     roleclient.NewService(api),
		templates: templateclient.NewService(api),
		log:       log,
	}
}

func (e env) createRole(t *testing.T, name string) domainrole.Role {
	t.Helper()
	res, err := e.roles.Create(context.Background(), domainrole.Create{Name: name})
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	return *res.Data
}

func names(roles []domainrole.Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, r.Name)
	}
	return out
}

// loadingTracker counts the edges of the loading flag.
type loadingTracker struct {
	mu    sync.Mutex
	last  bool
	rises int
	falls int
}

func trackLoading(t *testing.T, s *appstate.State) *loadingTracker {
	t.Helper()
	tr := &loadingTracker{}
	unwatch := s.Watch(func(snap appstate.Snapshot) {
		tr.mu.Lock()
		defer tr.mu.Unlock()
		if snap.Loading == tr.last {
			return
		}
		if snap.Loading {
			tr.rises++
		} else {
			tr.falls++
		}
		tr.last = snap.Loading
	})
	t.Cleanup(unwatch)
	return tr
}

func (tr *loadingTracker) edges() (rises, falls int) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.rises, tr.falls
}

// ── Roles view ──────────────────────────────────────────────────────────────

func TestRoles_CreateListDeleteScenario(t *testing.T) {
	e := setup(t)

	form := view.NewRoleForm(e.ctx, e.roles)
	form.Name = "Tutor"
	created, ok := form.Submit()
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "角色创建成功", e.state.Notification().Message)

	v := view.NewRolesView(e.ctx, e.roles)
	t.Cleanup(v.Close)
	v.Mount()
	assert.Equal(t, 0, v.Page())
	assert.Equal(t, 10, v.PageSize())
	require.Contains(t, names(v.Roles()), "Tutor")

	v.RequestDelete(v.Roles()[0])
	require.NotNil(t, v.PendingDelete())
	v.ConfirmDelete()

	n := e.state.Notification()
	assert.Equal(t, appstate.Notification{Show: true, Message: `角色 "Tutor" 已删除`, Severity: appstate.SeveritySuccess}, n)
	assert.NotContains(t, names(v.Roles()), "Tutor")
	assert.Zero(t, v.Total())
	assert.Nil(t, v.PendingDelete())
	assert.False(t, e.state.Loading())
}

func TestRoles_CancelDeleteSendsNothing(t *testing.T) {
	e := setup(t)
	r := e.createRole(t, "Tutor")
	v := view.NewRolesView(e.ctx, e.roles)
	t.Cleanup(v.Close)
	v.Mount()
	e.log.Reset()

	v.RequestDelete(r)
	v.CancelDelete()
	v.ConfirmDelete()

	assert.Nil(t, v.PendingDelete())
	assert.Empty(t, e.log.Requests())
	assert.Contains(t, names(v.Roles()), "Tutor")
}

func TestRoles_SearchIsOneBackendCall(t *testing.T) {
	e := setup(t)
	e.createRole(t, "Math teacher")
	e.createRole(t, "Chef")
	v := view.NewRolesView(e.ctx, e.roles)
	t.Cleanup(v.Close)
	v.Mount()
	require.Len(t, v.Roles(), 2)
	e.log.Reset()

	v.SetSearchText("teacher")
	assert.Empty(t, e.log.Requests(), "typing does not search")

	v.Search()
	assert.Equal(t, []string{"GET /api/search-roles?query=teacher"}, e.log.Requests())
	assert.Equal(t, []string{"Math teacher"}, names(v.Roles()))
	assert.Equal(t, 1, v.Total())
}

func TestRoles_BlankSearchRefetchesPage(t *testing.T) {
	e := setup(t)
	v := view.NewRolesView(e.ctx, e.roles)
	t.Cleanup(v.Close)
	v.Mount()
	e.log.Reset()

	v.SetSearchText("   ")
	v.Search()
	assert.Equal(t, []string{"GET /api/roles?limit=10&offset=0"}, e.log.Requests())
}

func TestRoles_Paging(t *testing.T) {
	e := setup(t)
	for _, name := range []string{"a", "b", "c"} {
		e.createRole(t, name)
	}
	v := view.NewRolesView(e.ctx, e.roles)
	t.Cleanup(v.Close)
	v.Mount()
	e.log.Reset()

	v.SetPage(2)
	assert.Equal(t, []string{"GET /api/roles?limit=10&offset=20"}, e.log.Requests())
	assert.Empty(t, v.Roles())
	assert.Equal(t, 3, v.Total())

	e.log.Reset()
	v.SetPageSize(2)
	assert.Equal(t, 0, v.Page(), "page size change resets the page")
	assert.Equal(t, []string{"GET /api/roles?limit=2&offset=0"}, e.log.Requests())
	assert.Len(t, v.Roles(), 2)
	assert.Equal(t, 3, v.Total())

	e.log.Reset()
	v.SetPage(0)
	assert.Empty(t, e.log.Requests(), "same page does not refetch")
}

func TestRoles_ShowIsOneCall(t *testing.T) {
	e := setup(t)
	for _, name := range []string{"a", "b", "c"} {
		e.createRole(t, name)
	}
	e.log.Reset()
	v := view.NewRolesView(e.ctx, e.roles)
	t.Cleanup(v.Close)

	v.SetPageSize(5)
	assert.Empty(t, e.log.Requests(), "nothing is fetched before mount")

	v.Show(1, 2)
	assert.Equal(t, []string{"GET /api/roles?limit=2&offset=2"}, e.log.Requests())
	assert.Len(t, v.Roles(), 1)
	assert.Equal(t, 1, v.Page())
	assert.Equal(t, 2, v.PageSize())
}

func TestRoles_Edit(t *testing.T) {
	e := setup(t)
	r := e.createRole(t, "Tutor")
	v := view.NewRolesView(e.ctx, e.roles)
	t.Cleanup(v.Close)

	v.Edit(r)
	require.NotNil(t, e.state.ActiveRole())
	assert.Equal(t, r.ID, e.state.ActiveRole().ID)
}

// ── Loading & failures ──────────────────────────────────────────────────────

func TestLoading_SuccessTogglesOnce(t *testing.T) {
	e := setup(t)
	tr := trackLoading(t, e.state)
	v := view.NewRolesView(e.ctx, e.roles)
	t.Cleanup(v.Close)

	v.Mount()

	rises, falls := tr.edges()
	assert.Equal(t, 1, rises)
	assert.Equal(t, 1, falls)
}

func TestLoading_TransportFailureTogglesOnce(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	api := apiclient.New(srv.URL, apiclient.WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	state := appstate.New()
	t.Cleanup(state.Close)
	tr := trackLoading(t, state)
	ctx := appstate.NewContext(context.Background(), state)

	v := view.NewRolesView(ctx, roleclient.NewService(api))
	t.Cleanup(v.Close)
	v.Mount()

	rises, falls := tr.edges()
	assert.Equal(t, 1, rises)
	assert.Equal(t, 1, falls)
	assert.Equal(t, appstate.Notification{Show: true, Message: "获取角色列表失败", Severity: appstate.SeverityError}, state.Notification())
}

func TestEnvelopeFailureUsesServerMessage(t *testing.T) {
	e := setup(t)
	id := uuid.New()
	form := view.NewRoleForm(e.ctx, e.roles)

	assert.False(t, form.Load(id))
	n := e.state.Notification()
	assert.Equal(t, appstate.SeverityError, n.Severity)
	assert.Equal(t, "角色不存在: "+id.String(), n.Message)
	assert.False(t, e.state.Loading())
}

func TestClose_DropsResults(t *testing.T) {
	e := setup(t)
	e.createRole(t, "Tutor")
	v := view.NewRolesView(e.ctx, e.roles)
	v.Close()

	v.Mount()

	assert.Nil(t, v.Roles())
	assert.Empty(t, e.state.Notification().Message, "no notification after teardown")
	assert.False(t, e.state.Loading())
}

func TestViews_PanicOutsideSession(t *testing.T) {
	assert.Panics(t, func() {
		view.NewRolesView(context.Background(), roleclient.NewService(apiclient.New("http://localhost")))
	})
}

// ── Templates view ──────────────────────────────────────────────────────────

// stubTemplates serves one fixed page and counts every call.
type stubTemplates struct {
	calls atomic.Int32
	page  []domaintemplate.Template
}

func (s *stubTemplates) Create(context.Context, domaintemplate.Create) (envelope.Envelope[domaintemplate.Template], error) {
	s.calls.Add(1)
	return envelope.Fail[domaintemplate.Template](http.StatusNotImplemented, "unused"), nil
}

func (s *stubTemplates) List(context.Context, templateclient.ListOptions) (envelope.Envelope[domaintemplate.List], error) {
	s.calls.Add(1)
	return envelope.OK(http.StatusOK, "ok", domaintemplate.List{Templates: s.page, Count: len(s.page)}), nil
}

func (s *stubTemplates) Get(context.Context, uuid.UUID) (envelope.Envelope[domaintemplate.Template], error) {
	s.calls.Add(1)
	return envelope.Fail[domaintemplate.Template](http.StatusNotImplemented, "unused"), nil
}

func (s *stubTemplates) Update(context.Context, uuid.UUID, domaintemplate.Update) (envelope.Envelope[domaintemplate.Template], error) {
	s.calls.Add(1)
	return envelope.Fail[domaintemplate.Template](http.StatusNotImplemented, "unused"), nil
}

func (s *stubTemplates) Delete(context.Context, uuid.UUID) (envelope.Empty, error) {
	s.calls.Add(1)
	return envelope.Done("ok"), nil
}

func TestTemplates_SearchFiltersInMemory(t *testing.T) {
	state := appstate.New()
	t.Cleanup(state.Close)
	ctx := appstate.NewContext(context.Background(), state)
	stub := &stubTemplates{page: []domaintemplate.Template{{Name: "Alpha"}, {Name: "Beta"}}}

	v := view.NewTemplatesView(ctx, stub)
	t.Cleanup(v.Close)
	v.Mount()
	require.Equal(t, int32(1), stub.calls.Load())

	v.SetSearchText("al")
	v.Search()

	require.Len(t, v.Templates(), 1)
	assert.Equal(t, "Alpha", v.Templates()[0].Name)
	assert.Equal(t, 1, v.Total())
	assert.Equal(t, int32(1), stub.calls.Load(), "no backend call")
}

func TestTemplates_SearchMatchesDescription(t *testing.T) {
	state := appstate.New()
	t.Cleanup(state.Close)
	ctx := appstate.NewContext(context.Background(), state)
	stub := &stubTemplates{page: []domaintemplate.Template{
		{Name: "One", Description: "For CODING help"},
		{Name: "Two", Description: "prose"},
	}}

	v := view.NewTemplatesView(ctx, stub)
	t.Cleanup(v.Close)
	v.Mount()
	v.SetSearchText("coding")
	v.Search()
	require.Len(t, v.Templates(), 1)
	assert.Equal(t, "One", v.Templates()[0].Name)

	v.SetSearchText("")
	v.Search()
	assert.Len(t, v.Templates(), 2, "blank search reloads")
	assert.Equal(t, int32(2), stub.calls.Load())
}

func TestTemplates_DefaultTemplateDeleteIsGated(t *testing.T) {
	e := setup(t)
	v := view.NewTemplatesView(e.ctx, e.templates)
	t.Cleanup(v.Close)
	v.Mount()
	require.NotEmpty(t, v.Templates())
	builtin := v.Templates()[0]
	require.True(t, builtin.IsDefault)
	e.log.Reset()

	assert.False(t, view.CanDelete(builtin))
	assert.False(t, v.RequestDelete(builtin))
	assert.Nil(t, v.PendingDelete())
	v.ConfirmDelete()
	assert.Empty(t, e.log.Requests())
}

func TestTemplates_IncludeDefaultsToggleRefetches(t *testing.T) {
	e := setup(t)
	v := view.NewTemplatesView(e.ctx, e.templates)
	t.Cleanup(v.Close)
	v.Mount()
	assert.Len(t, v.Templates(), 5)
	e.log.Reset()

	v.SetIncludeDefaults(false)
	assert.Equal(t, []string{"GET /api/prompt-templates?include_defaults=false&limit=10&offset=0"}, e.log.Requests())
	assert.Empty(t, v.Templates())

	e.log.Reset()
	v.SetIncludeDefaults(false)
	assert.Empty(t, e.log.Requests())
}

func TestTemplates_CreateAndDelete(t *testing.T) {
	e := setup(t)

	form := view.NewTemplateForm(e.ctx, e.templates)
	form.Name = "Mine"
	form.TemplateContent = "You are {{name}}."
	assert.True(t, form.AddVariable(" name ", ""))
	assert.False(t, form.AddVariable("name", "role.name"), "names are unique")
	assert.True(t, form.RoleTypes.Add("teacher"))
	created, ok := form.Submit()
	require.True(t, ok)
	assert.Equal(t, "模板创建成功", e.state.Notification().Message)
	assert.Equal(t, []domaintemplate.Variable{{Name: "name", Source: "name"}}, created.Variables)

	v := view.NewTemplatesView(e.ctx, e.templates)
	t.Cleanup(v.Close)
	v.SetIncludeDefaults(false)
	v.Mount()
	require.Len(t, v.Templates(), 1)

	require.True(t, v.RequestDelete(v.Templates()[0]))
	v.ConfirmDelete()
	assert.Equal(t, `模板 "Mine" 已删除`, e.state.Notification().Message)
	assert.Empty(t, v.Templates())
}

func TestTemplateForm_Validation(t *testing.T) {
	e := setup(t)
	form := view.NewTemplateForm(e.ctx, e.templates)
	assert.Equal(t, domainprompt.FormatOpenAI, form.Format)

	_, ok := form.Submit()
	assert.False(t, ok)
	assert.Equal(t, appstate.Notification{Show: true, Message: "模板名称不能为空", Severity: appstate.SeverityWarning}, e.state.Notification())

	form.Name = "x"
	_, ok = form.Submit()
	assert.False(t, ok)
	assert.Equal(t, "模板内容不能为空", e.state.Notification().Message)
	assert.Empty(t, e.log.Requests())
}

func TestTemplateForm_Edit(t *testing.T) {
	e := setup(t)
	res, err := e.templates.Create(context.Background(), domaintemplate.Create{
		Name:            "Mine",
		TemplateContent: "Hi {{name}}",
		Variables:       []domaintemplate.Variable{{Name: "name", Source: "name"}},
	})
	require.NoError(t, err)
	require.True(t, res.Success)

	form := view.NewTemplateForm(e.ctx, e.templates)
	require.True(t, form.Load(res.Data.ID))
	assert.True(t, form.IsEdit())
	assert.Equal(t, res.Data.ID, e.state.ActiveTemplate().ID)

	form.RemoveVariable("name")
	form.Description = "edited"
	saved, ok := form.Submit()
	require.True(t, ok)
	assert.Equal(t, "模板更新成功", e.state.Notification().Message)
	assert.Equal(t, "edited", saved.Description)
	assert.Empty(t, saved.Variables)
}

// ── Role form ───────────────────────────────────────────────────────────────

func TestRoleForm_NameRequired(t *testing.T) {
	e := setup(t)
	form := view.NewRoleForm(e.ctx, e.roles)
	form.Name = "  "

	_, ok := form.Submit()
	assert.False(t, ok)
	assert.Equal(t, appstate.Notification{Show: true, Message: "角色名称不能为空", Severity: appstate.SeverityWarning}, e.state.Notification())
	assert.Empty(t, e.log.Requests())
}

func TestRoleForm_Tags(t *testing.T) {
	var tags view.Tags
	assert.True(t, tags.Add(" math "))
	assert.False(t, tags.Add("math"), "duplicate")
	assert.False(t, tags.Add("   "), "empty")
	assert.True(t, tags.Add("physics"))
	assert.Equal(t, view.Tags{"math", "physics"}, tags)

	tags.Remove("math")
	assert.Equal(t, view.Tags{"physics"}, tags)
}

func TestRoleForm_EditKeepsOtherFields(t *testing.T) {
	e := setup(t)
	res, err := e.roles.Create(context.Background(), domainrole.Create{
		Name:             "Tutor",
		RoleType:         "teacher",
		KnowledgeDomains: []string{"math"},
	})
	require.NoError(t, err)

	form := view.NewRoleForm(e.ctx, e.roles)
	require.True(t, form.Load(res.Data.ID))
	assert.True(t, form.IsEdit())
	assert.Contains(t, form.RoleTypes(), "teacher")

	form.Description = "patient"
	form.KnowledgeDomains.Add("physics")
	saved, ok := form.Submit()
	require.True(t, ok)
	assert.Equal(t, "角色更新成功", e.state.Notification().Message)
	assert.Equal(t, "Tutor", saved.Name)
	assert.Equal(t, "teacher", saved.RoleType)
	assert.Equal(t, "patient", saved.Description)
	assert.Equal(t, []string{"math", "physics"}, saved.KnowledgeDomains)
}

// ── Role detail ─────────────────────────────────────────────────────────────

func TestRoleDetail(t *testing.T) {
	e := setup(t)
	r := e.createRole(t, "Tutor")
	list, err := e.templates.List(context.Background(), templateclient.ListOptions{})
	require.NoError(t, err)
	tmpl := list.Data.Templates[1]

	v := view.NewRoleDetail(e.ctx, e.roles)
	t.Cleanup(v.Close)
	require.True(t, v.Load(r.ID))
	assert.Equal(t, r.ID, e.state.ActiveRole().ID)
	assert.Empty(t, v.Defaults())

	require.True(t, v.SetDefault(tmpl.ID))
	require.True(t, v.SetDefault(tmpl.ID))
	assert.Equal(t, "设置角色默认模板成功", e.state.Notification().Message)
	require.Len(t, v.Defaults(), 1)
	assert.Equal(t, tmpl.ID, v.Defaults()[0].ID)

	require.True(t, v.RenderPrompt(roleclient.PromptOptions{}))
	assert.Equal(t, tmpl.ID, v.Prompt().TemplateID, "first default wins")

	require.True(t, v.Preview(domainprompt.PreviewRequest{TemplateID: list.Data.Templates[0].ID}))
	assert.Equal(t, list.Data.Templates[0].Name, v.Prompt().TemplateName)

	require.True(t, v.Generate(domainprompt.GenerateRequest{
		Format:          domainprompt.FormatAnthropic,
		Type:            domainprompt.TypeUser,
		CustomVariables: domainprompt.Variables{"name": domainprompt.String("Mentor")},
	}))
	assert.True(t, strings.HasPrefix(v.Prompt().Prompt, "Human: "))

	require.True(t, v.RemoveDefault(tmpl.ID))
	assert.Empty(t, v.Defaults())
	assert.True(t, v.RemoveDefault(tmpl.ID), "absent pair succeeds")
}

func TestRoleDetail_PreviewFailure(t *testing.T) {
	e := setup(t)
	r := e.createRole(t, "Tutor")
	v := view.NewRoleDetail(e.ctx, e.roles)
	t.Cleanup(v.Close)
	require.True(t, v.Load(r.ID))

	assert.False(t, v.Preview(domainprompt.PreviewRequest{TemplateID: uuid.New()}))
	n := e.state.Notification()
	assert.Equal(t, appstate.SeverityError, n.Severity)
	assert.NotEmpty(t, n.Message)
	assert.Nil(t, v.Prompt())
}

// ── Sidebar ─────────────────────────────────────────────────────────────────

func TestSidebar(t *testing.T) {
	require.Len(t, view.Sidebar, 2)

	item, ok := view.Selected("/")
	require.True(t, ok)
	assert.Equal(t, "角色管理", item.Label)

	item, ok = view.Selected("/templates/edit/1")
	require.True(t, ok)
	assert.Equal(t, "提示词模板", item.Label)

	_, ok = view.Selected("/settings")
	assert.False(t, ok)
}
