package view

import (
	"context"

	"github.com/google/uuid"

	"github.com/alanyang/llm-roles/internal/appstate"
	roleclient "github.com/alanyang/llm-roles/internal/client/role"
	domainprompt "github.com/alanyang/llm-roles/internal/domain/prompt"
	domainrole "github.com/alanyang/llm-roles/internal/domain/role"
	domaintemplate "github.com/alanyang/llm-roles/internal/domain/template"
)

const (
	msgGetPromptFailed        = "获取提示词失败"
	msgPreviewPromptFailed    = "预览提示词失败"
	msgGetDefaultsFailed      = "获取默认模板失败"
	msgSetDefaultFailed       = "设置默认模板失败"
	msgRemoveDefaultFailed    = "移除默认模板失败"
	msgDefaultTemplateSet     = "默认模板已设置"
	msgDefaultTemplateRemoved = "默认模板已移除"
)

// RoleDetail shows one role, its default templates and rendered prompts.
// The last prompt is kept only for the lifetime of the view.
type RoleDetail struct {
	base
	api RoleAPI

	role     *domainrole.Role
	defaults []domaintemplate.Template
	prompt   *domainprompt.Result
}

func NewRoleDetail(ctx context.Context, api RoleAPI) *RoleDetail {
	return &RoleDetail{base: newBase(ctx), api: api}
}

func (v *RoleDetail) Role() *domainrole.Role { return v.role }

func (v *RoleDetail) Defaults() []domaintemplate.Template { return v.defaults }

func (v *RoleDetail) Prompt() *domainprompt.Result { return v.prompt }

// Load fetches the role, puts it in focus, then fetches its default templates.
func (v *RoleDetail) Load(id uuid.UUID) bool {
	defer v.busy()()
	env, err := v.api.Get(v.ctx, id)
	r, ok := settleData(&v.base, env, err, msgGetRoleFailed)
	if !ok {
		return false
	}
	v.role = r
	v.prompt = nil
	v.state.SetActiveRole(r)
	return v.loadDefaults()
}

// RenderPrompt renders through GET with the given options.
func (v *RoleDetail) RenderPrompt(opts roleclient.PromptOptions) bool {
	if v.role == nil {
		return false
	}
	defer v.busy()()
	env, err := v.api.GetPrompt(v.ctx, v.role.ID, opts)
	return v.setPrompt(settleData(&v.base, env, err, msgGetPromptFailed))
}

// Generate renders with custom variables.
func (v *RoleDetail) Generate(req domainprompt.GenerateRequest) bool {
	if v.role == nil {
		return false
	}
	defer v.busy()()
	env, err := v.api.GeneratePrompt(v.ctx, v.role.ID, req)
	return v.setPrompt(settleData(&v.base, env, err, msgGetPromptFailed))
}

// Preview renders one explicit template. Nothing is stored on the server.
func (v *RoleDetail) Preview(req domainprompt.PreviewRequest) bool {
	if v.role == nil {
		return false
	}
	defer v.busy()()
	env, err := v.api.PreviewPrompt(v.ctx, v.role.ID, req)
	return v.setPrompt(settleData(&v.base, env, err, msgPreviewPromptFailed))
}

func (v *RoleDetail) setPrompt(res *domainprompt.Result, ok bool) bool {
	if ok {
		v.prompt = res
	}
	return ok
}

// SetDefault registers templateID as a default of the role. Repeating it is harmless.
func (v *RoleDetail) SetDefault(templateID uuid.UUID) bool {
	if v.role == nil {
		return false
	}
	defer v.busy()()
	env, err := v.api.SetDefaultTemplate(v.ctx, v.role.ID, templateID)
	if !settle(&v.base, env, err, msgSetDefaultFailed) {
		return false
	}
	v.notify(env.MessageOr(msgDefaultTemplateSet), appstate.SeveritySuccess)
	return v.loadDefaults()
}

// RemoveDefault drops templateID from the defaults. Absent pairs succeed.
func (v *RoleDetail) RemoveDefault(templateID uuid.UUID) bool {
	if v.role == nil {
		return false
	}
	defer v.busy()()
	env, err := v.api.RemoveDefaultTemplate(v.ctx, v.role.ID, templateID)
	if !settle(&v.base, env, err, msgRemoveDefaultFailed) {
		return false
	}
	v.notify(env.MessageOr(msgDefaultTemplateRemoved), appstate.SeveritySuccess)
	return v.loadDefaults()
}

func (v *RoleDetail) loadDefaults() bool {
	env, err := v.api.DefaultTemplates(v.ctx, v.role.ID)
	d, ok := settleData(&v.base, env, err, msgGetDefaultsFailed)
	if !ok {
		return false
	}
	v.defaults = d.Templates
	return true
}
